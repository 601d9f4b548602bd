package spell

import (
	"github.com/textops/ocrefine/internal/ocrfix"
)

// BasicChecker is the fallback strategy used when no dictionary backend is
// available. It only applies the OCR character-confusion table to each
// candidate word and never consults a word list.
type BasicChecker struct{}

// NewBasicChecker returns the character-confusion fallback checker.
func NewBasicChecker() *BasicChecker {
	return &BasicChecker{}
}

func (c *BasicChecker) Name() string { return "basic_ocr" }

// Known always reports false: without a dictionary there is no notion of an
// already-correct word, and Suggest is conservative enough to run on every
// candidate.
func (c *BasicChecker) Known(string) bool { return false }

// Suggest runs the candidate through the glyph-confusion rules and returns
// the result when anything changed.
func (c *BasicChecker) Suggest(word string) (string, bool) {
	fixed, n := ocrfix.FixCharacterConfusions(word)
	if n == 0 || fixed == word {
		return "", false
	}
	return fixed, true
}
