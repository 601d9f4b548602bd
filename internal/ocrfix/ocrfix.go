// Package ocrfix corrects mechanical artifacts left behind by OCR engines:
// words split across line breaks, character confusions from similar glyphs,
// and clipped fragments at the end of a document.
//
// Every rule lives in an enumerable table (pattern → replacement) rather
// than branch logic, and each sub-routine reports how many fixes it applied.
package ocrfix

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/textops/ocrefine/internal/rules"
)

// knownSplits maps literal hyphen-split fragments to their rejoined form.
// These were observed in real scans where the generic rejoin rule would
// produce the wrong word ("guide- once" is a broken "guidance", not
// "guideonce"). Applied case-insensitively before the generic rules; the
// replacement inherits the capitalization of the matched text.
var knownSplits = []struct {
	broken *regexp.Regexp
	fixed  string
}{
	{regexp.MustCompile(`(?i)\bguide-\s+once\b`), "guidance"},
	{regexp.MustCompile(`(?i)\bhow-\s+ever\b`), "however"},
	{regexp.MustCompile(`(?i)\bthere-\s+fore\b`), "therefore"},
	{regexp.MustCompile(`(?i)\bbe-\s+cause\b`), "because"},
	{regexp.MustCompile(`(?i)\binfor-\s+mation\b`), "information"},
	{regexp.MustCompile(`(?i)\bdevelop-\s+ment\b`), "development"},
	{regexp.MustCompile(`(?i)\bgovern-\s+ment\b`), "government"},
}

var (
	// word split across a line break: "word-\nword"
	reLineBreakSplit = regexp.MustCompile(`([A-Za-z]+)-[ \t]*\n[ \t]*([a-z]+)`)

	// word split by hyphen plus space on one line: "word- word"
	reHyphenSpaceSplit = regexp.MustCompile(`([A-Za-z]{2,})- ([a-z]{2,})\b`)
)

// FixHyphenation rejoins words that OCR split with a hyphen, either across a
// line break or by a hyphen-plus-space pattern. The literal known-split
// table runs first so its entries win over the generic rejoin.
func FixHyphenation(text string) (string, int) {
	count := 0

	for _, ks := range knownSplits {
		var changes []rules.Change
		text, changes = rules.Apply(text, ks.broken, func(match string) string {
			return matchCase(match, ks.fixed)
		})
		count += len(changes)
	}

	var changes []rules.Change
	text, changes = rules.Expand(text, reLineBreakSplit, "$1$2")
	count += len(changes)

	text, changes = rules.Expand(text, reHyphenSpaceSplit, "$1$2")
	count += len(changes)

	return text, count
}

// confusionRules is the fixed table of context-sensitive OCR glyph
// confusions, scoped to whole-word boundaries.
var confusionRules = []struct {
	re   *regexp.Regexp
	repl string
}{
	// standalone zero read where the letter O was printed
	{regexp.MustCompile(`\b0\b`), "O"},
	// zero starting a word: "0nce" → "Once" (Go regexp has no lookahead,
	// so the following letter is captured and re-emitted)
	{regexp.MustCompile(`\b0([A-Za-z])`), "O$1"},
	// digit one before a letter: "1n" → "In"
	{regexp.MustCompile(`\b1([A-Za-z])`), "I$1"},
	// "rn" read for "m" at a word start: "rnorning" → "morning"
	{regexp.MustCompile(`\brn([a-z])`), "m$1"},
	// "vv" read for "w" at a word start: "vvord" → "word"
	{regexp.MustCompile(`\bvv([a-z])`), "w$1"},
}

// FixCharacterConfusions applies the glyph-confusion table and returns the
// corrected text with the number of substitutions made.
func FixCharacterConfusions(text string) (string, int) {
	count := 0
	for _, cr := range confusionRules {
		var changes []rules.Change
		text, changes = rules.Expand(text, cr.re, cr.repl)
		count += len(changes)
	}
	return text, count
}

var (
	// terminal 1-3 character fragment still carrying its hyphen: "... interrup-"
	reTrailingHyphenFragment = regexp.MustCompile(`\s+[A-Za-z]{1,3}-$`)

	// terminal 1-2 character orphan left when the final word was clipped
	reTrailingOrphan = regexp.MustCompile(`\s+([A-Za-z]{1,2})$`)
)

// shortWords are legitimate 1-2 letter sentence enders that must survive
// trailing-artifact removal.
var shortWords = map[string]struct{}{
	"a": {}, "i": {}, "am": {}, "an": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "do": {}, "go": {}, "he": {}, "if": {}, "in": {}, "is": {},
	"it": {}, "me": {}, "my": {}, "no": {}, "of": {}, "on": {}, "or": {},
	"so": {}, "to": {}, "up": {}, "us": {}, "we": {},
}

// RemoveTrailingArtifacts strips a clipped fragment from the end of the
// text: either a short hyphenated stub or a 1-2 character orphan token that
// is not a real word.
func RemoveTrailingArtifacts(text string) (string, int) {
	trimmed := strings.TrimRightFunc(text, unicode.IsSpace)

	if loc := reTrailingHyphenFragment.FindStringIndex(trimmed); loc != nil {
		return trimmed[:loc[0]], 1
	}

	if m := reTrailingOrphan.FindStringSubmatch(trimmed); m != nil {
		if _, ok := shortWords[strings.ToLower(m[1])]; !ok {
			loc := reTrailingOrphan.FindStringIndex(trimmed)
			return trimmed[:loc[0]], 1
		}
	}

	return text, 0
}

// matchCase carries the leading capitalization of the matched text over to
// the replacement, so "Guide- once" becomes "Guidance".
func matchCase(match, replacement string) string {
	r := []rune(match)
	if len(r) > 0 && unicode.IsUpper(r[0]) {
		rr := []rune(replacement)
		rr[0] = unicode.ToUpper(rr[0])
		return string(rr)
	}
	return replacement
}
