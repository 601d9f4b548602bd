// Package spell performs entity-aware, token-level spelling correction over
// OCR output. Caller-supplied entity spans and a static protected-term table
// are immutable: any token matching one of them passes through untouched.
//
// Correction strategies implement Checker; the dictionary-backed strategy
// and the character-confusion fallback are selected once at startup, not
// branched on per call.
package spell

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/textops/ocrefine/internal"
)

// Checker is one spelling-correction strategy.
type Checker interface {
	// Name identifies the strategy in RefinementReport.MethodsUsed.
	Name() string
	// Known reports whether the lowercase word needs no correction.
	Known(word string) bool
	// Suggest returns the best correction for a lowercase word, or false.
	Suggest(word string) (string, bool)
}

// Corrector applies a Checker across a document while honoring entity spans
// and protected terms. It holds no per-call state and is safe for
// concurrent use.
type Corrector struct {
	checker Checker
	extra   map[string]struct{}
}

// New builds a Corrector. extraTerms are user-defined protected terms
// merged with the static table, matched case-insensitively.
func New(checker Checker, extraTerms []string) *Corrector {
	extra := make(map[string]struct{}, len(extraTerms))
	for _, t := range extraTerms {
		if t = strings.TrimSpace(t); t != "" {
			extra[strings.ToLower(t)] = struct{}{}
		}
	}
	return &Corrector{checker: checker, extra: extra}
}

// Method returns the active strategy name ("dictionary" or "basic_ocr").
func (c *Corrector) Method() string { return c.checker.Name() }

var reToken = regexp.MustCompile(`\S+`)

// reWord matches a candidate made purely of letters. Tokens with digits,
// underscores or inner punctuation (identifiers, sentinels, numbers) are
// never corrected.
var reWord = regexp.MustCompile(`^[A-Za-z]+$`)

// Correct runs token-level correction over text. Whitespace is preserved
// byte-for-byte; only candidate words change. It returns the corrected
// text, up to MaxCorrectionRecords audit records, and the total correction
// count (uncapped).
func (c *Corrector) Correct(text string, entities []internal.EntitySpan) (string, []internal.CorrectionRecord, int) {
	entitySet := make(map[string]struct{}, len(entities))
	for _, e := range entities {
		entitySet[strings.ToLower(e.Text)] = struct{}{}
	}

	var records []internal.CorrectionRecord
	total := 0

	locs := reToken.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return text, nil, 0
	}

	var out []byte
	last := 0
	for _, loc := range locs {
		token := text[loc[0]:loc[1]]
		corrected := c.correctToken(token, entitySet)
		if corrected != token {
			total++
			if len(records) < internal.MaxCorrectionRecords {
				records = append(records, internal.CorrectionRecord{
					Stage:     "spell",
					Position:  loc[0],
					Original:  token,
					Corrected: corrected,
					Category:  "spelling",
				})
			}
		}
		out = append(out, text[last:loc[0]]...)
		out = append(out, corrected...)
		last = loc[1]
	}
	out = append(out, text[last:]...)

	return string(out), records, total
}

// correctToken corrects a single whitespace-delimited token, preserving its
// surrounding punctuation and applying the casing rule.
func (c *Corrector) correctToken(token string, entitySet map[string]struct{}) string {
	prefix, core, suffix := splitPunct(token)
	if core == "" || len(core) <= 2 || !reWord.MatchString(core) {
		return token
	}

	lower := strings.ToLower(core)
	if _, ok := c.extra[lower]; ok {
		return token
	}
	if IsProtectedTerm(lower) {
		return token
	}
	if _, ok := entitySet[lower]; ok {
		return token
	}
	if c.checker.Known(lower) {
		return token
	}

	suggestion, ok := c.checker.Suggest(lower)
	if !ok || suggestion == lower {
		return token
	}

	if isAllUpper(core) {
		suggestion = capitalize(suggestion)
	}
	return prefix + suggestion + suffix
}

// splitPunct separates leading and trailing punctuation from the candidate
// word inside a token.
func splitPunct(token string) (prefix, core, suffix string) {
	start := 0
	for start < len(token) && !isWordByte(token[start]) {
		start++
	}
	end := len(token)
	for end > start && !isWordByte(token[end-1]) {
		end--
	}
	return token[:start], token[start:end], token[end:]
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

func isAllUpper(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) && !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
