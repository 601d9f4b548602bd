// Package protect shields structured substrings (emails, URLs, bare domains)
// from lossy text transformations by replacing them with sentinel tokens
// (__PROTECTED_0__, __PROTECTED_1__, …). After a transformation pass,
// Restore substitutes the originals back, optionally running each one
// through a narrow fixer first.
package protect

import (
	"fmt"
	"regexp"
	"strings"
)

// Span is one protected substring and the sentinel that stands in for it.
// Order is the insertion order assigned by Protect; Restore walks spans in
// reverse Order so that __PROTECTED_1__ can never clobber __PROTECTED_10__.
type Span struct {
	Original    string
	Placeholder string
	Order       int
}

// Fixer normalizes a restored substring before it is put back into the text.
// A nil Fixer restores the original bytes untouched.
type Fixer func(string) string

var (
	// Email whose local or domain part was split by stray OCR spaces:
	// "john@ exa mple. com". The TLD is kept lowercase-only so a sentence
	// boundary ("example. Today") is not mistaken for a domain.
	reSpacedEmail = regexp.MustCompile(`[A-Za-z0-9._%+-]+@ ?[A-Za-z0-9-]+(?: [A-Za-z0-9-]+)*\. ?[a-z]{2,6}\b`)

	// Domain split by a stray space before or inside the TLD: "domain. com",
	// "doma in.com". At least one space must be present so intact URLs are
	// left for the URL pattern; the TLD comes from a fixed whitelist.
	reSpacedDomain = regexp.MustCompile(`\b[A-Za-z0-9][A-Za-z0-9-]*\. (?:com|org|net|edu|gov|io)\b|\b[A-Za-z0-9][A-Za-z0-9-]* [A-Za-z0-9-]{1,8}\.(?:com|org|net|edu|gov|io)\b`)

	// Intact email address.
	reEmail = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

	// Absolute URL or www-prefixed host.
	reURL = regexp.MustCompile(`https?://[^\s]+|www\.[^\s]+`)

	// Bare domain with optional path.
	reBareDomain = regexp.MustCompile(`\b[A-Za-z0-9-]+\.(?:com|org|net|edu|gov|io)(?:/[^\s]*)?`)
)

// patterns in fixed precedence order. The spaced variants run first so a
// space-broken email is captured whole instead of leaving fragments behind
// for the narrower patterns.
var patterns = []*regexp.Regexp{
	reSpacedEmail,
	reSpacedDomain,
	reEmail,
	reURL,
	reBareDomain,
}

// Protect replaces every structured substring in text with a unique sentinel
// and returns the modified text plus the ordered span list. Sentinels are not
// expected to occur naturally in OCR output.
func Protect(text string) (string, []Span) {
	var spans []Span
	counter := 0

	replace := func(match string) string {
		token := fmt.Sprintf("__PROTECTED_%d__", counter)
		spans = append(spans, Span{Original: match, Placeholder: token, Order: counter})
		counter++
		return token
	}

	for _, re := range patterns {
		text = re.ReplaceAllStringFunc(text, replace)
	}

	return text, spans
}

// Restore substitutes each sentinel back with its original substring, in
// reverse insertion order. When fixer is non-nil every original is passed
// through it first. Restore(Protect(text)) with a nil fixer is the identity
// for any input.
func Restore(text string, spans []Span, fixer Fixer) string {
	for i := len(spans) - 1; i >= 0; i-- {
		original := spans[i].Original
		if fixer != nil {
			original = fixer(original)
		}
		text = strings.ReplaceAll(text, spans[i].Placeholder, original)
	}
	return text
}

// StripInnerSpaces is the narrow fixer used after grammar normalization: it
// removes whitespace inside a restored email/URL ("exa mple. com" →
// "example.com") without exposing the span to the generic spacing rules.
func StripInnerSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}
