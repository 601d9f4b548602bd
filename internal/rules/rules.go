// Package rules applies enumerable pattern→replacement tables to text while
// recording every individual change. Stage packages build their rule tables
// on top of Apply so each rule stays independently unit-testable and every
// fix can be audited.
package rules

import "regexp"

// Change is one applied replacement.
type Change struct {
	Position  int
	Original  string
	Corrected string
}

// Apply replaces every match of re in text using repl and returns the new
// text plus the ordered change list. Positions refer to byte offsets in the
// input text. Matches are processed left to right, so output is
// deterministic for a given input.
func Apply(text string, re *regexp.Regexp, repl func(match string) string) (string, []Change) {
	locs := re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return text, nil
	}

	var changes []Change
	var out []byte
	last := 0

	for _, loc := range locs {
		match := text[loc[0]:loc[1]]
		replaced := repl(match)
		if replaced == match {
			continue
		}
		out = append(out, text[last:loc[0]]...)
		out = append(out, replaced...)
		last = loc[1]
		changes = append(changes, Change{Position: loc[0], Original: match, Corrected: replaced})
	}
	out = append(out, text[last:]...)

	if len(changes) == 0 {
		return text, nil
	}
	return string(out), changes
}

// Expand is a convenience around Apply for rules whose replacement uses
// submatch references ($1, $2, …).
func Expand(text string, re *regexp.Regexp, template string) (string, []Change) {
	return Apply(text, re, func(match string) string {
		idx := re.FindStringSubmatchIndex(match)
		return string(re.ExpandString(nil, template, match, idx))
	})
}
