// Package chunker splits oversized documents into refinable pieces. The
// pipeline's regex passes are linear in input length, so callers bound input
// size by refining chunk-by-chunk and merging the reports afterwards.
package chunker

import (
	"strings"
	"unicode"
)

// Chunk splits text into pieces each no longer than maxChars unicode code
// points. Splits are attempted (in order of preference) at:
//  1. Paragraph boundaries (\n\n or \r\n\r\n)
//  2. Sentence-ending punctuation (. ! ?)
//  3. Whitespace (word boundary)
//  4. Hard cut at maxChars if no suitable boundary is found
//
// If text fits entirely within maxChars, a single-element slice is returned.
// If maxChars ≤ 0 it is treated as unlimited (returns the whole text).
func Chunk(text string, maxChars int) []string {
	if maxChars <= 0 || len([]rune(text)) <= maxChars {
		return []string{text}
	}

	var chunks []string
	remaining := text

	for len([]rune(remaining)) > maxChars {
		split := findSplit(remaining, maxChars)
		chunk := strings.TrimSpace(remaining[:split])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		remaining = strings.TrimSpace(remaining[split:])
	}

	if strings.TrimSpace(remaining) != "" {
		chunks = append(chunks, strings.TrimSpace(remaining))
	}

	return chunks
}

// findSplit returns the byte index at which to split text, keeping at most
// maxChars runes before the split. It searches backwards from maxChars for
// the best boundary.
func findSplit(text string, maxChars int) int {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return len(text)
	}

	candidate := runes[:maxChars]
	prefix := string(candidate)

	if idx := strings.LastIndex(prefix, "\r\n\r\n"); idx > 0 {
		return idx + 4
	}
	if idx := strings.LastIndex(prefix, "\n\n"); idx > 0 {
		return idx + 2
	}

	for i := len(candidate) - 1; i > 0; i-- {
		r := candidate[i]
		if (r == '.' || r == '!' || r == '?') && i+1 < len(candidate) && unicode.IsSpace(candidate[i+1]) {
			return len(string(candidate[:i+1]))
		}
	}

	for i := len(candidate) - 1; i > 0; i-- {
		if unicode.IsSpace(candidate[i]) {
			return len(string(candidate[:i]))
		}
	}

	return len(prefix)
}
