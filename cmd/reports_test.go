/*
Copyright © 2026 The ocrefine authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSnippetOf(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{
			name:     "short text unchanged",
			input:    "brief note",
			max:      40,
			expected: "brief note",
		},
		{
			name:     "exact length unchanged",
			input:    strings.Repeat("a", 40),
			max:      40,
			expected: strings.Repeat("a", 40),
		},
		{
			name:     "long text truncated with ellipsis",
			input:    strings.Repeat("a", 50),
			max:      40,
			expected: strings.Repeat("a", 37) + "...",
		},
		{
			name:     "multibyte runes counted not bytes",
			input:    strings.Repeat("é", 50),
			max:      40,
			expected: strings.Repeat("é", 37) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := snippetOf(tt.input, tt.max)
			if got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
			if !utf8.ValidString(got) {
				t.Errorf("snippet is not valid UTF-8: %q", got)
			}
		})
	}
}
