package spell

import (
	"strings"
	"testing"

	"github.com/textops/ocrefine/internal"
)

func TestDictionaryChecker_KnownMisspelling(t *testing.T) {
	c := NewDictionaryChecker()
	got, ok := c.Suggest("teh")
	if !ok || got != "the" {
		t.Errorf("Suggest(teh) = %q, %v; want the, true", got, ok)
	}
}

func TestDictionaryChecker_ConfusionVariant(t *testing.T) {
	c := NewDictionaryChecker()
	// "tine" is "time" with the m/n glyph confusion.
	got, ok := c.Suggest("tine")
	if !ok || got != "time" {
		t.Errorf("Suggest(tine) = %q, %v; want time, true", got, ok)
	}
}

func TestDictionaryChecker_EditDistance(t *testing.T) {
	c := NewDictionaryChecker()
	got, ok := c.Suggest("problms")
	if !ok || got != "problems" {
		t.Errorf("Suggest(problms) = %q, %v; want problems, true", got, ok)
	}
}

func TestDictionaryChecker_NoCorrectionForDistantWord(t *testing.T) {
	c := NewDictionaryChecker()
	if got, ok := c.Suggest("xylograph"); ok {
		t.Errorf("expected no suggestion for xylograph, got %q", got)
	}
}

func TestDictionaryChecker_Known(t *testing.T) {
	c := NewDictionaryChecker()
	if !c.Known("vehicle") {
		t.Error("expected vehicle to be a dictionary word")
	}
	if c.Known("atlantic") {
		t.Error("atlantic must not be a dictionary word; it is shielded by the protected-term table instead")
	}
}

func TestCorrector_ProtectedTermUntouched(t *testing.T) {
	c := New(NewDictionaryChecker(), nil)
	text := "the meeting is on Wedesday in January"
	got, _, _ := c.Correct(text, nil)
	if !strings.Contains(got, "January") {
		t.Errorf("protected month altered: %q", got)
	}
}

func TestCorrector_EntitySpanUntouched(t *testing.T) {
	c := New(NewDictionaryChecker(), nil)
	entities := []internal.EntitySpan{{Text: "Atlantic", Type: "LOCATION", Score: 0.97}}

	got, _, n := c.Correct("Atlantic crossing", entities)
	if got != "Atlantic crossing" {
		t.Errorf("entity token modified: %q", got)
	}
	if n != 0 {
		t.Errorf("expected 0 corrections, got %d", n)
	}
}

func TestCorrector_CasingRule(t *testing.T) {
	c := New(NewDictionaryChecker(), nil)
	got, _, n := c.Correct("TEH report", nil)
	if n != 1 {
		t.Fatalf("expected 1 correction, got %d", n)
	}
	if !strings.HasPrefix(got, "The ") {
		t.Errorf("all-caps candidate should yield a capitalized correction, got %q", got)
	}
}

func TestCorrector_PunctuationPreserved(t *testing.T) {
	c := New(NewDictionaryChecker(), nil)
	got, _, _ := c.Correct("(teh) report, arrived.", nil)
	if !strings.Contains(got, "(the)") {
		t.Errorf("punctuation lost around corrected token: %q", got)
	}
}

func TestCorrector_WhitespacePreserved(t *testing.T) {
	c := New(NewDictionaryChecker(), nil)
	text := "teh  report\n\narrived"
	got, _, _ := c.Correct(text, nil)
	want := "the  report\n\narrived"
	if got != want {
		t.Errorf("whitespace not preserved: %q != %q", got, want)
	}
}

func TestCorrector_ExtraTerms(t *testing.T) {
	c := New(NewDictionaryChecker(), []string{"Vortexa"})
	got, _, n := c.Correct("the Vortexa terminal", nil)
	if n != 0 || strings.Contains(got, "Vortexa") == false {
		t.Errorf("user term altered: %q (%d corrections)", got, n)
	}
}

func TestCorrector_RecordCap(t *testing.T) {
	c := New(NewDictionaryChecker(), nil)
	text := strings.TrimSpace(strings.Repeat("teh ", 15))
	_, records, n := c.Correct(text, nil)
	if n != 15 {
		t.Errorf("expected all 15 corrections counted, got %d", n)
	}
	if len(records) != internal.MaxCorrectionRecords {
		t.Errorf("expected records capped at %d, got %d", internal.MaxCorrectionRecords, len(records))
	}
}

func TestCorrector_SentinelTokensIgnored(t *testing.T) {
	c := New(NewDictionaryChecker(), nil)
	text := "see __PROTECTED_0__ for teh link"
	got, _, _ := c.Correct(text, nil)
	if !strings.Contains(got, "__PROTECTED_0__") {
		t.Errorf("sentinel token altered: %q", got)
	}
	if !strings.Contains(got, "the link") {
		t.Errorf("expected teh corrected: %q", got)
	}
}

func TestBasicChecker(t *testing.T) {
	c := NewBasicChecker()
	if c.Name() != "basic_ocr" {
		t.Errorf("unexpected name %q", c.Name())
	}
	got, ok := c.Suggest("rnorning")
	if !ok || got != "morning" {
		t.Errorf("Suggest(rnorning) = %q, %v; want morning, true", got, ok)
	}
	if _, ok := c.Suggest("morning"); ok {
		t.Error("expected no suggestion for a clean word")
	}
}

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"problms", "problems", 1},
		{"same", "same", 0},
	}
	for _, tt := range tests {
		if got := editDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("editDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
