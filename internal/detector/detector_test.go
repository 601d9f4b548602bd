package detector

import (
	"testing"
)

func TestDetector_Detect(t *testing.T) {
	d := New()

	tests := []struct {
		name     string
		text     string
		wantLang string
		wantOK   bool
	}{
		{
			name:     "empty text",
			text:     "",
			wantLang: "",
			wantOK:   false,
		},
		{
			name:     "english text",
			text:     "Hello, this is a scanned page in English.",
			wantLang: "English",
			wantOK:   true,
		},
		{
			name:     "german text",
			text:     "Hallo, das ist eine gescannte Seite auf Deutsch.",
			wantLang: "German",
			wantOK:   true,
		},
		{
			name:     "french text",
			text:     "Bonjour, ceci est une page numérisée en français.",
			wantLang: "French",
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lang, ok := d.Detect(tt.text)
			if ok != tt.wantOK {
				t.Errorf("Detect(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
				return
			}
			if tt.wantOK && lang.String() != tt.wantLang {
				t.Errorf("Detect(%q) = %v, want %v", tt.text, lang, tt.wantLang)
			}
		})
	}
}

func TestDetector_IsEnglish(t *testing.T) {
	d := New()

	tests := []struct {
		name           string
		text           string
		wantEnglish    bool
		wantDetermined bool
	}{
		{
			name:           "english prose",
			text:           "The refinement pipeline corrects scanned documents every day.",
			wantEnglish:    true,
			wantDetermined: true,
		},
		{
			name:           "german prose",
			text:           "Die Dokumente wurden gestern vollständig eingescannt und geprüft.",
			wantEnglish:    false,
			wantDetermined: true,
		},
		{
			name:           "short text undetermined",
			text:           "Hi there",
			wantEnglish:    false,
			wantDetermined: false,
		},
		{
			name:           "empty text undetermined",
			text:           "",
			wantEnglish:    false,
			wantDetermined: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			english, determined := d.IsEnglish(tt.text)
			if determined != tt.wantDetermined {
				t.Errorf("IsEnglish(%q) determined = %v, want %v", tt.text, determined, tt.wantDetermined)
				return
			}
			if determined && english != tt.wantEnglish {
				t.Errorf("IsEnglish(%q) = %v, want %v", tt.text, english, tt.wantEnglish)
			}
		})
	}
}

func TestShared_SameInstance(t *testing.T) {
	a := Shared()
	b := Shared()
	if a != b {
		t.Error("Shared should return the same instance")
	}
}
