// Package detector wraps the lingua-go language detector used to gate the
// English-only spell dictionary. The detector is expensive to build, so the
// shared instance is constructed lazily, exactly once, and is read-only
// afterwards.
package detector

import (
	"sync"

	lingua "github.com/pemistahl/lingua-go"
)

// minDetectableRunes is the minimum rune count for a reliable verdict.
// Shorter texts pass through undetermined.
const minDetectableRunes = 20

type Detector struct {
	detector lingua.LanguageDetector
}

func New() *Detector {
	detector := lingua.NewLanguageDetectorBuilder().
		FromAllLanguages().
		Build()

	return &Detector{detector: detector}
}

var (
	sharedOnce sync.Once
	shared     *Detector
)

// Shared returns the process-wide detector, building it on first use.
func Shared() *Detector {
	sharedOnce.Do(func() {
		shared = New()
	})
	return shared
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if text == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// IsEnglish reports whether text is English. The second result is false
// when no confident verdict is possible (short or ambiguous text), in which
// case callers should not gate anything on it.
func (d *Detector) IsEnglish(text string) (english, determined bool) {
	if len([]rune(text)) < minDetectableRunes {
		return false, false
	}
	lang, ok := d.Detect(text)
	if !ok {
		return false, false
	}
	return lang == lingua.English, true
}
