package language

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// Detector guesses the language of a transcript. It is safe for concurrent use.
type Detector struct {
	detector lingua.LanguageDetector
}

// NewDetector builds a detector for the given languages (at least two), or all
// supported languages when none are passed. Low accuracy mode keeps memory use modest.
func NewDetector(languages ...lingua.Language) *Detector {
	b := lingua.NewLanguageDetectorBuilder().FromAllLanguages()
	if len(languages) > 0 {
		b = lingua.NewLanguageDetectorBuilder().FromLanguages(languages...)
	}

	return &Detector{
		detector: b.WithLowAccuracyMode().Build(),
	}
}

// Detect returns the lowercase ISO 639-1 code for text, e.g. "en".
// ok is false when the text is too short or ambiguous.
func (d *Detector) Detect(text string) (code string, ok bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}

	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}
