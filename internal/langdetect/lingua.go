package langdetect

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode"

	lingua "github.com/pemistahl/lingua-go"
)

// Undetermined is returned when text has letters but no language wins.
const Undetermined = "und"

var ErrNoText = errors.New("text contains no letters")

var defaultLanguages = []lingua.Language{
	lingua.Arabic,
	lingua.Chinese,
	lingua.English,
	lingua.French,
	lingua.German,
	lingua.Indonesian,
	lingua.Italian,
	lingua.Japanese,
	lingua.Korean,
	lingua.Polish,
	lingua.Portuguese,
	lingua.Russian,
	lingua.Spanish,
	lingua.Thai,
	lingua.Turkish,
	lingua.Vietnamese,
}

// Detector maps text to an ISO 639-1 code. The lingua models load on first use.
type Detector struct {
	once      sync.Once
	languages []lingua.Language
	detector  lingua.LanguageDetector
}

// New builds a detector restricted to languages. An empty list uses the
// languages the translation providers have labels for.
func New(languages ...lingua.Language) *Detector {
	if len(languages) == 0 {
		languages = defaultLanguages
	}
	return &Detector{languages: languages}
}

// DetectLanguage returns the ISO 639-1 code of text, or Undetermined.
func (d *Detector) DetectLanguage(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	sample := strings.TrimSpace(text)
	if !hasLetter(sample) {
		return "", ErrNoText
	}

	language, exists := d.get().DetectLanguageOf(sample)
	if !exists {
		return Undetermined, nil
	}

	code := strings.ToLower(language.IsoCode639_1().String())
	if len(code) != 2 {
		return Undetermined, nil
	}
	return code, nil
}

// Warm loads the language models ahead of the first event.
func (d *Detector) Warm() {
	_ = d.get()
}

func (d *Detector) get() lingua.LanguageDetector {
	d.once.Do(func() {
		d.detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(d.languages...).
			WithPreloadedLanguageModels().
			Build()
	})
	return d.detector
}

func hasLetter(text string) bool {
	for _, r := range text {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
