package translation

import (
	"context"
	"fmt"
	"strings"

	"horse.fit/dynamictranslator/internal/language"
)

// GlossaryStore looks up user-curated meanings.
type GlossaryStore interface {
	LookupGlossaryMeaning(ctx context.Context, sourceLang, targetLang, term string) (string, bool, error)
}

// GlossaryProvider answers from the glossary table and never calls the network.
type GlossaryProvider struct {
	store GlossaryStore
}

func NewGlossaryProvider(store GlossaryStore) *GlossaryProvider {
	return &GlossaryProvider{store: store}
}

func (p *GlossaryProvider) Name() string {
	return "glossary"
}

func (p *GlossaryProvider) SupportedLanguages() []string {
	return SupportedTranslationLanguageCodes()
}

func (p *GlossaryProvider) Find(ctx context.Context, req TranslateRequest) (TranslateResult, error) {
	if p == nil || p.store == nil {
		return TranslateResult{}, fmt.Errorf("glossary provider is not initialized")
	}

	term := strings.TrimSpace(req.Text)
	targetLang := language.NormalizeCode(req.TargetLang)
	if term == "" || targetLang == "" {
		return Failure(), nil
	}

	meaning, found, err := p.store.LookupGlossaryMeaning(ctx, language.NormalizeCode(req.SourceLang), targetLang, term)
	if err != nil {
		return TranslateResult{}, fmt.Errorf("lookup glossary: %w", err)
	}
	if !found || strings.TrimSpace(meaning) == "" {
		return Failure(), nil
	}
	return Success(meaning), nil
}
