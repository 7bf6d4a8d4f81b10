package translation

import (
	"fmt"
	"net/http"

	"horse.fit/dynamictranslator/internal/config"
)

// NewRegistryFromConfig registers the providers named in TRANSLATION_PROVIDERS, in that order.
// The glossary provider needs a store; when glossary is nil it is skipped and reported.
func NewRegistryFromConfig(cfg *config.Config, glossary GlossaryStore, client *http.Client) (*Registry, []string, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("config is nil")
	}

	registry := NewRegistry()
	var skipped []string
	for _, name := range ParseProviderOrder(cfg.TranslationProviders) {
		var provider Provider
		switch name {
		case "local":
			provider = NewLocalProvider(cfg.TranslationEndpoint, cfg.TranslationModel, client)
		case "google":
			provider = NewGoogleProvider(cfg.GoogleBaseURL, cfg.GoogleAPIKey, client)
		case "glossary":
			if glossary == nil {
				skipped = append(skipped, name)
				continue
			}
			provider = NewGlossaryProvider(glossary)
		default:
			return nil, nil, fmt.Errorf("unknown translation provider %q", name)
		}
		if err := registry.Register(provider); err != nil {
			return nil, nil, err
		}
	}

	if registry.Len() == 0 {
		return nil, skipped, ErrNoProviders
	}
	return registry, skipped, nil
}
