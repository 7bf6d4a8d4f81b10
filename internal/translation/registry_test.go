package translation

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"horse.fit/dynamictranslator/internal/config"
)

func TestRegistry_KeepsRegistrationOrder(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	for _, name := range []string{"zeta", "Alpha", "mid"} {
		if err := registry.Register(&stubProvider{name: name}); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}

	if got, want := registry.ProviderNames(), []string{"zeta", "alpha", "mid"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected provider order: got %v want %v", got, want)
	}
	if providers := registry.Providers(); len(providers) != 3 || providers[1].Name() != "Alpha" {
		t.Fatalf("unexpected providers: %v", providers)
	}
}

func TestRegistry_RejectsDuplicatesAndBlanks(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	if err := registry.Register(&stubProvider{name: "local"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register(&stubProvider{name: " LOCAL"}); err == nil {
		t.Fatalf("expected duplicate provider to be rejected")
	}
	if err := registry.Register(&stubProvider{name: "  "}); err == nil {
		t.Fatalf("expected blank provider name to be rejected")
	}
	if err := registry.Register(nil); err == nil {
		t.Fatalf("expected nil provider to be rejected")
	}
	if registry.Len() != 1 {
		t.Fatalf("expected only the first provider to be kept, got %d", registry.Len())
	}
}

func TestParseProviderOrder(t *testing.T) {
	t.Parallel()

	got := ParseProviderOrder(" Google, local,,google , glossary ")
	want := []string{"google", "local", "glossary"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected order: got %v want %v", got, want)
	}
}

type stubGlossaryStore struct {
	meanings map[string]string
	err      error
}

func (s *stubGlossaryStore) LookupGlossaryMeaning(_ context.Context, sourceLang, targetLang, term string) (string, bool, error) {
	if s.err != nil {
		return "", false, s.err
	}
	meaning, ok := s.meanings[sourceLang+"|"+targetLang+"|"+term]
	return meaning, ok, nil
}

func TestNewRegistryFromConfig(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{TranslationProviders: "glossary,google,local"}

	registry, skipped, err := NewRegistryFromConfig(cfg, nil, nil)
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	if got, want := registry.ProviderNames(), []string{"google", "local"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected providers: got %v want %v", got, want)
	}
	if !reflect.DeepEqual(skipped, []string{"glossary"}) {
		t.Fatalf("expected glossary to be skipped, got %v", skipped)
	}

	registry, skipped, err = NewRegistryFromConfig(cfg, &stubGlossaryStore{}, nil)
	if err != nil {
		t.Fatalf("build registry with glossary: %v", err)
	}
	if got, want := registry.ProviderNames(), []string{"glossary", "google", "local"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected providers: got %v want %v", got, want)
	}
	if len(skipped) != 0 {
		t.Fatalf("did not expect skipped providers, got %v", skipped)
	}

	if _, _, err := NewRegistryFromConfig(&config.Config{TranslationProviders: "deepl"}, nil, nil); err == nil {
		t.Fatalf("expected unknown provider to fail")
	}
	if _, _, err := NewRegistryFromConfig(&config.Config{TranslationProviders: "glossary"}, nil, nil); !errors.Is(err, ErrNoProviders) {
		t.Fatalf("expected ErrNoProviders, got %v", err)
	}
}

func TestGlossaryProvider_Find(t *testing.T) {
	t.Parallel()

	provider := NewGlossaryProvider(&stubGlossaryStore{meanings: map[string]string{
		"en|tr|hello": "merhaba",
	}})

	result, err := provider.Find(context.Background(), TranslateRequest{Text: " hello ", SourceLang: "EN", TargetLang: "tr"})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if msg, ok := result.Text(); !result.IsSuccess || !ok || msg != "merhaba" {
		t.Fatalf("unexpected result: %+v", result)
	}

	result, err = provider.Find(context.Background(), TranslateRequest{Text: "world", SourceLang: "en", TargetLang: "tr"})
	if err != nil {
		t.Fatalf("find miss: %v", err)
	}
	if result.IsSuccess {
		t.Fatalf("expected glossary miss to be unsuccessful, got %+v", result)
	}

	failing := NewGlossaryProvider(&stubGlossaryStore{err: errors.New("db down")})
	if _, err := failing.Find(context.Background(), TranslateRequest{Text: "hello", TargetLang: "tr"}); err == nil {
		t.Fatalf("expected store failure to surface as provider error")
	}
}
