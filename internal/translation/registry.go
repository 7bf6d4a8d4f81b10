package translation

import (
	"fmt"
	"strings"
)

const (
	// DefaultProviderOrder is used when TRANSLATION_PROVIDERS is unset.
	DefaultProviderOrder = "local,google,glossary"
)

// Registry stores translation providers in registration order.
// The order is significant: result sets and organizer tie-breaks follow it.
type Registry struct {
	providers []Provider
	byName    map[string]Provider
}

func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Provider),
	}
}

// Register appends one provider. Names are unique after normalization.
func (r *Registry) Register(provider Provider) error {
	if r == nil {
		return fmt.Errorf("registry is nil")
	}
	if provider == nil {
		return fmt.Errorf("provider is nil")
	}
	name := normalizeProviderName(provider.Name())
	if name == "" {
		return fmt.Errorf("provider name is required")
	}
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("translation provider %q is already registered", name)
	}
	r.byName[name] = provider
	r.providers = append(r.providers, provider)
	return nil
}

// Providers returns the registered providers in registration order.
func (r *Registry) Providers() []Provider {
	if r == nil {
		return nil
	}
	out := make([]Provider, len(r.providers))
	copy(out, r.providers)
	return out
}

// ProviderNames returns names in registration order.
func (r *Registry) ProviderNames() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.providers))
	for _, provider := range r.providers {
		names = append(names, normalizeProviderName(provider.Name()))
	}
	return names
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.providers)
}

// ParseProviderOrder splits a comma separated provider list, dropping blanks and repeats.
func ParseProviderOrder(raw string) []string {
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		name := normalizeProviderName(part)
		if name == "" {
			continue
		}
		if _, exists := seen[name]; exists {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

func normalizeProviderName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
