// Package language normalizes BCP 47 language tags for provider requests,
// glossary keys and configuration.
package language

import (
	"strings"

	"golang.org/x/text/language"
)

// NormalizeTag returns raw as a lowercase BCP 47 tag ("en-us", "zh-hans").
// Underscores are accepted as separators. Returns "" for blank or malformed
// input. Deprecated codes are kept as given rather than canonicalized.
func NormalizeTag(raw string) string {
	tag, ok := parse(raw)
	if !ok {
		return ""
	}
	return strings.ToLower(tag.String())
}

// NormalizeCode returns the primary language subtag ("en" for "en-US"),
// or "und" when raw names no language.
func NormalizeCode(raw string) string {
	tag, ok := parse(raw)
	if !ok {
		return ""
	}
	// Base would guess "en" for an undetermined tag.
	base, confidence := tag.Base()
	if confidence != language.Exact {
		return language.Und.String()
	}
	return base.String()
}

func parse(raw string) (language.Tag, bool) {
	parts := strings.FieldsFunc(strings.TrimSpace(raw), func(r rune) bool {
		return r == '-' || r == '_'
	})
	if len(parts) == 0 {
		return language.Und, false
	}
	tag, err := language.Raw.Parse(strings.Join(parts, "-"))
	if err != nil {
		return language.Und, false
	}
	return tag, true
}
