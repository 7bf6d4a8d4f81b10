package translation

import (
	"sort"
	"strings"

	"horse.fit/dynamictranslator/internal/language"
)

type LanguageOption struct {
	Code   string `json:"code"`
	Label  string `json:"label"`
	Native string `json:"native,omitempty"`
}

type languageLabel struct {
	english string
	native  string
	chinese string
}

var translationLanguageLabels = map[string]languageLabel{
	"ar": {english: "Arabic", native: "العربية", chinese: "阿拉伯语"},
	"de": {english: "German", native: "Deutsch", chinese: "德语"},
	"en": {english: "English", native: "English", chinese: "英语"},
	"es": {english: "Spanish", native: "Español", chinese: "西班牙语"},
	"fr": {english: "French", native: "Français", chinese: "法语"},
	"id": {english: "Indonesian", native: "Bahasa Indonesia", chinese: "印度尼西亚语"},
	"it": {english: "Italian", native: "Italiano", chinese: "意大利语"},
	"ja": {english: "Japanese", native: "日本語", chinese: "日语"},
	"ko": {english: "Korean", native: "한국어", chinese: "韩语"},
	"pl": {english: "Polish", native: "Polski", chinese: "波兰语"},
	"pt": {english: "Portuguese", native: "Português", chinese: "葡萄牙语"},
	"ru": {english: "Russian", native: "Русский", chinese: "俄语"},
	"th": {english: "Thai", native: "ไทย", chinese: "泰语"},
	"tr": {english: "Turkish", native: "Türkçe", chinese: "土耳其语"},
	"vi": {english: "Vietnamese", native: "Tiếng Việt", chinese: "越南语"},
	"zh": {english: "Chinese", native: "中文", chinese: "中文"},
}

func SupportedTranslationLanguageCodes() []string {
	codes := make([]string, 0, len(translationLanguageLabels))
	for code := range translationLanguageLabels {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// IsKnownLanguage reports whether code has a label entry.
func IsKnownLanguage(code string) bool {
	_, ok := translationLanguageLabels[language.NormalizeCode(code)]
	return ok
}

// LanguageOptions lists every language any registered provider supports.
func LanguageOptions(registry *Registry) []LanguageOption {
	supported := map[string]struct{}{}
	for _, provider := range registry.Providers() {
		for _, code := range provider.SupportedLanguages() {
			normalized := language.NormalizeCode(code)
			if normalized == "" {
				continue
			}
			supported[normalized] = struct{}{}
		}
	}

	codes := make([]string, 0, len(supported))
	for code := range supported {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	options := make([]LanguageOption, 0, len(codes))
	for _, code := range codes {
		labels, hasLabels := translationLanguageLabels[code]
		if hasLabels {
			options = append(options, LanguageOption{
				Code:   code,
				Label:  labels.english,
				Native: labels.native,
			})
			continue
		}

		options = append(options, LanguageOption{
			Code:  code,
			Label: strings.ToUpper(code),
		})
	}

	return options
}

func targetLanguageLabel(lang string) languageLabel {
	normalized := language.NormalizeCode(lang)
	if labels, ok := translationLanguageLabels[normalized]; ok {
		return labels
	}
	fallback := strings.TrimSpace(lang)
	if fallback == "" {
		fallback = "English"
	}
	return languageLabel{english: fallback, native: fallback, chinese: fallback}
}
