package translation

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"strings"

	"horse.fit/dynamictranslator/internal/language"
)

const (
	// DefaultGoogleBaseURL is the Cloud Translation v2 REST host.
	DefaultGoogleBaseURL = "https://translation.googleapis.com"

	googleTranslatePath = "/language/translate/v2"
	googleAPIKeyHeader  = "X-Goog-Api-Key"
	maxGoogleTextLength = 5000
)

// GoogleProvider calls the Google Cloud Translation v2 REST API.
type GoogleProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewGoogleProvider(baseURL, apiKey string, client *http.Client) *GoogleProvider {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = DefaultGoogleBaseURL
	}
	if client == nil {
		client = NewHTTPClient()
	}
	return &GoogleProvider{
		baseURL: base,
		apiKey:  strings.TrimSpace(apiKey),
		client:  client,
	}
}

func (p *GoogleProvider) Name() string {
	return "google"
}

func (p *GoogleProvider) SupportedLanguages() []string {
	return SupportedTranslationLanguageCodes()
}

type googleTranslateRequest struct {
	Q      []string `json:"q"`
	Target string   `json:"target"`
	Source string   `json:"source,omitempty"`
	Format string   `json:"format"`
}

type googleTranslateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText         string `json:"translatedText"`
			DetectedSourceLanguage string `json:"detectedSourceLanguage"`
		} `json:"translations"`
	} `json:"data"`
}

// Find returns an unsuccessful result, not an error, when no API key is configured.
func (p *GoogleProvider) Find(ctx context.Context, req TranslateRequest) (TranslateResult, error) {
	if p == nil {
		return TranslateResult{}, fmt.Errorf("google provider is nil")
	}
	if p.apiKey == "" {
		return FailureWithMessage("google translation API key is not configured"), nil
	}

	text := strings.TrimSpace(req.Text)
	if text == "" || len(text) > maxGoogleTextLength {
		return Failure(), nil
	}
	targetLang := language.NormalizeCode(req.TargetLang)
	if targetLang == "" {
		return TranslateResult{}, fmt.Errorf("target language is required")
	}
	sourceLang := language.NormalizeCode(req.SourceLang)
	if sourceLang == "und" {
		sourceLang = ""
	}
	if sourceLang == targetLang {
		return Failure(), nil
	}

	header := http.Header{}
	header.Set(googleAPIKeyHeader, p.apiKey)
	var parsed googleTranslateResponse
	err := postJSON(ctx, p.client, "google translate", p.baseURL+googleTranslatePath, header, googleTranslateRequest{
		Q:      []string{text},
		Target: targetLang,
		Source: sourceLang,
		Format: "text",
	}, &parsed)
	if err != nil {
		return TranslateResult{}, err
	}
	if len(parsed.Data.Translations) == 0 {
		return Failure(), nil
	}

	translated := strings.TrimSpace(html.UnescapeString(parsed.Data.Translations[0].TranslatedText))
	if translated == "" {
		return Failure(), nil
	}
	return Success(translated), nil
}
