package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/provider"
)

const googleTranslateBaseURL = "https://translation.googleapis.com"

// GoogleTranslator calls the Cloud Translation v2 API with an API key
type GoogleTranslator struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewGoogleTranslator creates a new Google Translate v2 translator
func NewGoogleTranslator(apiKey string, opts ClientOptions) *GoogleTranslator {
	return &GoogleTranslator{
		apiKey:  apiKey,
		baseURL: opts.baseURL(googleTranslateBaseURL),
		client:  opts.httpClient(),
	}
}

// GetProviderName returns the provider name
func (t *GoogleTranslator) GetProviderName() string {
	return "Google Translate"
}

type googleTranslateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText         string `json:"translatedText"`
			DetectedSourceLanguage string `json:"detectedSourceLanguage,omitempty"`
		} `json:"translations"`
	} `json:"data"`
}

// Translate sends text as one request
func (t *GoogleTranslator) Translate(ctx context.Context, text string, opts Options) (string, error) {
	name := t.GetProviderName()
	opts = withDefaults(opts)

	form := url.Values{}
	form.Set("q", text)
	form.Set("target", opts.TargetLang)
	form.Set("format", "text")
	if opts.SourceLang != "auto" {
		form.Set("source", opts.SourceLang)
	}

	endpoint := fmt.Sprintf("%s/language/translate/v2?key=%s", t.baseURL, url.QueryEscape(t.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", provider.Transport(name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", provider.Transport(name, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", provider.FromStatus(name, resp.StatusCode, body)
	}

	var result googleTranslateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", provider.Wrap(name, provider.CodeUpstream, "failed to parse response", err)
	}

	if len(result.Data.Translations) == 0 || result.Data.Translations[0].TranslatedText == "" {
		return "", provider.Empty(name, "translation")
	}

	return result.Data.Translations[0].TranslatedText, nil
}
