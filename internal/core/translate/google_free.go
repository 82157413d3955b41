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

const googleFreeBaseURL = "https://translate.googleapis.com"

// GoogleFreeTranslator uses the keyless web endpoint (client=gtx).
// It needs no credentials but may be throttled or blocked at any time.
type GoogleFreeTranslator struct {
	baseURL string
	client  *http.Client
}

// NewGoogleFreeTranslator creates a keyless Google translator
func NewGoogleFreeTranslator(opts ClientOptions) *GoogleFreeTranslator {
	return &GoogleFreeTranslator{
		baseURL: opts.baseURL(googleFreeBaseURL),
		client:  opts.httpClient(),
	}
}

// GetProviderName returns the provider name
func (t *GoogleFreeTranslator) GetProviderName() string {
	return "Google Translate (free)"
}

// Translate sends text to translate_a/single and joins the sentence pieces
func (t *GoogleFreeTranslator) Translate(ctx context.Context, text string, opts Options) (string, error) {
	name := t.GetProviderName()
	opts = withDefaults(opts)

	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", opts.SourceLang)
	params.Set("tl", opts.TargetLang)
	params.Set("dt", "t")

	form := url.Values{}
	form.Set("q", text)

	endpoint := t.baseURL + "/translate_a/single?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=UTF-8")

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

	// [[["translated","original",null,null,1], ...], null, "en", ...]
	var data []json.RawMessage
	if err := json.Unmarshal(body, &data); err != nil || len(data) == 0 {
		return "", provider.New(name, provider.CodeUpstream, "unexpected response format")
	}

	var sentences [][]json.RawMessage
	if err := json.Unmarshal(data[0], &sentences); err != nil {
		return "", provider.New(name, provider.CodeUpstream, "unexpected response format")
	}

	var b strings.Builder
	for _, sentence := range sentences {
		if len(sentence) == 0 {
			continue
		}
		var piece string
		if err := json.Unmarshal(sentence[0], &piece); err == nil {
			b.WriteString(piece)
		}
	}

	if b.Len() == 0 {
		return "", provider.Empty(name, "translation")
	}
	return b.String(), nil
}
