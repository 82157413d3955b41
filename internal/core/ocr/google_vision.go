package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/pacer"
	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/provider"
	"github.com/rs/zerolog/log"
)

const visionBaseURL = "https://vision.googleapis.com"

// GoogleVisionProvider implements OCR using Google Cloud Vision API.
// It authenticates with either an API key or a service account.
type GoogleVisionProvider struct {
	apiKey  string
	token   *accessToken
	baseURL string
	client  *http.Client
	pacer   pacer.Pacer
}

// NewGoogleVisionProvider creates a Google Vision provider authenticated by API key
func NewGoogleVisionProvider(apiKey string, opts ClientOptions) *GoogleVisionProvider {
	return &GoogleVisionProvider{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(opts.baseURL(visionBaseURL), "/"),
		client:  opts.httpClient(),
		pacer:   pacer.Or(opts.Pacer, pacer.New(DefaultDelay(ProviderGoogleVision))),
	}
}

// NewGoogleVisionServiceAccountProvider creates a Google Vision provider that
// exchanges the service-account key for access tokens. The token is cached
// on the returned instance.
func NewGoogleVisionServiceAccountProvider(credentials string, opts ClientOptions) (*GoogleVisionProvider, error) {
	p := NewGoogleVisionProvider("", opts)

	token, err := newAccessToken(credentials, p.client)
	if err != nil {
		return nil, err
	}
	p.token = token

	return p, nil
}

// GetProviderName returns the provider name
func (p *GoogleVisionProvider) GetProviderName() string {
	return "Google Cloud Vision"
}

// Google Vision API request/response structures
type visionRequest struct {
	Requests []visionRequestItem `json:"requests"`
}

type visionRequestItem struct {
	Image    visionImage     `json:"image"`
	Features []visionFeature `json:"features"`
}

type visionImage struct {
	Content string             `json:"content,omitempty"` // base64 encoded image
	Source  *visionImageSource `json:"source,omitempty"`
}

type visionImageSource struct {
	ImageURI string `json:"imageUri"`
}

type visionFeature struct {
	Type       string `json:"type"`
	MaxResults int    `json:"maxResults,omitempty"`
}

type visionResponse struct {
	Responses []struct {
		FullTextAnnotation *struct {
			Text string `json:"text"`
		} `json:"fullTextAnnotation,omitempty"`
		TextAnnotations []struct {
			Description string `json:"description"`
		} `json:"textAnnotations"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error,omitempty"`
	} `json:"responses"`
}

// ExtractText extracts text from image using Google Cloud Vision API
func (p *GoogleVisionProvider) ExtractText(ctx context.Context, img Image) (string, error) {
	name := p.GetProviderName()

	item := visionRequestItem{
		Features: []visionFeature{{Type: "TEXT_DETECTION", MaxResults: 1}},
	}
	if img.IsRemote() {
		item.Image.Source = &visionImageSource{ImageURI: img.URL}
	} else {
		item.Image.Content = img.Base64()
	}

	jsonData, err := json.Marshal(visionRequest{Requests: []visionRequestItem{item}})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := p.baseURL + "/v1/images:annotate"
	if p.token == nil {
		endpoint += "?key=" + url.QueryEscape(p.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if p.token != nil {
		accessToken, err := p.token.Get(ctx, name)
		if err != nil {
			return "", err
		}
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := p.client.Do(req)
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

	var visionResp visionResponse
	if err := json.Unmarshal(body, &visionResp); err != nil {
		return "", provider.Wrap(name, provider.CodeUpstream, "failed to parse response", err)
	}

	if len(visionResp.Responses) == 0 {
		return "", provider.New(name, provider.CodeUpstream, "no response from Google Vision")
	}

	first := visionResp.Responses[0]
	if first.Error != nil {
		return "", provider.FromRPCCode(name, first.Error.Code,
			fmt.Sprintf("Google Vision API error [%d]: %s", first.Error.Code, first.Error.Message))
	}

	if first.FullTextAnnotation != nil && first.FullTextAnnotation.Text != "" {
		return first.FullTextAnnotation.Text, nil
	}
	if len(first.TextAnnotations) > 0 {
		return first.TextAnnotations[0].Description, nil
	}

	// no text found
	return "", nil
}

// ExtractBatch runs the images one at a time, pausing between calls.
// A failed or empty image becomes a marker line instead of aborting.
func (p *GoogleVisionProvider) ExtractBatch(ctx context.Context, images []Image) (string, error) {
	results := make([]string, 0, len(images))

	for i, img := range images {
		log.Debug().Int("image", i+1).Int("total", len(images)).Msg("vision batch item")

		text, err := p.ExtractText(ctx, img)
		switch {
		case err != nil:
			log.Warn().Err(err).Int("image", i+1).Msg("vision batch item failed")
			results = append(results, FailurePlaceholder(err))
		case text == "":
			results = append(results, EmptyPlaceholder)
		default:
			results = append(results, text)
		}

		if err := p.pacer.Wait(ctx, i, len(images)); err != nil {
			return "", err
		}
	}

	return strings.Join(results, "\n\n"), nil
}
