package ocr

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/provider"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// contentGenerator is the slice of *genai.GenerativeModel the provider uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiProvider implements OCR with a Gemini multimodal model
type GeminiProvider struct {
	client *genai.Client
	model  contentGenerator
	fetch  *http.Client
}

// NewGeminiProvider creates a Gemini OCR provider. Close releases the client.
func NewGeminiProvider(ctx context.Context, apiKey string, opts ClientOptions) (*GeminiProvider, error) {
	clientOpts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if shared := opts.HTTPClient; shared != nil {
		// a supplied client bypasses option.WithAPIKey, so the key rides on the transport
		clientOpts = []option.ClientOption{option.WithHTTPClient(&http.Client{
			Timeout:   shared.Timeout,
			Transport: apiKeyTransport{key: apiKey, base: shared.Transport},
		})}
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.BaseURL))
	}

	client, err := genai.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	modelName := opts.Model
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	return &GeminiProvider{
		client: client,
		model:  client.GenerativeModel(modelName),
		fetch:  opts.fetchClient(),
	}, nil
}

// apiKeyTransport sends the Gemini API key as a header on every request.
type apiKeyTransport struct {
	key  string
	base http.RoundTripper
}

func (t apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	r := req.Clone(req.Context())
	r.Header.Set("x-goog-api-key", t.key)
	return base.RoundTrip(r)
}

// GetProviderName returns the provider name
func (p *GeminiProvider) GetProviderName() string {
	return "Google Gemini"
}

// Close releases the underlying client
func (p *GeminiProvider) Close() error {
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}

// ExtractText sends the image bytes with the transcription prompt
func (p *GeminiProvider) ExtractText(ctx context.Context, img Image) (string, error) {
	name := p.GetProviderName()

	data, mime, err := img.fetchBytes(ctx, p.fetch)
	if err != nil {
		return "", provider.Wrap(name, provider.CodeInvalidInput, err.Error(), err)
	}

	resp, err := p.model.GenerateContent(ctx,
		genai.Blob{MIMEType: mime, Data: data},
		genai.Text(extractionPrompt),
	)
	if err != nil {
		return "", provider.FromGoogleAPI(name, err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", provider.New(name, provider.CodeUpstream, "no response from Gemini")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	return strings.TrimSpace(b.String()), nil
}
