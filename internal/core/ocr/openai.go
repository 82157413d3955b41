package ocr

import (
	"context"
	"strings"

	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/provider"
	openai "github.com/sashabaranov/go-openai"
)

// extractionPrompt asks a vision model for a verbatim transcription.
const extractionPrompt = `Extract all text content from this screenshot.

Requirements:
1. Extract every piece of text in the image
2. Keep the original language (do not translate)
3. Output only the text, without explanations or notes
4. Preserve the original formatting (headings, paragraphs, lists) as far as possible
5. Ignore pictures, charts, ads and other non-text content`

// OpenAIProvider implements OCR using an OpenAI vision model
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewOpenAIProvider creates a new OpenAI vision OCR provider
func NewOpenAIProvider(apiKey string, opts ClientOptions) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	cfg.HTTPClient = opts.httpClient()

	model := opts.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: 0.1,
		maxTokens:   4000,
	}
}

// GetProviderName returns the provider name
func (p *OpenAIProvider) GetProviderName() string {
	return "OpenAI Vision"
}

// ExtractText sends the image to the chat completions endpoint
func (p *OpenAIProvider) ExtractText(ctx context.Context, img Image) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: extractionPrompt},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: img.DataURL(), Detail: openai.ImageURLDetailHigh},
					},
				},
			},
		},
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
	})
	if err != nil {
		return "", provider.FromOpenAI(p.GetProviderName(), err)
	}

	if len(resp.Choices) == 0 {
		return "", provider.New(p.GetProviderName(), provider.CodeUpstream, "no response from OpenAI")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
