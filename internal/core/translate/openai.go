package translate

import (
	"context"
	"strings"

	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/provider"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAITranslator translates with an OpenAI chat model
type OpenAITranslator struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewOpenAITranslator creates a new OpenAI translator
func NewOpenAITranslator(apiKey string, opts ClientOptions) *OpenAITranslator {
	cfg := openai.DefaultConfig(apiKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	cfg.HTTPClient = opts.httpClient()

	model := opts.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &OpenAITranslator{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: 0.3,
		maxTokens:   4000,
	}
}

// GetProviderName returns the provider name
func (t *OpenAITranslator) GetProviderName() string {
	return "OpenAI"
}

// Translate sends text with the translator system prompt
func (t *OpenAITranslator) Translate(ctx context.Context, text string, opts Options) (string, error) {
	name := t.GetProviderName()
	opts = withDefaults(opts)

	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: buildSystemPrompt(opts)},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: t.temperature,
		MaxTokens:   t.maxTokens,
	})
	if err != nil {
		return "", provider.FromOpenAI(name, err)
	}

	if len(resp.Choices) == 0 {
		return "", provider.Empty(name, "response")
	}

	translated := strings.TrimSpace(resp.Choices[0].Message.Content)
	if translated == "" {
		return "", provider.Empty(name, "translation")
	}
	return translated, nil
}
