package translate

import (
	"context"
	"strings"

	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/provider"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// ClaudeTranslator translates with Anthropic's Messages API
type ClaudeTranslator struct {
	client      anthropic.Client
	model       string
	temperature float64
	maxTokens   int64
}

// NewClaudeTranslator creates a new Claude translator. Retries are left to
// the HTTP client so every backend shares one policy.
func NewClaudeTranslator(apiKey string, opts ClientOptions) *ClaudeTranslator {
	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(opts.httpClient()),
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}

	model := opts.Model
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}

	return &ClaudeTranslator{
		client:      anthropic.NewClient(clientOpts...),
		model:       model,
		temperature: 0.3,
		maxTokens:   4000,
	}
}

// GetProviderName returns the provider name
func (t *ClaudeTranslator) GetProviderName() string {
	return "Anthropic Claude"
}

// Translate sends text with the translator system prompt
func (t *ClaudeTranslator) Translate(ctx context.Context, text string, opts Options) (string, error) {
	name := t.GetProviderName()
	opts = withDefaults(opts)

	message, err := t.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(t.model),
		MaxTokens:   t.maxTokens,
		Temperature: anthropic.Float(t.temperature),
		System:      []anthropic.TextBlockParam{{Text: buildSystemPrompt(opts)}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
	})
	if err != nil {
		return "", provider.FromAnthropic(name, err)
	}

	var b strings.Builder
	for _, block := range message.Content {
		switch b2 := block.AsAny().(type) {
		case anthropic.TextBlock:
			b.WriteString(b2.Text)
		}
	}

	translated := strings.TrimSpace(b.String())
	if translated == "" {
		return "", provider.Empty(name, "translation")
	}
	return translated, nil
}
