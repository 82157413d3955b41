package translate

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/pacer"
)

// Translator interface untuk multiple translation providers.
// An empty translation is reported as an error.
type Translator interface {
	Translate(ctx context.Context, text string, opts Options) (string, error)
	GetProviderName() string
}

// Options carries the language pair and prompt hints.
type Options struct {
	SourceLang         string
	TargetLang         string
	PreserveFormatting bool
	CustomInstructions string
}

// Method selects a translation backend.
type Method string

const (
	MethodNone       Method = "none"
	MethodGoogle     Method = "google"
	MethodGoogleFree Method = "google_free"
	MethodOpenAI     Method = "openai"
	MethodClaude     Method = "claude"
)

// ParseMethod maps request input onto a Method. "" and "false" mean none.
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToLower(strings.TrimSpace(s))); m {
	case "", "false", MethodNone:
		return MethodNone, nil
	case MethodGoogle, MethodGoogleFree, MethodOpenAI, MethodClaude:
		return m, nil
	default:
		return "", fmt.Errorf("unknown translation method %q", s)
	}
}

// Strategy binds a Translator to its request size limit and call spacing.
type Strategy struct {
	Method     Method
	Translator Translator
	ChunkLimit int
	Pacer      pacer.Pacer
}

// Limits per backend, in characters per request.
var defaultChunkLimits = map[Method]int{
	MethodGoogle:     5000,
	MethodGoogleFree: 5000,
	MethodOpenAI:     3000,
	MethodClaude:     3000,
}

var defaultDelays = map[Method]time.Duration{
	MethodGoogle:     300 * time.Millisecond,
	MethodGoogleFree: 500 * time.Millisecond,
	MethodOpenAI:     500 * time.Millisecond,
	MethodClaude:     500 * time.Millisecond,
}

// NewStrategy fills in the default chunk limit and pacing for m.
func NewStrategy(m Method, t Translator) Strategy {
	return Strategy{
		Method:     m,
		Translator: t,
		ChunkLimit: defaultChunkLimits[m],
		Pacer:      pacer.New(defaultDelays[m]),
	}
}

// ClientOptions tunes transport details shared by every adapter.
type ClientOptions struct {
	BaseURL    string
	HTTPClient *http.Client
	Model      string
}

func (o ClientOptions) httpClient() *http.Client {
	if o.HTTPClient != nil {
		return o.HTTPClient
	}
	return &http.Client{Timeout: 60 * time.Second}
}

func (o ClientOptions) baseURL(def string) string {
	if o.BaseURL != "" {
		return strings.TrimRight(o.BaseURL, "/")
	}
	return def
}

// ProviderConfig untuk create translation strategies
type ProviderConfig struct {
	GoogleKey     string
	EnableFree    bool
	OpenAIKey     string
	ClaudeKey     string
	OpenAIModel   string
	ClaudeModel   string
	BaseURLs      map[Method]string
	HTTPClient    *http.Client
	Decorate      func(Translator) Translator
	DisablePacing bool
}

// NewStrategies builds one Strategy per backend whose credentials are
// present. The result is fixed for the lifetime of the process.
func NewStrategies(cfg *ProviderConfig) map[Method]Strategy {
	strategies := make(map[Method]Strategy)

	opts := func(m Method, model string) ClientOptions {
		return ClientOptions{BaseURL: cfg.BaseURLs[m], HTTPClient: cfg.HTTPClient, Model: model}
	}

	add := func(m Method, t Translator) {
		if cfg.Decorate != nil {
			t = cfg.Decorate(t)
		}
		s := NewStrategy(m, t)
		if cfg.DisablePacing {
			s.Pacer = pacer.None
		}
		strategies[m] = s
	}

	if cfg.GoogleKey != "" {
		add(MethodGoogle, NewGoogleTranslator(cfg.GoogleKey, opts(MethodGoogle, "")))
	}
	if cfg.EnableFree {
		add(MethodGoogleFree, NewGoogleFreeTranslator(opts(MethodGoogleFree, "")))
	}
	if cfg.OpenAIKey != "" {
		add(MethodOpenAI, NewOpenAITranslator(cfg.OpenAIKey, opts(MethodOpenAI, cfg.OpenAIModel)))
	}
	if cfg.ClaudeKey != "" {
		add(MethodClaude, NewClaudeTranslator(cfg.ClaudeKey, opts(MethodClaude, cfg.ClaudeModel)))
	}

	return strategies
}

// CredentialVariable names the environment variable that enables m.
func CredentialVariable(m Method) string {
	switch m {
	case MethodGoogle:
		return "GOOGLE_TRANSLATE_API_KEY"
	case MethodOpenAI:
		return "OPENAI_API_KEY"
	case MethodClaude:
		return "ANTHROPIC_API_KEY"
	case MethodGoogleFree:
		return "ENABLE_FREE_TRANSLATE"
	default:
		return ""
	}
}

func withDefaults(opts Options) Options {
	if opts.TargetLang == "" {
		opts.TargetLang = "zh-TW"
	}
	if opts.SourceLang == "" {
		opts.SourceLang = "auto"
	}
	return opts
}
