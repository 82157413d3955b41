package ocr

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/pacer"
	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/shared/httpclient"
)

// Provider interface for OCR services
type Provider interface {
	// ExtractText extracts text from one image. An image with no text yields "", nil.
	ExtractText(ctx context.Context, img Image) (string, error)

	// GetProviderName returns the provider name
	GetProviderName() string
}

// BatchExtractor is implemented by providers with their own multi-image
// routine. The result is the merged text of all images.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, images []Image) (string, error)
}

// ProviderType selects an OCR backend
type ProviderType string

const (
	ProviderOpenAI       ProviderType = "openai"
	ProviderGoogleVision ProviderType = "google"
	ProviderOCRSpace     ProviderType = "ocrspace"
	ProviderGemini       ProviderType = "gemini"
	ProviderTesseract    ProviderType = "tesseract"
)

// Pacing between per-image calls, per backend.
var defaultDelays = map[ProviderType]time.Duration{
	ProviderOpenAI:       500 * time.Millisecond,
	ProviderGoogleVision: 1000 * time.Millisecond,
	ProviderOCRSpace:     500 * time.Millisecond,
	ProviderGemini:       500 * time.Millisecond,
	ProviderTesseract:    0,
}

// DefaultDelay returns the pause inserted between sequential calls to t.
func DefaultDelay(t ProviderType) time.Duration {
	return defaultDelays[t]
}

// ClientOptions tunes transport details shared by every adapter.
// Zero values select production defaults.
type ClientOptions struct {
	BaseURL    string
	HTTPClient *http.Client
	Pacer      pacer.Pacer
	Model      string

	// FetchClient downloads image URLs for adapters that need raw bytes.
	// Nil means a client limited to public addresses.
	FetchClient *http.Client
}

func (o ClientOptions) httpClient() *http.Client {
	if o.HTTPClient != nil {
		return o.HTTPClient
	}
	return &http.Client{Timeout: 60 * time.Second}
}

func (o ClientOptions) fetchClient() *http.Client {
	if o.FetchClient != nil {
		return o.FetchClient
	}
	return httpclient.New(httpclient.Config{PublicOnly: true})
}

func (o ClientOptions) baseURL(def string) string {
	if o.BaseURL != "" {
		return o.BaseURL
	}
	return def
}

// ProviderConfig untuk create provider
type ProviderConfig struct {
	Type ProviderType

	OpenAIKey                string
	GoogleVisionKey          string
	GoogleServiceAccountJSON string
	OCRSpaceKey              string
	OCRSpaceLanguage         string
	GeminiKey                string
	TesseractLanguage        string

	Options ClientOptions
}

// NewProvider builds the configured backend. Missing credentials are
// reported with the environment variable that should carry them.
func NewProvider(ctx context.Context, cfg *ProviderConfig) (Provider, error) {
	switch cfg.Type {
	case ProviderOpenAI:
		if cfg.OpenAIKey == "" {
			return nil, &MissingCredentialError{Provider: string(cfg.Type), Variable: "OPENAI_API_KEY"}
		}
		return NewOpenAIProvider(cfg.OpenAIKey, cfg.Options), nil

	case ProviderGoogleVision:
		if cfg.GoogleServiceAccountJSON != "" {
			return NewGoogleVisionServiceAccountProvider(cfg.GoogleServiceAccountJSON, cfg.Options)
		}
		if cfg.GoogleVisionKey == "" {
			return nil, &MissingCredentialError{Provider: string(cfg.Type), Variable: "GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_VISION_API_KEY"}
		}
		return NewGoogleVisionProvider(cfg.GoogleVisionKey, cfg.Options), nil

	case ProviderOCRSpace:
		if cfg.OCRSpaceKey == "" {
			return nil, &MissingCredentialError{Provider: string(cfg.Type), Variable: "OCRSPACE_API_KEY"}
		}
		return NewOCRSpaceProvider(cfg.OCRSpaceKey, cfg.OCRSpaceLanguage, cfg.Options), nil

	case ProviderGemini:
		if cfg.GeminiKey == "" {
			return nil, &MissingCredentialError{Provider: string(cfg.Type), Variable: "GEMINI_API_KEY"}
		}
		return NewGeminiProvider(ctx, cfg.GeminiKey, cfg.Options)

	case ProviderTesseract:
		return NewTesseractProvider(cfg.TesseractLanguage, cfg.Options), nil

	default:
		return nil, fmt.Errorf("unknown OCR provider type: %s", cfg.Type)
	}
}

// MissingCredentialError reports a backend selected without its key.
type MissingCredentialError struct {
	Provider string
	Variable string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("%s is required for OCR provider %s", e.Variable, e.Provider)
}
