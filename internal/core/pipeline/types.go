package pipeline

import (
	"time"
)

// Options are the per-request knobs shared by both flows.
type Options struct {
	ResultMode         string `json:"resultMode,omitempty" example:"merged"`
	Translate          string `json:"translate,omitempty" example:"openai"`
	SourceLanguage     string `json:"sourceLanguage,omitempty" example:"auto"`
	TargetLanguage     string `json:"targetLanguage,omitempty" example:"zh-TW"`
	PreserveFormatting *bool  `json:"preserveFormatting,omitempty"`
	CustomInstructions string `json:"customInstructions,omitempty"`
}

// OCRRequest carries one image or several. Each entry is a data URL, raw
// base64 or an http(s) URL.
type OCRRequest struct {
	Image   string   `json:"image,omitempty"`
	Images  []string `json:"images,omitempty"`
	Options Options  `json:"options"`

	// RequestID ties the run to a transport-level id. Empty means generate one.
	RequestID string `json:"-"`
}

// OCRStats describes how an OCR request was served.
type OCRStats struct {
	ImageCount          int       `json:"imageCount"`
	ResultMode          string    `json:"resultMode"`
	OriginalLength      int       `json:"originalLength"`
	TranslatedLength    int       `json:"translatedLength"`
	OCRProvider         string    `json:"ocrProvider"`
	TranslationMethod   string    `json:"translationMethod"`
	TranslationProvider string    `json:"translationProvider,omitempty"`
	TranslationError    string    `json:"translationError,omitempty"`
	DurationMS          int64     `json:"durationMs"`
	ExtractedAt         time.Time `json:"extractedAt"`
}

// OCRResponse is the data payload of a successful OCR request. Text is the
// translation when there is one, else the original text.
type OCRResponse struct {
	RequestID        string   `json:"requestId"`
	OriginalText     string   `json:"originalText"`
	TranslatedText   *string  `json:"translatedText"`
	Text             string   `json:"text"`
	Segments         []string `json:"segments"`
	OriginalSegments []string `json:"originalSegments"`
	Stats            OCRStats `json:"stats"`
}

// TranslateRequest carries either a page URL or raw content.
type TranslateRequest struct {
	URL     string  `json:"url,omitempty" example:"https://example.com/article"`
	Content string  `json:"content,omitempty"`
	Options Options `json:"options"`

	// RequestID ties the run to a transport-level id. Empty means generate one.
	RequestID string `json:"-"`
}

// TranslateStats describes how a translate request was served.
type TranslateStats struct {
	OriginalLength      int       `json:"originalLength"`
	TranslatedLength    int       `json:"translatedLength"`
	TranslationMethod   string    `json:"translationMethod"`
	TranslationProvider string    `json:"translationProvider,omitempty"`
	TranslationError    string    `json:"translationError,omitempty"`
	Extractor           string    `json:"extractor,omitempty"`
	DurationMS          int64     `json:"durationMs"`
	TranslatedAt        time.Time `json:"translatedAt"`
}

// TranslateResponse is the data payload of a successful translate request.
type TranslateResponse struct {
	RequestID      string         `json:"requestId"`
	OriginalURL    *string        `json:"originalUrl"`
	ExtractedTitle *string        `json:"extractedTitle"`
	OriginalText   string         `json:"originalText"`
	TranslatedText *string        `json:"translatedText"`
	Text           string         `json:"text"`
	Stats          TranslateStats `json:"stats"`
}

// State is a step of the per-request state machine, logged on every transition.
type State string

const (
	StateIdle                State = "idle"
	StateExtracting          State = "extracting"
	StateExtractionDone      State = "extraction_done"
	StateExtractionFailed    State = "extraction_failed"
	StateFetchingContent     State = "fetching_content"
	StateTranslating         State = "translating"
	StateTranslationDone     State = "translation_done"
	StateTranslationFallback State = "translation_fallback"
	StateResponding          State = "responding"
)
