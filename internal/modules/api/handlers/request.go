package handlers

import (
	"encoding/json"

	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/pipeline"
	"github.com/gofiber/fiber/v2"
)

// requestID returns the id the requestid middleware assigned, if any.
func requestID(c *fiber.Ctx) string {
	return c.GetRespHeader(fiber.HeaderXRequestID)
}

// methodField accepts the translate option as a string or a boolean.
// false means no translation; true means the default method.
type methodField string

func (m *methodField) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		if b {
			*m = ""
		} else {
			*m = "none"
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*m = methodField(s)
	return nil
}

// requestOptions mirrors pipeline.Options for the request body.
type requestOptions struct {
	ResultMode         string      `json:"resultMode,omitempty" example:"segmented"`
	Translate          methodField `json:"translate,omitempty" swaggertype:"string" example:"openai"`
	SourceLanguage     string      `json:"sourceLanguage,omitempty" example:"auto"`
	TargetLanguage     string      `json:"targetLanguage,omitempty" example:"zh-TW"`
	PreserveFormatting *bool       `json:"preserveFormatting,omitempty"`
	CustomInstructions string      `json:"customInstructions,omitempty"`
}

// OCRRequest is the body of POST /api/ocr. Top-level options are accepted
// for convenience; values under "options" win.
type OCRRequest struct {
	Image          string         `json:"image,omitempty" example:"data:image/png;base64,iVBORw0KGgo..."`
	Images         []string       `json:"images,omitempty"`
	ResultMode     string         `json:"resultMode,omitempty"`
	Translate      methodField    `json:"translate,omitempty" swaggertype:"string"`
	SourceLanguage string         `json:"sourceLanguage,omitempty"`
	TargetLanguage string         `json:"targetLanguage,omitempty"`
	Options        requestOptions `json:"options"`
}

func (r OCRRequest) toPipeline() pipeline.OCRRequest {
	top := requestOptions{
		ResultMode:     r.ResultMode,
		Translate:      r.Translate,
		SourceLanguage: r.SourceLanguage,
		TargetLanguage: r.TargetLanguage,
	}
	return pipeline.OCRRequest{
		Image:   r.Image,
		Images:  r.Images,
		Options: mergeOptions(top, r.Options),
	}
}

// TranslateRequest is the body of POST /api/translate.
type TranslateRequest struct {
	URL     string         `json:"url,omitempty" example:"https://example.com/article"`
	Content string         `json:"content,omitempty"`
	Options requestOptions `json:"options"`
}

func (r TranslateRequest) toPipeline() pipeline.TranslateRequest {
	return pipeline.TranslateRequest{
		URL:     r.URL,
		Content: r.Content,
		Options: mergeOptions(requestOptions{}, r.Options),
	}
}

func mergeOptions(base, over requestOptions) pipeline.Options {
	pick := func(a, b string) string {
		if b != "" {
			return b
		}
		return a
	}
	o := pipeline.Options{
		ResultMode:         pick(base.ResultMode, over.ResultMode),
		Translate:          pick(string(base.Translate), string(over.Translate)),
		SourceLanguage:     pick(base.SourceLanguage, over.SourceLanguage),
		TargetLanguage:     pick(base.TargetLanguage, over.TargetLanguage),
		PreserveFormatting: base.PreserveFormatting,
		CustomInstructions: pick(base.CustomInstructions, over.CustomInstructions),
	}
	if over.PreserveFormatting != nil {
		o.PreserveFormatting = over.PreserveFormatting
	}
	return o
}
