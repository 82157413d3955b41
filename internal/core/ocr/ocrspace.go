package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/provider"
)

const ocrSpaceBaseURL = "https://api.ocr.space"

// OCRSpaceProvider implements OCR using OCR.space API
type OCRSpaceProvider struct {
	apiKey   string
	language string
	baseURL  string
	client   *http.Client
}

// NewOCRSpaceProvider creates a new OCR.space provider.
// language is an OCR.space code such as "eng", "cht" or "jpn".
func NewOCRSpaceProvider(apiKey, language string, opts ClientOptions) *OCRSpaceProvider {
	if language == "" {
		language = "eng"
	}
	return &OCRSpaceProvider{
		apiKey:   apiKey,
		language: language,
		baseURL:  strings.TrimRight(opts.baseURL(ocrSpaceBaseURL), "/"),
		client:   opts.httpClient(),
	}
}

// GetProviderName returns the provider name
func (p *OCRSpaceProvider) GetProviderName() string {
	return "OCR.space"
}

// OCR.space API response structure
type ocrSpaceResponse struct {
	ParsedResults []struct {
		ParsedText        string `json:"ParsedText"`
		FileParseExitCode int    `json:"FileParseExitCode"`
		ErrorMessage      string `json:"ErrorMessage"`
	} `json:"ParsedResults"`
	OCRExitCode           int             `json:"OCRExitCode"`
	IsErroredOnProcessing bool            `json:"IsErroredOnProcessing"`
	ErrorMessage          json.RawMessage `json:"ErrorMessage,omitempty"`
}

// errorText flattens ErrorMessage, which the API sends as a string or a list.
func (r ocrSpaceResponse) errorText() string {
	if len(r.ErrorMessage) == 0 {
		return ""
	}
	var list []string
	if err := json.Unmarshal(r.ErrorMessage, &list); err == nil {
		return strings.Join(list, "; ")
	}
	var s string
	if err := json.Unmarshal(r.ErrorMessage, &s); err == nil {
		return s
	}
	return string(r.ErrorMessage)
}

// ExtractText extracts text from image using OCR.space API
func (p *OCRSpaceProvider) ExtractText(ctx context.Context, img Image) (string, error) {
	name := p.GetProviderName()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fields := map[string]string{
		"apikey":    p.apiKey,
		"language":  p.language,
		"OCREngine": "2",
		"scale":     "true",
	}
	if img.IsRemote() {
		fields["url"] = img.URL
	} else {
		fields["base64Image"] = img.DataURL()
	}

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return "", fmt.Errorf("failed to write %s: %w", key, err)
		}
	}

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/parse/image", bytes.NewReader(buf.Bytes()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

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

	var ocrResp ocrSpaceResponse
	if err := json.Unmarshal(body, &ocrResp); err != nil {
		// invalid keys are answered with a plain-text body
		return "", provider.FromMessage(name, strings.TrimSpace(string(body)))
	}

	if ocrResp.IsErroredOnProcessing {
		msg := ocrResp.errorText()
		if msg == "" {
			msg = "unknown error"
		}
		perr := provider.FromMessage(name, "processing error: "+msg)
		if perr.Code == provider.CodeUpstream {
			perr.Code = provider.CodeInvalidInput
		}
		return "", perr
	}

	// 1: parsed, 2: partially parsed
	if ocrResp.OCRExitCode != 1 && ocrResp.OCRExitCode != 2 {
		return "", provider.New(name, provider.CodeUpstream, fmt.Sprintf("exit code: %d", ocrResp.OCRExitCode))
	}

	texts := make([]string, 0, len(ocrResp.ParsedResults))
	for _, r := range ocrResp.ParsedResults {
		if t := strings.TrimSpace(r.ParsedText); t != "" {
			texts = append(texts, t)
		}
	}

	return strings.Join(texts, "\n\n"), nil
}
