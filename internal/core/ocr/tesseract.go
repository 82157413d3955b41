//go:build ocr

package ocr

import (
	"context"
	"net/http"
	"strings"

	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/provider"
	"github.com/otiai10/gosseract/v2"
)

// TesseractProvider implements OCR using the local Tesseract engine
type TesseractProvider struct {
	languages []string
	fetch     *http.Client
}

// NewTesseractProvider creates a new Tesseract OCR provider.
// language can be "eng", "chi_tra", or several joined with "+".
func NewTesseractProvider(language string, opts ClientOptions) *TesseractProvider {
	if language == "" {
		language = "eng"
	}

	return &TesseractProvider{
		languages: strings.Split(language, "+"),
		fetch:     opts.fetchClient(),
	}
}

// GetProviderName returns the name of the provider
func (p *TesseractProvider) GetProviderName() string {
	return "Tesseract OCR"
}

// ExtractText runs Tesseract over the image bytes
func (p *TesseractProvider) ExtractText(ctx context.Context, img Image) (string, error) {
	name := p.GetProviderName()

	data, _, err := img.fetchBytes(ctx, p.fetch)
	if err != nil {
		return "", provider.Wrap(name, provider.CodeInvalidInput, err.Error(), err)
	}

	// gosseract clients are not safe for concurrent use
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(p.languages...); err != nil {
		return "", provider.Wrap(name, provider.CodeUpstream, "failed to set language", err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return "", provider.Wrap(name, provider.CodeInvalidInput, "failed to set image", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", provider.Wrap(name, provider.CodeUpstream, "recognition failed", err)
	}

	return strings.TrimSpace(text), nil
}
