//go:build !ocr

package ocr

import (
	"context"
	"errors"

	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/provider"
)

// ErrTesseractNotEnabled is returned when the binary was built without the
// "ocr" tag. Rebuild with: go build -tags ocr
var ErrTesseractNotEnabled = errors.New("tesseract support not enabled; rebuild with -tags ocr")

// TesseractProvider is the stub used when Tesseract is not compiled in.
type TesseractProvider struct {
	language string
}

// NewTesseractProvider returns a provider whose calls always fail.
func NewTesseractProvider(language string, _ ClientOptions) *TesseractProvider {
	return &TesseractProvider{language: language}
}

// GetProviderName returns the name of the provider
func (p *TesseractProvider) GetProviderName() string {
	return "Tesseract OCR"
}

// ExtractText always returns ErrTesseractNotEnabled.
func (p *TesseractProvider) ExtractText(_ context.Context, _ Image) (string, error) {
	return "", provider.Wrap(p.GetProviderName(), provider.CodeUpstream, ErrTesseractNotEnabled.Error(), ErrTesseractNotEnabled)
}
