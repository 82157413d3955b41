package ocr

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/pacer"
	"github.com/rs/zerolog/log"
)

// ResultMode chooses how several images are returned.
type ResultMode string

const (
	ModeMerged    ResultMode = "merged"
	ModeSegmented ResultMode = "segmented"
)

// ParseResultMode maps request input onto a ResultMode; "" means merged.
func ParseResultMode(s string) (ResultMode, error) {
	switch ResultMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeMerged:
		return ModeMerged, nil
	case ModeSegmented:
		return ModeSegmented, nil
	default:
		return "", fmt.Errorf("unknown result mode %q (use merged or segmented)", s)
	}
}

// Markers written in place of an image that produced no text.
const EmptyPlaceholder = "[unrecognized image]"

// FailurePlaceholder is the marker for an image whose extraction failed.
func FailurePlaceholder(err error) string {
	return fmt.Sprintf("[unrecognized: %s]", err.Error())
}

// ErrNoImages is returned when ExtractAll is called without input.
var ErrNoImages = errors.New("at least one image is required")

// Result holds the merged text and the per-image segments.
type Result struct {
	Text     string   `json:"text"`
	Segments []string `json:"segments"`
}

// Service drives a Provider over one or many images.
type Service struct {
	provider Provider
	pacer    pacer.Pacer
}

// NewService creates a new OCR service with the given provider. p spaces out
// per-image calls; nil means no pause.
func NewService(provider Provider, p pacer.Pacer) *Service {
	return &Service{provider: provider, pacer: pacer.Or(p, pacer.None)}
}

// GetProviderName returns the name of the current provider
func (s *Service) GetProviderName() string {
	return s.provider.GetProviderName()
}

// ExtractAll runs OCR over images. A single image failing is returned as an
// error. In a batch, failures become placeholder segments and the rest of the
// batch continues.
func (s *Service) ExtractAll(ctx context.Context, images []Image, mode ResultMode) (*Result, error) {
	switch len(images) {
	case 0:
		return nil, ErrNoImages
	case 1:
		text, err := s.provider.ExtractText(ctx, images[0])
		if err != nil {
			return nil, err
		}
		return &Result{Text: text, Segments: []string{text}}, nil
	}

	if mode == ModeSegmented {
		segments, err := s.extractEach(ctx, images)
		if err != nil {
			return nil, err
		}
		return &Result{Text: strings.Join(segments, "\n\n"), Segments: segments}, nil
	}

	if batch, ok := s.provider.(BatchExtractor); ok {
		text, err := batch.ExtractBatch(ctx, images)
		if err != nil {
			return nil, err
		}
		return &Result{Text: text, Segments: []string{text}}, nil
	}

	segments, err := s.extractEach(ctx, images)
	if err != nil {
		return nil, err
	}
	text := strings.Join(segments, "\n\n")
	return &Result{Text: text, Segments: []string{text}}, nil
}

// extractEach returns exactly one segment per image. It only fails when ctx
// is cancelled while pacing.
func (s *Service) extractEach(ctx context.Context, images []Image) ([]string, error) {
	segments := make([]string, len(images))
	name := s.provider.GetProviderName()

	for i, img := range images {
		log.Info().Str("provider", name).Int("image", i+1).Int("total", len(images)).Msg("extracting image")

		text, err := s.provider.ExtractText(ctx, img)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("provider", name).Int("image", i+1).Msg("image extraction failed")
			segments[i] = FailurePlaceholder(err)
		case text == "":
			segments[i] = EmptyPlaceholder
		default:
			segments[i] = text
		}

		if err := s.pacer.Wait(ctx, i, len(images)); err != nil {
			return nil, err
		}
	}

	return segments, nil
}
