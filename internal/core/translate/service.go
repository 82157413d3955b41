package translate

import (
	"context"
	"sort"

	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/chunk"
	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/ocr"
	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/pacer"
	"github.com/rs/zerolog/log"
)

// Request is one translation step. Segments win over Text when both are set.
type Request struct {
	Text               string
	Segments           []string
	Method             Method
	SourceLang         string
	TargetLang         string
	Mode               ocr.ResultMode
	PreserveFormatting bool
	CustomInstructions string
}

// Result of a translation step. A nil TranslatedText means no translation
// was produced and Segments holds the input unchanged.
type Result struct {
	OriginalText   string
	TranslatedText *string
	Segments       []string
	Method         Method
	Provider       string
	// Err is the provider failure that caused a fallback, if any.
	Err error
}

// Translated reports whether the step produced a translation.
func (r Result) Translated() bool {
	return r.TranslatedText != nil
}

// Service picks a strategy per request and applies the fallback policy.
type Service struct {
	strategies map[Method]Strategy
}

// NewService creates a new translation service over strategies built at startup.
func NewService(strategies map[Method]Strategy) *Service {
	if strategies == nil {
		strategies = map[Method]Strategy{}
	}
	return &Service{strategies: strategies}
}

// Methods lists the configured methods in a stable order.
func (s *Service) Methods() []Method {
	methods := make([]Method, 0, len(s.strategies))
	for m := range s.strategies {
		methods = append(methods, m)
	}
	sort.Slice(methods, func(i, j int) bool { return methods[i] < methods[j] })
	return methods
}

// Has reports whether m has a configured strategy.
func (s *Service) Has(m Method) bool {
	_, ok := s.strategies[m]
	return ok
}

// Translate runs the translation step. It never returns an error: any
// provider failure discards every partial result and falls back to the
// original text.
func (s *Service) Translate(ctx context.Context, req Request) Result {
	segments := req.Segments
	if len(segments) == 0 {
		segments = []string{req.Text}
	}
	original := req.Text
	if len(req.Segments) > 0 {
		original = chunk.Join(req.Segments)
	}

	fallback := Result{
		OriginalText: original,
		Segments:     segments,
		Method:       MethodNone,
	}

	if req.Method == MethodNone || req.Method == "" {
		return fallback
	}
	strategy, ok := s.strategies[req.Method]
	if !ok {
		log.Warn().Str("method", string(req.Method)).Msg("translation method not configured, skipping")
		return fallback
	}

	opts := withDefaults(Options{
		SourceLang:         req.SourceLang,
		TargetLang:         req.TargetLang,
		PreserveFormatting: req.PreserveFormatting,
		CustomInstructions: req.CustomInstructions,
	})
	name := strategy.Translator.GetProviderName()

	var translated []string
	var err error
	if req.Mode == ocr.ModeSegmented && len(segments) > 1 {
		translated, err = s.translateSegments(ctx, strategy, segments, opts)
	} else {
		var text string
		text, err = s.translateText(ctx, strategy, original, opts)
		translated = []string{text}
	}

	if err != nil {
		log.Error().Err(err).Str("provider", name).Str("method", string(req.Method)).
			Msg("translation failed, returning original text")
		fallback.Err = err
		return fallback
	}

	merged := chunk.Join(translated)
	return Result{
		OriginalText:   original,
		TranslatedText: &merged,
		Segments:       translated,
		Method:         req.Method,
		Provider:       name,
	}
}

// translateSegments keeps one output per input segment, in order.
func (s *Service) translateSegments(ctx context.Context, st Strategy, segments []string, opts Options) ([]string, error) {
	p := pacer.Or(st.Pacer, pacer.None)
	out := make([]string, len(segments))

	for i, seg := range segments {
		log.Info().Int("segment", i+1).Int("total", len(segments)).Msg("translating segment")

		text, err := s.translateText(ctx, st, seg, opts)
		if err != nil {
			return nil, err
		}
		out[i] = text

		if err := p.Wait(ctx, i, len(segments)); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// translateText sends text in one call, or chunk by chunk when it is over
// the strategy's limit.
func (s *Service) translateText(ctx context.Context, st Strategy, text string, opts Options) (string, error) {
	if st.ChunkLimit <= 0 || chunk.Len(text) <= st.ChunkLimit {
		return st.Translator.Translate(ctx, text, opts)
	}

	chunks := chunk.Split(text, st.ChunkLimit)
	p := pacer.Or(st.Pacer, pacer.None)
	out := make([]string, len(chunks))

	log.Info().Int("chunks", len(chunks)).Int("limit", st.ChunkLimit).Msg("long text, translating in chunks")

	for i, c := range chunks {
		translated, err := st.Translator.Translate(ctx, c, opts)
		if err != nil {
			return "", err
		}
		out[i] = translated

		if err := p.Wait(ctx, i, len(chunks)); err != nil {
			return "", err
		}
	}

	return chunk.Join(out), nil
}
