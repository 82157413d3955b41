// Package pipeline runs a request end to end: validate, extract, translate
// and assemble the response.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/chunk"
	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/content"
	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/language"
	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/ocr"
	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/translate"
	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/usage"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

// DefaultTargetLanguage is used when a request names none.
const DefaultTargetLanguage = "zh-TW"

// Extractor is the OCR step.
type Extractor interface {
	ExtractAll(ctx context.Context, images []ocr.Image, mode ocr.ResultMode) (*ocr.Result, error)
	GetProviderName() string
}

// Translator is the translation step.
type Translator interface {
	Translate(ctx context.Context, req translate.Request) translate.Result
	Has(m translate.Method) bool
}

// Recorder stores usage records.
type Recorder interface {
	Record(ctx context.Context, r *usage.Record) error
}

// Config holds pipeline defaults.
type Config struct {
	// DefaultTextMethod translates URL and content requests that name no method.
	DefaultTextMethod translate.Method
	// ExtractorVariable names the setting that enables OCR, for error messages.
	ExtractorVariable string
}

// Pipeline wires the steps together. Every dependency except the extractor
// and translator is optional.
type Pipeline struct {
	cfg        Config
	extractor  Extractor
	translator Translator
	content    content.Extractor
	recorder   Recorder
	now        func() time.Time
}

// New creates a pipeline. extractor may be nil when no OCR provider is configured.
func New(cfg Config, extractor Extractor, translator Translator, contentExtractor content.Extractor, recorder Recorder) *Pipeline {
	if cfg.DefaultTextMethod == "" {
		cfg.DefaultTextMethod = translate.MethodClaude
	}
	return &Pipeline{
		cfg:        cfg,
		extractor:  extractor,
		translator: translator,
		content:    contentExtractor,
		recorder:   recorder,
		now:        time.Now,
	}
}

// OCRProvider names the OCR backend, or "" when none is configured.
func (p *Pipeline) OCRProvider() string {
	if p.extractor == nil {
		return ""
	}
	return p.extractor.GetProviderName()
}

type run struct {
	id     string
	start  time.Time
	logger zerolog.Logger
}

// begin starts a run under id, or a fresh id when none was given.
func (p *Pipeline) begin(kind usage.Kind, id string) *run {
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}
	r := &run{
		id:     id,
		start:  p.now(),
		logger: log.With().Str("request_id", id).Str("kind", string(kind)).Logger(),
	}
	r.state(StateIdle)
	return r
}

func (r *run) state(s State) {
	r.logger.Info().Str("state", string(s)).Msg("pipeline state")
}

// RunOCR extracts text from the request images and translates it when asked.
// It fails only on invalid input, missing credentials, or when the sole image
// of a single-image request cannot be read.
func (p *Pipeline) RunOCR(ctx context.Context, req OCRRequest) (*OCRResponse, error) {
	r := p.begin(usage.KindOCR, req.RequestID)
	rec := &usage.Record{RequestID: r.id, Kind: usage.KindOCR, TranslationMethod: string(translate.MethodNone), Options: optionsJSON(req.Options)}

	images, mode, topts, err := p.validateOCR(req)
	if err != nil {
		p.fail(ctx, r, rec, err)
		return nil, err
	}
	rec.ImageCount = len(images)
	rec.OCRProvider = p.extractor.GetProviderName()

	r.state(StateExtracting)
	extracted, err := p.extractor.ExtractAll(ctx, images, mode)
	if err != nil {
		r.state(StateExtractionFailed)
		if ctx.Err() == nil {
			err = &ExtractionError{Provider: p.extractor.GetProviderName(), Err: err}
		}
		p.fail(ctx, r, rec, err)
		return nil, err
	}
	r.state(StateExtractionDone)
	r.logger.Info().Int("images", len(images)).Int("length", chunk.Len(extracted.Text)).Msg("extraction finished")

	treq := translate.Request{
		Text:               extracted.Text,
		Segments:           extracted.Segments,
		Method:             topts.Method,
		SourceLang:         topts.SourceLang,
		TargetLang:         topts.TargetLang,
		Mode:               mode,
		PreserveFormatting: topts.PreserveFormatting,
		CustomInstructions: topts.CustomInstructions,
	}
	tres := p.translateStep(ctx, r, treq)

	resp := &OCRResponse{
		RequestID:        r.id,
		OriginalText:     extracted.Text,
		TranslatedText:   tres.TranslatedText,
		Text:             extracted.Text,
		Segments:         tres.Segments,
		OriginalSegments: extracted.Segments,
		Stats: OCRStats{
			ImageCount:          len(images),
			ResultMode:          string(mode),
			OriginalLength:      chunk.Len(extracted.Text),
			OCRProvider:         p.extractor.GetProviderName(),
			TranslationMethod:   string(tres.Method),
			TranslationProvider: tres.Provider,
			ExtractedAt:         p.now().UTC(),
		},
	}
	if tres.TranslatedText != nil {
		resp.Text = *tres.TranslatedText
		resp.Stats.TranslatedLength = chunk.Len(*tres.TranslatedText)
	}
	if tres.Err != nil {
		resp.Stats.TranslationError = tres.Err.Error()
	}
	resp.Stats.DurationMS = p.now().Sub(r.start).Milliseconds()

	r.state(StateResponding)

	rec.Success = true
	rec.TranslationMethod = string(tres.Method)
	rec.OriginalLength = resp.Stats.OriginalLength
	rec.TranslatedLength = resp.Stats.TranslatedLength
	rec.FallbackUsed = tres.Err != nil
	rec.ErrorMessage = resp.Stats.TranslationError
	rec.DurationMS = resp.Stats.DurationMS
	p.record(ctx, r, rec)

	return resp, nil
}

// RunTranslate translates raw content, or the main content of a web page.
func (p *Pipeline) RunTranslate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	r := p.begin(usage.KindTranslate, req.RequestID)
	rec := &usage.Record{RequestID: r.id, Kind: usage.KindTranslate, TranslationMethod: string(translate.MethodNone), Options: optionsJSON(req.Options)}

	topts, err := p.translationOptions(req.Options, p.cfg.DefaultTextMethod)
	if err != nil {
		p.fail(ctx, r, rec, err)
		return nil, err
	}

	resp := &TranslateResponse{RequestID: r.id}
	text := req.Content

	switch {
	case strings.TrimSpace(req.URL) != "":
		pageURL := content.NormalizeURL(req.URL)
		if !content.IsValidURL(pageURL) {
			err := invalid("invalid URL format")
			p.fail(ctx, r, rec, err)
			return nil, err
		}
		if p.content == nil {
			err := &CredentialError{Provider: "content extraction"}
			p.fail(ctx, r, rec, err)
			return nil, err
		}

		r.state(StateFetchingContent)
		r.logger.Info().Str("url", pageURL).Msg("extracting content")
		article, err := p.content.Extract(ctx, pageURL)
		if err != nil {
			if ctx.Err() == nil {
				err = &ContentError{URL: pageURL, Err: err}
			}
			p.fail(ctx, r, rec, err)
			return nil, err
		}
		text = article.Text()
		resp.OriginalURL = &pageURL
		if article.Title != "" {
			title := article.Title
			resp.ExtractedTitle = &title
		}
		resp.Stats.Extractor = article.Source
	case strings.TrimSpace(text) == "":
		err := invalid("url or content is required")
		p.fail(ctx, r, rec, err)
		return nil, err
	}

	if err := p.requireTranslator(topts.Method); err != nil {
		p.fail(ctx, r, rec, err)
		return nil, err
	}

	tres := p.translateStep(ctx, r, translate.Request{
		Text:               text,
		Method:             topts.Method,
		SourceLang:         topts.SourceLang,
		TargetLang:         topts.TargetLang,
		Mode:               ocr.ModeMerged,
		PreserveFormatting: topts.PreserveFormatting,
		CustomInstructions: topts.CustomInstructions,
	})

	resp.OriginalText = text
	resp.TranslatedText = tres.TranslatedText
	resp.Text = text
	resp.Stats.OriginalLength = chunk.Len(text)
	resp.Stats.TranslationMethod = string(tres.Method)
	resp.Stats.TranslationProvider = tres.Provider
	if tres.TranslatedText != nil {
		resp.Text = *tres.TranslatedText
		resp.Stats.TranslatedLength = chunk.Len(*tres.TranslatedText)
	}
	if tres.Err != nil {
		resp.Stats.TranslationError = tres.Err.Error()
	}
	resp.Stats.TranslatedAt = p.now().UTC()
	resp.Stats.DurationMS = p.now().Sub(r.start).Milliseconds()

	r.state(StateResponding)

	rec.Success = true
	rec.TranslationMethod = string(tres.Method)
	rec.OriginalLength = resp.Stats.OriginalLength
	rec.TranslatedLength = resp.Stats.TranslatedLength
	rec.FallbackUsed = tres.Err != nil
	rec.ErrorMessage = resp.Stats.TranslationError
	rec.DurationMS = resp.Stats.DurationMS
	p.record(ctx, r, rec)

	return resp, nil
}

func (p *Pipeline) translateStep(ctx context.Context, r *run, req translate.Request) translate.Result {
	if req.Method == translate.MethodNone || strings.TrimSpace(req.Text) == "" {
		req.Method = translate.MethodNone
		return p.translator.Translate(ctx, req)
	}

	r.state(StateTranslating)
	res := p.translator.Translate(ctx, req)
	if res.Translated() {
		r.state(StateTranslationDone)
	} else {
		r.state(StateTranslationFallback)
	}
	return res
}

// translationOptions holds validated translation settings.
type translationOptions struct {
	Method             translate.Method
	SourceLang         string
	TargetLang         string
	PreserveFormatting bool
	CustomInstructions string
}

// validateOCR checks everything the caller controls before any credential
// check, so malformed input is always reported as a validation failure.
func (p *Pipeline) validateOCR(req OCRRequest) ([]ocr.Image, ocr.ResultMode, translationOptions, error) {
	var inputs []string
	switch {
	case len(req.Images) > 0:
		inputs = req.Images
	case strings.TrimSpace(req.Image) != "":
		inputs = []string{req.Image}
	default:
		return nil, "", translationOptions{}, invalid("image or images is required")
	}

	mode, err := ocr.ParseResultMode(req.Options.ResultMode)
	if err != nil {
		return nil, "", translationOptions{}, &ValidationError{Message: err.Error()}
	}

	topts, err := p.translationOptions(req.Options, translate.MethodNone)
	if err != nil {
		return nil, "", translationOptions{}, err
	}

	images, err := ocr.ParseImages(inputs)
	if err != nil {
		return nil, "", translationOptions{}, invalid("%v", err)
	}

	if p.extractor == nil {
		return nil, "", translationOptions{}, &CredentialError{Provider: "OCR", Variable: p.cfg.ExtractorVariable}
	}
	if err := p.requireTranslator(topts.Method); err != nil {
		return nil, "", translationOptions{}, err
	}

	return images, mode, topts, nil
}

func (p *Pipeline) translationOptions(o Options, def translate.Method) (translationOptions, error) {
	method := def
	if strings.TrimSpace(o.Translate) != "" {
		m, err := translate.ParseMethod(o.Translate)
		if err != nil {
			return translationOptions{}, &ValidationError{Message: err.Error()}
		}
		method = m
	}

	source, err := language.Normalize(o.SourceLanguage)
	if err != nil {
		return translationOptions{}, invalid("unsupported sourceLanguage %q", o.SourceLanguage)
	}

	target := DefaultTargetLanguage
	if strings.TrimSpace(o.TargetLanguage) != "" {
		target, err = language.Normalize(o.TargetLanguage)
		if err != nil {
			return translationOptions{}, invalid("unsupported targetLanguage %q", o.TargetLanguage)
		}
		if target == language.Auto {
			return translationOptions{}, invalid("targetLanguage cannot be auto")
		}
	}

	preserve := true
	if o.PreserveFormatting != nil {
		preserve = *o.PreserveFormatting
	}

	return translationOptions{
		Method:             method,
		SourceLang:         source,
		TargetLang:         target,
		PreserveFormatting: preserve,
		CustomInstructions: strings.TrimSpace(o.CustomInstructions),
	}, nil
}

func (p *Pipeline) requireTranslator(m translate.Method) error {
	if m == translate.MethodNone || p.translator.Has(m) {
		return nil
	}
	return &CredentialError{Provider: string(m), Variable: translate.CredentialVariable(m)}
}

func (p *Pipeline) fail(ctx context.Context, r *run, rec *usage.Record, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		r.logger.Warn().Err(err).Msg("request rejected")
	} else {
		r.logger.Error().Err(err).Msg("request failed")
	}
	rec.Success = false
	rec.ErrorMessage = err.Error()
	rec.DurationMS = p.now().Sub(r.start).Milliseconds()
	p.record(ctx, r, rec)
}

// record never fails the request.
func (p *Pipeline) record(ctx context.Context, r *run, rec *usage.Record) {
	if p.recorder == nil {
		return
	}
	if err := p.recorder.Record(context.WithoutCancel(ctx), rec); err != nil {
		r.logger.Warn().Err(err).Msg("failed to record usage")
	}
}

func optionsJSON(o Options) datatypes.JSON {
	raw, err := json.Marshal(o)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}
