// Package app wires configuration into a ready pipeline. The HTTP server and
// the CLI share it.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/cache"
	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/content"
	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/ocr"
	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/pacer"
	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/pipeline"
	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/translate"
	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/usage"
	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/shared/config"
	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/shared/database"
	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/shared/httpclient"
	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/shared/utils"
	"github.com/rs/zerolog/log"
)

type App struct {
	Config     *config.Config
	Pipeline   *pipeline.Pipeline
	Translator *translate.Service
	Usage      *usage.Service // nil without a usage store
	Scheduler  *usage.Scheduler
	Cache      cache.Client // nil when caching is off

	db      *database.DB
	closers []io.Closer
}

// New builds every component named by cfg. A missing OCR credential is not
// fatal: OCR requests then fail with a configuration error.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}
	client := httpclient.New(httpclient.Config{Timeout: cfg.HTTP.Timeout, MaxRetries: cfg.HTTP.MaxRetries})
	fetch := fetchClient(cfg.HTTP)

	extractor, extractorVar, err := a.newExtractor(ctx, cfg, client, fetch)
	if err != nil {
		return nil, err
	}

	store, err := newCache(ctx, cfg.Cache)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Cache = store

	a.Translator = translate.NewService(translate.NewStrategies(translationConfig(cfg, client, store)))
	if methods := a.Translator.Methods(); len(methods) > 0 {
		utils.LogInfo("🌐 Translation methods ready", map[string]interface{}{"methods": methods})
	} else {
		utils.LogWarn("⚠️ No translation backend configured", nil)
	}

	var recorder pipeline.Recorder
	if cfg.Usage.Driver != "" && cfg.Usage.Driver != "none" {
		if err := a.openUsage(cfg.Usage, cfg.LogLevel == "debug"); err != nil {
			a.Close()
			return nil, err
		}
		recorder = a.Usage
	}

	var contentExtractor content.Extractor
	if chain := contentChain(cfg.Content, client, fetch); len(chain) > 0 {
		contentExtractor = chain
	}

	a.Pipeline = pipeline.New(pipeline.Config{
		DefaultTextMethod: translate.Method(cfg.Translation.DefaultTextMethod),
		ExtractorVariable: extractorVar,
	}, extractor, a.Translator, contentExtractor, recorder)

	return a, nil
}

func (a *App) newExtractor(ctx context.Context, cfg *config.Config, client, fetch *http.Client) (pipeline.Extractor, string, error) {
	pt := ocr.ProviderType(cfg.OCR.Provider)
	provider, err := ocr.NewProvider(ctx, &ocr.ProviderConfig{
		Type:                     pt,
		OpenAIKey:                cfg.OCR.OpenAIKey,
		GoogleVisionKey:          cfg.OCR.GoogleVisionKey,
		GoogleServiceAccountJSON: cfg.OCR.GoogleServiceAccountJSON,
		OCRSpaceKey:              cfg.OCR.OCRSpaceKey,
		OCRSpaceLanguage:         cfg.OCR.OCRSpaceLanguage,
		GeminiKey:                cfg.OCR.GeminiKey,
		TesseractLanguage:        cfg.OCR.TesseractLanguage,
		Options: ocr.ClientOptions{
			BaseURL:     cfg.OCR.BaseURL,
			HTTPClient:  client,
			FetchClient: fetch,
			Model:       ocrModel(cfg.OCR),
		},
	})

	var missing *ocr.MissingCredentialError
	if errors.As(err, &missing) {
		log.Warn().Str("provider", missing.Provider).Msgf("⚠️ %s not set, OCR disabled", missing.Variable)
		return nil, missing.Variable, nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("create OCR provider: %w", err)
	}

	if c, ok := provider.(io.Closer); ok {
		a.closers = append(a.closers, c)
	}
	utils.LogInfo("🔍 OCR provider ready", map[string]interface{}{
		"provider": provider.GetProviderName(),
		"key":      utils.MaskSecret(ocrKey(cfg.OCR)),
	})
	return ocr.NewService(provider, pacer.New(ocr.DefaultDelay(pt))), "", nil
}

func ocrKey(c config.OCRConfig) string {
	switch ocr.ProviderType(c.Provider) {
	case ocr.ProviderOpenAI:
		return c.OpenAIKey
	case ocr.ProviderGoogleVision:
		return c.GoogleVisionKey
	case ocr.ProviderOCRSpace:
		return c.OCRSpaceKey
	case ocr.ProviderGemini:
		return c.GeminiKey
	}
	return ""
}

func ocrModel(c config.OCRConfig) string {
	if ocr.ProviderType(c.Provider) == ocr.ProviderGemini {
		return c.GeminiModel
	}
	return c.OpenAIModel
}

func newCache(ctx context.Context, c config.CacheConfig) (cache.Client, error) {
	switch c.Backend {
	case "redis":
		rc, err := cache.NewRedisClient(ctx, cache.RedisConfig{URL: c.RedisURL})
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		utils.LogInfo("🧠 Translation cache: redis", map[string]interface{}{"url": utils.MaskSecret(c.RedisURL)})
		return rc, nil
	case "memory":
		log.Info().Int("max_entries", c.MaxEntries).Msg("🧠 Translation cache: memory")
		return cache.NewMemoryClient(c.MaxEntries), nil
	default:
		return nil, nil
	}
}

func translationConfig(cfg *config.Config, client *http.Client, store cache.Client) *translate.ProviderConfig {
	t := cfg.Translation
	pc := &translate.ProviderConfig{
		GoogleKey:   t.GoogleKey,
		EnableFree:  t.EnableFree,
		OpenAIKey:   t.OpenAIKey,
		ClaudeKey:   t.AnthropicKey,
		OpenAIModel: t.OpenAIModel,
		ClaudeModel: t.ClaudeModel,
		BaseURLs:    make(map[translate.Method]string, len(t.BaseURLs)),
		HTTPClient:  client,
	}
	for k, v := range t.BaseURLs {
		pc.BaseURLs[translate.Method(k)] = v
	}
	if store != nil {
		ttl := cfg.Cache.TTL
		pc.Decorate = func(next translate.Translator) translate.Translator {
			return translate.NewCached(next, store, ttl)
		}
	}
	return pc
}

// fetchClient downloads URLs that come from request bodies.
func fetchClient(c config.HTTPConfig) *http.Client {
	if c.AllowPrivateFetch {
		log.Warn().Msg("⚠️ HTTP_ALLOW_PRIVATE_FETCH is on, page and image downloads may reach internal addresses")
	}
	return httpclient.New(httpclient.Config{
		Timeout:    c.Timeout,
		MaxRetries: c.MaxRetries,
		PublicOnly: !c.AllowPrivateFetch,
	})
}

// contentChain talks to the operator-configured reader service with client;
// the direct page fetch uses fetch.
func contentChain(c config.ContentConfig, client, fetch *http.Client) content.Chain {
	var chain content.Chain
	if c.JinaBaseURL != "" {
		chain = append(chain, content.NewJinaExtractor(c.JinaBaseURL, c.JinaAPIKey, client))
	}
	if c.HTMLFallback {
		chain = append(chain, content.NewHTMLExtractor(fetch))
	}
	return chain
}

func (a *App) openUsage(c config.UsageConfig, debug bool) error {
	db, err := database.NewDB(c.Driver, c.DatabaseURL, debug)
	if err != nil {
		return fmt.Errorf("open usage store: %w", err)
	}
	a.db = db

	if c.AutoMigrate {
		if err := db.GORM.AutoMigrate(&usage.Record{}); err != nil {
			return fmt.Errorf("migrate usage store: %w", err)
		}
		log.Info().Msg("✅ Usage schema migrated")
	}

	a.Usage = usage.NewService(usage.NewRepo(db.GORM))
	return nil
}

// StartScheduler runs the retention job in the background. It is a no-op
// without a usage store.
func (a *App) StartScheduler() error {
	if a.Usage == nil {
		return nil
	}
	a.Scheduler = usage.NewScheduler()
	if err := a.Scheduler.ScheduleRetention(a.Usage, a.Config.Usage.RetentionSchedule, a.Config.Usage.RetentionDays); err != nil {
		return err
	}
	a.Scheduler.Start()
	return nil
}

// CacheBackend names the active translation cache.
func (a *App) CacheBackend() string {
	if a.Cache == nil {
		return "none"
	}
	return a.Config.Cache.Backend
}

// Close releases the database, the cache and the scheduler.
func (a *App) Close() {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	for _, c := range a.closers {
		_ = c.Close()
	}
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			log.Warn().Err(err).Msg("⚠️ cache close failed")
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Warn().Err(err).Msg("⚠️ database close failed")
		}
	}
}
