package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/MuhamadAgungGumelar/screenshot-translator/cmd/api/docs"
	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/app"
	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/modules/api/handlers"
	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/shared/config"
	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/shared/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/ridge/must/v2"
	"github.com/rs/zerolog/log"
)

// @title Screenshot Translator API
// @version 1.0
// @description OCR for screenshots and translation of text and web pages across several providers.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg := must.OK1(config.LoadConfig())
	utils.InitLogger(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()
	a := must.OK1(app.New(ctx, cfg))
	defer a.Close()

	if err := a.StartScheduler(); err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to start scheduler")
	}

	h := &handlers.Handlers{
		OCR:       handlers.NewOCRHandler(a.Pipeline),
		Translate: handlers.NewTranslateHandler(a.Pipeline),
		Language:  handlers.NewLanguageHandler(),
		Usage:     handlers.NewUsageHandler(a.Usage),
		Health:    handlers.NewHealthHandler(a.Pipeline.OCRProvider(), a.Translator, a.Usage != nil, a.CacheBackend()),
	}

	fiberApp := fiber.New(fiber.Config{
		AppName:   "Screenshot Translator API",
		BodyLimit: cfg.BodyLimitMB * 1024 * 1024,
		// long documents are translated chunk by chunk with pauses between calls
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 10 * time.Minute,
	})

	fiberApp.Use(recover.New())
	fiberApp.Use(requestid.New())
	fiberApp.Use(cors.New())

	fiberApp.Get("/swagger/*", swagger.HandlerDefault)
	h.Register(fiberApp)

	if cfg.StaticDir != "" {
		fiberApp.Static("/", cfg.StaticDir)
		log.Info().Str("dir", cfg.StaticDir).Msg("📂 Serving static files")
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info().Msg("🛑 Shutting down...")
		if err := fiberApp.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("❌ Shutdown failed")
		}
	}()

	log.Info().Msgf("🚀 API running at :%s", cfg.Port)
	log.Info().Msgf("📖 Swagger docs: http://localhost:%s/swagger/index.html", cfg.Port)
	if err := fiberApp.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("❌ Server stopped")
	}
}
