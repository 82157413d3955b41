package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// Handlers groups every route handler of the API.
type Handlers struct {
	OCR       *OCRHandler
	Translate *TranslateHandler
	Language  *LanguageHandler
	Usage     *UsageHandler
	Health    *HealthHandler
}

// Register mounts the API routes on app.
func (h *Handlers) Register(app *fiber.App) {
	app.Get("/health", h.Health.GetHealth)

	api := app.Group("/api")
	api.Post("/ocr", h.OCR.ExtractText)
	api.Post("/translate", h.Translate.Translate)
	api.Get("/languages", h.Language.ListLanguages)
	api.Get("/usage", h.Usage.ListUsage)
	api.Get("/usage/stats", h.Usage.GetStats)
}
