package handlers

import (
	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/translate"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	ocrProvider  string
	translator   *translate.Service
	usageEnabled bool
	cacheBackend string
}

func NewHealthHandler(ocrProvider string, translator *translate.Service, usageEnabled bool, cacheBackend string) *HealthHandler {
	return &HealthHandler{
		ocrProvider:  ocrProvider,
		translator:   translator,
		usageEnabled: usageEnabled,
		cacheBackend: cacheBackend,
	}
}

// GetHealth godoc
// @Summary Service health check
// @Description Check if API is alive and which providers are configured
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) GetHealth(c *fiber.Ctx) error {
	methods := []string{}
	for _, m := range h.translator.Methods() {
		methods = append(methods, string(m))
	}

	return c.JSON(fiber.Map{
		"status":             "healthy",
		"service":            "screenshot-translator",
		"ocrProvider":        h.ocrProvider,
		"translationMethods": methods,
		"usageStore":         h.usageEnabled,
		"cache":              h.cacheBackend,
	})
}
