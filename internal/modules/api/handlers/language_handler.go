package handlers

import (
	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/language"
	"github.com/gofiber/fiber/v2"
)

type LanguageHandler struct{}

func NewLanguageHandler() *LanguageHandler {
	return &LanguageHandler{}
}

// ListLanguages godoc
// @Summary List supported languages
// @Description Returns the language catalogue, optionally filtered by a search term or to popular entries
// @Tags Languages
// @Produce json
// @Param q query string false "Search by code, native or English name"
// @Param popular query bool false "Only popular languages"
// @Success 200 {object} map[string]interface{}
// @Router /api/languages [get]
func (h *LanguageHandler) ListLanguages(c *fiber.Ctx) error {
	var langs []language.Language
	switch {
	case c.QueryBool("popular"):
		langs = language.Popular()
	case c.Query("q") != "":
		langs = language.Search(c.Query("q"))
	default:
		langs = language.All
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    langs,
	})
}
