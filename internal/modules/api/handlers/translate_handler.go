package handlers

import (
	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/pipeline"
	"github.com/gofiber/fiber/v2"
)

// TranslateHandler handles URL and content translation
type TranslateHandler struct {
	pipeline *pipeline.Pipeline
}

// NewTranslateHandler creates a new translate handler
func NewTranslateHandler(p *pipeline.Pipeline) *TranslateHandler {
	return &TranslateHandler{pipeline: p}
}

// TranslateResponse is the success envelope of POST /api/translate.
type TranslateResponse struct {
	Success bool                        `json:"success" example:"true"`
	Data    *pipeline.TranslateResponse `json:"data"`
}

// Translate godoc
// @Summary Translate a web page or raw text
// @Description Extracts the main content of url (or takes content as is) and translates it. Translation failures fall back to the original text.
// @Tags Translate
// @Accept json
// @Produce json
// @Param request body TranslateRequest true "URL or content, and options"
// @Success 200 {object} TranslateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/translate [post]
func (h *TranslateHandler) Translate(c *fiber.Ctx) error {
	var req TranslateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	preq := req.toPipeline()
	preq.RequestID = requestID(c)

	resp, err := h.pipeline.RunTranslate(c.UserContext(), preq)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(TranslateResponse{Success: true, Data: resp})
}
