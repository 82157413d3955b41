package handlers

import (
	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/pipeline"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// OCRHandler handles OCR-related requests
type OCRHandler struct {
	pipeline *pipeline.Pipeline
}

// NewOCRHandler creates a new OCR handler
func NewOCRHandler(p *pipeline.Pipeline) *OCRHandler {
	return &OCRHandler{pipeline: p}
}

// OCRResponse is the success envelope of POST /api/ocr.
type OCRResponse struct {
	Success bool                  `json:"success" example:"true"`
	Data    *pipeline.OCRResponse `json:"data"`
}

// ExtractText godoc
// @Summary Extract text from screenshots
// @Description Runs OCR over one image or several, optionally translating the result. A failed image in a batch becomes a placeholder segment; a failed translation returns the original text with translatedText null.
// @Tags OCR
// @Accept json
// @Produce json
// @Param request body OCRRequest true "Images and options"
// @Success 200 {object} OCRResponse
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/ocr [post]
func (h *OCRHandler) ExtractText(c *fiber.Ctx) error {
	var req OCRRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	log.Debug().Int("images", len(req.Images)).Bool("single", req.Image != "").Msg("📸 OCR request received")

	preq := req.toPipeline()
	preq.RequestID = requestID(c)

	resp, err := h.pipeline.RunOCR(c.UserContext(), preq)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(OCRResponse{Success: true, Data: resp})
}
