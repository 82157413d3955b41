package handlers

import (
	"time"

	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/usage"
	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/shared/utils"
	"github.com/gofiber/fiber/v2"
)

// UsageHandler exposes the usage log. svc may be nil when no store is configured.
type UsageHandler struct {
	svc *usage.Service
}

func NewUsageHandler(svc *usage.Service) *UsageHandler {
	return &UsageHandler{svc: svc}
}

func (h *UsageHandler) disabled(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Success: false, Error: "usage store is not configured", Code: "not_found"})
}

// ListUsage godoc
// @Summary List usage records
// @Description Returns processed requests, newest first
// @Tags Usage
// @Produce json
// @Param kind query string false "ocr or translate"
// @Param provider query string false "OCR provider or translation method"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(50)
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /api/usage [get]
func (h *UsageHandler) ListUsage(c *fiber.Ctx) error {
	if h.svc == nil {
		return h.disabled(c)
	}

	filter := usage.Filter{
		Kind:     usage.Kind(c.Query("kind")),
		Provider: c.Query("provider"),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("pageSize", 50),
	}

	records, total, err := h.svc.List(c.UserContext(), filter)
	if err != nil {
		utils.LogError("❌ Failed to list usage", err, map[string]interface{}{"kind": filter.Kind, "page": filter.Page})
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Success: false, Error: "failed to fetch usage records"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"records":  records,
			"total":    total,
			"page":     filter.Page,
			"pageSize": filter.PageSize,
		},
	})
}

// GetStats godoc
// @Summary Usage statistics
// @Description Aggregates usage over the last N days (0 for all time)
// @Tags Usage
// @Produce json
// @Param days query int false "Window in days" default(7)
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /api/usage/stats [get]
func (h *UsageHandler) GetStats(c *fiber.Ctx) error {
	if h.svc == nil {
		return h.disabled(c)
	}

	days := c.QueryInt("days", 7)
	stats, err := h.svc.Stats(c.UserContext(), time.Duration(days)*24*time.Hour)
	if err != nil {
		utils.LogError("❌ Failed to compute usage stats", err, map[string]interface{}{"days": days})
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Success: false, Error: "failed to compute usage stats"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}
