package handlers

import (
	"context"
	"errors"

	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/pipeline"
	"github.com/MuhamadAgungGumelar/screenshot-translator/internal/core/provider"
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the envelope of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"image or images is required"`
	Code    string `json:"code,omitempty" example:"validation"`
}

// statusFor maps a pipeline error to an HTTP status and a short code.
func statusFor(err error) (int, string) {
	var (
		verr *pipeline.ValidationError
		cerr *pipeline.CredentialError
		xerr *pipeline.ContentError
		eerr *pipeline.ExtractionError
	)

	switch {
	case errors.As(err, &verr):
		return fiber.StatusBadRequest, "validation"
	case errors.As(err, &cerr):
		return fiber.StatusInternalServerError, "configuration"
	case errors.As(err, &xerr):
		return fiber.StatusBadGateway, "content_extraction"
	case errors.As(err, &eerr):
		switch provider.CodeOf(err) {
		case provider.CodeInvalidInput:
			return fiber.StatusBadRequest, string(provider.CodeInvalidInput)
		case provider.CodeQuota:
			return fiber.StatusTooManyRequests, string(provider.CodeQuota)
		}
		return fiber.StatusBadGateway, "extraction"
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout, "timeout"
	case errors.Is(err, context.Canceled):
		return fiber.StatusRequestTimeout, "cancelled"
	}
	return fiber.StatusInternalServerError, "internal"
}

func writeError(c *fiber.Ctx, err error) error {
	status, code := statusFor(err)
	return c.Status(status).JSON(ErrorResponse{Success: false, Error: err.Error(), Code: code})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Success: false, Error: msg, Code: "validation"})
}
