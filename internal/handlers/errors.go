package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"hireflow/ats-platform/internal/apperr"
	"hireflow/ats-platform/internal/services"
)

// StatusFor maps a service error to its HTTP status.
func StatusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case apperr.IsValidation(err), errors.Is(err, apperr.ErrLimitReached):
		return fiber.StatusBadRequest
	case errors.Is(err, apperr.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperr.ErrInvalidState), errors.Is(err, apperr.ErrDuplicate):
		return fiber.StatusConflict
	case errors.Is(err, apperr.ErrExpired):
		return fiber.StatusGone
	}

	var ae *services.AnalyzerError
	if errors.As(err, &ae) {
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

// NewErrorHandler renders every error returned by a handler as
// {"error", "code"}. Internal errors are logged and not echoed.
func NewErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	log = log.Named("http")
	return func(c *fiber.Ctx, err error) error {
		code := StatusFor(err)
		message := err.Error()

		if code >= fiber.StatusInternalServerError {
			log.Error("❌ Request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", code),
				zap.Error(err))
			if code == fiber.StatusInternalServerError {
				message = "Internal server error"
			}
		}

		return c.Status(code).JSON(fiber.Map{
			"error": message,
			"code":  code,
		})
	}
}
