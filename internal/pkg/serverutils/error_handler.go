package serverutils

import (
	"errors"

	"askq-be/internal/pkg/apperror"
	"askq-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler is the single place where returned errors become JSON bodies.
func ErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		var (
			validation *apperror.ValidationError
			quota      *apperror.QuotaExceededError
			upstream   *apperror.UpstreamError
			fiberErr   *fiber.Error
		)

		switch {
		case errors.As(err, &validation):
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validation.Message})
		case errors.Is(err, apperror.ErrInvalidOrExpiredCode):
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid or expired code"})
		case errors.Is(err, apperror.ErrUnauthenticated):
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		case errors.Is(err, apperror.ErrNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
		case errors.As(err, &quota):
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "limit_reached",
				"count": quota.Count,
			})
		case errors.As(err, &upstream):
			log.Error("HTTP", "Upstream completion failed", map[string]interface{}{
				"path":  ctx.Path(),
				"error": upstream.Err.Error(),
			})
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to get response"})
		case errors.As(err, &fiberErr):
			if fiberErr.Code >= fiber.StatusInternalServerError {
				log.Error("HTTP", fiberErr.Message, map[string]interface{}{"path": ctx.Path()})
			}
			return ctx.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
		}

		log.Error("HTTP", "Unhandled error", map[string]interface{}{
			"method": ctx.Method(),
			"path":   ctx.Path(),
			"error":  err.Error(),
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}
