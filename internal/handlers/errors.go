package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/dto"
	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// ErrorHandler renders every error as {"detail": "..."}. Server errors are
// logged and reported to Sentry; their text never reaches the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := apperr.StatusOf(err)
	detail := apperr.DetailOf(err)

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		detail = fe.Message
	}

	if code >= fiber.StatusInternalServerError {
		slog.Error("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", requestID(c),
			"status", code,
			"error", err.Error(),
		)
		hub := sentryfiber.GetHubFromContext(c)
		if hub == nil {
			hub = sentry.CurrentHub()
		}
		hub.CaptureException(err)

		if fe != nil {
			detail = "Internal server error"
		}
	}

	return c.Status(code).JSON(dto.DetailResponse{Detail: detail})
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(requestid.ConfigDefault.ContextKey).(string); ok {
		return id
	}
	return ""
}

func badRequest(detail string) error {
	return apperr.InvalidInput(detail)
}
