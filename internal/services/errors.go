package services

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/apperr"
)

// internalError logs an unexpected failure with its operation and owner and
// hides it behind a ServiceError carrying detail.
func internalError(operation string, userID uint, detail string, err error) error {
	attrs := []any{"operation", operation, "error", err}
	if userID != 0 {
		attrs = append(attrs, "user_id", userID)
	}
	slog.Error("service operation failed", attrs...)
	return apperr.Wrap(apperr.KindServiceError, detail, err)
}
