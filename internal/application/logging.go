package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/example/availability-tracker/internal/availability"
	"github.com/example/availability-tracker/internal/logging"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

func serviceLogger(ctx context.Context, base *slog.Logger, serviceName, operation string, attrs ...any) *slog.Logger {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = base
	}
	if logger == nil {
		logger = slog.Default()
	}

	pairs := []any{"service", serviceName}
	if operation != "" {
		pairs = append(pairs, "operation", operation)
	}
	if len(attrs) > 0 {
		pairs = append(pairs, attrs...)
	}
	return logger.With(pairs...)
}

// ErrorKind maps sentinel and validation errors to a stable logging label.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrMissingTimezone):
		return "missing_timezone"
	case errors.Is(err, availability.ErrUnknownZone):
		return "unknown_zone"
	case errors.Is(err, availability.ErrInvalidStatus):
		return "invalid_status"
	case errors.Is(err, availability.ErrInvalidTimeFormat):
		return "invalid_time"
	case errors.Is(err, availability.ErrInvalidDay):
		return "invalid_day"
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return "validation"
	}

	return "unexpected"
}
