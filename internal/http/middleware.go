package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/availability-tracker/internal/application"
)

// PrincipalFromHeaders builds the acting principal from the identity headers
// set by the chat gateway. Identity is asserted upstream, not verified here;
// requests without X-User-ID proceed as an anonymous principal and fail
// authorization on any mutating operation.
func PrincipalFromHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := application.Principal{
			UserID:  strings.TrimSpace(r.Header.Get("X-User-ID")),
			IsAdmin: strings.EqualFold(strings.TrimSpace(r.Header.Get("X-User-Admin")), "true"),
		}

		ctx := ContextWithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestLogger attaches a request-scoped logger carrying a generated
// request id, and logs request start and completion.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := base.With(
				"request_id", uuid.NewString(),
				"method", r.Method,
				"path", r.URL.Path,
			)

			ctx := ContextWithLogger(r.Context(), logger)
			start := time.Now()
			logger.InfoContext(ctx, "request started")
			next.ServeHTTP(w, r.WithContext(ctx))
			logger.InfoContext(ctx, "request completed", "duration", time.Since(start))
		})
	}
}
