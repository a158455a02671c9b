package middleware

import (
	"log/slog"
	"net/http"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/api/shared"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/platform/logger"
)

// TraceIDHeader echoes the request's trace ID so clients can quote it.
const TraceIDHeader = "X-Trace-Id"

// TraceMiddleware adds a trace ID to the request context and a logger
// tagged with it. Apply it before any middleware that logs.
func TraceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			traceID := shared.GetTraceID(ctx)
			log := base.With(slog.String("trace_id", traceID))
			w.Header().Set(TraceIDHeader, traceID)

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			next.ServeHTTP(w, r.WithContext(logger.WithLogger(ctx, log)))
		})
	}
}
