package middleware

import (
	"net/http"
	"time"

	chiMid "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/alarke567/alarkey567/internal/observability"
)

// RequestLogger attaches a request-scoped zap logger to the context and emits
// one structured entry per request.
func RequestLogger(base *zap.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rid := chiMid.GetReqID(r.Context())
			logger := base
			if rid != "" {
				logger = base.With(zap.String("request_id", rid))
			}
			ctx := observability.WithLogger(r.Context(), logger)

			rw := chiMid.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(rw, r.WithContext(ctx))

			status := rw.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			level := zapcore.InfoLevel
			switch {
			case status >= 500:
				level = zapcore.ErrorLevel
			case status >= 400:
				level = zapcore.WarnLevel
			}
			if ce := logger.Check(level, "request"); ce != nil {
				lang, _ := LangFromContext(r.Context())
				ce.Write(
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("route", route),
					zap.Int("status", status),
					zap.Duration("latency", time.Since(start)),
					zap.Int("bytes", rw.BytesWritten()),
					zap.String("remote_ip", r.RemoteAddr),
					zap.String("lang", lang),
					zap.Bool("htmx", r.Header.Get("HX-Request") == "true"),
				)
			}
		})
	}
}
