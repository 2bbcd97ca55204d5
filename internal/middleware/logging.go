// Package middleware carries the HTTP cross-cutting concerns: request
// logging and per-IP rate limiting.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Logger logs one line per request via slog. The client IP is included
// because record mutations are attributed to caller-supplied roles, so
// the request log is the only place the caller's address is kept.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		attrs := []any{
			"request_id", chimw.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"remote", clientIP(r),
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start).Round(time.Millisecond).String(),
		}
		if ww.Status() >= http.StatusInternalServerError {
			slog.Error("request failed", attrs...)
			return
		}
		slog.Info("request", attrs...)
	})
}
