// Package middleware provides HTTP middleware for the web server.
package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/timetable/internal/logging"
)

// Logger logs one line per request with the request ID attached.
//
// Log fields:
//   - method, path
//   - status: response status code
//   - bytes: response body size
//   - duration_ms: request processing time
//   - ip: client IP (RemoteAddr after TrustedRealIP)
//   - user_agent
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		logging.FromContext(r.Context()).Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)
	})
}
