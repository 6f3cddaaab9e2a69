package web

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/JonMunkholm/timetable/internal/core"
)

var errRateLimited = errors.New("rate limit exceeded")

// clientIP returns the host part of RemoteAddr.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// withRequestMetadata adds the client IP to ctx for import session logging.
func withRequestMetadata(r *http.Request) context.Context {
	return core.ContextWithClientIP(r.Context(), clientIP(r))
}
