package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/JonMunkholm/timetable/internal/config"
	"github.com/JonMunkholm/timetable/internal/logging"
)

// Authentication failures use the same body shape as other API errors.
type authError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

var (
	errMissingKey = authError{
		Error:   "missing API key",
		Message: "This API requires an API key",
		Action:  "Send the key in the X-API-Key header",
		Code:    "AUTH001",
	}
	errInvalidKey = authError{
		Error:   "invalid API key",
		Message: "The API key is not valid",
		Action:  "Check the key with your administrator",
		Code:    "AUTH002",
	}
)

// APIKeyAuth returns middleware that validates the X-API-Key header against
// the configured keys. If RequireAPIKey is false, all requests pass through.
// If RequireAPIKey is true but no keys are configured, all requests are rejected.
func APIKeyAuth(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.RequireAPIKey {
				next.ServeHTTP(w, r)
				return
			}

			log := logging.WithFields(r.Context(),
				"path", r.URL.Path,
				"method", r.Method,
				"remote_addr", r.RemoteAddr,
			)

			apiKey := r.Header.Get("X-API-Key")
			if apiKey == "" {
				log.Warn("auth: missing API key")
				writeAuthError(w, http.StatusUnauthorized, errMissingKey)
				return
			}
			if !isValidAPIKey(apiKey, cfg.APIKeys) {
				log.Warn("auth: invalid API key")
				writeAuthError(w, http.StatusForbidden, errInvalidKey)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, body authError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// isValidAPIKey checks key against every configured key in constant time,
// so the comparison time does not depend on which key matches.
func isValidAPIKey(key string, validKeys []string) bool {
	valid := 0
	for _, validKey := range validKeys {
		valid |= subtle.ConstantTimeCompare([]byte(key), []byte(validKey))
	}
	return valid == 1
}
