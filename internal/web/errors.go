package web

// errors.go provides unified error response handling for the web layer.
//
// Every error is logged with its technical details and request ID, then
// returned to the client as the user-facing message from core.MapError:
//
//	{"error": "...", "message": "...", "action": "...", "code": "FILE002"}
//
// The HTTP status is derived from the error itself.

import (
	"context"
	"errors"
	"net/http"

	"github.com/JonMunkholm/timetable/internal/core"
	"github.com/JonMunkholm/timetable/internal/logging"
	"github.com/JonMunkholm/timetable/internal/tabular"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

type statusRule struct {
	target error
	status int
}

// statusRules is checked in order; the first target in the chain wins.
var statusRules = []statusRule{
	{core.ErrUnknownEntity, http.StatusNotFound},
	{core.ErrRecordNotFound, http.StatusNotFound},
	{core.ErrSessionNotFound, http.StatusNotFound},
	{core.ErrDuplicateKey, http.StatusConflict},
	{core.ErrKeyChanged, http.StatusConflict},
	{core.ErrInvalidTransition, http.StatusConflict},
	{core.ErrReadOnlyEntity, http.StatusMethodNotAllowed},
	{core.ErrImportNotSupported, http.StatusMethodNotAllowed},
	{core.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
	{tabular.ErrUnsupportedFormat, http.StatusUnsupportedMediaType},
	{tabular.ErrEmptyFile, http.StatusUnprocessableEntity},
	{tabular.ErrUnreadableWorkbook, http.StatusUnprocessableEntity},
	{tabular.ErrNoValidRows, http.StatusUnprocessableEntity},
	{core.ErrNoFile, http.StatusBadRequest},
	{core.ErrInvalidPayload, http.StatusBadRequest},
	{core.ErrInvalidRequest, http.StatusBadRequest},
	{tabular.ErrUnknownExportFormat, http.StatusBadRequest},
	{core.ErrTooManyImports, http.StatusServiceUnavailable},
	{errRateLimited, http.StatusTooManyRequests},
	{context.DeadlineExceeded, http.StatusGatewayTimeout},
}

// statusFor returns the HTTP status for err. Unknown errors are 500.
func statusFor(err error) int {
	for _, rule := range statusRules {
		if errors.Is(err, rule.target) {
			return rule.status
		}
	}
	return http.StatusInternalServerError
}

// respondError logs err and writes the mapped user message.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	ue := core.NewUserError(err)
	status := statusFor(err)

	logRequestError(r, ue, status)

	writeJSON(w, r, status, ErrorResponse{
		Error:   ue.User.Message,
		Message: ue.User.Message,
		Action:  ue.User.Action,
		Code:    ue.User.Code,
	})
}

func logRequestError(r *http.Request, ue *core.UserError, status int) {
	logger := logging.FromContext(r.Context())
	args := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", ue.Technical.Error(),
		"code", ue.User.Code,
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request error", args...)
		return
	}
	logger.Warn("request error", args...)
}
