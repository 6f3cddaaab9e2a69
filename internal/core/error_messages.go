package core

// error_messages.go maps technical errors to user-facing messages with a
// support code. Users quote the code; support staff look it up here and
// check the server log for the technical error.
//
// Codes by category:
//
//	FILE001 file too large          FILE002 unsupported format
//	FILE003 empty file              FILE004 no file provided
//	FILE005 unreadable workbook
//	IMP001  no valid rows           IMP002  import session not found
//	IMP003  invalid step transition IMP004  entity not importable
//	ENT001  unknown entity          ENT002  record not found
//	ENT003  duplicate key           ENT004  key change
//	ENT005  read-only entity
//	VAL001  invalid payload         VAL002  unknown export format
//	VAL003  invalid request
//	UPL001  too many imports        UPL002  request cancelled
//	UPL003  request timed out
//	DB001   connection refused      DB002   connection reset
//	DB003   database timeout
//	RATE001 rate limited
//	ERR000  anything else
//
// Sentinel errors are matched with errors.Is first. Driver and network
// errors have no sentinel, so their text is matched case-insensitively with
// strings.Contains; the first match wins.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/timetable/internal/tabular"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"`          // What happened (user-friendly)
	Action  string `json:"action,omitempty"` // What to do about it
	Code    string `json:"code"`             // Error code for support reference
}

type errorKind struct {
	target error
	msg    UserMessage
}

// errorKinds is checked in order; the first target found in the chain wins.
var errorKinds = []errorKind{
	{ErrFileTooLarge, UserMessage{
		Message: "File exceeds the maximum upload size",
		Action:  "Split the file into smaller files",
		Code:    "FILE001",
	}},
	{tabular.ErrUnsupportedFormat, UserMessage{
		Message: "Unsupported file format. Please upload a CSV or Excel (.xlsx/.xls) file.",
		Action:  "Save the file as .csv or .xlsx",
		Code:    "FILE002",
	}},
	{tabular.ErrEmptyFile, UserMessage{
		Message: "The file appears to be empty or has no data rows.",
		Action:  "Add a header row followed by at least one data row",
		Code:    "FILE003",
	}},
	{ErrNoFile, UserMessage{
		Message: "No file was selected",
		Action:  "Please select a CSV or Excel file to upload",
		Code:    "FILE004",
	}},
	{tabular.ErrUnreadableWorkbook, UserMessage{
		Message: "The spreadsheet could not be read",
		Action:  "Open the file in Excel, save it again as .xlsx or .xls and retry",
		Code:    "FILE005",
	}},
	{tabular.ErrNoValidRows, UserMessage{
		Message: "No valid rows could be parsed. Please check that your file headers match the expected format.",
		Action:  "Compare your headers with the example headers for this entity",
		Code:    "IMP001",
	}},
	{ErrSessionNotFound, UserMessage{
		Message: "Import session not found",
		Action:  "The import may have expired. Please upload the file again",
		Code:    "IMP002",
	}},
	{ErrInvalidTransition, UserMessage{
		Message: "This import step is not available right now",
		Action:  "Refresh the import status and continue from the current step",
		Code:    "IMP003",
	}},
	{ErrImportNotSupported, UserMessage{
		Message: "This entity cannot be imported",
		Action:  "Choose students, lecturers, courses, rooms or time slots",
		Code:    "IMP004",
	}},
	{ErrUnknownEntity, UserMessage{
		Message: "Unknown entity",
		Action:  "Verify the entity name is correct",
		Code:    "ENT001",
	}},
	{ErrRecordNotFound, UserMessage{
		Message: "Record not found",
		Action:  "The record may have been deleted. Refresh the list",
		Code:    "ENT002",
	}},
	{ErrDuplicateKey, UserMessage{
		Message: "A record with this key already exists",
		Action:  "Use a different key or edit the existing record",
		Code:    "ENT003",
	}},
	{ErrKeyChanged, UserMessage{
		Message: "The key of an existing record cannot be changed",
		Action:  "Delete the record and create a new one instead",
		Code:    "ENT004",
	}},
	{ErrReadOnlyEntity, UserMessage{
		Message: "This data is read-only",
		Action:  "Regenerate the timetable to change the schedule",
		Code:    "ENT005",
	}},
	{ErrInvalidPayload, UserMessage{
		Message: "Some fields are missing or invalid",
		Action:  "Check the required fields and try again",
		Code:    "VAL001",
	}},
	{tabular.ErrUnknownExportFormat, UserMessage{
		Message: "Unknown export format",
		Action:  "Choose CSV, JSON, Excel or PDF",
		Code:    "VAL002",
	}},
	{ErrInvalidRequest, UserMessage{
		Message: "The request contains an invalid parameter",
		Action:  "Check the query parameters and try again",
		Code:    "VAL003",
	}},
	{ErrTooManyImports, UserMessage{
		Message: "System is busy processing other imports",
		Action:  "Please wait a moment and try again",
		Code:    "UPL001",
	}},
	{context.Canceled, UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "UPL002",
	}},
	{context.DeadlineExceeded, UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller file or check your connection",
		Code:    "UPL003",
	}},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns covers errors that only carry text.
var errorPatterns = []errorPattern{
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB001",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB002",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again later",
			Code:    "DB003",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
//	msg := MapError(fmt.Errorf("rooms.csv: %w", tabular.ErrEmptyFile))
//	// msg.Code == "FILE003"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var ue *UserError
	if errors.As(err, &ue) {
		return ue.User
	}

	for _, k := range errorKinds {
		if errors.Is(err, k.target) {
			return k.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
