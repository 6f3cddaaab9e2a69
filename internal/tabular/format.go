package tabular

import (
	"fmt"
	"strings"
)

// Format is an export file format.
type Format string

const (
	FormatCSV       Format = "csv"
	FormatJSON      Format = "json"
	FormatXLSX      Format = "xlsx"
	FormatPrintable Format = "pdf"
)

// Formats lists the supported export formats in menu order.
var Formats = []Format{FormatCSV, FormatJSON, FormatXLSX, FormatPrintable}

// ParseFormat maps a user supplied format name to a Format. It accepts a few
// common aliases ("excel", "xls", "print", "html") and defaults to CSV when s
// is empty.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "xlsx", "xls", "excel":
		return FormatXLSX, nil
	case "pdf", "print", "html":
		return FormatPrintable, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrUnknownExportFormat)
	}
}

// Extension returns the file extension used in download names. The printable
// document is HTML that the browser prints, so it is saved as .html.
func (f Format) Extension() string {
	if f == FormatPrintable {
		return "html"
	}
	return string(f)
}

// ContentType returns the MIME type sent with a download.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv;charset=utf-8;"
	case FormatJSON:
		return "application/json"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPrintable:
		return "text/html; charset=utf-8"
	}
	return "application/octet-stream"
}

// Scope selects which records an export covers.
type Scope string

const (
	ScopeAll     Scope = "all"
	ScopeCurrent Scope = "current"
)

// ParseScope accepts "all" and "current" ("filtered" and "" mean current).
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "current", "filtered":
		return ScopeCurrent, nil
	case "all":
		return ScopeAll, nil
	default:
		return "", fmt.Errorf("unknown export scope %q", s)
	}
}

// Filename returns "{prefix}-{scope}.{ext}".
func Filename(prefix string, scope Scope, f Format) string {
	return fmt.Sprintf("%s-%s.%s", prefix, scope, f.Extension())
}
