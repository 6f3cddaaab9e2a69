package tabular

import (
	"fmt"
	"io"
	"strings"
)

// Source identifies the parser used for an uploaded file.
type Source string

const (
	SourceCSV      Source = "csv"
	SourceWorkbook Source = "workbook"
)

// DetectSource picks a parser from the file name. Matching is case-insensitive
// on the final extension. Workbook content is sniffed later, so a legacy
// BIFF file saved as .xlsx (or the reverse) still parses.
func DetectSource(filename string) (Source, error) {
	name := strings.ToLower(strings.TrimSpace(filename))
	switch {
	case strings.HasSuffix(name, ".csv"):
		return SourceCSV, nil
	case strings.HasSuffix(name, ".xlsx"), strings.HasSuffix(name, ".xls"):
		return SourceWorkbook, nil
	default:
		return "", fmt.Errorf("%q: %w", filename, ErrUnsupportedFormat)
	}
}

// ParseFile detects the format of filename and parses r. It fails with
// ErrEmptyFile when the file has no data rows.
func ParseFile(filename string, r io.Reader) (Table, error) {
	src, err := DetectSource(filename)
	if err != nil {
		return Table{}, err
	}

	var table Table
	switch src {
	case SourceCSV:
		text, err := DecodeText(r)
		if err != nil {
			return Table{}, err
		}
		table = ParseCSV(text)
	case SourceWorkbook:
		table, err = ParseWorkbook(r)
		if err != nil {
			return Table{}, fmt.Errorf("%q: %w", filename, err)
		}
	}

	if len(table.Rows) == 0 {
		return table, fmt.Errorf("%q: %w", filename, ErrEmptyFile)
	}
	return table, nil
}
