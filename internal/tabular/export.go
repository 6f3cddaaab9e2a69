package tabular

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Column is one exported column: Key is passed to FieldAccess.Field and Label
// is the header text.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// FieldAccess exposes record fields by key. Field returns nil for keys the
// record does not have.
type FieldAccess interface {
	Field(key string) any
}

// Fields adapts a plain map to FieldAccess.
type Fields map[string]any

func (f Fields) Field(key string) any { return f[key] }

// Document carries the presentation details of an export.
type Document struct {
	Title    string
	Subtitle string
	Sheet    string
}

// DefaultSheet is the worksheet name used when Document.Sheet is empty.
const DefaultSheet = "Sheet1"

// Export writes records in format f.
func Export[T FieldAccess](ctx context.Context, w io.Writer, f Format, cols []Column, records []T, doc Document) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, cols, records)
	case FormatJSON:
		return WriteJSON(w, cols, records)
	case FormatXLSX:
		return WriteXLSX(w, cols, records, doc.Sheet)
	case FormatPrintable:
		return WritePrintable(ctx, w, cols, records, doc.Title, doc.Subtitle)
	default:
		return fmt.Errorf("%q: %w", f, ErrUnknownExportFormat)
	}
}

// cellText renders a field value. nil is the empty string.
func cellText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

func cellValue(v any) any {
	if v == nil {
		return ""
	}
	return v
}

// WriteCSV writes a header line of labels followed by one line per record.
// A value is quoted, with inner quotes doubled, only when it contains a comma
// or a double quote. Lines are joined by "\n" with no trailing newline.
func WriteCSV[T FieldAccess](w io.Writer, cols []Column, records []T) error {
	var b strings.Builder
	for i, c := range cols {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(csvEscape(c.Label))
	}
	for _, rec := range records {
		b.WriteByte('\n')
		for i, c := range cols {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(csvEscape(cellText(rec.Field(c.Key))))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func csvEscape(s string) string {
	if !strings.ContainsAny(s, `,"`) {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// WriteJSON writes an array of objects keyed by column label, keys in column
// order, indented by two spaces.
func WriteJSON[T FieldAccess](w io.Writer, cols []Column, records []T) error {
	var raw bytes.Buffer
	raw.WriteByte('[')
	for i, rec := range records {
		if i > 0 {
			raw.WriteByte(',')
		}
		raw.WriteByte('{')
		for j, c := range cols {
			if j > 0 {
				raw.WriteByte(',')
			}
			if err := writeJSONValue(&raw, c.Label); err != nil {
				return err
			}
			raw.WriteByte(':')
			if err := writeJSONValue(&raw, cellValue(rec.Field(c.Key))); err != nil {
				return err
			}
		}
		raw.WriteByte('}')
	}
	raw.WriteByte(']')

	var out bytes.Buffer
	if err := json.Indent(&out, raw.Bytes(), "", "  "); err != nil {
		return fmt.Errorf("indent json: %w", err)
	}
	_, err := out.WriteTo(w)
	return err
}

func writeJSONValue(buf *bytes.Buffer, v any) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %T: %w", v, err)
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}

// WriteXLSX writes a single-sheet workbook whose first row holds the labels.
// Numeric fields stay numeric cells.
func WriteXLSX[T FieldAccess](w io.Writer, cols []Column, records []T, sheet string) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = DefaultSheet
	}
	if sheet != DefaultSheet {
		if err := f.SetSheetName(DefaultSheet, sheet); err != nil {
			return fmt.Errorf("name sheet: %w", err)
		}
	}

	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c.Label
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if len(cols) > 0 {
		style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return fmt.Errorf("header style: %w", err)
		}
		last, _ := excelize.CoordinatesToCellName(len(cols), 1)
		if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
			return fmt.Errorf("apply header style: %w", err)
		}
	}

	for i, rec := range records {
		row := make([]any, len(cols))
		for j, c := range cols {
			row[j] = cellValue(rec.Field(c.Key))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
