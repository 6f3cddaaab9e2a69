package tabular

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.960 generate -f printable.templ

// Printable returns a standalone HTML document with a landscape page setup,
// the title and subtitle, and a table of the records. Opening it in a browser
// starts printing, which is how users produce a PDF.
func Printable[T FieldAccess](title, subtitle string, cols []Column, records []T) templ.Component {
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.Label
	}
	rows := make([][]string, len(records))
	for i, rec := range records {
		row := make([]string, len(cols))
		for j, c := range cols {
			row[j] = cellText(rec.Field(c.Key))
		}
		rows[i] = row
	}
	return printableDocument(title, subtitle, headers, rows)
}

// WritePrintable renders Printable into w.
func WritePrintable[T FieldAccess](ctx context.Context, w io.Writer, cols []Column, records []T, title, subtitle string) error {
	return Printable(title, subtitle, cols, records).Render(ctx, w)
}
