package tabular

// row.go defines the parsed form of an uploaded file.
//
// A RawRow keeps the header names in file order next to the cell values so
// that Resolve scans headers deterministically. When a file repeats a header,
// the header is listed once (at its first position) and the value of its last
// occurrence is kept.

import "strings"

// RawRow is one data row of a parsed file keyed by header name.
// Every header of the file is present; missing cells are "".
type RawRow struct {
	headers []string
	values  map[string]string
}

// NewRawRow builds a row from a header line and the cells of one data line.
// Headers and cells are trimmed. Cells beyond the header count are ignored and
// missing cells become "".
func NewRawRow(headers, cells []string) RawRow {
	return newRowLayout(headers).row(cells)
}

// Headers returns the distinct header names in file order.
func (r RawRow) Headers() []string {
	out := make([]string, len(r.headers))
	copy(out, r.headers)
	return out
}

// Get returns the value stored under the exact header name.
func (r RawRow) Get(header string) (string, bool) {
	v, ok := r.values[header]
	return v, ok
}

// Len returns the number of distinct headers.
func (r RawRow) Len() int {
	return len(r.headers)
}

// Table is the result of parsing one file.
type Table struct {
	Headers []string
	Rows    []RawRow
}

// rowLayout is shared by all rows of a table so the distinct header list is
// computed once per file.
type rowLayout struct {
	columns []string // trimmed header per column position, "" for blank headers
	unique  []string
}

func newRowLayout(headers []string) rowLayout {
	l := rowLayout{columns: make([]string, len(headers))}
	seen := make(map[string]struct{}, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		l.columns[i] = h
		if h == "" {
			continue
		}
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		l.unique = append(l.unique, h)
	}
	return l
}

func (l rowLayout) row(cells []string) RawRow {
	values := make(map[string]string, len(l.unique))
	for i, h := range l.columns {
		if h == "" {
			continue
		}
		v := ""
		if i < len(cells) {
			v = strings.TrimSpace(cells[i])
		}
		// later duplicates overwrite earlier ones
		values[h] = v
	}
	return RawRow{headers: l.unique, values: values}
}
