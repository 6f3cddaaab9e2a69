package tabular

import "io"

// MapFunc converts one parsed row into a record. index is the zero-based
// position of the row among the data rows. Returning false skips the row.
type MapFunc[T any] func(row RawRow, index int) (T, bool)

// Outcome summarizes one import run.
type Outcome[T any] struct {
	Records  []T `json:"records"`
	Accepted int `json:"accepted"`
	Skipped  int `json:"skipped"`
}

// Total returns the number of rows the mapper saw.
func (o *Outcome[T]) Total() int {
	return o.Accepted + o.Skipped
}

// Import maps every row in order. When no row is accepted the outcome is still
// returned, together with ErrNoValidRows, so callers can report the skip count.
func Import[T any](rows []RawRow, mapRow MapFunc[T]) (*Outcome[T], error) {
	out := &Outcome[T]{Records: make([]T, 0, len(rows))}
	for i, row := range rows {
		rec, ok := mapRow(row, i)
		if !ok {
			out.Skipped++
			continue
		}
		out.Records = append(out.Records, rec)
		out.Accepted++
	}
	if out.Accepted == 0 {
		return out, ErrNoValidRows
	}
	return out, nil
}

// ImportFile parses r according to filename and maps the rows.
func ImportFile[T any](filename string, r io.Reader, mapRow MapFunc[T]) (*Outcome[T], error) {
	table, err := ParseFile(filename, r)
	if err != nil {
		return nil, err
	}
	return Import(table.Rows, mapRow)
}
