package tabular

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ParseWorkbook reads the first sheet of a workbook. OOXML (.xlsx) and legacy
// BIFF (.xls) content are both accepted; the format is taken from the leading
// bytes rather than the file name. The first non-empty row holds the headers;
// every later non-empty row becomes a RawRow. Cell values are read as
// displayed text and trimmed. Columns with a blank header are ignored.
//
// Content neither reader can open fails with ErrUnreadableWorkbook.
func ParseWorkbook(r io.Reader) (Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Table{}, fmt.Errorf("read workbook: %w", err)
	}

	var rows [][]string
	if bytes.HasPrefix(data, compoundMagic) {
		rows, err = legacySheetRows(data)
	} else {
		rows, err = ooxmlSheetRows(data)
	}
	if err != nil {
		return Table{}, err
	}
	return tableFromRows(rows), nil
}

func ooxmlSheetRows(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableWorkbook, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %w", ErrUnreadableWorkbook, sheets[0], err)
	}
	return rows, nil
}

func tableFromRows(rows [][]string) Table {
	start := 0
	for start < len(rows) && blankCells(rows[start]) {
		start++
	}
	if start == len(rows) {
		return Table{}
	}

	layout := newRowLayout(rows[start])
	table := Table{Headers: layout.unique}
	for _, cells := range rows[start+1:] {
		if blankCells(cells) {
			continue
		}
		table.Rows = append(table.Rows, layout.row(cells))
	}
	return table
}

func blankCells(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
