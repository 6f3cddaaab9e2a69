package tabular

import "strings"

// ParseCSV parses comma separated text.
//
// Lines are split on LF or CRLF, trimmed, and blank lines are dropped before
// anything else happens, so a quoted value cannot span lines. The first
// remaining line holds the headers. Fields may be enclosed in double quotes to
// carry commas; inside quotes a doubled quote is a literal quote. Text with
// fewer than two non-blank lines yields a table without rows.
func ParseCSV(text string) Table {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return Table{}
	}

	headers := splitLine(lines[0])
	layout := newRowLayout(headers)
	table := Table{Headers: layout.unique}
	if len(lines) < 2 {
		return table
	}

	table.Rows = make([]RawRow, 0, len(lines)-1)
	for _, line := range lines[1:] {
		table.Rows = append(table.Rows, layout.row(splitLine(line)))
	}
	return table
}

// splitLine splits one line into fields. A quote toggles the quoted state
// wherever it appears; "" inside a quoted field emits a single quote.
func splitLine(line string) []string {
	var (
		fields  []string
		current strings.Builder
		quoted  bool
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"' && quoted && i+1 < len(line) && line[i+1] == '"':
			current.WriteByte('"')
			i++
		case c == '"':
			quoted = !quoted
		case c == ',' && !quoted:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	return append(fields, strings.TrimSpace(current.String()))
}
