package tabular

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var testColumns = []Column{
	{Key: "name", Label: "Name"},
	{Key: "id", Label: "ID"},
}

// ============================================================================
// WriteCSV Tests
// ============================================================================

func TestWriteCSV(t *testing.T) {
	records := []Fields{
		{"id": "X1", "name": "Alpha"},
		{"id": "X2", "name": `Smith, "J"`},
		{"id": 3},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, testColumns, records))
	assert.Equal(t, "Name,ID\nAlpha,X1\n\"Smith, \"\"J\"\"\",X2\n,3", buf.String())
}

func TestWriteCSV_NoRecords(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV[Fields](&buf, testColumns, nil))
	assert.Equal(t, "Name,ID", buf.String())
}

func TestWriteCSV_NewlineNotQuoted(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []Column{{Key: "v", Label: "V"}}, []Fields{{"v": "a\nb"}}))
	assert.Equal(t, "V\na\nb", buf.String())
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	values := []string{`He said "hi", once`, `"quoted"`, "a,b,c", "plain"}
	cols := []Column{{Key: "v", Label: "Value"}}

	records := make([]Fields, len(values))
	for i, v := range values {
		records[i] = Fields{"v": v}
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, cols, records))

	table := ParseCSV(buf.String())
	require.Len(t, table.Rows, len(values))
	for i, want := range values {
		got, _ := table.Rows[i].Get("Value")
		assert.Equal(t, want, got)
	}
}

// ============================================================================
// WriteJSON Tests
// ============================================================================

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, testColumns, []Fields{{"id": "X1", "name": "Alpha"}}))

	assert.JSONEq(t, `[{"Name":"Alpha","ID":"X1"}]`, buf.String())
	assert.Less(t, strings.Index(buf.String(), `"Name"`), strings.Index(buf.String(), `"ID"`))
	assert.Contains(t, buf.String(), "\n    \"Name\": \"Alpha\"")
}

func TestWriteJSON_MissingAndTypedValues(t *testing.T) {
	cols := []Column{{Key: "a", Label: "A"}, {Key: "n", Label: "N"}, {Key: "h", Label: "H"}}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, cols, []Fields{{"n": 42, "h": "<b>&"}}))
	assert.JSONEq(t, `[{"A":"","N":42,"H":"<b>&"}]`, buf.String())
	assert.Contains(t, buf.String(), "<b>&")
}

func TestWriteJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON[Fields](&buf, testColumns, nil))
	assert.Equal(t, "[]", buf.String())
}

// ============================================================================
// WriteXLSX Tests
// ============================================================================

func TestWriteXLSX(t *testing.T) {
	records := []Fields{
		{"id": "X1", "name": "Alpha"},
		{"id": "X2"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, testColumns, records, ""))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{DefaultSheet}, f.GetSheetList())
	rows, err := f.GetRows(DefaultSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Name", "ID"}, rows[0])
	assert.Equal(t, []string{"Alpha", "X1"}, rows[1])
	assert.Equal(t, []string{"", "X2"}, rows[2])
}

func TestWriteXLSX_NamedSheetRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, testColumns, []Fields{{"id": "X1", "name": "Alpha"}}, "Schedule"))

	table, err := ParseWorkbook(&buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "ID"}, table.Headers)
	require.Len(t, table.Rows, 1)
	v, _ := table.Rows[0].Get("ID")
	assert.Equal(t, "X1", v)
}

// ============================================================================
// Printable Tests
// ============================================================================

func TestWritePrintable(t *testing.T) {
	var buf bytes.Buffer
	err := WritePrintable(context.Background(), &buf, testColumns,
		[]Fields{{"id": "X1", "name": "<Alpha>"}}, "Students", "1 records")
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "size: landscape")
	assert.Contains(t, html, "<h1>Students</h1>")
	assert.Contains(t, html, "<p>1 records</p>")
	assert.Contains(t, html, "<th>Name</th><th>ID</th>")
	assert.Contains(t, html, "<td>&lt;Alpha&gt;</td><td>X1</td>")
	assert.Contains(t, html, "window.print()")
}

func TestWritePrintable_NoSubtitle(t *testing.T) {
	var buf bytes.Buffer
	err := WritePrintable[Fields](context.Background(), &buf, testColumns, nil, "Rooms & Labs", "")
	require.NoError(t, err)

	html := buf.String()
	assert.True(t, strings.HasPrefix(html, "<!doctype html>"))
	assert.Contains(t, html, "<title>Rooms &amp; Labs</title>")
	assert.NotContains(t, html, "<p>")
	assert.Contains(t, html, "<tbody></tbody>")
}

// ============================================================================
// Format Tests
// ============================================================================

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatCSV, false},
		{"CSV", FormatCSV, false},
		{"json", FormatJSON, false},
		{"excel", FormatXLSX, false},
		{"xls", FormatXLSX, false},
		{"print", FormatPrintable, false},
		{"pdf", FormatPrintable, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownExportFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilenameAndContentType(t *testing.T) {
	assert.Equal(t, "students-all.csv", Filename("students", ScopeAll, FormatCSV))
	assert.Equal(t, "schedule-current.xlsx", Filename("schedule", ScopeCurrent, FormatXLSX))
	assert.Equal(t, "courses-all.html", Filename("courses", ScopeAll, FormatPrintable))

	assert.Equal(t, "text/csv;charset=utf-8;", FormatCSV.ContentType())
	assert.Equal(t, "application/json", FormatJSON.ContentType())
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", FormatXLSX.ContentType())
}

func TestExport_Dispatch(t *testing.T) {
	for _, f := range Formats {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			err := Export(context.Background(), &buf, f, testColumns, []Fields{{"id": "X1", "name": "A"}}, Document{Title: "T"})
			require.NoError(t, err)
			assert.NotZero(t, buf.Len())
		})
	}

	err := Export[Fields](context.Background(), &bytes.Buffer{}, Format("yaml"), testColumns, nil, Document{})
	assert.ErrorIs(t, err, ErrUnknownExportFormat)
}
