package tabular

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// buildWorkbook returns an xlsx file whose first sheet holds rows.
func buildWorkbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

// ============================================================================
// DetectSource Tests
// ============================================================================

func TestDetectSource(t *testing.T) {
	tests := []struct {
		name    string
		want    Source
		wantErr bool
	}{
		{"students.csv", SourceCSV, false},
		{"STUDENTS.CSV", SourceCSV, false},
		{"rooms.xlsx", SourceWorkbook, false},
		{"rooms.XLS", SourceWorkbook, false},
		{"notes.txt", "", true},
		{"csv", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectSource(tt.name)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnsupportedFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// ============================================================================
// ParseFile Tests
// ============================================================================

func TestParseFile_CSV(t *testing.T) {
	table, err := ParseFile("students.csv", strings.NewReader("id,name\nSTU001,Alice\n"))
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
}

func TestParseFile_HeaderOnlyIsEmpty(t *testing.T) {
	_, err := ParseFile("students.csv", strings.NewReader("id,name\n"))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestParseFile_Unsupported(t *testing.T) {
	_, err := ParseFile("students.json", strings.NewReader(`[]`))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseFile_UTF8BOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("id,name\nSTU001,Alice")...)

	table, err := ParseFile("students.csv", bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, table.Headers)
}

func TestParseFile_UTF16LE(t *testing.T) {
	text := "id,name\nSTU001,Zoë"
	data := []byte{0xFF, 0xFE}
	for _, r := range text {
		data = append(data, byte(r), byte(r>>8))
	}

	table, err := ParseFile("students.csv", bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	v, _ := table.Rows[0].Get("name")
	assert.Equal(t, "Zoë", v)
}

func TestParseFile_InvalidUTF8Replaced(t *testing.T) {
	table, err := ParseFile("students.csv", strings.NewReader("id,name\nSTU001,caf\xe9"))
	require.NoError(t, err)
	v, _ := table.Rows[0].Get("name")
	assert.Equal(t, "caf�", v)
}

func TestParseFile_Workbook(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"Room ID", "Building", "Capacity", ""},
		{" R101 ", "Main", 40, "stray"},
		{nil, nil, nil},
		{"R102", nil, 25},
	})

	table, err := ParseFile("rooms.xlsx", buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"Room ID", "Building", "Capacity"}, table.Headers)
	require.Len(t, table.Rows, 2)

	id, _ := Resolve(table.Rows[0], "room_id")
	assert.Equal(t, "R101", id)
	capacity, _ := Resolve(table.Rows[0], "capacity")
	assert.Equal(t, "40", capacity)

	building, ok := Resolve(table.Rows[1], "building")
	assert.True(t, ok)
	assert.Equal(t, "", building)
}

func TestParseFile_WorkbookHeaderOnly(t *testing.T) {
	buf := buildWorkbook(t, [][]any{{"id", "name"}})

	_, err := ParseFile("students.xlsx", buf)
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestParseFile_WorkbookCorrupt(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"plain text", []byte("not a zip")},
		{"truncated compound header", append(append([]byte{}, compoundMagic...), "short"...)},
		{"compound header only", legacyHeaderOnly()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFile("legacy.xls", bytes.NewReader(tt.data))
			assert.ErrorIs(t, err, ErrUnreadableWorkbook)
			assert.NotErrorIs(t, err, ErrEmptyFile)
		})
	}
}
