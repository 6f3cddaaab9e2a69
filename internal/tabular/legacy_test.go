package tabular

import (
	"bytes"
	"encoding/binary"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// legacyWorkbook returns a BIFF8 .xls file whose first sheet holds rows as
// text cells. Empty strings are left out, as Excel does. The workbook stream
// is padded to the short stream cutoff so it lives in regular sectors.
func legacyWorkbook(t *testing.T, rows [][]string) []byte {
	t.Helper()
	le := binary.LittleEndian

	var stream bytes.Buffer
	record := func(id uint16, body []byte) {
		var head [4]byte
		le.PutUint16(head[0:], id)
		le.PutUint16(head[2:], uint16(len(body)))
		stream.Write(head[:])
		stream.Write(body)
	}
	bof := func(kind uint16) []byte {
		b := make([]byte, 16)
		le.PutUint16(b[0:], 0x0600)
		le.PutUint16(b[2:], kind)
		return b
	}

	// Workbook globals: BOF, one BOUNDSHEET, EOF.
	const sheetName = "Sheet1"
	record(0x0809, bof(0x0005))
	sheetPos := stream.Len() + 4
	boundSheet := make([]byte, 8, 8+len(sheetName))
	boundSheet[6] = byte(len(sheetName))
	record(0x0085, append(boundSheet, sheetName...))
	record(0x000A, nil)
	le.PutUint32(stream.Bytes()[sheetPos:], uint32(stream.Len()))

	// Sheet substream: BOF, LABEL cells, EOF.
	record(0x0809, bof(0x0010))
	for r, cells := range rows {
		for c, v := range cells {
			if v == "" {
				continue
			}
			body := make([]byte, 9, 9+len(v))
			le.PutUint16(body[0:], uint16(r))
			le.PutUint16(body[2:], uint16(c))
			le.PutUint16(body[6:], uint16(len(v)))
			record(0x0204, append(body, v...))
		}
	}
	record(0x000A, nil)

	size := max(4096, (stream.Len()+511)/512*512)
	n := size / 512
	require.Less(t, n, 126, "fixture too large for one FAT sector")

	file := make([]byte, 512*(3+n))
	copy(file, compoundMagic)
	le.PutUint16(file[24:], 0x003E)
	le.PutUint16(file[26:], 0x0003)
	le.PutUint16(file[28:], 0xFFFE)
	le.PutUint16(file[30:], 9)
	le.PutUint16(file[32:], 6)
	le.PutUint32(file[44:], 1)    // FAT sectors
	le.PutUint32(file[48:], 1)    // directory start
	le.PutUint32(file[56:], 4096) // short stream cutoff
	le.PutUint32(file[60:], compoundEndOfChain)
	le.PutUint32(file[68:], compoundEndOfChain)
	for i := 1; i < 109; i++ {
		le.PutUint32(file[76+4*i:], 0xFFFFFFFF)
	}

	// Sector 0 is the FAT, sector 1 the directory, sectors 2.. the workbook.
	fat := file[512:1024]
	for i := 0; i < sectorEntries; i++ {
		le.PutUint32(fat[4*i:], 0xFFFFFFFF)
	}
	le.PutUint32(fat[0:], 0xFFFFFFFD)
	le.PutUint32(fat[4:], compoundEndOfChain)
	for i := 0; i < n; i++ {
		next := uint32(i + 3)
		if i == n-1 {
			next = compoundEndOfChain
		}
		le.PutUint32(fat[4*(2+i):], next)
	}

	dir := file[1024:1536]
	entry := func(off int, name string, kind byte, start, size uint32) {
		e := dir[off : off+compoundDirEntry]
		units := utf16.Encode([]rune(name))
		for i, u := range units {
			le.PutUint16(e[2*i:], u)
		}
		le.PutUint16(e[64:], uint16(2*len(units)+2))
		e[66] = kind
		le.PutUint32(e[68:], 0xFFFFFFFF)
		le.PutUint32(e[72:], 0xFFFFFFFF)
		le.PutUint32(e[76:], 0xFFFFFFFF)
		le.PutUint32(e[116:], start)
		le.PutUint32(e[120:], size)
	}
	entry(0, "Root Entry", 5, compoundEndOfChain, 0)
	entry(compoundDirEntry, "Workbook", 2, 2, uint32(size))

	copy(file[1536:], stream.Bytes())
	return file
}

// legacyHeaderOnly returns a compound file header with no directory.
func legacyHeaderOnly() []byte {
	le := binary.LittleEndian
	h := make([]byte, compoundHeaderSize)
	copy(h, compoundMagic)
	le.PutUint16(h[28:], 0xFFFE)
	le.PutUint16(h[30:], 9)
	le.PutUint32(h[48:], compoundEndOfChain)
	le.PutUint32(h[60:], compoundEndOfChain)
	le.PutUint32(h[68:], compoundEndOfChain)
	return h
}

// ============================================================================
// Legacy Workbook Tests
// ============================================================================

func TestParseFile_LegacyWorkbook(t *testing.T) {
	data := legacyWorkbook(t, [][]string{
		{"Student ID", "Full Name", "Year"},
		{" S1 ", "Ada"},
		{},
		{"S2", "Grace", "3"},
	})

	for _, name := range []string{"students.xls", "students.XLS", "renamed.xlsx"} {
		t.Run(name, func(t *testing.T) {
			table, err := ParseFile(name, bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, []string{"Student ID", "Full Name", "Year"}, table.Headers)
			require.Len(t, table.Rows, 2)

			id, _ := Resolve(table.Rows[0], "student_id")
			assert.Equal(t, "S1", id)
			year, ok := Resolve(table.Rows[0], "year")
			assert.True(t, ok)
			assert.Equal(t, "", year)

			fullName, _ := Resolve(table.Rows[1], "full_name")
			assert.Equal(t, "Grace", fullName)
			year, _ = Resolve(table.Rows[1], "year")
			assert.Equal(t, "3", year)
		})
	}
}

func TestParseFile_LegacyWorkbookHeaderOnly(t *testing.T) {
	data := legacyWorkbook(t, [][]string{{"id", "name"}})

	_, err := ParseFile("students.xls", bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestCheckCompound(t *testing.T) {
	rows := [][]string{{"id"}, {"R1"}}
	le := binary.LittleEndian
	fatEntry := func(data []byte, sid int) []byte { return data[512+4*sid:] }

	tests := []struct {
		name    string
		corrupt func(data []byte)
		wantErr bool
	}{
		{"well formed", func([]byte) {}, false},
		{"chain leaves the table", func(data []byte) {
			le.PutUint32(fatEntry(data, 2), 5000)
		}, true},
		{"chain loops", func(data []byte) {
			le.PutUint32(fatEntry(data, 9), 2)
		}, true},
		{"free sector in chain", func(data []byte) {
			le.PutUint32(fatEntry(data, 4), 0xFFFFFFFF)
		}, true},
		{"directory missing", func(data []byte) {
			le.PutUint32(data[48:], compoundEndOfChain)
		}, true},
		{"large sectors", func(data []byte) {
			le.PutUint16(data[30:], 12)
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := legacyWorkbook(t, rows)
			tt.corrupt(data)

			err := checkCompound(data)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, errBrokenCompound)

			_, err = ParseWorkbook(bytes.NewReader(data))
			assert.ErrorIs(t, err, ErrUnreadableWorkbook)
		})
	}
}
