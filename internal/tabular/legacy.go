package tabular

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf16"

	"github.com/extrame/xls"
)

// Legacy .xls files are BIFF streams stored inside a Compound File Binary
// container. The container is checked here before the BIFF reader sees it.

var compoundMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

const (
	compoundHeaderSize = 512
	compoundSectorSize = 512
	compoundDirEntry   = 128
	compoundEndOfChain = 0xFFFFFFFE
	sectorEntries      = compoundSectorSize / 4
)

var errBrokenCompound = errors.New("broken compound file")

// legacySheetRows returns the cells of the first sheet of a BIFF workbook.
//
// TODO: bound the SST string count before parsing; xls allocates the
// declared count up front.
func legacySheetRows(data []byte) (rows [][]string, err error) {
	if err := checkCompound(data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableWorkbook, err)
	}

	// xls indexes record payloads without bounds checks.
	defer func() {
		if p := recover(); p != nil {
			rows, err = nil, fmt.Errorf("%w: malformed record: %v", ErrUnreadableWorkbook, p)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableWorkbook, err)
	}
	if wb == nil {
		return nil, fmt.Errorf("%w: no workbook stream", ErrUnreadableWorkbook)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil || sheet.MaxRow == 0 {
		return nil, nil
	}
	// ReadAllCells walks sheets in order until it has max rows, so capping it
	// at the first sheet's row count keeps later sheets out.
	return wb.ReadAllCells(int(sheet.MaxRow) + 1), nil
}

// checkCompound rejects containers whose sector chains the BIFF reader cannot
// follow. xls exits the process on a sector index past its allocation table
// and never returns from a cyclic chain, so the tables are rebuilt the way it
// builds them and every chain it will walk is followed once here.
func checkCompound(data []byte) error {
	if len(data) < compoundHeaderSize {
		return fmt.Errorf("%w: short header", errBrokenCompound)
	}
	le := binary.LittleEndian
	if le.Uint16(data[28:]) != 0xFFFE || le.Uint16(data[30:]) != 9 {
		return fmt.Errorf("%w: unsupported byte order or sector size", errBrokenCompound)
	}
	sectors := uint32((len(data) - compoundHeaderSize + compoundSectorSize - 1) / compoundSectorSize)

	sector := func(sid uint32) []byte {
		out := make([]byte, compoundSectorSize)
		pos := uint32(compoundHeaderSize + sid*compoundSectorSize)
		if int64(pos) < int64(len(data)) {
			copy(out, data[pos:])
		}
		return out
	}
	entries := func(b []byte, n int) []uint32 {
		out := make([]uint32, n)
		for i := range out {
			out[i] = le.Uint32(b[4*i:])
		}
		return out
	}

	var fat []uint32
	for i := uint32(0); i < min(le.Uint32(data[44:]), 109); i++ {
		fat = append(fat, entries(sector(le.Uint32(data[76+4*i:])), sectorEntries)...)
	}
	maxDIF := sectors/(sectorEntries*(sectorEntries-1)) + 1
	steps := uint32(0)
	for sid := le.Uint32(data[68:]); sid != compoundEndOfChain; {
		if steps++; steps > maxDIF {
			return fmt.Errorf("%w: allocation table chain too long", errBrokenCompound)
		}
		dif := sector(sid)
		for _, fsid := range entries(dif, sectorEntries-1) {
			fat = append(fat, entries(sector(fsid), sectorEntries)...)
		}
		sid = le.Uint32(dif[compoundSectorSize-4:])
	}

	var ssat []uint32
	if start := le.Uint32(data[60:]); start != compoundEndOfChain {
		count := le.Uint32(data[64:])
		if count > sectors {
			return fmt.Errorf("%w: short allocation table too long", errBrokenCompound)
		}
		part := entries(sector(start), sectorEntries-1)
		for i := uint32(0); i < count; i++ {
			ssat = append(ssat, part...)
		}
	}

	dirChain, err := sectorChain(fat, le.Uint32(data[48:]))
	if err != nil {
		return fmt.Errorf("directory: %w", err)
	}
	var book, root []byte
scan:
	for _, sid := range dirChain {
		dir := sector(sid)
		for off := 0; off < len(dir); off += compoundDirEntry {
			entry := dir[off : off+compoundDirEntry]
			if entry[66] == 0 {
				break scan
			}
			switch compoundEntryName(entry) {
			case "Workbook", "Book":
				book = entry
			case "Root Entry":
				root = entry
			}
		}
	}
	if book == nil {
		return fmt.Errorf("%w: no workbook stream", errBrokenCompound)
	}

	start, size := le.Uint32(book[116:]), le.Uint32(book[120:])
	if size >= le.Uint32(data[56:]) {
		if _, err := sectorChain(fat, start); err != nil {
			return fmt.Errorf("workbook stream: %w", err)
		}
		return nil
	}
	if root == nil {
		return fmt.Errorf("%w: no root entry", errBrokenCompound)
	}
	if _, err := sectorChain(fat, le.Uint32(root[116:])); err != nil {
		return fmt.Errorf("short stream container: %w", err)
	}
	if _, err := sectorChain(ssat, start); err != nil {
		return fmt.Errorf("workbook stream: %w", err)
	}
	return nil
}

// sectorChain follows a chain through an allocation table.
func sectorChain(table []uint32, start uint32) ([]uint32, error) {
	var sids []uint32
	for sid := start; sid != compoundEndOfChain; sid = table[sid] {
		if int64(sid) >= int64(len(table)) {
			return nil, fmt.Errorf("%w: sector %d out of range", errBrokenCompound, sid)
		}
		if len(sids) >= len(table) {
			return nil, fmt.Errorf("%w: cyclic sector chain", errBrokenCompound)
		}
		sids = append(sids, sid)
	}
	return sids, nil
}

func compoundEntryName(entry []byte) string {
	size := int(binary.LittleEndian.Uint16(entry[64:]))
	if size < 2 || size > 64 {
		return ""
	}
	units := make([]uint16, size/2-1)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(entry[2*i:])
	}
	return string(utf16.Decode(units))
}
