package tabular

import "errors"

var (
	// ErrUnsupportedFormat is returned for uploads whose extension is not
	// .csv, .xlsx or .xls.
	ErrUnsupportedFormat = errors.New("unsupported file format: upload a CSV or Excel (.xlsx/.xls) file")

	// ErrEmptyFile is returned when a file has a header but no data rows.
	ErrEmptyFile = errors.New("empty file: the file has no data rows")

	// ErrUnreadableWorkbook is returned when a .xlsx or .xls upload is not a
	// workbook the readers understand.
	ErrUnreadableWorkbook = errors.New("unreadable workbook: the spreadsheet could not be opened")

	// ErrNoValidRows is returned when every parsed row was rejected by the mapper.
	ErrNoValidRows = errors.New("no valid rows: check that the file headers match the expected format")

	// ErrUnknownExportFormat is returned by ParseFormat for unrecognised names.
	ErrUnknownExportFormat = errors.New("unknown export format")
)
