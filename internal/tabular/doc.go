// Package tabular turns uploaded spreadsheets into typed records and typed
// records back into downloadable files.
//
// # Import
//
// An import runs in three stages, each usable on its own:
//
//  1. [ParseFile] picks a parser from the file extension (".csv", ".xlsx",
//     ".xls") and produces a [Table] of [RawRow] values keyed by the source
//     headers.
//  2. [Import] hands every row, in file order, to a caller supplied [MapFunc].
//     Rows the mapper rejects are counted as skipped.
//  3. The [Outcome] carries the accepted records and the accepted/skipped
//     counts. Accepted + Skipped always equals the number of parsed rows.
//
// Mappers locate their fields with [Resolve], which compares header names
// case-insensitively and ignores whitespace, underscores and hyphens:
//
//	code, ok := tabular.Resolve(row, "code", "course_code", "course code")
//
// # Export
//
// [WriteCSV], [WriteJSON], [WriteXLSX] and [WritePrintable] serialize records
// that implement [FieldAccess] using an ordered []Column. Row order and column
// order are always the caller's; nothing is sorted. Missing values render as
// empty cells.
//
// # Errors
//
// Import failures wrap [ErrUnsupportedFormat], [ErrEmptyFile] or
// [ErrNoValidRows] and can be tested with errors.Is.
package tabular
