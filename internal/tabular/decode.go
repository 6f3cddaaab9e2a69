package tabular

// decode.go normalizes uploaded text before CSV parsing.
//
// Spreadsheet tools on Windows commonly save CSV with a UTF-8 byte order mark
// or as UTF-16. The decoder honours any BOM, falls back to UTF-8 and replaces
// invalid byte sequences with U+FFFD so a stray Latin-1 byte does not abort
// an import.

import (
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeText reads r fully and returns its content as valid UTF-8 without a
// byte order mark.
func DecodeText(r io.Reader) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	data, err := io.ReadAll(transform.NewReader(r, dec))
	if err != nil {
		return "", fmt.Errorf("decode text: %w", err)
	}
	return string(data), nil
}
