package tabular

import (
	"strings"
	"unicode"
)

// NormalizeHeader lowercases s and removes whitespace, underscores and hyphens,
// so "Student ID", "student_id" and "STUDENT-ID" all become "studentid".
func NormalizeHeader(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '_' || r == '-' {
			return -1
		}
		return r
	}, strings.ToLower(s))
}

// Resolve returns the value of the first header that matches one of the
// candidate names after normalization.
//
// Candidates are tried in order and the first candidate with any matching
// header wins, even if a later candidate would match a header that comes
// earlier in the file. Among headers that match the same candidate the one
// appearing first in the file is used. The returned value may be "".
func Resolve(row RawRow, candidates ...string) (string, bool) {
	if len(row.headers) == 0 {
		return "", false
	}
	normalized := make([]string, len(row.headers))
	for i, h := range row.headers {
		normalized[i] = NormalizeHeader(h)
	}
	for _, c := range candidates {
		want := NormalizeHeader(c)
		for i, h := range normalized {
			if h == want {
				return row.values[row.headers[i]], true
			}
		}
	}
	return "", false
}
