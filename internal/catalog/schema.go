package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/JonMunkholm/timetable/internal/tabular"
)

// FieldKind is the type a field is coerced to on import.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldInt
)

func (k FieldKind) String() string {
	if k == FieldInt {
		return "int"
	}
	return "text"
}

// FieldRule describes how one record field is read from a row.
type FieldRule struct {
	Key        string    // record field
	Aliases    []string  // header candidates, tried in order
	Kind       FieldKind // coercion
	Required   bool      // row is skipped when absent or blank
	Default    string    // text fallback
	DefaultInt int       // int fallback
}

// Schema is the ordered set of field rules of one entity.
type Schema []FieldRule

// Rule returns the rule for key.
func (s Schema) Rule(key string) (FieldRule, bool) {
	for _, r := range s {
		if r.Key == key {
			return r, true
		}
	}
	return FieldRule{}, false
}

// Value returns the coerced value of a field, dispatched on the rule's Kind:
// FieldText yields the trimmed string and FieldInt the leading integer. The
// second result is false for unknown fields and for required fields that are
// absent or blank. Optional fields fall back to the rule's default, and so do
// integer fields whose value is non-numeric or zero.
func (s Schema) Value(row tabular.RawRow, key string) (any, bool) {
	rule, ok := s.Rule(key)
	if !ok {
		return nil, false
	}
	v, found := tabular.Resolve(row, rule.Aliases...)
	if !found || v == "" {
		if rule.Required {
			return nil, false
		}
		v = ""
	}

	switch rule.Kind {
	case FieldInt:
		if n := leadingInt(v); n != 0 {
			return n, true
		}
		return rule.DefaultInt, true
	default:
		if v == "" {
			return rule.Default, true
		}
		return v, true
	}
}

// Text returns Value for a FieldText rule.
func (s Schema) Text(row tabular.RawRow, key string) (string, bool) {
	v, ok := s.Value(row, key)
	text, isText := v.(string)
	return text, ok && isText
}

// Int returns Value for a FieldInt rule, or 0 for any other rule.
func (s Schema) Int(row tabular.RawRow, key string) int {
	v, _ := s.Value(row, key)
	n, _ := v.(int)
	return n
}

// Missing lists the required fields with no matching header in row.
func (s Schema) Missing(row tabular.RawRow) []string {
	var missing []string
	for _, r := range s {
		if !r.Required {
			continue
		}
		if _, ok := tabular.Resolve(row, r.Aliases...); !ok {
			missing = append(missing, r.Key)
		}
	}
	return missing
}

// Extend returns a copy of s with extra header aliases appended to the named
// fields. Unknown field names are an error.
func (s Schema) Extend(extra map[string][]string) (Schema, error) {
	out := make(Schema, len(s))
	for i, r := range s {
		r.Aliases = append([]string(nil), r.Aliases...)
		out[i] = r
	}
	for key, aliases := range extra {
		idx := -1
		for i, r := range out {
			if r.Key == key {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("unknown field %q", key)
		}
		out[idx].Aliases = append(out[idx].Aliases, aliases...)
	}
	return out, nil
}

// leadingInt parses an optional sign followed by digits at the start of s,
// ignoring leading whitespace. "12 hours" is 12, "3.5" is 3, "abc" is 0.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
