package catalog

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/timetable/internal/tabular"
)

// ScheduleColumns are the export columns of the schedule view.
var ScheduleColumns = []tabular.Column{
	{Key: "course", Label: "Course"},
	{Key: "section", Label: "Section"},
	{Key: "courseName", Label: "Course Name"},
	{Key: "lecturer", Label: "Lecturer"},
	{Key: "room", Label: "Room"},
	{Key: "building", Label: "Building"},
	{Key: "day", Label: "Day"},
	{Key: "time", Label: "Time"},
	{Key: "students", Label: "Students"},
}

// ScheduleRow is a schedule entry joined with its course name and room
// building. Unknown courses or rooms leave the joined fields empty.
type ScheduleRow struct {
	ScheduleEntry
	CourseName string `json:"courseName"`
	Building   string `json:"building"`
}

func (r ScheduleRow) Field(key string) any {
	switch key {
	case "courseName":
		return r.CourseName
	case "building":
		return r.Building
	}
	return r.ScheduleEntry.Field(key)
}

// Enrich joins entries with course names and room buildings, keeping the
// order of entries.
func Enrich(entries []ScheduleEntry, courses []Course, rooms []Room) []ScheduleRow {
	names := make(map[string]string, len(courses))
	for _, c := range courses {
		names[c.Code] = c.Name
	}
	buildings := make(map[string]string, len(rooms))
	for _, r := range rooms {
		buildings[r.ID] = r.Building
	}

	out := make([]ScheduleRow, len(entries))
	for i, e := range entries {
		out[i] = ScheduleRow{ScheduleEntry: e, CourseName: names[e.Course], Building: buildings[e.Room]}
	}
	return out
}

// ScheduleFilterKind selects the schedule field a filter applies to.
type ScheduleFilterKind string

const (
	FilterAll      ScheduleFilterKind = "all"
	FilterCourse   ScheduleFilterKind = "course"
	FilterLecturer ScheduleFilterKind = "lecturer"
	FilterRoom     ScheduleFilterKind = "room"
)

// ScheduleFilter narrows the schedule view. Course and room match exactly;
// lecturer matches a substring of the lecturer name.
type ScheduleFilter struct {
	Kind  ScheduleFilterKind `json:"kind"`
	Value string             `json:"value"`
}

// ParseScheduleFilter validates a filter kind.
func ParseScheduleFilter(kind, value string) (ScheduleFilter, error) {
	k := ScheduleFilterKind(strings.ToLower(strings.TrimSpace(kind)))
	switch k {
	case "":
		k = FilterAll
	case FilterAll, FilterCourse, FilterLecturer, FilterRoom:
	default:
		return ScheduleFilter{}, fmt.Errorf("unknown schedule filter %q", kind)
	}
	return ScheduleFilter{Kind: k, Value: strings.TrimSpace(value)}, nil
}

// Active reports whether the filter removes anything.
func (f ScheduleFilter) Active() bool {
	return f.Kind != "" && f.Kind != FilterAll && f.Value != ""
}

// Match reports whether e passes the filter. An inactive filter matches all.
func (f ScheduleFilter) Match(e ScheduleEntry) bool {
	if !f.Active() {
		return true
	}
	switch f.Kind {
	case FilterCourse:
		return e.Course == f.Value
	case FilterLecturer:
		return strings.Contains(e.Lecturer, f.Value)
	case FilterRoom:
		return e.Room == f.Value
	}
	return true
}

// Apply returns the entries that pass the filter in their original order.
func (f ScheduleFilter) Apply(entries []ScheduleEntry) []ScheduleEntry {
	out := make([]ScheduleEntry, 0, len(entries))
	for _, e := range entries {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}
