package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/JonMunkholm/timetable/internal/tabular"
)

// Record is an entity instance that can be stored, searched and exported.
type Record interface {
	tabular.FieldAccess
	// Key is the de-duplication key, unique within an entity.
	Key() string
	// Matches reports whether the record matches a search query.
	Matches(query string) bool
}

// containsFold reports whether any of fields contains q, ignoring case.
func containsFold(q string, fields ...string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

type Student struct {
	ID    string `json:"id" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Major string `json:"major"`
	Year  int    `json:"year" validate:"gte=1,lte=7"`
	Email string `json:"email" validate:"omitempty,email"`
}

func (s Student) Key() string { return s.ID }

func (s Student) Matches(q string) bool { return containsFold(q, s.Name, s.ID, s.Major) }

func (s Student) Field(key string) any {
	switch key {
	case "id":
		return s.ID
	case "name":
		return s.Name
	case "major":
		return s.Major
	case "year":
		return s.Year
	case "email":
		return s.Email
	}
	return nil
}

type Lecturer struct {
	ID         string `json:"id" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Department string `json:"department"`
	Load       int    `json:"load" validate:"gte=0"`
	Email      string `json:"email" validate:"omitempty,email"`
}

func (l Lecturer) Key() string { return l.ID }

func (l Lecturer) Matches(q string) bool { return containsFold(q, l.Name, l.Department) }

func (l Lecturer) Field(key string) any {
	switch key {
	case "id":
		return l.ID
	case "name":
		return l.Name
	case "department":
		return l.Department
	case "load":
		return l.Load
	case "email":
		return l.Email
	}
	return nil
}

type Course struct {
	Code     string `json:"code" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Credits  int    `json:"credits" validate:"gte=1"`
	Type     string `json:"type"`
	Sections int    `json:"sections" validate:"gte=1"`
}

func (c Course) Key() string { return c.Code }

func (c Course) Matches(q string) bool { return containsFold(q, c.Code, c.Name) }

func (c Course) Field(key string) any {
	switch key {
	case "code":
		return c.Code
	case "name":
		return c.Name
	case "credits":
		return c.Credits
	case "type":
		return c.Type
	case "sections":
		return c.Sections
	}
	return nil
}

type Room struct {
	ID       string `json:"id" validate:"required"`
	Building string `json:"building"`
	Capacity int    `json:"capacity" validate:"gte=1"`
	Type     string `json:"type"`
}

func (r Room) Key() string { return r.ID }

func (r Room) Matches(q string) bool { return containsFold(q, r.ID, r.Building) }

func (r Room) Field(key string) any {
	switch key {
	case "id":
		return r.ID
	case "building":
		return r.Building
	case "capacity":
		return r.Capacity
	case "type":
		return r.Type
	}
	return nil
}

// TimeSlot is a teaching period. Slots are unique by day, start and end; the
// numeric ID is informational.
type TimeSlot struct {
	ID    int    `json:"id"`
	Day   string `json:"day" validate:"required"`
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

func (t TimeSlot) Key() string { return fmt.Sprintf("%s-%s-%s", t.Day, t.Start, t.End) }

func (t TimeSlot) Matches(q string) bool { return containsFold(q, t.Day) }

func (t TimeSlot) Field(key string) any {
	switch key {
	case "id":
		return t.ID
	case "day":
		return t.Day
	case "start":
		return t.Start
	case "end":
		return t.End
	}
	return nil
}

// ScheduleEntry is one scheduled section of a course.
type ScheduleEntry struct {
	ID       int    `json:"id"`
	Course   string `json:"course" validate:"required"`
	Section  string `json:"section" validate:"required"`
	Lecturer string `json:"lecturer"`
	Room     string `json:"room"`
	Day      string `json:"day"`
	Time     string `json:"time"`
	Students int    `json:"students" validate:"gte=0"`
}

func (e ScheduleEntry) Key() string { return strconv.Itoa(e.ID) }

func (e ScheduleEntry) Matches(q string) bool {
	return containsFold(q, e.Course, e.Lecturer, e.Room, e.Day)
}

func (e ScheduleEntry) Field(key string) any {
	switch key {
	case "id":
		return e.ID
	case "course":
		return e.Course
	case "section":
		return e.Section
	case "lecturer":
		return e.Lecturer
	case "room":
		return e.Room
	case "day":
		return e.Day
	case "time":
		return e.Time
	case "students":
		return e.Students
	}
	return nil
}

// Numbered is implemented by records whose numeric ID is assigned when they
// are created without one.
type Numbered interface {
	Record
	Number() int
	WithNumber(n int) Record
}

// LastNumber returns the highest number among the Numbered records, or 0.
func LastNumber(records []Record) int {
	last := 0
	for _, rec := range records {
		if n, ok := rec.(Numbered); ok && n.Number() > last {
			last = n.Number()
		}
	}
	return last
}

func (t TimeSlot) Number() int { return t.ID }

func (t TimeSlot) WithNumber(n int) Record {
	t.ID = n
	return t
}
