package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/JonMunkholm/timetable/internal/tabular"
)

// Entity keys.
const (
	Students  = "students"
	Lecturers = "lecturers"
	Courses   = "courses"
	Rooms     = "rooms"
	TimeSlots = "timeslots"
	Schedule  = "schedule"
)

// Import defaults.
const (
	DefaultYear       = 1
	DefaultLoad       = 12
	DefaultCredits    = 3
	DefaultCourseType = "Core"
	DefaultSections   = 1
	DefaultCapacity   = 30
	DefaultRoomType   = "Classroom"
)

// Info contains display information about an entity.
type Info struct {
	Key            string   `json:"key"`             // "students"
	Title          string   `json:"title"`           // "Students"
	FilenamePrefix string   `json:"filename_prefix"` // export file prefix
	SheetName      string   `json:"sheet_name"`      // XLSX worksheet
	ExampleHeaders []string `json:"example_headers,omitempty"`
	ReadOnly       bool     `json:"read_only"` // no create/update/delete/import
}

// BuildFunc turns one row into a record. id is the sequence number assigned to
// entities without a natural key.
type BuildFunc func(s Schema, row tabular.RawRow, id int) (Record, bool)

// Definition contains everything needed to import, store and export an entity.
type Definition struct {
	Info    Info
	Columns []tabular.Column
	Schema  Schema

	build     BuildFunc
	unmarshal func(data []byte) (Record, error)
}

// Importable reports whether rows can be mapped into this entity.
func (d Definition) Importable() bool {
	return !d.Info.ReadOnly && d.build != nil
}

// Mapper returns the row mapper for an import. Numbered records continue
// after last, the highest number already stored. A row is skipped when a required field is missing
// or when the record breaks the constraints Decode enforces on API payloads.
func (d Definition) Mapper(last int) tabular.MapFunc[Record] {
	return func(row tabular.RawRow, index int) (Record, bool) {
		if d.build == nil {
			return nil, false
		}
		rec, ok := d.build(d.Schema, row, last+index+1)
		if !ok || validate.Struct(rec) != nil {
			return nil, false
		}
		return rec, true
	}
}

// checkSchema verifies that every rule names a record field of the rule's
// kind, using the record an empty payload decodes to.
func (d Definition) checkSchema() error {
	if len(d.Schema) == 0 {
		return nil
	}
	proto, err := d.unmarshal([]byte("{}"))
	if err != nil {
		return err
	}
	for _, rule := range d.Schema {
		var kind FieldKind
		switch proto.Field(rule.Key).(type) {
		case string:
			kind = FieldText
		case int:
			kind = FieldInt
		default:
			return fmt.Errorf("rule %q has no record field", rule.Key)
		}
		if kind != rule.Kind {
			return fmt.Errorf("rule %q is %s but the record field is %s", rule.Key, rule.Kind, kind)
		}
	}
	return nil
}

// Unmarshal decodes a stored record without validation.
func (d Definition) Unmarshal(data []byte) (Record, error) {
	return d.unmarshal(data)
}

// Decode decodes and validates an API payload. Fields left out of the
// payload take their import defaults.
func (d Definition) Decode(data []byte) (Record, error) {
	rec, err := d.unmarshal(data)
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(rec); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", d.Info.Key, err)
	}
	return rec, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// decoder returns an unmarshal func that starts from proto so absent fields
// keep their defaults. Unknown fields are rejected.
func decoder[T Record](proto func() T) func([]byte) (Record, error) {
	return func(data []byte) (Record, error) {
		v := proto()
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
		return v, nil
	}
}

func studentDefinition() Definition {
	return Definition{
		Info: Info{
			Key:            Students,
			Title:          "Students",
			FilenamePrefix: "students",
			ExampleHeaders: []string{"id", "name", "major", "year", "email"},
		},
		Columns: []tabular.Column{
			{Key: "id", Label: "ID"},
			{Key: "name", Label: "Name"},
			{Key: "email", Label: "Email"},
			{Key: "major", Label: "Major"},
			{Key: "year", Label: "Year"},
		},
		Schema: Schema{
			{Key: "id", Aliases: []string{"id", "student_id", "studentid", "student id"}, Required: true},
			{Key: "name", Aliases: []string{"name", "full_name", "fullname", "student_name", "student name"}, Required: true},
			{Key: "major", Aliases: []string{"major", "department", "dept"}},
			{Key: "year", Aliases: []string{"year", "academic_year", "academicyear", "level"}, Kind: FieldInt, DefaultInt: DefaultYear},
			{Key: "email", Aliases: []string{"email", "e-mail", "mail"}},
		},
		build: func(s Schema, row tabular.RawRow, _ int) (Record, bool) {
			id, ok := s.Text(row, "id")
			if !ok {
				return nil, false
			}
			name, ok := s.Text(row, "name")
			if !ok {
				return nil, false
			}
			major, _ := s.Text(row, "major")
			email, _ := s.Text(row, "email")
			return Student{ID: id, Name: name, Major: major, Year: s.Int(row, "year"), Email: email}, true
		},
		unmarshal: decoder(func() Student { return Student{Year: DefaultYear} }),
	}
}

func lecturerDefinition() Definition {
	return Definition{
		Info: Info{
			Key:            Lecturers,
			Title:          "Lecturers",
			FilenamePrefix: "lecturers",
			ExampleHeaders: []string{"id", "name", "department", "load", "email"},
		},
		Columns: []tabular.Column{
			{Key: "id", Label: "ID"},
			{Key: "name", Label: "Name"},
			{Key: "email", Label: "Email"},
			{Key: "department", Label: "Department"},
			{Key: "load", Label: "Teaching Load"},
		},
		Schema: Schema{
			{Key: "id", Aliases: []string{"id", "lecturer_id", "lecturerid", "lecturer id"}, Required: true},
			{Key: "name", Aliases: []string{"name", "full_name", "fullname", "lecturer_name"}, Required: true},
			{Key: "department", Aliases: []string{"department", "dept", "department_name"}},
			{Key: "load", Aliases: []string{"load", "teaching_load", "teachingload", "hours"}, Kind: FieldInt, DefaultInt: DefaultLoad},
			{Key: "email", Aliases: []string{"email", "e-mail", "mail"}},
		},
		build: func(s Schema, row tabular.RawRow, _ int) (Record, bool) {
			id, ok := s.Text(row, "id")
			if !ok {
				return nil, false
			}
			name, ok := s.Text(row, "name")
			if !ok {
				return nil, false
			}
			dept, _ := s.Text(row, "department")
			email, _ := s.Text(row, "email")
			return Lecturer{ID: id, Name: name, Department: dept, Load: s.Int(row, "load"), Email: email}, true
		},
		unmarshal: decoder(func() Lecturer { return Lecturer{Load: DefaultLoad} }),
	}
}

func courseDefinition() Definition {
	return Definition{
		Info: Info{
			Key:            Courses,
			Title:          "Courses",
			FilenamePrefix: "courses",
			ExampleHeaders: []string{"code", "name", "credits", "type", "sections"},
		},
		Columns: []tabular.Column{
			{Key: "code", Label: "Code"},
			{Key: "name", Label: "Name"},
			{Key: "credits", Label: "Credits"},
			{Key: "type", Label: "Type"},
			{Key: "sections", Label: "Sections"},
		},
		Schema: Schema{
			{Key: "code", Aliases: []string{"code", "course_code", "coursecode", "course code"}, Required: true},
			{Key: "name", Aliases: []string{"name", "course_name", "coursename", "course name", "title"}, Required: true},
			{Key: "credits", Aliases: []string{"credits", "credit_hours", "credithours"}, Kind: FieldInt, DefaultInt: DefaultCredits},
			{Key: "type", Aliases: []string{"type", "course_type", "coursetype"}, Default: DefaultCourseType},
			{Key: "sections", Aliases: []string{"sections", "num_sections", "numsections"}, Kind: FieldInt, DefaultInt: DefaultSections},
		},
		build: func(s Schema, row tabular.RawRow, _ int) (Record, bool) {
			code, ok := s.Text(row, "code")
			if !ok {
				return nil, false
			}
			name, ok := s.Text(row, "name")
			if !ok {
				return nil, false
			}
			typ, _ := s.Text(row, "type")
			return Course{
				Code:     code,
				Name:     name,
				Credits:  s.Int(row, "credits"),
				Type:     typ,
				Sections: s.Int(row, "sections"),
			}, true
		},
		unmarshal: decoder(func() Course {
			return Course{Credits: DefaultCredits, Type: DefaultCourseType, Sections: DefaultSections}
		}),
	}
}

func roomDefinition() Definition {
	return Definition{
		Info: Info{
			Key:            Rooms,
			Title:          "Rooms",
			FilenamePrefix: "rooms",
			ExampleHeaders: []string{"id", "building", "capacity", "type"},
		},
		Columns: []tabular.Column{
			{Key: "id", Label: "Room Number"},
			{Key: "building", Label: "Building"},
			{Key: "type", Label: "Type"},
			{Key: "capacity", Label: "Capacity"},
		},
		Schema: Schema{
			{Key: "id", Aliases: []string{"id", "room_id", "roomid", "room_number", "room number", "room"}, Required: true},
			{Key: "building", Aliases: []string{"building", "building_name", "buildingname"}},
			{Key: "capacity", Aliases: []string{"capacity", "seats", "size"}, Kind: FieldInt, DefaultInt: DefaultCapacity},
			{Key: "type", Aliases: []string{"type", "room_type", "roomtype"}, Default: DefaultRoomType},
		},
		build: func(s Schema, row tabular.RawRow, _ int) (Record, bool) {
			id, ok := s.Text(row, "id")
			if !ok {
				return nil, false
			}
			building, _ := s.Text(row, "building")
			typ, _ := s.Text(row, "type")
			return Room{ID: id, Building: building, Capacity: s.Int(row, "capacity"), Type: typ}, true
		},
		unmarshal: decoder(func() Room { return Room{Capacity: DefaultCapacity, Type: DefaultRoomType} }),
	}
}

func timeSlotDefinition() Definition {
	return Definition{
		Info: Info{
			Key:            TimeSlots,
			Title:          "Time Slots",
			FilenamePrefix: "timeslots",
			ExampleHeaders: []string{"day", "start", "end"},
		},
		Columns: []tabular.Column{
			{Key: "day", Label: "Day"},
			{Key: "start", Label: "Start"},
			{Key: "end", Label: "End"},
		},
		Schema: Schema{
			{Key: "day", Aliases: []string{"day", "day_of_week", "dayofweek"}, Required: true},
			{Key: "start", Aliases: []string{"start", "start_time", "starttime", "from"}, Required: true},
			{Key: "end", Aliases: []string{"end", "end_time", "endtime", "to"}, Required: true},
		},
		build: func(s Schema, row tabular.RawRow, id int) (Record, bool) {
			day, ok := s.Text(row, "day")
			if !ok {
				return nil, false
			}
			start, ok := s.Text(row, "start")
			if !ok {
				return nil, false
			}
			end, ok := s.Text(row, "end")
			if !ok {
				return nil, false
			}
			return TimeSlot{ID: id, Day: day, Start: start, End: end}, true
		},
		unmarshal: decoder(func() TimeSlot { return TimeSlot{} }),
	}
}

// scheduleDefinition describes stored schedule entries. The schedule is
// produced by the timetable generator and is read-only here; exports use the
// enriched columns of ScheduleRow.
func scheduleDefinition() Definition {
	return Definition{
		Info: Info{
			Key:            Schedule,
			Title:          "Schedule",
			FilenamePrefix: "schedule",
			SheetName:      "Schedule",
			ReadOnly:       true,
		},
		Columns:   ScheduleColumns,
		unmarshal: decoder(func() ScheduleEntry { return ScheduleEntry{} }),
	}
}
