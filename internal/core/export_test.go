package core

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/timetable/internal/catalog"
	"github.com/JonMunkholm/timetable/internal/tabular"
)

func render(t *testing.T, job *ExportJob) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, job.Write(context.Background(), &buf))
	return buf.String()
}

// ============================================================================
// Entity Exports
// ============================================================================

func TestExport_CSVAll(t *testing.T) {
	svc := newTestService(t)

	job, err := svc.Export(context.Background(), ExportRequest{Entity: catalog.Courses})
	require.NoError(t, err)
	assert.Equal(t, "courses-all.csv", job.Filename)
	assert.Equal(t, "text/csv;charset=utf-8;", job.ContentType)
	assert.Equal(t, 6, job.Count)

	lines := strings.Split(render(t, job), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "Code,Name,Credits,Type,Sections", lines[0])
	assert.Equal(t, "CS101,Introduction to Programming,3,Core,3", lines[1])
}

func TestExport_CurrentPage(t *testing.T) {
	svc := newTestService(t)

	job, err := svc.Export(context.Background(), ExportRequest{
		Entity: catalog.Students,
		Format: tabular.FormatJSON,
		Scope:  tabular.ScopeCurrent,
		Query:  ListQuery{Page: 2, PageSize: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, "students-current.json", job.Filename)
	assert.Equal(t, 2, job.Count)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(render(t, job)), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "STU003", rows[0]["ID"])
	assert.Equal(t, "STU004", rows[1]["ID"])
}

func TestExport_Printable(t *testing.T) {
	svc := newTestService(t)

	job, err := svc.Export(context.Background(), ExportRequest{Entity: catalog.Rooms, Format: tabular.FormatPrintable})
	require.NoError(t, err)
	assert.Equal(t, "rooms-all.html", job.Filename)

	out := render(t, job)
	assert.Contains(t, out, "<h1>Rooms</h1>")
	assert.Contains(t, out, "5 records")
	assert.Contains(t, out, "window.print()")
}

func TestExport_UnknownEntity(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Export(context.Background(), ExportRequest{Entity: "professors"})
	assert.ErrorIs(t, err, ErrUnknownEntity)
}

// ============================================================================
// Schedule Exports
// ============================================================================

func TestExport_ScheduleScopes(t *testing.T) {
	svc := newTestService(t)
	filter := catalog.ScheduleFilter{Kind: catalog.FilterCourse, Value: "CS101"}

	current, err := svc.Export(context.Background(), ExportRequest{
		Entity: catalog.Schedule,
		Scope:  tabular.ScopeCurrent,
		Filter: filter,
	})
	require.NoError(t, err)
	assert.Equal(t, "schedule-current.csv", current.Filename)
	assert.Equal(t, 2, current.Count)

	lines := strings.Split(render(t, current), "\n")
	assert.Equal(t, "Course,Section,Course Name,Lecturer,Room,Building,Day,Time,Students", lines[0])
	assert.Equal(t, "CS101,A,Introduction to Programming,Dr. Mohammad Saleh,R202,Building B,Sunday,08:00-09:30,45", lines[1])

	all, err := svc.Export(context.Background(), ExportRequest{
		Entity: catalog.Schedule,
		Scope:  tabular.ScopeAll,
		Filter: filter,
	})
	require.NoError(t, err)
	assert.Equal(t, 8, all.Count, "scope all ignores the filter")
}

func TestExport_ScheduleWorkbook(t *testing.T) {
	svc := newTestService(t)

	job, err := svc.Export(context.Background(), ExportRequest{Entity: catalog.Schedule, Format: tabular.FormatXLSX})
	require.NoError(t, err)
	assert.Equal(t, "schedule-all.xlsx", job.Filename)

	var buf bytes.Buffer
	require.NoError(t, job.Write(context.Background(), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Schedule"}, f.GetSheetList())
	rows, err := f.GetRows("Schedule")
	require.NoError(t, err)
	require.Len(t, rows, 9)
	assert.Equal(t, "Course Name", rows[0][2])
	assert.Equal(t, "Data Structures", rows[2][2])
}
