package core

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/timetable/internal/catalog"
	"github.com/JonMunkholm/timetable/internal/tabular"
)

const coursesCSV = "Course Code,Course Name,Credit Hours,Type\n" +
	"CS101,Introduction to Programming,3,Core\n" +
	"MA101,Calculus I,4,\n" +
	",Missing Code,3,Core\n" +
	"MA101,Calculus I again,4,Core\n"

// ============================================================================
// Happy Path
// ============================================================================

func TestImport_PreviewThenConfirm(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	sess, err := svc.StartImport(ctx, catalog.Courses, "courses.csv", strings.NewReader(coursesCSV))
	require.NoError(t, err)

	assert.Equal(t, StepPreview, sess.Step)
	assert.Equal(t, "courses.csv", sess.FileName)
	assert.Equal(t, 3, sess.Accepted)
	assert.Equal(t, 1, sess.Skipped)
	assert.Equal(t, 2, sess.Duplicates, "CS101 is stored and MA101 repeats")
	assert.Empty(t, sess.MissingFields)
	assert.Nil(t, sess.Error)
	require.Len(t, sess.Sample, 3)

	ma := sess.Sample[1].(catalog.Course)
	assert.Equal(t, 4, ma.Credits)
	assert.Equal(t, catalog.DefaultCourseType, ma.Type)
	assert.Equal(t, catalog.DefaultSections, ma.Sections)

	done, err := svc.ConfirmImport(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, StepDone, done.Step)
	assert.Equal(t, 1, done.Inserted)

	n, err := svc.store.Count(ctx, catalog.Courses)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	got, err := svc.Get(ctx, catalog.Courses, "MA101")
	require.NoError(t, err)
	assert.Equal(t, "Calculus I", got.(catalog.Course).Name, "first occurrence wins")

	existing, err := svc.Get(ctx, catalog.Courses, "CS101")
	require.NoError(t, err)
	assert.Equal(t, 3, existing.(catalog.Course).Sections, "stored record is untouched")
}

func TestImport_TimeSlotsContinueNumbering(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	csv := "Day,Start Time,End Time\nThursday,10:00,11:30\nThursday,12:00,13:30\n"
	sess, err := svc.StartImport(ctx, catalog.TimeSlots, "slots.csv", strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, sess.Sample, 2)
	assert.Equal(t, 10, sess.Sample[0].(catalog.TimeSlot).ID)
	assert.Equal(t, 11, sess.Sample[1].(catalog.TimeSlot).ID)
}

func TestImport_SampleIsCapped(t *testing.T) {
	svc := newTestService(t)
	svc.previewRows = 2

	var b strings.Builder
	b.WriteString("id,name\n")
	for _, id := range []string{"S1", "S2", "S3", "S4"} {
		b.WriteString(id + ",Student " + id + "\n")
	}

	sess, err := svc.StartImport(context.Background(), catalog.Students, "s.csv", strings.NewReader(b.String()))
	require.NoError(t, err)
	assert.Equal(t, 4, sess.Accepted)
	assert.Len(t, sess.Sample, 2)
}

// ============================================================================
// Failures and Transitions
// ============================================================================

func TestImport_FailureStaysInUpload(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	sess, err := svc.StartImport(ctx, catalog.Rooms, "rooms.pdf", strings.NewReader("x"))
	require.ErrorIs(t, err, tabular.ErrUnsupportedFormat)
	require.NotNil(t, sess)
	assert.Equal(t, StepUpload, sess.Step)
	require.NotNil(t, sess.Error)
	assert.Equal(t, "FILE002", sess.Error.Code)

	sess, err = svc.UploadFile(ctx, sess.ID, "rooms.csv", strings.NewReader("Room,Seats\nR900,12\n"))
	require.NoError(t, err)
	assert.Equal(t, StepPreview, sess.Step)
	assert.Nil(t, sess.Error)
	assert.Equal(t, 12, sess.Sample[0].(catalog.Room).Capacity)
}

func TestImport_NoValidRowsReportsMissingFields(t *testing.T) {
	svc := newTestService(t)

	sess, err := svc.StartImport(context.Background(), catalog.Students, "s.csv",
		strings.NewReader("Full Name,Major\nAlice,CS\n"))
	require.ErrorIs(t, err, tabular.ErrNoValidRows)
	assert.Equal(t, StepUpload, sess.Step)
	assert.Equal(t, "IMP001", sess.Error.Code)
	assert.Equal(t, []string{"id"}, sess.MissingFields)
}

func TestImport_EmptyFile(t *testing.T) {
	svc := newTestService(t)

	sess, err := svc.StartImport(context.Background(), catalog.Students, "s.csv", strings.NewReader("id,name\n\n"))
	require.ErrorIs(t, err, tabular.ErrEmptyFile)
	assert.Equal(t, "FILE003", sess.Error.Code)
}

func TestImport_Transitions(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	sess, err := svc.StartImport(ctx, catalog.Courses, "c.csv", strings.NewReader(coursesCSV))
	require.NoError(t, err)

	_, err = svc.UploadFile(ctx, sess.ID, "c.csv", strings.NewReader(coursesCSV))
	assert.ErrorIs(t, err, ErrInvalidTransition, "upload requires the upload step")

	reset, err := svc.ResetImport(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, StepUpload, reset.Step)
	assert.Zero(t, reset.Accepted)
	assert.Empty(t, reset.Sample)
	assert.Empty(t, reset.FileName)

	_, err = svc.ConfirmImport(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition, "nothing to confirm after reset")

	_, err = svc.UploadFile(ctx, sess.ID, "c.csv", strings.NewReader(coursesCSV))
	require.NoError(t, err)
	_, err = svc.ConfirmImport(ctx, sess.ID)
	require.NoError(t, err)

	_, err = svc.ResetImport(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = svc.ConfirmImport(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestImport_Rejections(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.StartImport(ctx, catalog.Schedule, "s.csv", strings.NewReader(coursesCSV))
	assert.ErrorIs(t, err, ErrImportNotSupported)

	_, err = svc.StartImport(ctx, "professors", "t.csv", strings.NewReader(coursesCSV))
	assert.ErrorIs(t, err, ErrUnknownEntity)

	sess, err := svc.StartImport(ctx, catalog.Rooms, "", nil)
	assert.ErrorIs(t, err, ErrNoFile)
	assert.Equal(t, "FILE004", sess.Error.Code)

	_, err = svc.ImportSessionByID("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestImport_LimiterBusy(t *testing.T) {
	svc := newTestService(t)
	svc.limiter = NewImportLimiter(1, 10*time.Millisecond)
	require.True(t, svc.limiter.TryAcquire())
	defer svc.limiter.Release()

	sess, err := svc.StartImport(context.Background(), catalog.Courses, "c.csv", strings.NewReader(coursesCSV))
	assert.ErrorIs(t, err, ErrTooManyImports)
	assert.Equal(t, "UPL001", sess.Error.Code)
}

// ============================================================================
// Expiry
// ============================================================================

func TestImport_SessionsExpire(t *testing.T) {
	svc := newTestService(t)
	clock := time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }

	old, err := svc.StartImport(context.Background(), catalog.Courses, "c.csv", strings.NewReader(coursesCSV))
	require.NoError(t, err)

	clock = clock.Add(svc.sessionTTL / 2)
	fresh, err := svc.StartImport(context.Background(), catalog.Courses, "c.csv", strings.NewReader(coursesCSV))
	require.NoError(t, err)

	clock = clock.Add(svc.sessionTTL/2 + time.Second)
	assert.Equal(t, 1, svc.PruneSessions())

	_, err = svc.ImportSessionByID(old.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = svc.ImportSessionByID(fresh.ID)
	assert.NoError(t, err)

	clock = clock.Add(svc.sessionTTL)
	_, err = svc.ConfirmImport(context.Background(), fresh.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound, "lookup drops an expired session")
}

func TestContextClientIP(t *testing.T) {
	ctx := ContextWithClientIP(context.Background(), "10.0.0.7")
	assert.Equal(t, "10.0.0.7", ClientIPFromContext(ctx))
	assert.Empty(t, ClientIPFromContext(context.Background()))
}
