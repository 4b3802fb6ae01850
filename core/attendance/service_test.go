package attendance_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/school"
	"github.com/trezcool/mahudhurio/core/timetable"
	dummydb "github.com/trezcool/mahudhurio/storage/database/dummy"
)

type fixture struct {
	schoolSvc     *school.Service
	timetableSvc  *timetable.Service
	attendanceSvc *attendance.Service

	section  school.Section
	students []school.Student
	slot     timetable.Slot
}

// setup builds section "10-A" with 3 students and a Monday hour-1 Math slot.
func setup(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()

	db, err := dummydb.Open()
	require.NoError(t, err)

	schoolRepo := dummydb.NewSchoolRepository(db)
	ttRepo := dummydb.NewTimetableRepository(db)
	attRepo := dummydb.NewAttendanceRepository(db)

	schoolSvc := school.NewService(schoolRepo)
	ttSvc := timetable.NewService(ttRepo)
	attSvc := attendance.NewService(attRepo, schoolSvc, ttSvc)

	dept, err := schoolSvc.CreateDepartment(ctx, school.NewDepartment{Name: "Science"})
	require.NoError(t, err)
	batch, err := schoolSvc.CreateBatch(ctx, school.NewBatch{Name: "2026", DepartmentID: dept.ID})
	require.NoError(t, err)
	year, err := schoolSvc.CreateYear(ctx, school.NewYear{Name: "First Year", BatchID: batch.ID})
	require.NoError(t, err)
	section, err := schoolSvc.CreateSection(ctx, school.NewSection{Name: "10-A", YearID: year.ID})
	require.NoError(t, err)

	students := make([]school.Student, 0, 3)
	for _, name := range []string{"Amina", "Baraka", "Chausiku"} {
		s, err := schoolSvc.CreateStudent(ctx, school.NewStudent{Name: name, SectionID: section.ID})
		require.NoError(t, err)
		students = append(students, s)
	}

	tt, err := ttSvc.Create(ctx, timetable.NewTimetable{Name: "Semester 1", SectionID: section.ID})
	require.NoError(t, err)
	slot, err := ttSvc.AddSlot(ctx, timetable.NewSlot{
		TimetableID: tt.ID,
		DayOfWeek:   1, // Monday
		Hour:        1,
		Subject:     "Math",
	})
	require.NoError(t, err)

	return fixture{
		schoolSvc:     schoolSvc,
		timetableSvc:  ttSvc,
		attendanceSvc: attSvc,
		section:       section,
		students:      students,
		slot:          slot,
	}
}

const monday = "2026-08-31" // a Monday

func TestMark(t *testing.T) {
	ctx := context.Background()
	fix := setup(t)

	present := []string{fix.students[0].ID, fix.students[2].ID}
	n, err := fix.attendanceSvc.Mark(ctx, attendance.MarkRequest{
		SectionID:  fix.section.ID,
		Date:       monday,
		Hour:       1,
		PresentIDs: present,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n, "one row per roster member")

	date, _ := time.Parse(attendance.DateLayout, monday)
	byStudent, err := fix.attendanceSvc.SectionAttendance(ctx, fix.section.ID, date)
	require.NoError(t, err)
	require.Len(t, byStudent, 3)
	assert.True(t, byStudent[fix.students[0].ID].Present)
	assert.False(t, byStudent[fix.students[1].ID].Present)
	assert.True(t, byStudent[fix.students[2].ID].Present)
	for _, row := range byStudent {
		assert.Equal(t, fix.slot.ID, row.TimetableSlotID)
	}
}

func TestMarkTwiceRejected(t *testing.T) {
	ctx := context.Background()
	fix := setup(t)

	req := attendance.MarkRequest{
		SectionID:  fix.section.ID,
		Date:       monday,
		Hour:       1,
		PresentIDs: []string{fix.students[0].ID},
	}
	n, err := fix.attendanceSvc.Mark(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = fix.attendanceSvc.Mark(ctx, req)
	assert.ErrorIs(t, err, attendance.ErrAlreadyMarked)
	assert.Zero(t, n)

	// ledger still holds exactly one row per roster member
	date, _ := time.Parse(attendance.DateLayout, monday)
	byStudent, err := fix.attendanceSvc.SectionAttendance(ctx, fix.section.ID, date)
	require.NoError(t, err)
	assert.Len(t, byStudent, 3)
}

func TestMarkForeignStudent(t *testing.T) {
	ctx := context.Background()
	fix := setup(t)

	// a student from another section
	other, err := fix.schoolSvc.CreateSection(ctx, school.NewSection{Name: "10-B", YearID: fix.section.YearID})
	require.NoError(t, err)
	foreign, err := fix.schoolSvc.CreateStudent(ctx, school.NewStudent{Name: "Dalila", SectionID: other.ID})
	require.NoError(t, err)

	n, err := fix.attendanceSvc.Mark(ctx, attendance.MarkRequest{
		SectionID:  fix.section.ID,
		Date:       monday,
		Hour:       1,
		PresentIDs: []string{foreign.ID},
	})
	assert.Zero(t, n)
	var fsErr attendance.ForeignStudentError
	require.ErrorAs(t, err, &fsErr)
	assert.Equal(t, foreign.ID, fsErr.StudentID)

	// zero writes
	date, _ := time.Parse(attendance.DateLayout, monday)
	byStudent, err := fix.attendanceSvc.SectionAttendance(ctx, fix.section.ID, date)
	require.NoError(t, err)
	assert.Empty(t, byStudent)
}

func TestMarkEmptyRoster(t *testing.T) {
	ctx := context.Background()
	fix := setup(t)

	empty, err := fix.schoolSvc.CreateSection(ctx, school.NewSection{Name: "10-C", YearID: fix.section.YearID})
	require.NoError(t, err)

	n, err := fix.attendanceSvc.Mark(ctx, attendance.MarkRequest{
		SectionID: empty.ID,
		Date:      monday,
		Hour:      1,
	})
	assert.ErrorIs(t, err, attendance.ErrEmptyRoster)
	assert.Zero(t, n)
}

func TestMarkImpossibleDate(t *testing.T) {
	ctx := context.Background()
	fix := setup(t)

	// well-formed but not on the calendar
	for _, day := range []string{"2026-02-30", "2026-13-01", "2026-04-31"} {
		n, err := fix.attendanceSvc.Mark(ctx, attendance.MarkRequest{
			SectionID:  fix.section.ID,
			Date:       day,
			Hour:       1,
			PresentIDs: []string{fix.students[0].ID},
		})
		assert.Zero(t, n)
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
	}

	// nothing written anywhere near the zero date either
	rows, err := fix.attendanceSvc.BySlot(ctx, fix.slot.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestMarkUnscheduledSlot(t *testing.T) {
	ctx := context.Background()
	fix := setup(t)

	// hour 2 has nothing scheduled on Monday
	n, err := fix.attendanceSvc.Mark(ctx, attendance.MarkRequest{
		SectionID:  fix.section.ID,
		Date:       monday,
		Hour:       2,
		PresentIDs: []string{fix.students[0].ID},
	})
	assert.Zero(t, n)
	var usErr timetable.UnscheduledSlotError
	require.ErrorAs(t, err, &usErr)
	assert.Equal(t, 2, usErr.Hour)

	date, _ := time.Parse(attendance.DateLayout, monday)
	byStudent, err := fix.attendanceSvc.SectionAttendance(ctx, fix.section.ID, date)
	require.NoError(t, err)
	assert.Empty(t, byStudent)
}

func TestMarkInvalidHour(t *testing.T) {
	ctx := context.Background()
	fix := setup(t)

	for _, hour := range []int{0, 9, -1} {
		n, err := fix.attendanceSvc.Mark(ctx, attendance.MarkRequest{
			SectionID:  fix.section.ID,
			Date:       monday,
			Hour:       hour,
			PresentIDs: []string{fix.students[0].ID},
		})
		assert.Zero(t, n)
		var ihErr timetable.InvalidHourError
		require.ErrorAs(t, err, &ihErr)
		assert.Equal(t, hour, ihErr.Hour)
	}
}

func TestSectionAttendanceUnmarkedDate(t *testing.T) {
	ctx := context.Background()
	fix := setup(t)

	date, _ := time.Parse(attendance.DateLayout, "2026-09-07")
	byStudent, err := fix.attendanceSvc.SectionAttendance(ctx, fix.section.ID, date)
	require.NoError(t, err)
	assert.NotNil(t, byStudent)
	assert.Empty(t, byStudent)
}

func TestBySlot(t *testing.T) {
	ctx := context.Background()
	fix := setup(t)

	for _, day := range []string{"2026-08-31", "2026-09-07"} { // two Mondays
		_, err := fix.attendanceSvc.Mark(ctx, attendance.MarkRequest{
			SectionID:  fix.section.ID,
			Date:       day,
			Hour:       1,
			PresentIDs: []string{fix.students[0].ID},
		})
		require.NoError(t, err)
	}

	rows, err := fix.attendanceSvc.BySlot(ctx, fix.slot.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 6) // 3 students x 2 dates
	for _, row := range rows {
		assert.Equal(t, fix.slot.ID, row.TimetableSlotID)
	}
}

func TestCorrect(t *testing.T) {
	ctx := context.Background()
	fix := setup(t)

	_, err := fix.attendanceSvc.Mark(ctx, attendance.MarkRequest{
		SectionID: fix.section.ID,
		Date:      monday,
		Hour:      1,
	})
	require.NoError(t, err)

	date, _ := time.Parse(attendance.DateLayout, monday)
	byStudent, err := fix.attendanceSvc.SectionAttendance(ctx, fix.section.ID, date)
	require.NoError(t, err)
	row := byStudent[fix.students[1].ID]
	require.False(t, row.Present)

	corrected, err := fix.attendanceSvc.Correct(ctx, row.ID, true)
	require.NoError(t, err)
	assert.True(t, corrected.Present)
	assert.Equal(t, row.ID, corrected.ID)

	// tuple stays Marked: still 3 rows
	byStudent, err = fix.attendanceSvc.SectionAttendance(ctx, fix.section.ID, date)
	require.NoError(t, err)
	assert.Len(t, byStudent, 3)
	assert.True(t, byStudent[fix.students[1].ID].Present)
}

func TestCorrectNotFound(t *testing.T) {
	ctx := context.Background()
	fix := setup(t)

	_, err := fix.attendanceSvc.Correct(ctx, "b4e7d2b0-0000-4000-8000-000000000000", true)
	assert.ErrorIs(t, err, attendance.ErrNotFound)
}
