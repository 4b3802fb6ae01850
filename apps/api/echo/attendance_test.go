package echoapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/school"
	"github.com/trezcool/mahudhurio/core/timetable"
	"github.com/trezcool/mahudhurio/core/user"
	testutil "github.com/trezcool/mahudhurio/tests"
)

// 2026-08-31 is a Monday.
const mondayDate = "2026-08-31"

type markingFixture struct {
	section  school.Section
	students []school.Student
	slot     timetable.Slot
	teacher  user.User
}

// seedMarkingFixture builds a section with a roster of 3 students, a Monday
// hour-1 slot and a teacher bound to the section. The prefix keeps names
// unique across tests sharing the in-mem DB.
func seedMarkingFixture(t *testing.T, prefix string) markingFixture {
	t.Helper()

	sec := testutil.CreateSection(t, schoolSvc, prefix+" Science", prefix+" 2026", "First Year", "10-A")
	students := []school.Student{
		testutil.CreateStudent(t, schoolSvc, "Amina", sec.ID),
		testutil.CreateStudent(t, schoolSvc, "Baraka", sec.ID),
		testutil.CreateStudent(t, schoolSvc, "Chausiku", sec.ID),
	}
	slot := testutil.CreateSlot(t, ttSvc, sec.ID, "Mathematics", 1 /* Monday */, 1)
	teacher := testutil.CreateUser(
		t, usrRepo, "Teacher "+prefix, prefix+"teacher", prefix+"teacher@test.tz", "s3cret",
		user.TeacherRoles, true, sec.ID,
	)
	return markingFixture{section: sec, students: students, slot: slot, teacher: teacher}
}

func markBody(t *testing.T, sectionID, date string, hour int, presentIDs ...string) []byte {
	t.Helper()
	return marchallObj(t, attendance.MarkRequest{
		SectionID:  sectionID,
		Date:       date,
		Hour:       hour,
		PresentIDs: presentIDs,
	})
}

func Test_attendanceApi_mark(t *testing.T) {
	fix := seedMarkingFixture(t, "Mk")

	// a teacher bound elsewhere and a section with no roster
	otherSec := testutil.CreateSection(t, schoolSvc, "Mk Arts", "Mk 2027", "First Year", "10-B")
	foreign := testutil.CreateStudent(t, schoolSvc, "Dalila", otherSec.ID)
	otherTeacher := testutil.CreateUser(
		t, usrRepo, "Other Teacher", "mkteacher2", "mkteacher2@test.tz", "s3cret",
		user.TeacherRoles, true, otherSec.ID,
	)

	emptySec := testutil.CreateSection(t, schoolSvc, "Mk Trade", "Mk 2028", "First Year", "10-C")
	emptyTeacher := testutil.CreateUser(
		t, usrRepo, "Empty Teacher", "mkteacher3", "mkteacher3@test.tz", "s3cret",
		user.TeacherRoles, true, emptySec.ID,
	)

	student := testutil.CreateUser(t, usrRepo, "Hero", "mkhero", "mkhero@test.tz", "s3cret", user.StudentRoles, true)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "mkadmin", "mkadmin@test.tz", "s3cret", user.AdminRoles, true)

	teacherToken := getToken(t, fix.teacher)
	presentIDs := []string{fix.students[0].ID, fix.students[2].ID}

	tests := []httpTest{
		{
			name: "Auth required", body: markBody(t, fix.section.ID, mondayDate, 1, presentIDs...),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "Teacher required (student)", token: getToken(t, student),
			body:     markBody(t, fix.section.ID, mondayDate, 1, presentIDs...),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Teacher required (admin has no section binding)", token: getToken(t, admin),
			body:     markBody(t, fix.section.ID, mondayDate, 1, presentIDs...),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Own section only", token: getToken(t, otherTeacher),
			body:     markBody(t, fix.section.ID, mondayDate, 1, presentIDs...),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Malformed date", token: teacherToken,
			body:     markBody(t, fix.section.ID, "31/08/2026", 1, presentIDs...),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"date": "must be a valid date in YYYY-MM-DD format"}),
		},
		{
			name: "Impossible date", token: teacherToken,
			body:     markBody(t, fix.section.ID, "2026-02-30", 1, presentIDs...),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"date": "must be a valid date in YYYY-MM-DD format"}),
		},
		{
			name: "Invalid hour (below range)", token: teacherToken,
			body:     markBody(t, fix.section.ID, mondayDate, 0, presentIDs...),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: timetable.InvalidHourError{Hour: 0}.Error()}),
		},
		{
			name: "Invalid hour (above range)", token: teacherToken,
			body:     markBody(t, fix.section.ID, mondayDate, 9, presentIDs...),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: timetable.InvalidHourError{Hour: 9}.Error()}),
		},
		{
			name: "Unscheduled hour (free period)", token: teacherToken,
			body:     markBody(t, fix.section.ID, mondayDate, 2, presentIDs...),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: timetable.UnscheduledSlotError{DayOfWeek: 1, Hour: 2}.Error()}),
		},
		{
			name: "Unscheduled day", token: teacherToken,
			body:     markBody(t, fix.section.ID, "2026-09-01" /* Tuesday */, 1, presentIDs...),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: timetable.UnscheduledSlotError{DayOfWeek: 2, Hour: 1}.Error()}),
		},
		{
			name: "Foreign student rejected", token: teacherToken,
			body:     markBody(t, fix.section.ID, mondayDate, 1, fix.students[0].ID, foreign.ID),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: attendance.ForeignStudentError{StudentID: foreign.ID}.Error()}),
		},
		{
			name: "Empty roster rejected", token: getToken(t, emptyTeacher),
			body:     markBody(t, emptySec.ID, mondayDate, 1),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: attendance.ErrEmptyRoster.Error()}),
		},
		{
			name: "Marked", token: teacherToken,
			body:     markBody(t, fix.section.ID, mondayDate, 1, presentIDs...),
			wantCode: http.StatusCreated,
			wantData: marchallObj(t, MarkResponse{Written: 3}),
		},
		{
			name: "Already marked", token: teacherToken,
			body:     markBody(t, fix.section.ID, mondayDate, 1, presentIDs...),
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: attendance.ErrAlreadyMarked.Error()}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/attendance", tt.token, tt.body)
			server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// the full roster was written: absentees included
	t.Run("Closed-world write", func(t *testing.T) {
		rows, err := attSvc.BySlot(context.Background(), fix.slot.ID)
		if err != nil {
			t.Fatalf("BySlot(): %v", err)
		}
		if len(rows) != len(fix.students) {
			t.Fatalf("rows = %d; want %d", len(rows), len(fix.students))
		}
		present := 0
		for _, row := range rows {
			if row.Present {
				present++
			}
		}
		if present != len(presentIDs) {
			t.Errorf("present = %d; want %d", present, len(presentIDs))
		}
	})
}

func Test_attendanceApi_sectionAttendance(t *testing.T) {
	fix := seedMarkingFixture(t, "Sa")

	otherSec := testutil.CreateSection(t, schoolSvc, "Sa Arts", "Sa 2027", "First Year", "10-B")
	otherTeacher := testutil.CreateUser(
		t, usrRepo, "Other Teacher", "sateacher2", "sateacher2@test.tz", "s3cret",
		user.TeacherRoles, true, otherSec.ID,
	)
	student := testutil.CreateUser(t, usrRepo, "Hero", "sahero", "sahero@test.tz", "s3cret", user.StudentRoles, true)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "saadmin", "saadmin@test.tz", "s3cret", user.AdminRoles, true)

	if _, err := attSvc.Mark(context.Background(), attendance.MarkRequest{
		SectionID:  fix.section.ID,
		Date:       mondayDate,
		Hour:       1,
		PresentIDs: []string{fix.students[1].ID},
	}); err != nil {
		t.Fatalf("Mark(): %v", err)
	}

	path := func(sectionID, date string) string {
		return fmt.Sprintf("/v1/attendance/sections/%s?date=%s", sectionID, date)
	}

	tests := []httpTest{
		{name: "Auth required", path: path(fix.section.ID, mondayDate), wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin or teacher required", path: path(fix.section.ID, mondayDate), token: getToken(t, student),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Own section only", path: path(fix.section.ID, mondayDate), token: getToken(t, otherTeacher),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Malformed date", path: path(fix.section.ID, "lol"), token: getToken(t, admin),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"date": "date must be a valid date (YYYY-MM-DD)"}),
		},
		{name: "Marked date (admin)", path: path(fix.section.ID, mondayDate), token: getToken(t, admin), wantCode: http.StatusOK, extra: 3},
		{name: "Marked date (own teacher)", path: path(fix.section.ID, mondayDate), token: getToken(t, fix.teacher), wantCode: http.StatusOK, extra: 3},
		{name: "Unmarked date", path: path(fix.section.ID, "2026-09-07"), token: getToken(t, admin), wantCode: http.StatusOK, extra: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if wantCount, ok := tt.extra.(int); ok {
				var resp SectionAttendanceResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("unmarshalling response: %v", err)
				}
				if resp.Count != wantCount {
					t.Errorf("count = %d; want %d", resp.Count, wantCount)
				}
				if wantCount > 0 {
					if row, ok := resp.Attendance[fix.students[1].ID]; !ok || !row.Present {
						t.Error("expected the submitted student to be present")
					}
					if row, ok := resp.Attendance[fix.students[0].ID]; !ok || row.Present {
						t.Error("expected the unsubmitted student to be absent")
					}
				}
			}
		})
	}
}

func Test_attendanceApi_correct(t *testing.T) {
	fix := seedMarkingFixture(t, "Co")

	student := testutil.CreateUser(t, usrRepo, "Hero", "cohero", "cohero@test.tz", "s3cret", user.StudentRoles, true)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "coadmin", "coadmin@test.tz", "s3cret", user.AdminRoles, true)

	// a teacher bound to a different section must not reach this ledger
	otherSec := testutil.CreateSection(t, schoolSvc, "Co Arts", "Co 2027", "First Year", "10-B")
	otherTeacher := testutil.CreateUser(
		t, usrRepo, "Other Teacher", "coteacher2", "coteacher2@test.tz", "s3cret",
		user.TeacherRoles, true, otherSec.ID,
	)

	ctx := context.Background()
	if _, err := attSvc.Mark(ctx, attendance.MarkRequest{
		SectionID:  fix.section.ID,
		Date:       mondayDate,
		Hour:       1,
		PresentIDs: []string{fix.students[0].ID},
	}); err != nil {
		t.Fatalf("Mark(): %v", err)
	}

	rows, err := attSvc.BySlot(ctx, fix.slot.ID)
	if err != nil {
		t.Fatalf("BySlot(): %v", err)
	}
	var absentee attendance.Attendance
	for _, row := range rows {
		if !row.Present {
			absentee = row
			break
		}
	}
	if absentee.ID == "" {
		t.Fatal("expected an absentee row")
	}

	body := marchallObj(t, attendance.CorrectRequest{Present: true})

	tests := []httpTest{
		{name: "Auth required", path: "/v1/attendance/" + absentee.ID, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Teacher required", path: "/v1/attendance/" + absentee.ID, token: getToken(t, student),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Own section only", path: "/v1/attendance/" + absentee.ID, token: getToken(t, otherTeacher),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Not found", path: "/v1/attendance/lol", token: getToken(t, fix.teacher),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: attendance.ErrNotFound.Error()}),
		},
		{name: "Corrected", path: "/v1/attendance/" + absentee.ID, token: getToken(t, fix.teacher), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPut, tt.path, tt.token, body)
			server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("Correction persisted", func(t *testing.T) {
		row, err := attSvc.Get(ctx, absentee.ID)
		if err != nil {
			t.Fatalf("Get(): %v", err)
		}
		if !row.Present {
			t.Error("correction was not persisted")
		}
		if !row.UpdatedAt.After(absentee.UpdatedAt) && !row.UpdatedAt.Equal(absentee.UpdatedAt) {
			t.Error("UpdatedAt went backwards")
		}
	})

	slotTests := []httpTest{
		{
			name: "Slot report (other section's teacher)", path: "/v1/attendance/slots/" + fix.slot.ID, token: getToken(t, otherTeacher),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Slot report (unknown slot)", path: "/v1/attendance/slots/lol", token: getToken(t, fix.teacher),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: timetable.ErrSlotNotFound.Error()}),
		},
		{name: "Slot report (admin)", path: "/v1/attendance/slots/" + fix.slot.ID, token: getToken(t, admin), wantCode: http.StatusOK},
		{name: "Slot report (own teacher)", path: "/v1/attendance/slots/" + fix.slot.ID, token: getToken(t, fix.teacher), wantCode: http.StatusOK},
	}
	for _, tt := range slotTests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				var got []attendance.Attendance
				if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
					t.Fatalf("unmarshalling response: %v", err)
				}
				if len(got) != len(fix.students) {
					t.Errorf("rows = %d; want %d", len(got), len(fix.students))
				}
			}
		})
	}
}
