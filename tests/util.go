package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/mahudhurio/core/school"
	"github.com/trezcool/mahudhurio/core/timetable"
	"github.com/trezcool/mahudhurio/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
	sectionID ...string,
) user.User {
	t.Helper()

	now := time.Now().UTC()
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  isActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if len(sectionID) > 0 {
		usr.SectionID = null.StringFrom(sectionID[0])
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

// CreateSection builds the full Department > Batch > Year > Section chain
// and returns the section.
func CreateSection(
	t *testing.T,
	svc *school.Service,
	dept, batch, year, section string,
) school.Section {
	t.Helper()
	ctx := context.Background()

	d, err := svc.CreateDepartment(ctx, school.NewDepartment{Name: dept})
	if err != nil {
		t.Fatalf("CreateSection() failed: %v", err)
	}
	b, err := svc.CreateBatch(ctx, school.NewBatch{Name: batch, DepartmentID: d.ID})
	if err != nil {
		t.Fatalf("CreateSection() failed: %v", err)
	}
	y, err := svc.CreateYear(ctx, school.NewYear{Name: year, BatchID: b.ID})
	if err != nil {
		t.Fatalf("CreateSection() failed: %v", err)
	}
	sec, err := svc.CreateSection(ctx, school.NewSection{Name: section, YearID: y.ID})
	if err != nil {
		t.Fatalf("CreateSection() failed: %v", err)
	}
	return sec
}

func CreateStudent(t *testing.T, svc *school.Service, name, sectionID string) school.Student {
	t.Helper()

	student, err := svc.CreateStudent(context.Background(), school.NewStudent{Name: name, SectionID: sectionID})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return student
}

// CreateSlot creates a timetable for the section (if needed) and schedules
// one slot in it.
func CreateSlot(
	t *testing.T,
	svc *timetable.Service,
	sectionID, subject string,
	day, hour int,
) timetable.Slot {
	t.Helper()
	ctx := context.Background()

	tts, err := svc.QueryBySection(ctx, sectionID)
	if err != nil {
		t.Fatalf("CreateSlot() failed: %v", err)
	}
	var tt timetable.Timetable
	if len(tts) > 0 {
		tt = tts[0]
	} else {
		if tt, err = svc.Create(ctx, timetable.NewTimetable{Name: "Semester 1", SectionID: sectionID}); err != nil {
			t.Fatalf("CreateSlot() failed: %v", err)
		}
	}

	slot, err := svc.AddSlot(ctx, timetable.NewSlot{
		TimetableID: tt.ID,
		DayOfWeek:   day,
		Hour:        hour,
		Subject:     subject,
	})
	if err != nil {
		t.Fatalf("CreateSlot() failed: %v", err)
	}
	return slot
}
