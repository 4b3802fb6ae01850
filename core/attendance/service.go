package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/school"
	"github.com/trezcool/mahudhurio/core/timetable"
)

var (
	// errors
	ErrNotFound    = errors.New("attendance record not found")
	ErrEmptyRoster = errors.New("section has no students")
	// ErrAlreadyMarked: attendance for this slot and date has been taken.
	// Not retriable; corrections go through Correct.
	ErrAlreadyMarked = errors.New("attendance already marked for this slot and date")
	// ErrStorageConflict: the write lost a storage-level race that was not a
	// duplicate mark. Callers should re-fetch state before retrying.
	ErrStorageConflict = errors.New("storage conflict, re-fetch state before retrying")
)

// ForeignStudentError rejects a submitted ID that is not on the target
// section's roster.
type ForeignStudentError struct {
	StudentID string
}

func (e ForeignStudentError) Error() string {
	return fmt.Sprintf("student %s is not in the section's roster", e.StudentID)
}

// RosterStore is the slice of the school service the engine needs.
type RosterStore interface {
	ListStudents(ctx context.Context, sectionID string) ([]school.Student, error)
}

// SlotResolver is the slice of the timetable service the engine needs.
type SlotResolver interface {
	SlotForSection(ctx context.Context, sectionID string, dayOfWeek, hour int) (timetable.Slot, error)
}

type Repository interface {
	// CreateBatch persists all rows in one transaction: all or none. A
	// uniqueness violation on (student, date, slot) maps to ErrAlreadyMarked,
	// any other constraint failure to ErrStorageConflict.
	CreateBatch(ctx context.Context, rows []Attendance) error
	// SlotMarked reports whether any row exists for (slot, date).
	SlotMarked(ctx context.Context, slotID string, date time.Time) (bool, error)
	GetAttendanceByID(ctx context.Context, id string) (Attendance, error)
	QuerySectionAttendance(ctx context.Context, sectionID string, date time.Time) ([]Attendance, error)
	QueryBySlot(ctx context.Context, slotID string) ([]Attendance, error)
	UpdateAttendancePresent(ctx context.Context, id string, present bool) (Attendance, error)
}

type Service struct {
	repo   Repository
	roster RosterStore
	slots  SlotResolver
}

func NewService(repo Repository, roster RosterStore, slots SlotResolver) *Service {
	return &Service{repo: repo, roster: roster, slots: slots}
}

// Mark writes one attendance row per current roster member of the section:
// Present for the submitted IDs, Absent for everyone else. It validates the
// full request before touching the ledger; the only failure possible during
// the write itself is a storage conflict, which the repository maps back into
// ErrAlreadyMarked or ErrStorageConflict. Returns the number of rows written.
func (svc *Service) Mark(ctx context.Context, req MarkRequest) (int, error) {
	date, err := req.Day()
	if err != nil {
		return 0, core.NewValidationError(nil, core.FieldError{Field: "date", Error: "must be a valid date in YYYY-MM-DD format"})
	}

	roster, err := svc.roster.ListStudents(ctx, req.SectionID)
	if err != nil {
		return 0, err
	}
	if len(roster) == 0 {
		return 0, ErrEmptyRoster
	}

	rosterIDs := make(map[string]bool, len(roster))
	for _, s := range roster {
		rosterIDs[s.ID] = true
	}
	for _, id := range req.PresentIDs {
		if !rosterIDs[id] {
			return 0, ForeignStudentError{StudentID: id}
		}
	}

	slot, err := svc.slots.SlotForSection(ctx, req.SectionID, timetable.ISODay(date.Weekday()), req.Hour)
	if err != nil {
		return 0, err
	}

	// friendly pre-check; the unique constraint remains the authority
	marked, err := svc.repo.SlotMarked(ctx, slot.ID, date)
	if err != nil {
		return 0, err
	}
	if marked {
		return 0, ErrAlreadyMarked
	}

	present := make(map[string]bool, len(req.PresentIDs))
	for _, id := range req.PresentIDs {
		present[id] = true
	}

	now := time.Now().UTC()
	rows := make([]Attendance, 0, len(roster))
	for _, s := range roster {
		rows = append(rows, Attendance{
			StudentID:       s.ID,
			Date:            date,
			TimetableSlotID: slot.ID,
			Present:         present[s.ID],
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}
	if err = svc.repo.CreateBatch(ctx, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// SectionAttendance returns the section's ledger rows for a date keyed by
// student ID. A date with no marking yields an empty map, not an error.
func (svc *Service) SectionAttendance(ctx context.Context, sectionID string, date time.Time) (map[string]Attendance, error) {
	rows, err := svc.repo.QuerySectionAttendance(ctx, sectionID, date)
	if err != nil {
		return nil, err
	}
	byStudent := make(map[string]Attendance, len(rows))
	for _, row := range rows {
		byStudent[row.StudentID] = row
	}
	return byStudent, nil
}

// BySlot returns all rows tied to one timetable slot across dates, for
// subject-level views.
func (svc *Service) BySlot(ctx context.Context, slotID string) ([]Attendance, error) {
	return svc.repo.QueryBySlot(ctx, slotID)
}

func (svc *Service) Get(ctx context.Context, id string) (Attendance, error) {
	return svc.repo.GetAttendanceByID(ctx, id)
}

// Correct mutates one existing row's status in place. The (section, date,
// slot) tuple stays Marked; rows are never deleted and recreated.
func (svc *Service) Correct(ctx context.Context, id string, present bool) (Attendance, error) {
	return svc.repo.UpdateAttendancePresent(ctx, id, present)
}
