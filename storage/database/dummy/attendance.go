package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/mahudhurio/core/attendance"
)

type attendanceRepository struct {
	db       *attendanceTable
	schoolDB *schoolTables
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db.attendance, schoolDB: db.school}
}

// CreateBatch emulates the ledger's uniqueness constraint on
// (student, date, slot): a duplicate anywhere in the batch rejects the whole
// batch, nothing is written.
func (repo *attendanceRepository) CreateBatch(_ context.Context, rows []attendance.Attendance) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, row := range rows {
		for _, existing := range repo.db.table {
			if existing.StudentID == row.StudentID &&
				existing.TimetableSlotID == row.TimetableSlotID &&
				existing.Date.Equal(row.Date) {
				return attendance.ErrAlreadyMarked
			}
		}
	}
	for _, row := range rows {
		row.ID = uuid.NewString()
		rowCopy := row
		repo.db.table[row.ID] = &rowCopy
	}
	return nil
}

func (repo *attendanceRepository) SlotMarked(_ context.Context, slotID string, date time.Time) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, row := range repo.db.table {
		if row.TimetableSlotID == slotID && row.Date.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (repo *attendanceRepository) GetAttendanceByID(_ context.Context, id string) (attendance.Attendance, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if row, ok := repo.db.table[id]; ok {
		return *row, nil
	}
	return attendance.Attendance{}, attendance.ErrNotFound
}

func (repo *attendanceRepository) QuerySectionAttendance(_ context.Context, sectionID string, date time.Time) ([]attendance.Attendance, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	repo.schoolDB.RLock()
	defer repo.schoolDB.RUnlock()

	rows := make([]attendance.Attendance, 0)
	for _, row := range repo.db.table {
		if !row.Date.Equal(date) {
			continue
		}
		if student, ok := repo.schoolDB.students[row.StudentID]; ok && student.SectionID == sectionID {
			rows = append(rows, *row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].StudentID < rows[j].StudentID })
	return rows, nil
}

func (repo *attendanceRepository) QueryBySlot(_ context.Context, slotID string) ([]attendance.Attendance, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	rows := make([]attendance.Attendance, 0)
	for _, row := range repo.db.table {
		if row.TimetableSlotID == slotID {
			rows = append(rows, *row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	return rows, nil
}

func (repo *attendanceRepository) UpdateAttendancePresent(_ context.Context, id string, present bool) (attendance.Attendance, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	row, ok := repo.db.table[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrNotFound
	}
	row.Present = present
	row.UpdatedAt = time.Now().UTC()
	return *row, nil
}
