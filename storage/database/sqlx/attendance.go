package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core/attendance"
)

type attendanceRow struct {
	ID              string    `db:"id"`
	StudentID       string    `db:"student_id"`
	Date            time.Time `db:"date"`
	TimetableSlotID string    `db:"timetable_slot_id"`
	Present         bool      `db:"present"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sqlx.DB) *attendanceRepository {
	return &attendanceRepository{db: db}
}

// CreateBatch inserts all rows in one transaction. The ledger's uniqueness
// constraint on (student, date, slot) is the authoritative duplicate signal:
// losing that race maps to ErrAlreadyMarked, any other constraint rejection
// to ErrStorageConflict. Either way the transaction rolls back whole.
func (repo attendanceRepository) CreateBatch(ctx context.Context, rows []attendance.Attendance) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning attendance batch")
	}
	defer func() { _ = tx.Rollback() }()

	for _, row := range rows {
		row.ID = uuid.NewString()
		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO attendance (id, student_id, date, timetable_slot_id, present, created_at, updated_at)
			VALUES (:id, :student_id, :date, :timetable_slot_id, :present, :created_at, :updated_at)`,
			attendanceRow(row),
		)
		if err != nil {
			if isUniqueViolation(err, "attendance_student_date_slot_key") {
				return attendance.ErrAlreadyMarked
			}
			if isUniqueViolation(err, "") {
				return attendance.ErrStorageConflict
			}
			return errors.Wrap(err, "inserting attendance")
		}
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "committing attendance batch")
	}
	return nil
}

func (repo attendanceRepository) SlotMarked(ctx context.Context, slotID string, date time.Time) (bool, error) {
	var marked bool
	err := repo.db.GetContext(ctx, &marked, `
		SELECT EXISTS (SELECT 1 FROM attendance WHERE timetable_slot_id = $1 AND date = $2)`,
		slotID, date,
	)
	if err != nil {
		return false, errors.Wrap(err, "checking marked slot")
	}
	return marked, nil
}

func (repo attendanceRepository) GetAttendanceByID(ctx context.Context, id string) (attendance.Attendance, error) {
	var row attendanceRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM attendance WHERE id = $1`, id); err != nil {
		return attendance.Attendance{}, trapNoRowsErr(err, attendance.ErrNotFound, "getting attendance")
	}
	return attendance.Attendance(row), nil
}

func (repo attendanceRepository) QuerySectionAttendance(ctx context.Context, sectionID string, date time.Time) ([]attendance.Attendance, error) {
	var rows []attendanceRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT a.* FROM attendance a
		JOIN student s ON s.id = a.student_id
		WHERE s.section_id = $1 AND a.date = $2
		ORDER BY a.student_id`,
		sectionID, date,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying section attendance")
	}
	return unpackAttendance(rows), nil
}

func (repo attendanceRepository) QueryBySlot(ctx context.Context, slotID string) ([]attendance.Attendance, error) {
	var rows []attendanceRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT * FROM attendance WHERE timetable_slot_id = $1 ORDER BY date, student_id`, slotID)
	if err != nil {
		return nil, errors.Wrap(err, "querying slot attendance")
	}
	return unpackAttendance(rows), nil
}

func (repo attendanceRepository) UpdateAttendancePresent(ctx context.Context, id string, present bool) (attendance.Attendance, error) {
	var row attendanceRow
	err := repo.db.GetContext(ctx, &row, `
		UPDATE attendance SET present = $1, updated_at = now() WHERE id = $2 RETURNING *`,
		present, id,
	)
	if err != nil {
		return attendance.Attendance{}, trapNoRowsErr(err, attendance.ErrNotFound, "correcting attendance")
	}
	return attendance.Attendance(row), nil
}

func unpackAttendance(rows []attendanceRow) []attendance.Attendance {
	recs := make([]attendance.Attendance, 0, len(rows))
	for _, row := range rows {
		recs = append(recs, attendance.Attendance(row))
	}
	return recs
}
