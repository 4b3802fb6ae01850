package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core/timetable"
)

type timetableRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	SectionID string    `db:"section_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type slotRow struct {
	ID          string    `db:"id"`
	TimetableID string    `db:"timetable_id"`
	DayOfWeek   int       `db:"day_of_week"`
	Hour        int       `db:"hour"`
	Subject     string    `db:"subject"`
	Teacher     string    `db:"teacher"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type timetableRepository struct {
	db *sqlx.DB
}

var _ timetable.Repository = (*timetableRepository)(nil) // interface compliance check

func NewTimetableRepository(db *sqlx.DB) *timetableRepository {
	return &timetableRepository{db: db}
}

func (repo timetableRepository) CreateTimetable(ctx context.Context, tt timetable.Timetable) (timetable.Timetable, error) {
	tt.ID = uuid.NewString()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO timetable (id, name, section_id, created_at, updated_at)
		VALUES (:id, :name, :section_id, :created_at, :updated_at)`,
		timetableRow(tt),
	)
	if err != nil {
		return timetable.Timetable{}, errors.Wrap(err, "inserting timetable")
	}
	return tt, nil
}

func (repo timetableRepository) GetTimetableByID(ctx context.Context, id string) (timetable.Timetable, error) {
	var row timetableRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM timetable WHERE id = $1`, id); err != nil {
		return timetable.Timetable{}, trapNoRowsErr(err, timetable.ErrNotFound, "getting timetable")
	}
	return timetable.Timetable(row), nil
}

// QueryTimetables returns a section's timetables, most recent first.
func (repo timetableRepository) QueryTimetables(ctx context.Context, sectionID string) ([]timetable.Timetable, error) {
	var rows []timetableRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT * FROM timetable WHERE section_id = $1 ORDER BY created_at DESC`, sectionID)
	if err != nil {
		return nil, errors.Wrap(err, "querying timetables")
	}
	tts := make([]timetable.Timetable, 0, len(rows))
	for _, row := range rows {
		tts = append(tts, timetable.Timetable(row))
	}
	return tts, nil
}

func (repo timetableRepository) CreateSlot(ctx context.Context, slot timetable.Slot) (timetable.Slot, error) {
	slot.ID = uuid.NewString()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO timetable_slot (id, timetable_id, day_of_week, hour, subject, teacher, created_at, updated_at)
		VALUES (:id, :timetable_id, :day_of_week, :hour, :subject, :teacher, :created_at, :updated_at)`,
		slotRow(slot),
	)
	if err != nil {
		if isUniqueViolation(err, "timetable_slot_day_hour_key") {
			return timetable.Slot{}, timetable.ErrSlotExists
		}
		return timetable.Slot{}, errors.Wrap(err, "inserting slot")
	}
	return slot, nil
}

func (repo timetableRepository) GetSlotByID(ctx context.Context, id string) (timetable.Slot, error) {
	var row slotRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM timetable_slot WHERE id = $1`, id); err != nil {
		return timetable.Slot{}, trapNoRowsErr(err, timetable.ErrSlotNotFound, "getting slot")
	}
	return timetable.Slot(row), nil
}

func (repo timetableRepository) GetSlot(ctx context.Context, timetableID string, dayOfWeek, hour int) (timetable.Slot, error) {
	var row slotRow
	err := repo.db.GetContext(ctx, &row, `
		SELECT * FROM timetable_slot WHERE timetable_id = $1 AND day_of_week = $2 AND hour = $3`,
		timetableID, dayOfWeek, hour,
	)
	if err != nil {
		return timetable.Slot{}, trapNoRowsErr(err, timetable.ErrSlotNotFound, "getting slot")
	}
	return timetable.Slot(row), nil
}

func (repo timetableRepository) QuerySlots(ctx context.Context, timetableID string) ([]timetable.Slot, error) {
	var rows []slotRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT * FROM timetable_slot WHERE timetable_id = $1 ORDER BY day_of_week, hour`, timetableID)
	if err != nil {
		return nil, errors.Wrap(err, "querying slots")
	}
	slots := make([]timetable.Slot, 0, len(rows))
	for _, row := range rows {
		slots = append(slots, timetable.Slot(row))
	}
	return slots, nil
}

func (repo timetableRepository) DeleteSlot(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM timetable_slot WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting slot")
	}
	return nil
}
