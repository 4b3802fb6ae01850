package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/mahudhurio/core/timetable"
)

type timetableRepository struct {
	db *timetableTables
}

var _ timetable.Repository = (*timetableRepository)(nil) // interface compliance check

func NewTimetableRepository(db *DB) timetable.Repository {
	return &timetableRepository{db: db.timetable}
}

func (repo *timetableRepository) CreateTimetable(_ context.Context, tt timetable.Timetable) (timetable.Timetable, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	tt.ID = uuid.NewString()
	repo.db.timetables[tt.ID] = &tt
	return tt, nil
}

func (repo *timetableRepository) GetTimetableByID(_ context.Context, id string) (timetable.Timetable, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if tt, ok := repo.db.timetables[id]; ok {
		return *tt, nil
	}
	return timetable.Timetable{}, timetable.ErrNotFound
}

// QueryTimetables returns a section's timetables, most recent first.
func (repo *timetableRepository) QueryTimetables(_ context.Context, sectionID string) ([]timetable.Timetable, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	tts := make([]timetable.Timetable, 0)
	for _, tt := range repo.db.timetables {
		if tt.SectionID == sectionID {
			tts = append(tts, *tt)
		}
	}
	sort.Slice(tts, func(i, j int) bool { return tts[i].CreatedAt.After(tts[j].CreatedAt) })
	return tts, nil
}

func (repo *timetableRepository) CreateSlot(_ context.Context, slot timetable.Slot) (timetable.Slot, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, s := range repo.db.slots {
		if s.TimetableID == slot.TimetableID && s.DayOfWeek == slot.DayOfWeek && s.Hour == slot.Hour {
			return timetable.Slot{}, timetable.ErrSlotExists
		}
	}
	slot.ID = uuid.NewString()
	repo.db.slots[slot.ID] = &slot
	return slot, nil
}

func (repo *timetableRepository) GetSlotByID(_ context.Context, id string) (timetable.Slot, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.slots[id]; ok {
		return *s, nil
	}
	return timetable.Slot{}, timetable.ErrSlotNotFound
}

func (repo *timetableRepository) GetSlot(_ context.Context, timetableID string, dayOfWeek, hour int) (timetable.Slot, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, s := range repo.db.slots {
		if s.TimetableID == timetableID && s.DayOfWeek == dayOfWeek && s.Hour == hour {
			return *s, nil
		}
	}
	return timetable.Slot{}, timetable.ErrSlotNotFound
}

func (repo *timetableRepository) QuerySlots(_ context.Context, timetableID string) ([]timetable.Slot, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	slots := make([]timetable.Slot, 0)
	for _, s := range repo.db.slots {
		if s.TimetableID == timetableID {
			slots = append(slots, *s)
		}
	}
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].DayOfWeek != slots[j].DayOfWeek {
			return slots[i].DayOfWeek < slots[j].DayOfWeek
		}
		return slots[i].Hour < slots[j].Hour
	})
	return slots, nil
}

func (repo *timetableRepository) DeleteSlot(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	delete(repo.db.slots, id)
	return nil
}
