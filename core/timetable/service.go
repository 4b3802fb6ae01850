package timetable

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// errors
	ErrNotFound     = errors.New("timetable not found")
	ErrSlotNotFound = errors.New("slot not found")
	ErrSlotExists   = errors.New("a slot already exists at this day and hour")
)

// InvalidHourError is returned when an hour falls outside the teaching day.
type InvalidHourError struct {
	Hour int
}

func (e InvalidHourError) Error() string {
	return fmt.Sprintf("hour %d is outside the teaching day (%d..%d)", e.Hour, MinHour, MaxHour)
}

// UnscheduledSlotError is returned when an hour is within range but no
// subject is scheduled there. It is distinct from InvalidHourError: a free
// period is a legitimate timetable state, not a bad request.
type UnscheduledSlotError struct {
	DayOfWeek int
	Hour      int
}

func (e UnscheduledSlotError) Error() string {
	return fmt.Sprintf("no subject scheduled on day %d hour %d", e.DayOfWeek, e.Hour)
}

type Repository interface {
	CreateTimetable(ctx context.Context, tt Timetable) (Timetable, error)
	GetTimetableByID(ctx context.Context, id string) (Timetable, error)
	QueryTimetables(ctx context.Context, sectionID string) ([]Timetable, error)

	CreateSlot(ctx context.Context, slot Slot) (Slot, error)
	GetSlotByID(ctx context.Context, id string) (Slot, error)
	// GetSlot looks a slot up by its scheduling coordinates.
	GetSlot(ctx context.Context, timetableID string, dayOfWeek, hour int) (Slot, error)
	QuerySlots(ctx context.Context, timetableID string) ([]Slot, error)
	DeleteSlot(ctx context.Context, id string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nt NewTimetable) (Timetable, error) {
	now := time.Now().UTC()
	return svc.repo.CreateTimetable(ctx, Timetable{
		Name:      nt.Name,
		SectionID: nt.SectionID,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) Get(ctx context.Context, id string) (Timetable, error) {
	return svc.repo.GetTimetableByID(ctx, id)
}

func (svc *Service) QueryBySection(ctx context.Context, sectionID string) ([]Timetable, error) {
	return svc.repo.QueryTimetables(ctx, sectionID)
}

func (svc *Service) AddSlot(ctx context.Context, ns NewSlot) (Slot, error) {
	if _, err := svc.repo.GetTimetableByID(ctx, ns.TimetableID); err != nil {
		return Slot{}, err
	}
	now := time.Now().UTC()
	return svc.repo.CreateSlot(ctx, Slot{
		TimetableID: ns.TimetableID,
		DayOfWeek:   ns.DayOfWeek,
		Hour:        ns.Hour,
		Subject:     ns.Subject,
		Teacher:     ns.Teacher,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (svc *Service) GetSlot(ctx context.Context, id string) (Slot, error) {
	return svc.repo.GetSlotByID(ctx, id)
}

func (svc *Service) ListSlots(ctx context.Context, timetableID string) ([]Slot, error) {
	return svc.repo.QuerySlots(ctx, timetableID)
}

func (svc *Service) RemoveSlot(ctx context.Context, id string) error {
	return svc.repo.DeleteSlot(ctx, id)
}

// SlotFor resolves the slot taught at (dayOfWeek, hour) in a timetable.
// Out-of-range hours are rejected before any lookup so that a bad request
// never reads as a free period.
func (svc *Service) SlotFor(ctx context.Context, timetableID string, dayOfWeek, hour int) (Slot, error) {
	if hour < MinHour || hour > MaxHour {
		return Slot{}, InvalidHourError{Hour: hour}
	}
	if dayOfWeek < MinDay || dayOfWeek > MaxDay {
		return Slot{}, UnscheduledSlotError{DayOfWeek: dayOfWeek, Hour: hour}
	}
	slot, err := svc.repo.GetSlot(ctx, timetableID, dayOfWeek, hour)
	if err != nil {
		if errors.Is(err, ErrSlotNotFound) {
			return Slot{}, UnscheduledSlotError{DayOfWeek: dayOfWeek, Hour: hour}
		}
		return Slot{}, err
	}
	return slot, nil
}

// SlotForSection resolves the slot taught at (dayOfWeek, hour) for a
// section, going through the section's most recent timetable. A section
// without a timetable has nothing scheduled anywhere.
func (svc *Service) SlotForSection(ctx context.Context, sectionID string, dayOfWeek, hour int) (Slot, error) {
	if hour < MinHour || hour > MaxHour {
		return Slot{}, InvalidHourError{Hour: hour}
	}
	tts, err := svc.repo.QueryTimetables(ctx, sectionID)
	if err != nil {
		return Slot{}, err
	}
	if len(tts) == 0 {
		return Slot{}, UnscheduledSlotError{DayOfWeek: dayOfWeek, Hour: hour}
	}
	return svc.SlotFor(ctx, tts[0].ID, dayOfWeek, hour)
}

// SlotsForDay returns the scheduled slots of a timetable for one day,
// ordered by hour. Free periods are simply absent.
func (svc *Service) SlotsForDay(ctx context.Context, timetableID string, dayOfWeek int) ([]Slot, error) {
	slots, err := svc.repo.QuerySlots(ctx, timetableID)
	if err != nil {
		return nil, err
	}
	daySlots := make([]Slot, 0, MaxHour)
	for _, s := range slots {
		if s.DayOfWeek == dayOfWeek {
			daySlots = append(daySlots, s)
		}
	}
	return daySlots, nil
}
