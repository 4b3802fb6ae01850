package timetable

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/mahudhurio/core"
)

// Teaching hours are fixed ordinal periods within a day, not clock times.
const (
	MinHour = 1
	MaxHour = 8
)

// Days follow ISO-8601 numbering: Monday = 1 .. Sunday = 7.
const (
	MinDay = 1
	MaxDay = 7
)

// ISODay converts a time.Weekday to its ISO-8601 number.
func ISODay(wd time.Weekday) int {
	if wd == time.Sunday {
		return 7
	}
	return int(wd)
}

// Timetable is a section's weekly teaching plan. A section may accumulate
// several timetables over time (semester changes); slot lookups always go
// through the timetable the caller names.
type Timetable struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SectionID string    `json:"section_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Slot schedules a subject at (day, hour) within a timetable. At most one
// slot exists per (timetable, day, hour).
type Slot struct {
	ID          string    `json:"id"`
	TimetableID string    `json:"timetable_id"`
	DayOfWeek   int       `json:"day_of_week"` // ISO: Monday = 1
	Hour        int       `json:"hour"`        // 1..8
	Subject     string    `json:"subject"`
	Teacher     string    `json:"teacher,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTimetable contains information needed to create a new Timetable.
type NewTimetable struct {
	Name      string `json:"name" validate:"required"`
	SectionID string `json:"section_id" validate:"required,uuid4"`
}

func (nt *NewTimetable) Validate(validate *validator.Validate) error {
	nt.Name = core.CleanString(nt.Name)
	return validate.Struct(nt)
}

// NewSlot contains information needed to schedule a subject in a timetable.
type NewSlot struct {
	TimetableID string `json:"timetable_id" validate:"required,uuid4"`
	DayOfWeek   int    `json:"day_of_week" validate:"required,min=1,max=7"`
	Hour        int    `json:"hour" validate:"required,min=1,max=8"`
	Subject     string `json:"subject" validate:"required"`
	Teacher     string `json:"teacher"`
}

func (ns *NewSlot) Validate(validate *validator.Validate) error {
	ns.Subject = core.CleanString(ns.Subject)
	ns.Teacher = core.CleanString(ns.Teacher)
	return validate.Struct(ns)
}
