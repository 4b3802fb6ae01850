package attendance

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the wire format of attendance dates.
const DateLayout = "2006-01-02"

// Attendance is one student's Present/Absent fact for one slot on one date.
// Rows are written exactly once per (student, date, slot) by Service.Mark and
// only ever mutated through Service.Correct; absence of a row is never read
// as "absent".
type Attendance struct {
	ID              string    `json:"id"`
	StudentID       string    `json:"student_id"`
	Date            time.Time `json:"date"`
	TimetableSlotID string    `json:"timetable_slot_id"`
	Present         bool      `json:"present"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// MarkRequest is a faculty submission: the students present in a section at
// a given hour. Everyone else on the roster is marked absent.
type MarkRequest struct {
	SectionID  string   `json:"section_id" validate:"required,uuid4"`
	Date       string   `json:"date" validate:"required,dateonly"`
	Hour       int      `json:"hour"` // range-checked by the engine, not the binder
	PresentIDs []string `json:"present_ids" validate:"dive,uuid4"`
}

func (mr *MarkRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(mr)
}

// Day parses the request date, truncated to midnight UTC. Impossible calendar
// dates fail here even if a caller skipped Validate.
func (mr MarkRequest) Day() (time.Time, error) {
	return time.Parse(DateLayout, mr.Date)
}

// CorrectRequest flips one existing row's status.
type CorrectRequest struct {
	Present bool `json:"present"`
}
