package school

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/mahudhurio/core"
)

// The organizational hierarchy: Department → Batch → Year → Section → Student.
// Identities are immutable once referenced by students or timetables; a
// student moves between sections only via Service.ReassignStudent.

type Department struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

type Batch struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	DepartmentID string    `json:"department_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Year struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	BatchID   string    `json:"batch_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Section struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	YearID    string    `json:"year_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Student struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	RegisterNo null.String `json:"register_no,omitempty"`
	SectionID  string      `json:"section_id"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// NewDepartment contains information needed to create a new Department.
type NewDepartment struct {
	Name string `json:"name" validate:"required"`
}

func (nd *NewDepartment) Validate(validate *validator.Validate) error {
	nd.Name = core.CleanString(nd.Name)
	return validate.Struct(nd)
}

type NewBatch struct {
	Name         string `json:"name" validate:"required"`
	DepartmentID string `json:"department_id" validate:"required,uuid4"`
}

func (nb *NewBatch) Validate(validate *validator.Validate) error {
	nb.Name = core.CleanString(nb.Name)
	return validate.Struct(nb)
}

type NewYear struct {
	Name    string `json:"name" validate:"required"`
	BatchID string `json:"batch_id" validate:"required,uuid4"`
}

func (ny *NewYear) Validate(validate *validator.Validate) error {
	ny.Name = core.CleanString(ny.Name)
	return validate.Struct(ny)
}

type NewSection struct {
	Name   string `json:"name" validate:"required"`
	YearID string `json:"year_id" validate:"required,uuid4"`
}

func (ns *NewSection) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	return validate.Struct(ns)
}

type NewStudent struct {
	Name       string `json:"name" validate:"required"`
	RegisterNo string `json:"register_no"`
	SectionID  string `json:"section_id" validate:"required,uuid4"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.RegisterNo = core.CleanString(ns.RegisterNo)
	return validate.Struct(ns)
}
