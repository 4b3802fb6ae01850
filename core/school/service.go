package school

import (
	"context"
	"errors"
	"time"

	"github.com/volatiletech/null/v8"
)

var (
	// errors
	ErrDepartmentNotFound = errors.New("department not found")
	ErrBatchNotFound      = errors.New("batch not found")
	ErrYearNotFound       = errors.New("year not found")
	ErrSectionNotFound    = errors.New("section not found")
	ErrStudentNotFound    = errors.New("student not found")
	ErrNameExists         = errors.New("a record with this name already exists")
)

type Repository interface {
	CreateDepartment(ctx context.Context, dept Department) (Department, error)
	QueryAllDepartments(ctx context.Context) ([]Department, error)

	CreateBatch(ctx context.Context, batch Batch) (Batch, error)
	GetBatchByName(ctx context.Context, name string) (Batch, error)
	QueryBatches(ctx context.Context, departmentID string) ([]Batch, error)

	CreateYear(ctx context.Context, year Year) (Year, error)
	GetYearByName(ctx context.Context, name, batchID string) (Year, error)
	QueryYears(ctx context.Context, batchID string) ([]Year, error)

	CreateSection(ctx context.Context, section Section) (Section, error)
	GetSectionByID(ctx context.Context, id string) (Section, error)
	GetSectionByName(ctx context.Context, name, yearID string) (Section, error)
	QuerySections(ctx context.Context, yearID string) ([]Section, error)

	CreateStudent(ctx context.Context, student Student) (Student, error)
	GetStudentByID(ctx context.Context, id string) (Student, error)
	// ListStudents returns the current roster of a section.
	ListStudents(ctx context.Context, sectionID string) ([]Student, error)
	UpdateStudentSection(ctx context.Context, studentID, sectionID string) (Student, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CreateDepartment(ctx context.Context, nd NewDepartment) (Department, error) {
	now := time.Now().UTC()
	return svc.repo.CreateDepartment(ctx, Department{
		Name:      nd.Name,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) QueryDepartments(ctx context.Context) ([]Department, error) {
	return svc.repo.QueryAllDepartments(ctx)
}

func (svc *Service) CreateBatch(ctx context.Context, nb NewBatch) (Batch, error) {
	now := time.Now().UTC()
	return svc.repo.CreateBatch(ctx, Batch{
		Name:         nb.Name,
		DepartmentID: nb.DepartmentID,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func (svc *Service) QueryBatches(ctx context.Context, departmentID string) ([]Batch, error) {
	return svc.repo.QueryBatches(ctx, departmentID)
}

func (svc *Service) CreateYear(ctx context.Context, ny NewYear) (Year, error) {
	now := time.Now().UTC()
	return svc.repo.CreateYear(ctx, Year{
		Name:      ny.Name,
		BatchID:   ny.BatchID,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) QueryYears(ctx context.Context, batchID string) ([]Year, error) {
	return svc.repo.QueryYears(ctx, batchID)
}

func (svc *Service) CreateSection(ctx context.Context, ns NewSection) (Section, error) {
	now := time.Now().UTC()
	return svc.repo.CreateSection(ctx, Section{
		Name:      ns.Name,
		YearID:    ns.YearID,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) GetSection(ctx context.Context, id string) (Section, error) {
	return svc.repo.GetSectionByID(ctx, id)
}

// GetSectionByNames resolves a section through its batch → year → section
// name chain, the way import/reporting clients address sections.
func (svc *Service) GetSectionByNames(ctx context.Context, batchName, yearName, sectionName string) (Section, error) {
	batch, err := svc.repo.GetBatchByName(ctx, batchName)
	if err != nil {
		return Section{}, err
	}
	year, err := svc.repo.GetYearByName(ctx, yearName, batch.ID)
	if err != nil {
		return Section{}, err
	}
	return svc.repo.GetSectionByName(ctx, sectionName, year.ID)
}

func (svc *Service) QuerySections(ctx context.Context, yearID string) ([]Section, error) {
	return svc.repo.QuerySections(ctx, yearID)
}

func (svc *Service) CreateStudent(ctx context.Context, ns NewStudent) (Student, error) {
	if _, err := svc.repo.GetSectionByID(ctx, ns.SectionID); err != nil {
		return Student{}, err
	}
	now := time.Now().UTC()
	return svc.repo.CreateStudent(ctx, Student{
		Name:       ns.Name,
		RegisterNo: null.NewString(ns.RegisterNo, ns.RegisterNo != ""),
		SectionID:  ns.SectionID,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

func (svc *Service) GetStudent(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) ListStudents(ctx context.Context, sectionID string) ([]Student, error) {
	return svc.repo.ListStudents(ctx, sectionID)
}

// StudentSection returns the ID of the section a student currently belongs to.
func (svc *Service) StudentSection(ctx context.Context, studentID string) (string, error) {
	student, err := svc.repo.GetStudentByID(ctx, studentID)
	if err != nil {
		return "", err
	}
	return student.SectionID, nil
}

// ReassignStudent moves a student to another section. This is the only way a
// student changes section; existing attendance rows keep pointing at the old
// section's slots.
func (svc *Service) ReassignStudent(ctx context.Context, studentID, sectionID string) (Student, error) {
	if _, err := svc.repo.GetSectionByID(ctx, sectionID); err != nil {
		return Student{}, err
	}
	return svc.repo.UpdateStudentSection(ctx, studentID, sectionID)
}
