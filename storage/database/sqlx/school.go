package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/mahudhurio/core/school"
)

type departmentRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type batchRow struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	DepartmentID string    `db:"department_id"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type yearRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	BatchID   string    `db:"batch_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type sectionRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	YearID    string    `db:"year_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type studentRow struct {
	ID         string      `db:"id"`
	Name       string      `db:"name"`
	RegisterNo null.String `db:"register_no"`
	SectionID  string      `db:"section_id"`
	CreatedAt  time.Time   `db:"created_at"`
	UpdatedAt  time.Time   `db:"updated_at"`
}

type schoolRepository struct {
	db *sqlx.DB
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *sqlx.DB) *schoolRepository {
	return &schoolRepository{db: db}
}

func trapNoRowsErr(err, notFound error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return errors.Wrap(err, msg)
}

func (repo schoolRepository) CreateDepartment(ctx context.Context, dept school.Department) (school.Department, error) {
	dept.ID = uuid.NewString()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO department (id, name, created_at, updated_at)
		VALUES (:id, :name, :created_at, :updated_at)`,
		departmentRow(dept),
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return school.Department{}, school.ErrNameExists
		}
		return school.Department{}, errors.Wrap(err, "inserting department")
	}
	return dept, nil
}

func (repo schoolRepository) QueryAllDepartments(ctx context.Context) ([]school.Department, error) {
	var rows []departmentRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM department ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "querying departments")
	}
	depts := make([]school.Department, 0, len(rows))
	for _, row := range rows {
		depts = append(depts, school.Department(row))
	}
	return depts, nil
}

func (repo schoolRepository) CreateBatch(ctx context.Context, batch school.Batch) (school.Batch, error) {
	batch.ID = uuid.NewString()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO batch (id, name, department_id, created_at, updated_at)
		VALUES (:id, :name, :department_id, :created_at, :updated_at)`,
		batchRow(batch),
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return school.Batch{}, school.ErrNameExists
		}
		return school.Batch{}, errors.Wrap(err, "inserting batch")
	}
	return batch, nil
}

func (repo schoolRepository) GetBatchByName(ctx context.Context, name string) (school.Batch, error) {
	var row batchRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM batch WHERE name = $1`, name); err != nil {
		return school.Batch{}, trapNoRowsErr(err, school.ErrBatchNotFound, "getting batch")
	}
	return school.Batch(row), nil
}

func (repo schoolRepository) QueryBatches(ctx context.Context, departmentID string) ([]school.Batch, error) {
	var rows []batchRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM batch WHERE department_id = $1 ORDER BY name`, departmentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying batches")
	}
	batches := make([]school.Batch, 0, len(rows))
	for _, row := range rows {
		batches = append(batches, school.Batch(row))
	}
	return batches, nil
}

func (repo schoolRepository) CreateYear(ctx context.Context, year school.Year) (school.Year, error) {
	year.ID = uuid.NewString()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO year (id, name, batch_id, created_at, updated_at)
		VALUES (:id, :name, :batch_id, :created_at, :updated_at)`,
		yearRow(year),
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return school.Year{}, school.ErrNameExists
		}
		return school.Year{}, errors.Wrap(err, "inserting year")
	}
	return year, nil
}

func (repo schoolRepository) GetYearByName(ctx context.Context, name, batchID string) (school.Year, error) {
	var row yearRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM year WHERE name = $1 AND batch_id = $2`, name, batchID)
	if err != nil {
		return school.Year{}, trapNoRowsErr(err, school.ErrYearNotFound, "getting year")
	}
	return school.Year(row), nil
}

func (repo schoolRepository) QueryYears(ctx context.Context, batchID string) ([]school.Year, error) {
	var rows []yearRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM year WHERE batch_id = $1 ORDER BY name`, batchID)
	if err != nil {
		return nil, errors.Wrap(err, "querying years")
	}
	years := make([]school.Year, 0, len(rows))
	for _, row := range rows {
		years = append(years, school.Year(row))
	}
	return years, nil
}

func (repo schoolRepository) CreateSection(ctx context.Context, section school.Section) (school.Section, error) {
	section.ID = uuid.NewString()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO section (id, name, year_id, created_at, updated_at)
		VALUES (:id, :name, :year_id, :created_at, :updated_at)`,
		sectionRow(section),
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return school.Section{}, school.ErrNameExists
		}
		return school.Section{}, errors.Wrap(err, "inserting section")
	}
	return section, nil
}

func (repo schoolRepository) GetSectionByID(ctx context.Context, id string) (school.Section, error) {
	var row sectionRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM section WHERE id = $1`, id); err != nil {
		return school.Section{}, trapNoRowsErr(err, school.ErrSectionNotFound, "getting section")
	}
	return school.Section(row), nil
}

func (repo schoolRepository) GetSectionByName(ctx context.Context, name, yearID string) (school.Section, error) {
	var row sectionRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM section WHERE name = $1 AND year_id = $2`, name, yearID)
	if err != nil {
		return school.Section{}, trapNoRowsErr(err, school.ErrSectionNotFound, "getting section")
	}
	return school.Section(row), nil
}

func (repo schoolRepository) QuerySections(ctx context.Context, yearID string) ([]school.Section, error) {
	var rows []sectionRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM section WHERE year_id = $1 ORDER BY name`, yearID)
	if err != nil {
		return nil, errors.Wrap(err, "querying sections")
	}
	sections := make([]school.Section, 0, len(rows))
	for _, row := range rows {
		sections = append(sections, school.Section(row))
	}
	return sections, nil
}

func (repo schoolRepository) CreateStudent(ctx context.Context, student school.Student) (school.Student, error) {
	student.ID = uuid.NewString()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO student (id, name, register_no, section_id, created_at, updated_at)
		VALUES (:id, :name, :register_no, :section_id, :created_at, :updated_at)`,
		studentRow(student),
	)
	if err != nil {
		return school.Student{}, errors.Wrap(err, "inserting student")
	}
	return student, nil
}

func (repo schoolRepository) GetStudentByID(ctx context.Context, id string) (school.Student, error) {
	var row studentRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM student WHERE id = $1`, id); err != nil {
		return school.Student{}, trapNoRowsErr(err, school.ErrStudentNotFound, "getting student")
	}
	return school.Student(row), nil
}

func (repo schoolRepository) ListStudents(ctx context.Context, sectionID string) ([]school.Student, error) {
	var rows []studentRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM student WHERE section_id = $1 ORDER BY name`, sectionID)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	students := make([]school.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, school.Student(row))
	}
	return students, nil
}

func (repo schoolRepository) UpdateStudentSection(ctx context.Context, studentID, sectionID string) (school.Student, error) {
	var row studentRow
	err := repo.db.GetContext(ctx, &row, `
		UPDATE student SET section_id = $1, updated_at = now() WHERE id = $2 RETURNING *`,
		sectionID, studentID,
	)
	if err != nil {
		return school.Student{}, trapNoRowsErr(err, school.ErrStudentNotFound, "reassigning student")
	}
	return school.Student(row), nil
}
