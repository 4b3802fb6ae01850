package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/mahudhurio/core/school"
)

type schoolRepository struct {
	db *schoolTables
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *DB) school.Repository {
	return &schoolRepository{db: db.school}
}

func (repo *schoolRepository) CreateDepartment(_ context.Context, dept school.Department) (school.Department, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, d := range repo.db.departments {
		if d.Name == dept.Name {
			return school.Department{}, school.ErrNameExists
		}
	}
	dept.ID = uuid.NewString()
	repo.db.departments[dept.ID] = &dept
	return dept, nil
}

func (repo *schoolRepository) QueryAllDepartments(_ context.Context) ([]school.Department, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	depts := make([]school.Department, 0, len(repo.db.departments))
	for _, d := range repo.db.departments {
		depts = append(depts, *d)
	}
	sort.Slice(depts, func(i, j int) bool { return depts[i].Name < depts[j].Name })
	return depts, nil
}

func (repo *schoolRepository) CreateBatch(_ context.Context, batch school.Batch) (school.Batch, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, b := range repo.db.batches {
		if b.Name == batch.Name {
			return school.Batch{}, school.ErrNameExists
		}
	}
	batch.ID = uuid.NewString()
	repo.db.batches[batch.ID] = &batch
	return batch, nil
}

func (repo *schoolRepository) GetBatchByName(_ context.Context, name string) (school.Batch, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, b := range repo.db.batches {
		if b.Name == name {
			return *b, nil
		}
	}
	return school.Batch{}, school.ErrBatchNotFound
}

func (repo *schoolRepository) QueryBatches(_ context.Context, departmentID string) ([]school.Batch, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	batches := make([]school.Batch, 0)
	for _, b := range repo.db.batches {
		if b.DepartmentID == departmentID {
			batches = append(batches, *b)
		}
	}
	sort.Slice(batches, func(i, j int) bool { return batches[i].Name < batches[j].Name })
	return batches, nil
}

func (repo *schoolRepository) CreateYear(_ context.Context, year school.Year) (school.Year, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, y := range repo.db.years {
		if y.Name == year.Name && y.BatchID == year.BatchID {
			return school.Year{}, school.ErrNameExists
		}
	}
	year.ID = uuid.NewString()
	repo.db.years[year.ID] = &year
	return year, nil
}

func (repo *schoolRepository) GetYearByName(_ context.Context, name, batchID string) (school.Year, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, y := range repo.db.years {
		if y.Name == name && y.BatchID == batchID {
			return *y, nil
		}
	}
	return school.Year{}, school.ErrYearNotFound
}

func (repo *schoolRepository) QueryYears(_ context.Context, batchID string) ([]school.Year, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	years := make([]school.Year, 0)
	for _, y := range repo.db.years {
		if y.BatchID == batchID {
			years = append(years, *y)
		}
	}
	sort.Slice(years, func(i, j int) bool { return years[i].Name < years[j].Name })
	return years, nil
}

func (repo *schoolRepository) CreateSection(_ context.Context, section school.Section) (school.Section, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, s := range repo.db.sections {
		if s.Name == section.Name && s.YearID == section.YearID {
			return school.Section{}, school.ErrNameExists
		}
	}
	section.ID = uuid.NewString()
	repo.db.sections[section.ID] = &section
	return section, nil
}

func (repo *schoolRepository) GetSectionByID(_ context.Context, id string) (school.Section, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.sections[id]; ok {
		return *s, nil
	}
	return school.Section{}, school.ErrSectionNotFound
}

func (repo *schoolRepository) GetSectionByName(_ context.Context, name, yearID string) (school.Section, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, s := range repo.db.sections {
		if s.Name == name && s.YearID == yearID {
			return *s, nil
		}
	}
	return school.Section{}, school.ErrSectionNotFound
}

func (repo *schoolRepository) QuerySections(_ context.Context, yearID string) ([]school.Section, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	sections := make([]school.Section, 0)
	for _, s := range repo.db.sections {
		if s.YearID == yearID {
			sections = append(sections, *s)
		}
	}
	sort.Slice(sections, func(i, j int) bool { return sections[i].Name < sections[j].Name })
	return sections, nil
}

func (repo *schoolRepository) CreateStudent(_ context.Context, student school.Student) (school.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	student.ID = uuid.NewString()
	repo.db.students[student.ID] = &student
	return student, nil
}

func (repo *schoolRepository) GetStudentByID(_ context.Context, id string) (school.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.students[id]; ok {
		return *s, nil
	}
	return school.Student{}, school.ErrStudentNotFound
}

func (repo *schoolRepository) ListStudents(_ context.Context, sectionID string) ([]school.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := make([]school.Student, 0)
	for _, s := range repo.db.students {
		if s.SectionID == sectionID {
			students = append(students, *s)
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	return students, nil
}

func (repo *schoolRepository) UpdateStudentSection(_ context.Context, studentID, sectionID string) (school.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	student, ok := repo.db.students[studentID]
	if !ok {
		return school.Student{}, school.ErrStudentNotFound
	}
	student.SectionID = sectionID
	return *student, nil
}
