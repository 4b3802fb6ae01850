package dummydb

import (
	"sync"

	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/school"
	"github.com/trezcool/mahudhurio/core/timetable"
	"github.com/trezcool/mahudhurio/core/user"
)

type (
	DB struct {
		user       *userTable
		school     *schoolTables
		timetable  *timetableTables
		attendance *attendanceTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	schoolTables struct {
		sync.RWMutex
		departments map[string]*school.Department
		batches     map[string]*school.Batch
		years       map[string]*school.Year
		sections    map[string]*school.Section
		students    map[string]*school.Student
	}

	timetableTables struct {
		sync.RWMutex
		timetables map[string]*timetable.Timetable
		slots      map[string]*timetable.Slot
	}

	attendanceTable struct {
		sync.RWMutex
		table map[string]*attendance.Attendance
	}
)

func Open() (*DB, error) {
	db := &DB{
		user: &userTable{table: make(map[string]*user.User)},
		school: &schoolTables{
			departments: make(map[string]*school.Department),
			batches:     make(map[string]*school.Batch),
			years:       make(map[string]*school.Year),
			sections:    make(map[string]*school.Section),
			students:    make(map[string]*school.Student),
		},
		timetable: &timetableTables{
			timetables: make(map[string]*timetable.Timetable),
			slots:      make(map[string]*timetable.Slot),
		},
		attendance: &attendanceTable{table: make(map[string]*attendance.Attendance)},
	}
	return db, nil
}
