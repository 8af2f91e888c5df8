package inmemdb

import (
	"sync"

	"github.com/trezcool/cptracker/core/student"
	"github.com/trezcool/cptracker/core/syncjob"
)

type (
	// DB is a process local database, lost on exit.
	DB struct {
		student *studentTable
		kv      *kvTable
		syncRun *syncRunTable
	}

	studentTable struct {
		mutex   sync.RWMutex
		pkCount int
		table   map[int]*student.Student
	}

	kvTable struct {
		mutex sync.RWMutex
		table map[string]string
	}

	syncRunTable struct {
		mutex sync.RWMutex
		table map[string]*syncjob.Run
	}
)

func Open() *DB {
	return &DB{
		student: &studentTable{table: make(map[int]*student.Student)},
		kv:      &kvTable{table: make(map[string]string)},
		syncRun: &syncRunTable{table: make(map[string]*syncjob.Run)},
	}
}
