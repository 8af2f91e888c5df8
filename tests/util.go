package testutil

import (
	"context"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/cptracker/core"
	"github.com/trezcool/cptracker/core/student"
	logsvc "github.com/trezcool/cptracker/services/logger"
	"github.com/trezcool/cptracker/storage/database"
)

// PrepareDB opens a migrated in-memory sqlite database, closed at the end of the test.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.Open(core.DatabaseConfig{Engine: database.SQLite, Path: ":memory:"})
	if err != nil {
		t.Fatalf("database.Open() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("database.Migrate() failed: %v", err)
	}
	return db
}

// NewLogger returns a silent logger.
func NewLogger() core.Logger {
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), core.Conf)
	logger.Enable(false)
	return logger
}

func CreateStudent(
	t *testing.T,
	repo student.Repository,
	name, email, handle string,
	rating int,
	remindersEnabled bool,
	updatedAt ...time.Time,
) student.Student {
	t.Helper()
	tstamp := time.Now().UTC().Truncate(time.Millisecond)
	if len(updatedAt) > 0 {
		tstamp = updatedAt[0].UTC().Truncate(time.Millisecond)
	}
	s, err := repo.CreateStudent(context.Background(), student.Student{
		Name:                  name,
		Email:                 email,
		Phone:                 "+1" + strings.Repeat("5", 9),
		CodeforcesHandle:      handle,
		CurrentRating:         rating,
		MaxRating:             rating,
		LastUpdated:           tstamp,
		EmailRemindersEnabled: remindersEnabled,
		JoinedDate:            tstamp,
	})
	if err != nil {
		t.Fatalf("createStudent() failed: %v", err)
	}
	return s
}
