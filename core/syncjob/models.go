package syncjob

import (
	"context"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/cptracker/core/student"
)

type Status string

// Run statuses
const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

type Trigger string

// Run triggers
const (
	TriggerManual    Trigger = "manual"
	TriggerScheduled Trigger = "scheduled"
)

// Run is the record of one sync.
type Run struct {
	ID             string      `json:"id" db:"id"`
	Trigger        Trigger     `json:"trigger" db:"triggered_by"`
	Status         Status      `json:"status" db:"status"`
	StartedAt      time.Time   `json:"started_at" db:"started_at"` // UTC
	FinishedAt     null.Time   `json:"finished_at" db:"finished_at"`
	Error          null.String `json:"error" db:"error"`
	StudentsSynced int         `json:"students_synced" db:"students_synced"`
	RemindersSent  int         `json:"reminders_sent" db:"reminders_sent"`
}

type (
	Repository interface {
		CreateRun(ctx context.Context, run Run) error
		UpdateRun(ctx context.Context, run Run) error
		// QueryRuns returns the latest runs, newest first.
		QueryRuns(ctx context.Context, limit int) ([]Run, error)
	}

	// Source fetches the current account state of a student.
	Source interface {
		Fetch(ctx context.Context, s student.Student) (student.SyncSnapshot, error)
	}

	// Notifier posts a short message somewhere humans will see it.
	Notifier interface {
		Notify(ctx context.Context, msg string) error
	}
)
