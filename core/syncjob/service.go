package syncjob

import (
	"context"
	"fmt"
	"net/mail"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/cptracker/core"
	"github.com/trezcool/cptracker/core/settings"
	"github.com/trezcool/cptracker/core/student"
)

const (
	TestSuccessMessage = "Test sync completed successfully!"
	ReminderTemplate   = "inactivity_reminder"

	defaultRunsLimit = 20
)

var (
	// errors
	ErrSyncInProgress = errors.New("a sync is already in progress")
)

type (
	Options struct {
		Students         *student.Service
		Settings         *settings.Service
		Runs             Repository
		Source           Source
		MailSvc          core.EmailService
		Notifier         Notifier // optional
		Logger           core.Logger
		SimulatedLatency time.Duration
		InactivityWindow time.Duration
	}

	Service struct {
		opts    Options
		now     func() time.Time
		running sync.Mutex
	}

	// ReminderData is the data of the inactivity reminder email template.
	ReminderData struct {
		StudentID    int
		Name         string
		Handle       string
		InactiveDays int
	}
)

func NewService(opts Options) *Service {
	return &Service{opts: opts, now: time.Now}
}

// Test waits for the simulated latency then reports success. Nothing is changed.
func (svc *Service) Test(ctx context.Context) (string, error) {
	timer := time.NewTimer(svc.opts.SimulatedLatency)
	defer timer.Stop()

	select {
	case <-timer.C:
		return TestSuccessMessage, nil
	case <-ctx.Done():
		return "", errors.Wrap(ctx.Err(), "test sync")
	}
}

// Running reports whether a sync is in progress.
func (svc *Service) Running() bool {
	if svc.running.TryLock() {
		svc.running.Unlock()
		return false
	}
	return true
}

// Run refreshes every student from the Source and reminds the inactive ones by email.
// Only one Run may be in flight, ErrSyncInProgress is returned otherwise.
func (svc *Service) Run(ctx context.Context, trigger Trigger) (Run, error) {
	if !svc.running.TryLock() {
		return Run{}, ErrSyncInProgress
	}
	defer svc.running.Unlock()

	run := Run{
		ID:        uuid.New().String(),
		Trigger:   trigger,
		Status:    StatusRunning,
		StartedAt: svc.now().UTC().Truncate(time.Millisecond),
	}
	if err := svc.opts.Runs.CreateRun(ctx, run); err != nil {
		return Run{}, errors.Wrap(err, "creating sync run")
	}

	syncErr := svc.syncAll(ctx, &run)
	finished := svc.now().UTC().Truncate(time.Millisecond)
	run.FinishedAt = null.TimeFrom(finished)
	if syncErr == nil {
		if err := svc.opts.Settings.SetLastSyncTime(ctx, finished); err != nil {
			syncErr = errors.Wrap(err, "setting last sync time")
		}
	}
	if syncErr != nil {
		run.Status = StatusFailed
		run.Error = null.StringFrom(syncErr.Error())
	} else {
		run.Status = StatusSucceeded
	}

	// the run record must be closed even when ctx was cancelled
	if err := svc.opts.Runs.UpdateRun(context.Background(), run); err != nil {
		return run, errors.Wrap(err, "updating sync run")
	}
	svc.notify(run)

	if syncErr != nil {
		return run, syncErr
	}
	return run, nil
}

func (svc *Service) syncAll(ctx context.Context, run *Run) error {
	students, err := svc.opts.Students.Query(ctx, student.QueryFilter{})
	if err != nil {
		return errors.Wrap(err, "querying students")
	}

	var failed int
	var reminders []*core.EmailMessage
	// reminders already counted must go out even when the loop stops early
	defer func() {
		if len(reminders) > 0 {
			svc.opts.MailSvc.SendMessages(reminders...)
		}
	}()
	for _, s := range students {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "syncing students")
		}

		snap, err := svc.opts.Source.Fetch(ctx, s)
		if err != nil {
			failed++
			svc.opts.Logger.Warn(fmt.Sprintf("fetching student %d", s.ID), err)
			continue
		}
		updated, err := svc.opts.Students.RecordSync(ctx, s.ID, snap)
		if err != nil {
			if errors.Cause(err) == student.ErrNotFound { // deleted meanwhile
				continue
			}
			return errors.Wrapf(err, "recording sync of student %d", s.ID)
		}
		run.StudentsSynced++

		if msg := svc.reminderFor(updated, snap); msg != nil {
			if _, err := svc.opts.Students.RecordReminder(ctx, s.ID); err != nil {
				return errors.Wrapf(err, "recording reminder of student %d", s.ID)
			}
			reminders = append(reminders, msg)
			run.RemindersSent++
		}
	}
	if failed > 0 {
		run.Error = null.StringFrom(fmt.Sprintf("%d of %d students could not be fetched", failed, len(students)))
	}
	return nil
}

// reminderFor returns the reminder email of s when it is due, nil otherwise.
func (svc *Service) reminderFor(s student.Student, snap student.SyncSnapshot) *core.EmailMessage {
	if !s.EmailRemindersEnabled {
		return nil
	}
	idle := svc.now().Sub(snap.LastSubmission)
	if idle < svc.opts.InactivityWindow {
		return nil
	}
	return &core.EmailMessage{
		To:           []mail.Address{{Name: s.Name, Address: s.Email}},
		Subject:      "Time to get back to practice",
		TemplateName: ReminderTemplate,
		TemplateData: ReminderData{
			StudentID:    s.ID,
			Name:         s.Name,
			Handle:       s.CodeforcesHandle,
			InactiveDays: int(idle.Hours() / 24),
		},
	}
}

func (svc *Service) notify(run Run) {
	if svc.opts.Notifier == nil {
		return
	}
	msg := fmt.Sprintf("Sync %s (%s): %d students synced, %d reminders sent", run.Status, run.Trigger, run.StudentsSynced, run.RemindersSent)
	if run.Error.Valid {
		msg += " - " + run.Error.String
	}
	if err := svc.opts.Notifier.Notify(context.Background(), msg); err != nil {
		svc.opts.Logger.Warn("notifying sync run", err)
	}
}

// Runs returns the latest sync runs, newest first.
func (svc *Service) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultRunsLimit
	}
	return svc.opts.Runs.QueryRuns(ctx, limit)
}
