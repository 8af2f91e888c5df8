package syncjob

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/trezcool/cptracker/core"
	"github.com/trezcool/cptracker/core/settings"
)

// settingsSchedule fires at the next run of the sync settings.
type settingsSchedule struct {
	settings settings.SyncSettings
}

func (s settingsSchedule) Next(t time.Time) time.Time {
	return s.settings.NextRun(t)
}

// cronLogger adapts core.Logger to cron.Logger.
type cronLogger struct {
	logger core.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append([]interface{}{err}, keysAndValues...)...)
}

// Scheduler runs the sync on the schedule of the stored settings, following their changes.
type Scheduler struct {
	cron     *cron.Cron
	svc      *Service
	settings *settings.Service
	logger   core.Logger

	mu      sync.Mutex
	entryID cron.EntryID
}

func NewScheduler(svc *Service, settingsSvc *settings.Service, logger core.Logger) *Scheduler {
	cl := cronLogger{logger: logger}
	return &Scheduler{
		cron:     cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		svc:      svc,
		settings: settingsSvc,
		logger:   logger,
	}
}

// Start schedules the stored settings and starts the cron in its own goroutine.
func (s *Scheduler) Start(ctx context.Context) error {
	st, err := s.settings.SyncSettings(ctx)
	if err != nil {
		return err
	}
	s.Reschedule(st)
	s.settings.OnSyncChange(s.Reschedule)
	s.cron.Start()
	return nil
}

// Stop stops the cron. The returned context is done once the running job, if any, completes.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// Reschedule replaces the sync entry. Disabled settings leave nothing scheduled.
func (s *Scheduler) Reschedule(st settings.SyncSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entryID != 0 {
		s.cron.Remove(s.entryID)
		s.entryID = 0
	}
	if !st.Enabled {
		s.logger.Info("sync schedule disabled")
		return
	}
	s.entryID = s.cron.Schedule(settingsSchedule{settings: st}, cron.FuncJob(s.run))
	s.logger.Info(fmt.Sprintf("sync scheduled %s at %s", st.Frequency, st.Time))
}

// Scheduled reports whether a sync is currently scheduled.
func (s *Scheduler) Scheduled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entryID != 0
}

func (s *Scheduler) run() {
	run, err := s.svc.Run(context.Background(), TriggerScheduled)
	if err != nil {
		s.logger.Error("scheduled sync", err)
		return
	}
	s.logger.Info(fmt.Sprintf("scheduled sync %s: %d students synced", run.ID, run.StudentsSynced))
}
