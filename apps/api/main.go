package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	echoapi "github.com/trezcool/cptracker/apps/api/echo"
	"github.com/trezcool/cptracker/core"
	"github.com/trezcool/cptracker/core/analytics"
	"github.com/trezcool/cptracker/core/settings"
	"github.com/trezcool/cptracker/core/student"
	"github.com/trezcool/cptracker/core/syncjob"
	emailsvc "github.com/trezcool/cptracker/services/email"
	logsvc "github.com/trezcool/cptracker/services/logger"
	notifysvc "github.com/trezcool/cptracker/services/notify"
	"github.com/trezcool/cptracker/storage"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.Conf

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")

	// set up storage
	repos, err := storage.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up storage: %v", err), err)
	}
	defer func() {
		if err = repos.Close(); err != nil {
			logger.Error("closing storage", err)
		}
	}()

	validate, translator := core.NewValidator()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug || conf.SendgridApiKey == "" {
		mailSvc = emailsvc.NewConsoleService(logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	var notifier syncjob.Notifier = notifysvc.NewLogNotifier(logger)
	if conf.Discord.Token != "" {
		dn, err := notifysvc.NewDiscordNotifier(conf.Discord)
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up discord: %v", err), err)
		}
		notifier = dn
	}

	studentSvc := student.NewService(repos.Students)
	analyticsSvc := analytics.NewService(studentSvc)
	settingsSvc := settings.NewService(repos.Settings, validate)
	syncSvc := syncjob.NewService(syncjob.Options{
		Students:         studentSvc,
		Settings:         settingsSvc,
		Runs:             repos.SyncRuns,
		Source:           syncjob.NewMockSource(time.Now().UnixNano()),
		MailSvc:          mailSvc,
		Notifier:         notifier,
		Logger:           logger,
		SimulatedLatency: conf.Sync.SimulatedLatency,
		InactivityWindow: conf.Sync.InactivityWindow,
	})

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	ctx := context.Background()
	if conf.Storage == core.StorageMemory && conf.SeedStudents > 0 {
		gen := analytics.NewGenerator(time.Now().UnixNano(), time.Now)
		if _, err := analytics.SeedRoster(ctx, studentSvc, gen, conf.SeedStudents); err != nil {
			logger.Fatal(fmt.Sprintf("seeding students: %v", err), err)
		}
		logger.Info(fmt.Sprintf("seeded %d students", conf.SeedStudents))
	}

	scheduler := syncjob.NewScheduler(syncSvc, settingsSvc, logger)
	if err := scheduler.Start(ctx); err != nil {
		logger.Fatal(fmt.Sprintf("starting scheduler: %v", err), err)
	}

	// =========================================================================
	// Start API Service

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	server := echoapi.NewServer(
		&echoapi.Options{
			Address:           conf.Server.Address,
			AllowedOrigins:    conf.Server.AllowedOrigins,
			AdminPasswordHash: conf.Server.AdminPasswordHash,
			Shutdown:          shutdown,
			Logger:            logger,
			Validate:          validate,
			Translator:        translator,
			StudentSvc:        studentSvc,
			AnalyticsSvc:      analyticsSvc,
			SettingsSvc:       settingsSvc,
			SyncSvc:           syncSvc,
		},
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-serverErrors:
		logger.Error(fmt.Sprintf("server error: %v", err), err)

	case sig := <-shutdown:
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err = server.Stop(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
		}
	}

	// wait for a running sync
	<-scheduler.Stop().Done()
}
