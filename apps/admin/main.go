package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/trezcool/cptracker/core"
	"github.com/trezcool/cptracker/core/settings"
	"github.com/trezcool/cptracker/core/student"
	"github.com/trezcool/cptracker/core/syncjob"
	emailsvc "github.com/trezcool/cptracker/services/email"
	logsvc "github.com/trezcool/cptracker/services/logger"
	notifysvc "github.com/trezcool/cptracker/services/notify"
	"github.com/trezcool/cptracker/storage"
)

func main() {
	conf := core.Conf
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")

	// set up storage
	repos, err := storage.Open(conf)
	errAndDie(logger, err)

	validate, _ := core.NewValidator()

	var mailSvc core.EmailService
	if conf.Debug || conf.SendgridApiKey == "" {
		mailSvc = emailsvc.NewConsoleService(logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	studentSvc := student.NewService(repos.Students)
	settingsSvc := settings.NewService(repos.Settings, validate)
	syncSvc := syncjob.NewService(syncjob.Options{
		Students:         studentSvc,
		Settings:         settingsSvc,
		Runs:             repos.SyncRuns,
		Source:           syncjob.NewMockSource(time.Now().UnixNano()),
		MailSvc:          mailSvc,
		Notifier:         notifysvc.NewLogNotifier(logger),
		Logger:           logger,
		SimulatedLatency: conf.Sync.SimulatedLatency,
		InactivityWindow: conf.Sync.InactivityWindow,
	})

	// start CLI
	cli := commandLine{
		db:          repos.DB,
		studentSvc:  studentSvc,
		settingsSvc: settingsSvc,
		syncSvc:     syncSvc,
		mailSvc:     mailSvc,
		out:         os.Stdout,
	}
	err = cli.run(os.Args)
	if cErr := repos.Close(); cErr != nil {
		logger.Error("closing storage", cErr)
	}
	if err != nil {
		if err != errHelp {
			fmt.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(logger core.Logger, err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
