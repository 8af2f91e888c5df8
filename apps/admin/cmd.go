package main

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/trezcool/cptracker/core"
	"github.com/trezcool/cptracker/core/settings"
	"github.com/trezcool/cptracker/core/student"
	"github.com/trezcool/cptracker/core/syncjob"
	"github.com/trezcool/cptracker/storage/database"
)

var (
	readPasswordFunc = term.ReadPassword      // mockable
	migrateFunc      = database.RunMigrations // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db          *sqlx.DB // nil for the memory storage
	studentSvc  *student.Service
	settingsSvc *settings.Service
	syncSvc     *syncjob.Service
	mailSvc     core.EmailService
	out         io.Writer
}

func (cli *commandLine) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Administration commands of " + core.Conf.AppName,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errHelp
		},
	}
	root.SetOut(cli.out)
	root.SetErr(cli.out)

	root.AddCommand(
		cli.migrateCmd(),
		cli.seedCmd(),
		cli.hashPasswordCmd(),
		cli.tokenCmd(),
		cli.exportCmd(),
		cli.syncCmd(),
		cli.settingsCmd(),
	)
	return root
}

// run executes the command line args, program name included.
func (cli *commandLine) run(args []string) error {
	if cli.out == nil {
		cli.out = os.Stdout
	}
	root := cli.rootCmd()
	if len(args) > 0 {
		args = args[1:]
	}
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}
