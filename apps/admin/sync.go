package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trezcool/cptracker/core/syncjob"
)

func (cli *commandLine) syncCmd() *cobra.Command {
	var test bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run the data sync now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if test {
				msg, err := cli.syncSvc.Test(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cli.out, msg)
				return nil
			}

			run, err := cli.syncSvc.Run(cmd.Context(), syncjob.TriggerManual)
			if err != nil {
				return err
			}
			fmt.Fprintf(cli.out, "sync %s: %d students synced, %d reminders sent\n", run.Status, run.StudentsSynced, run.RemindersSent)
			if run.Error.Valid {
				fmt.Fprintln(cli.out, run.Error.String)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&test, "test", false, "Only check the sync connection")
	return cmd
}
