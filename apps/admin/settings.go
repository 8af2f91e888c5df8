package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/trezcool/cptracker/core/settings"
)

func (cli *commandLine) settingsCmd() *cobra.Command {
	var (
		frequency string
		at        string
		enabled   bool
	)

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show the sync settings, or change them with flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var patch settings.SyncSettingsPatch
			if cmd.Flags().Changed("frequency") {
				f := settings.Frequency(frequency)
				patch.Frequency = &f
			}
			if cmd.Flags().Changed("time") {
				patch.Time = &at
			}
			if cmd.Flags().Changed("enabled") {
				patch.Enabled = &enabled
			}
			if patch.Frequency != nil || patch.Time != nil || patch.Enabled != nil {
				if _, err := cli.settingsSvc.UpdateSync(ctx, patch); err != nil {
					return err
				}
			}

			ov, err := cli.settingsSvc.Overview(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cli.out, "status:    %s\n", ov.Status)
			fmt.Fprintf(cli.out, "frequency: %s\n", ov.Frequency)
			fmt.Fprintf(cli.out, "time:      %s\n", ov.Time)
			if ov.NextRun != nil {
				fmt.Fprintf(cli.out, "next run:  %s\n", ov.NextRun.Format(time.RFC1123))
			}
			fmt.Fprintf(cli.out, "last sync: %s\n", ov.LastSyncTime.Local().Format(time.RFC1123))
			return nil
		},
	}
	cmd.Flags().StringVar(&frequency, "frequency", "", "daily or weekly")
	cmd.Flags().StringVar(&at, "time", "", "Time of day of the sync, HH:MM")
	cmd.Flags().BoolVar(&enabled, "enabled", true, "Enable the scheduled sync")
	return cmd
}
