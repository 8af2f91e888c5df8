package main

import (
	"fmt"

	"github.com/spf13/cobra"

	echoapi "github.com/trezcool/cptracker/apps/api/echo"
)

func (cli *commandLine) tokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Print an admin API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := echoapi.GenerateToken(echoapi.GetAdminClaims())
			if err != nil {
				return err
			}
			fmt.Fprintln(cli.out, token)
			return nil
		},
	}
}
