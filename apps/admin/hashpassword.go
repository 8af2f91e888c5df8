package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var errPasswordMismatch = errors.New("passwords do not match")

func (cli *commandLine) hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hashpassword",
		Short: "Prompt for the admin password and print its bcrypt hash (SERVER_ADMINPASSWORDHASH)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cli.out, "Enter password:")
			pwd, err := readPasswordFunc(int(os.Stdin.Fd()))
			fmt.Fprintln(cli.out)
			if err != nil {
				return err
			}
			if len(pwd) == 0 {
				_ = cmd.Usage()
				return errHelp
			}

			fmt.Fprint(cli.out, "Confirm password:")
			confirm, err := readPasswordFunc(int(os.Stdin.Fd()))
			fmt.Fprintln(cli.out)
			if err != nil {
				return err
			}
			if string(confirm) != string(pwd) {
				return errPasswordMismatch
			}

			hash, err := bcrypt.GenerateFromPassword(pwd, bcrypt.DefaultCost)
			if err != nil {
				return errors.Wrap(err, "hashing password")
			}
			fmt.Fprintln(cli.out, string(hash))
			return nil
		},
	}
}
