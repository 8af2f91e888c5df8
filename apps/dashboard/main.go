package main

import (
	"context"
	"fmt"
	"net"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/trezcool/cptracker/core"
)

var readPasswordFunc = term.ReadPassword // mockable

// defaultAPIURL is the URL the API listens on with the current configuration.
func defaultAPIURL(conf core.ServerConfig) string {
	_, port, err := net.SplitHostPort(conf.Address)
	if err != nil || port == "" {
		port = "8000"
	}
	return "http://" + net.JoinHostPort(conf.Host, port)
}

func rootCmd() *cobra.Command {
	var (
		apiURL    string
		token     string
		exportDir string
	)
	cmd := &cobra.Command{
		Use:          "dashboard",
		Short:        "Terminal dashboard of " + core.Conf.AppName,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := NewClient(apiURL, token)
			if !client.Authenticated() {
				fmt.Fprint(cmd.OutOrStdout(), "Admin password: ")
				pwd, err := readPasswordFunc(int(os.Stdin.Fd()))
				fmt.Fprintln(cmd.OutOrStdout())
				if err != nil {
					return errors.Wrap(err, "reading password")
				}
				if err := client.Login(cmd.Context(), string(pwd)); err != nil {
					return errors.Wrap(err, "logging in")
				}
			}

			p := tea.NewProgram(newModel(client, exportDir), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err := p.Run()
			return err
		},
	}
	cmd.Flags().StringVar(&apiURL, "api", defaultAPIURL(core.Conf.Server), "base URL of the API")
	cmd.Flags().StringVar(&token, "token", os.Getenv("CPTRACKER_TOKEN"), "API token, the admin password is asked for otherwise")
	cmd.Flags().StringVarP(&exportDir, "export-dir", "o", ".", "directory of the CSV exports")
	return cmd
}

func main() {
	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
