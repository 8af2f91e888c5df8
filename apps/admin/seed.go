package main

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/cptracker/core"
	"github.com/trezcool/cptracker/core/analytics"
)

func (cli *commandLine) seedCmd() *cobra.Command {
	var count int
	var seed int64

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Add generated students to the roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return errors.New("count must be positive")
			}
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			gen := analytics.NewGenerator(seed, time.Now)
			students, err := analytics.SeedRoster(cmd.Context(), cli.studentSvc, gen, count)
			if err != nil {
				return err
			}
			fmt.Fprintf(cli.out, "seeded %d students\n", len(students))
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", core.Conf.SeedStudents, "Number of students to add")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (defaults to the current time)")
	return cmd
}
