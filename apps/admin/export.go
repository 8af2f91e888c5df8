package main

import (
	"bytes"
	"context"
	"fmt"
	"net/mail"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/cptracker/core"
	"github.com/trezcool/cptracker/core/student"
	sheetssvc "github.com/trezcool/cptracker/services/sheets"
)

type rosterExporter interface {
	Export(ctx context.Context, students []student.Student) (int64, error)
}

// mockable
var newSheetsExporterFunc = func(ctx context.Context, conf core.SheetsConfig) (rosterExporter, error) {
	return sheetssvc.NewExporter(ctx, conf)
}

func (cli *commandLine) exportCmd() *cobra.Command {
	var (
		search   string
		ordering string
		out      string
		toSheets bool
		emailTo  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the roster as CSV to a file, a Google spreadsheet or an email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			filter := student.QueryFilter{Search: search}
			orderings := core.ParseOrderings(ordering)
			filename := student.ExportFilename(time.Now().UTC())

			if toSheets {
				students, err := cli.studentSvc.Query(ctx, filter, orderings...)
				if err != nil {
					return errors.Wrap(err, "querying students")
				}
				exp, err := newSheetsExporterFunc(ctx, core.Conf.Sheets)
				if err != nil {
					return err
				}
				cells, err := exp.Export(ctx, students)
				if err != nil {
					return err
				}
				fmt.Fprintf(cli.out, "exported %d students (%d cells) to the spreadsheet\n", len(students), cells)
				return nil
			}

			var buf bytes.Buffer
			if err := cli.studentSvc.Export(ctx, &buf, filter, orderings...); err != nil {
				return err
			}

			if emailTo != "" {
				to, err := mail.ParseAddress(emailTo)
				if err != nil {
					return errors.Wrap(err, "parsing email")
				}
				msg := &core.EmailMessage{
					To:      []mail.Address{*to},
					Subject: "Students export",
					BodyStr: "The students export of " + time.Now().Format("2006-01-02") + " is attached.",
				}
				if err := msg.Attach(&buf, filename, "text/csv"); err != nil {
					return err
				}
				cli.mailSvc.SendMessages(msg)
				fmt.Fprintf(cli.out, "sent %s to %s\n", filename, to.Address)
				return nil
			}

			switch out {
			case "-":
				_, err := buf.WriteTo(cli.out)
				return err
			case "":
				out = filename
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return errors.Wrap(err, "writing export")
			}
			fmt.Fprintf(cli.out, "exported to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Only export students matching this name, email or handle")
	cmd.Flags().StringVar(&ordering, "ordering", "", "Comma separated fields to order by, prefix with - for descending")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file, - for stdout (defaults to students_YYYY-MM-DD.csv)")
	cmd.Flags().BoolVar(&toSheets, "sheets", false, "Write to the configured Google spreadsheet instead")
	cmd.Flags().StringVar(&emailTo, "email", "", "Email the CSV to this address instead")
	cmd.MarkFlagsMutuallyExclusive("out", "sheets", "email")
	return cmd
}
