package sheetssvc

import (
	"context"

	"github.com/pkg/errors"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/trezcool/cptracker/core"
	"github.com/trezcool/cptracker/core/student"
)

// Exporter writes the roster into a Google spreadsheet.
type Exporter struct {
	values        *sheets.SpreadsheetsValuesService
	spreadsheetID string
	rng           string
}

func NewExporter(ctx context.Context, conf core.SheetsConfig) (*Exporter, error) {
	if conf.SpreadsheetID == "" {
		return nil, errors.New("spreadsheet id is required")
	}
	var opts []option.ClientOption
	if conf.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(conf.CredentialsFile))
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "creating sheets service")
	}
	return &Exporter{
		values:        svc.Spreadsheets.Values,
		spreadsheetID: conf.SpreadsheetID,
		rng:           conf.Range,
	}, nil
}

// Export overwrites the configured range with the header row followed by one row per student.
// It returns the number of updated cells.
func (e *Exporter) Export(ctx context.Context, students []student.Student) (int64, error) {
	res, err := e.values.Update(e.spreadsheetID, e.rng, ValueRange(students)).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return 0, errors.Wrap(err, "updating spreadsheet")
	}
	return res.UpdatedCells, nil
}

// ValueRange lays students out like the CSV export.
func ValueRange(students []student.Student) *sheets.ValueRange {
	rows := make([][]interface{}, 0, len(students)+1)
	rows = append(rows, toRow(student.CSVHeader))
	for _, s := range students {
		rows = append(rows, toRow(s.Record()))
	}
	return &sheets.ValueRange{MajorDimension: "ROWS", Values: rows}
}

func toRow(cells []string) []interface{} {
	row := make([]interface{}, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}
