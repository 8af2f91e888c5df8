package student

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// ISOTimeFormat is the UTC, millisecond precision format used for exported timestamps.
const ISOTimeFormat = "2006-01-02T15:04:05.000Z"

var CSVHeader = []string{
	"Name",
	"Email",
	"Phone",
	"Codeforces Handle",
	"Current Rating",
	"Max Rating",
	"Last Updated",
	"Email Reminders Count",
	"Email Reminders Enabled",
	"Joined Date",
}

// ExportFilename returns the name of a CSV export made at now, dated in UTC.
func ExportFilename(now time.Time) string {
	return "students_" + now.UTC().Format("2006-01-02") + ".csv"
}

// Record returns the CSV row of the Student, in CSVHeader order.
func (s Student) Record() []string {
	return []string{
		s.Name,
		s.Email,
		s.Phone,
		s.CodeforcesHandle,
		strconv.Itoa(s.CurrentRating),
		strconv.Itoa(s.MaxRating),
		s.LastUpdated.UTC().Format(ISOTimeFormat),
		strconv.Itoa(s.EmailRemindersCount),
		strconv.FormatBool(s.EmailRemindersEnabled),
		s.JoinedDate.UTC().Format(ISOTimeFormat),
	}
}

// WriteCSV writes the header then one row per student.
func WriteCSV(w io.Writer, students []Student) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return errors.Wrap(err, "writing csv header")
	}
	for _, s := range students {
		if err := cw.Write(s.Record()); err != nil {
			return errors.Wrapf(err, "writing csv row of student %d", s.ID)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing csv")
}
