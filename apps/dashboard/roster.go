package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/trezcool/cptracker/core/student"
)

const lastUpdatedFormat = "2006-01-02 15:04"

var rosterColumns = []table.Column{
	{Title: "Name", Width: 20},
	{Title: "Handle", Width: 16},
	{Title: "Email", Width: 26},
	{Title: "Phone", Width: 14},
	{Title: "Rating", Width: 7},
	{Title: "Max", Width: 7},
	{Title: "Last Updated", Width: 17},
	{Title: "Reminders", Width: 10},
}

type rosterModel struct {
	table    table.Model
	search   textinput.Model
	students []student.Student
}

func newRosterModel() rosterModel {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search name, email or handle"
	search.CharLimit = 64

	return rosterModel{
		table: table.New(
			table.WithColumns(rosterColumns),
			table.WithFocused(true),
			table.WithHeight(15),
		),
		search: search,
	}
}

func (r *rosterModel) setStudents(students []student.Student) {
	r.students = students
	rows := make([]table.Row, 0, len(students))
	for _, s := range students {
		rows = append(rows, studentRow(s))
	}
	r.table.SetRows(rows)
	if c := r.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		r.table.SetCursor(len(rows) - 1)
	}
}

func studentRow(s student.Student) table.Row {
	reminders := strconv.Itoa(s.EmailRemindersCount)
	if s.EmailRemindersEnabled {
		reminders += " (on)"
	} else {
		reminders += " (off)"
	}
	return table.Row{
		s.Name,
		s.CodeforcesHandle,
		s.Email,
		s.Phone,
		strconv.Itoa(s.CurrentRating),
		strconv.Itoa(s.MaxRating),
		s.LastUpdated.Local().Format(lastUpdatedFormat),
		reminders,
	}
}

// selected returns the student under the cursor.
func (r rosterModel) selected() (student.Student, bool) {
	i := r.table.Cursor()
	if i < 0 || i >= len(r.students) {
		return student.Student{}, false
	}
	return r.students[i], true
}

func (r rosterModel) update(msg tea.Msg) (rosterModel, tea.Cmd) {
	var cmd tea.Cmd
	r.table, cmd = r.table.Update(msg)
	return r, cmd
}

func (r rosterModel) view(st styles) string {
	var b strings.Builder
	b.WriteString(r.search.View())
	b.WriteString("\n\n")
	if len(r.students) == 0 {
		if r.search.Value() != "" {
			b.WriteString(st.muted.Render("No student matches your search."))
		} else {
			b.WriteString(st.muted.Render("No student yet. Press a to add one."))
		}
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(st.box.Render(r.table.View()))
	b.WriteString("\n")
	b.WriteString(st.muted.Render(fmt.Sprintf("%d students", len(r.students))))
	b.WriteString("\n")
	return b.String()
}
