package main

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/trezcool/cptracker/core/student"
)

// Form inputs, in display order. The keys match the API validation fields.
var formFields = []struct {
	key, label, placeholder string
}{
	{"name", "Name", "Ada Lovelace"},
	{"email", "Email", "ada@example.com"},
	{"phone", "Phone", "+1234567890"},
	{"codeforces_handle", "Codeforces Handle", "tourist"},
	{"current_rating", "Current Rating", "0"},
	{"max_rating", "Max Rating", "0"},
}

const (
	fieldCurrentRating = 4
	fieldMaxRating     = 5
)

type formModel struct {
	editing          *student.Student // nil when adding
	inputs           []textinput.Model
	remindersEnabled bool
	focus            int // len(inputs) is the reminders toggle
	errs             map[string]string
}

func newFormModel(s *student.Student) formModel {
	f := formModel{
		editing:          s,
		inputs:           make([]textinput.Model, len(formFields)),
		remindersEnabled: true,
	}
	for i, fld := range formFields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = fld.placeholder
		ti.CharLimit = 128
		f.inputs[i] = ti
	}
	if s != nil {
		f.inputs[0].SetValue(s.Name)
		f.inputs[1].SetValue(s.Email)
		f.inputs[2].SetValue(s.Phone)
		f.inputs[3].SetValue(s.CodeforcesHandle)
		f.inputs[fieldCurrentRating].SetValue(strconv.Itoa(s.CurrentRating))
		f.inputs[fieldMaxRating].SetValue(strconv.Itoa(s.MaxRating))
		f.remindersEnabled = s.EmailRemindersEnabled
	}
	f.inputs[0].Focus()
	return f
}

func (f formModel) focusOn(i int) formModel {
	n := len(f.inputs) + 1
	f.focus = ((i % n) + n) % n
	for j := range f.inputs {
		if j == f.focus {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	return f
}

func (f formModel) update(msg tea.KeyMsg) (formModel, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		return f.focusOn(f.focus + 1), nil
	case "shift+tab", "up":
		return f.focusOn(f.focus - 1), nil
	case " ":
		if f.focus == len(f.inputs) {
			f.remindersEnabled = !f.remindersEnabled
			return f, nil
		}
	}
	if f.focus == len(f.inputs) {
		return f, nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f formModel) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

// rating parses a rating input. Blank inputs return nil.
func (f formModel) rating(i int, errs map[string]string) *int {
	v := f.value(i)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		errs[formFields[i].key] = formFields[i].key + " must be a number"
		return nil
	}
	return &n
}

// newStudent returns the form data to create a student, or the field errors found locally.
func (f formModel) newStudent() (student.NewStudent, map[string]string) {
	errs := make(map[string]string)
	ns := student.NewStudent{
		Name:                  f.value(0),
		Email:                 f.value(1),
		Phone:                 f.value(2),
		CodeforcesHandle:      f.value(3),
		EmailRemindersEnabled: &f.remindersEnabled,
	}
	if r := f.rating(fieldCurrentRating, errs); r != nil {
		ns.CurrentRating = *r
	}
	if r := f.rating(fieldMaxRating, errs); r != nil {
		ns.MaxRating = *r
	}
	if len(errs) > 0 {
		return ns, errs
	}
	return ns, nil
}

// updateStudent returns the form data to update the edited student, or the field errors found locally.
func (f formModel) updateStudent() (student.UpdateStudent, map[string]string) {
	errs := make(map[string]string)
	enabled := f.remindersEnabled
	us := student.UpdateStudent{
		Name:                  f.value(0),
		Email:                 f.value(1),
		Phone:                 f.value(2),
		CodeforcesHandle:      f.value(3),
		CurrentRating:         f.rating(fieldCurrentRating, errs),
		MaxRating:             f.rating(fieldMaxRating, errs),
		EmailRemindersEnabled: &enabled,
	}
	if len(errs) > 0 {
		return us, errs
	}
	return us, nil
}

func (f formModel) view(st styles) string {
	var b strings.Builder
	title := "Add Student"
	if f.editing != nil {
		title = "Edit " + f.editing.Name
	}
	b.WriteString(st.title.Render(title))
	b.WriteString("\n")

	for i, fld := range formFields {
		label := st.label.Render(fld.label)
		if i == f.focus {
			label = st.label.Inherit(st.tabOn).Render(fld.label)
		}
		b.WriteString(label + f.inputs[i].View() + "\n")
		if msg, ok := f.errs[fld.key]; ok {
			b.WriteString(st.label.Render("") + st.err.Render(msg) + "\n")
		}
	}

	check := "[ ]"
	if f.remindersEnabled {
		check = "[x]"
	}
	label := st.label.Render("Email Reminders")
	if f.focus == len(f.inputs) {
		label = st.label.Inherit(st.tabOn).Render("Email Reminders")
	}
	b.WriteString(label + check + "\n\n")
	b.WriteString(st.muted.Render("tab/shift+tab move • space toggle • enter save • esc cancel"))
	return b.String()
}
