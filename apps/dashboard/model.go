package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"github.com/trezcool/cptracker/core"
	"github.com/trezcool/cptracker/core/analytics"
	"github.com/trezcool/cptracker/core/settings"
	"github.com/trezcool/cptracker/core/student"
	"github.com/trezcool/cptracker/core/syncjob"
)

const (
	requestTimeout = 30 * time.Second
	rosterChrome   = 12 // lines around the roster table
)

// Messages
type (
	studentsMsg   []student.Student
	profileMsg    analytics.Profile
	overviewMsg   settings.SyncOverview
	themeMsg      settings.Theme
	savedMsg      student.Student
	deletedMsg    student.Student
	exportedMsg   string // file path
	syncTestedMsg string
	syncRanMsg    syncjob.Run
	errMsg        struct{ error }
)

// model is the root of the dashboard.
type model struct {
	client    *Client
	exportDir string

	nav    Navigator
	theme  settings.Theme
	styles styles

	roster   rosterModel
	profile  profileModel
	settings settingsModel
	form     *formModel       // add/edit overlay
	confirm  *student.Student // pending deletion

	status string
	err    error
}

func newModel(client *Client, exportDir string) model {
	return model{
		client:    client,
		exportDir: exportDir,
		theme:     settings.Light,
		styles:    newStyles(settings.Light),
		roster:    newRosterModel(),
		profile:   newProfileModel(),
		settings:  newSettingsModel(),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.loadTheme(), m.loadStudents())
}

// request runs fn with a timeout in a command, its error turned into an errMsg.
func request(fn func(ctx context.Context) (tea.Msg, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		msg, err := fn(ctx)
		if err != nil {
			return errMsg{err}
		}
		return msg
	}
}

func (m model) loadStudents() tea.Cmd {
	c, search := m.client, core.CleanString(m.roster.search.Value())
	return request(func(ctx context.Context) (tea.Msg, error) {
		students, err := c.Students(ctx, search)
		return studentsMsg(students), err
	})
}

func (m model) loadProfile() tea.Cmd {
	id, ok := m.nav.Selected()
	if !ok {
		return nil
	}
	c, contestDays, problemDays := m.client, m.profile.contestDays, m.profile.problemDays
	return request(func(ctx context.Context) (tea.Msg, error) {
		p, err := c.Profile(ctx, id, contestDays, problemDays)
		return profileMsg(p), err
	})
}

func (m model) loadOverview() tea.Cmd {
	c := m.client
	return request(func(ctx context.Context) (tea.Msg, error) {
		ov, err := c.SyncOverview(ctx)
		return overviewMsg(ov), err
	})
}

func (m model) loadTheme() tea.Cmd {
	c := m.client
	return request(func(ctx context.Context) (tea.Msg, error) {
		theme, err := c.Theme(ctx)
		return themeMsg(theme), err
	})
}

func (m model) toggleTheme() tea.Cmd {
	c := m.client
	return request(func(ctx context.Context) (tea.Msg, error) {
		theme, err := c.ToggleTheme(ctx)
		return themeMsg(theme), err
	})
}

func (m model) createStudent(ns student.NewStudent) tea.Cmd {
	c := m.client
	return request(func(ctx context.Context) (tea.Msg, error) {
		s, err := c.CreateStudent(ctx, ns)
		return savedMsg(s), err
	})
}

func (m model) updateStudent(id int, us student.UpdateStudent) tea.Cmd {
	c := m.client
	return request(func(ctx context.Context) (tea.Msg, error) {
		s, err := c.UpdateStudent(ctx, id, us)
		return savedMsg(s), err
	})
}

func (m model) deleteStudent(s student.Student) tea.Cmd {
	c := m.client
	return request(func(ctx context.Context) (tea.Msg, error) {
		return deletedMsg(s), c.DeleteStudent(ctx, s.ID)
	})
}

func (m model) exportStudents() tea.Cmd {
	c, dir, search := m.client, m.exportDir, core.CleanString(m.roster.search.Value())
	return request(func(ctx context.Context) (tea.Msg, error) {
		data, filename, err := c.Export(ctx, search)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(dir, filepath.Base(filename))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, errors.Wrap(err, "writing export")
		}
		return exportedMsg(path), nil
	})
}

func (m model) patchSync(patch settings.SyncSettingsPatch) tea.Cmd {
	c := m.client
	return request(func(ctx context.Context) (tea.Msg, error) {
		ov, err := c.UpdateSync(ctx, patch)
		return overviewMsg(ov), err
	})
}

func (m model) testSync() tea.Cmd {
	c := m.client
	return request(func(ctx context.Context) (tea.Msg, error) {
		msg, err := c.TestSync(ctx)
		return syncTestedMsg(msg), err
	})
}

func (m model) runSync() tea.Cmd {
	c := m.client
	return request(func(ctx context.Context) (tea.Msg, error) {
		run, err := c.RunSync(ctx)
		return syncRanMsg(run), err
	})
}

func (m *model) setStatus(status string) {
	m.status, m.err = status, nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if h := msg.Height - rosterChrome; h > 3 {
			m.roster.table.SetHeight(h)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.settings.busy == "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.settings.spinner, cmd = m.settings.spinner.Update(msg)
		return m, cmd

	case studentsMsg:
		m.roster.setStudents(msg)
		return m, nil

	case profileMsg:
		p := analytics.Profile(msg)
		m.profile.profile = &p
		return m, nil

	case overviewMsg:
		ov := settings.SyncOverview(msg)
		m.settings.overview = &ov
		return m, nil

	case themeMsg:
		m.theme = settings.Theme(msg)
		m.styles = newStyles(m.theme)
		return m, nil

	case savedMsg:
		m.form = nil
		m.setStatus("Saved " + msg.Name)
		return m, m.loadStudents()

	case deletedMsg:
		m.setStatus("Deleted " + msg.Name)
		return m, m.loadStudents()

	case exportedMsg:
		m.setStatus("Exported students to " + string(msg))
		return m, nil

	case syncTestedMsg:
		m.settings.busy = ""
		m.setStatus(string(msg))
		return m, nil

	case syncRanMsg:
		m.settings.busy = ""
		m.setStatus(fmt.Sprintf("Sync %s: %d students synced, %d reminders sent", msg.Status, msg.StudentsSynced, msg.RemindersSent))
		return m, m.loadOverview()

	case errMsg:
		m.settings.busy = ""
		var apiErr *APIError
		if m.form != nil && errors.As(msg.error, &apiErr) && len(apiErr.Fields) > 0 {
			f := *m.form
			f.errs = apiErr.Fields
			m.form = &f
			return m, nil
		}
		m.status, m.err = "", msg.error
		return m, nil
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	switch {
	case m.form != nil:
		return m.updateForm(msg)
	case m.confirm != nil:
		return m.updateConfirm(msg)
	case m.roster.search.Focused():
		return m.updateSearch(msg)
	case m.settings.editing:
		return m.updateTimeInput(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "T":
		return m, m.toggleTheme()
	case "1":
		m.nav.Navigate(ViewRoster)
		return m, m.loadStudents()
	case "2":
		m.nav.Navigate(ViewSettings)
		return m, m.loadOverview()
	}

	switch m.nav.Current() {
	case ViewProfile:
		return m.updateProfile(msg)
	case ViewSettings:
		return m.updateSettings(msg)
	default:
		return m.updateRoster(msg)
	}
}

func (m model) updateRoster(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "/":
		return m, m.roster.search.Focus()
	case "r":
		return m, m.loadStudents()
	case "a":
		f := newFormModel(nil)
		m.form = &f
		return m, nil
	case "x":
		return m, m.exportStudents()
	case "enter", "e", "d":
		s, ok := m.roster.selected()
		if !ok {
			return m, nil
		}
		switch msg.String() {
		case "enter":
			m.nav.Open(s.ID)
			m.profile = newProfileModel()
			return m, m.loadProfile()
		case "e":
			f := newFormModel(&s)
			m.form = &f
		case "d":
			m.confirm = &s
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.roster, cmd = m.roster.update(msg)
	return m, cmd
}

func (m model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.roster.search.Blur()
		m.roster.search.SetValue("")
		return m, m.loadStudents()
	case tea.KeyEnter:
		m.roster.search.Blur()
		return m, nil
	}

	prev := m.roster.search.Value()
	var cmd tea.Cmd
	m.roster.search, cmd = m.roster.search.Update(msg)
	if m.roster.search.Value() != prev {
		return m, tea.Batch(cmd, m.loadStudents())
	}
	return m, cmd
}

func (m model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := *m.form
	switch msg.Type {
	case tea.KeyEsc:
		m.form = nil
		return m, nil
	case tea.KeyEnter:
		if f.editing != nil {
			us, errs := f.updateStudent()
			if errs != nil {
				f.errs = errs
				m.form = &f
				return m, nil
			}
			return m, m.updateStudent(f.editing.ID, us)
		}
		ns, errs := f.newStudent()
		if errs != nil {
			f.errs = errs
			m.form = &f
			return m, nil
		}
		return m, m.createStudent(ns)
	}

	var cmd tea.Cmd
	f, cmd = f.update(msg)
	m.form = &f
	return m, cmd
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := *m.confirm
	m.confirm = nil
	if msg.String() == "y" {
		return m, m.deleteStudent(s)
	}
	m.setStatus("Deletion cancelled")
	return m, nil
}

func (m model) updateProfile(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		m.nav.Back()
		m.profile = newProfileModel()
		return m, m.loadStudents()
	case "c":
		m.profile.tab = tabContests
	case "p":
		m.profile.tab = tabProblems
	case "tab":
		m.profile.tab = 1 - m.profile.tab
	case "w":
		m.profile.cycleWindow()
		return m, m.loadProfile()
	}
	return m, nil
}

func (m model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" || msg.String() == "b" {
		m.nav.Back()
		return m, m.loadStudents()
	}

	ov := m.settings.overview
	if ov == nil {
		return m, nil
	}
	switch msg.String() {
	case "f":
		freq := settings.Weekly
		if ov.Frequency == settings.Weekly {
			freq = settings.Daily
		}
		return m, m.patchSync(settings.SyncSettingsPatch{Frequency: &freq})
	case "e":
		enabled := !ov.Enabled
		return m, m.patchSync(settings.SyncSettingsPatch{Enabled: &enabled})
	case "h":
		m.settings.editing = true
		m.settings.time.SetValue(ov.Time)
		return m, m.settings.time.Focus()
	case "t", "s":
		if m.settings.busy != "" {
			return m, nil
		}
		cmd := m.testSync()
		m.settings.busy = "Testing sync..."
		if msg.String() == "s" {
			cmd = m.runSync()
			m.settings.busy = "Syncing students..."
		}
		return m, tea.Batch(m.settings.spinner.Tick, cmd)
	}
	return m, nil
}

func (m model) updateTimeInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.settings.editing = false
		m.settings.time.Blur()
		return m, nil
	case tea.KeyEnter:
		m.settings.editing = false
		m.settings.time.Blur()
		t := m.settings.time.Value()
		return m, m.patchSync(settings.SyncSettingsPatch{Time: &t})
	}

	var cmd tea.Cmd
	m.settings.time, cmd = m.settings.time.Update(msg)
	return m, cmd
}

func (m model) header() string {
	st := m.styles
	tabs := []struct {
		label string
		view  View
	}{{"1 Students", ViewRoster}, {"2 Settings", ViewSettings}}

	var b strings.Builder
	b.WriteString(st.title.UnsetMarginBottom().Render(core.Conf.AppName) + "  ")
	for _, tab := range tabs {
		on := m.nav.Current() == tab.view || (tab.view == ViewRoster && m.nav.Current() == ViewProfile)
		if on {
			b.WriteString(st.tabOn.Render(tab.label))
		} else {
			b.WriteString(st.tab.Render(tab.label))
		}
	}
	b.WriteString(st.muted.Render("  theme: " + string(m.theme)))
	return b.String()
}

func (m model) help() string {
	switch {
	case m.form != nil, m.settings.editing:
		return ""
	case m.roster.search.Focused():
		return "enter apply • esc clear"
	}
	switch m.nav.Current() {
	case ViewProfile:
		return "c contests • p problems • w window • b back • T theme • q quit"
	case ViewSettings:
		return "b back • T theme • q quit"
	default:
		return "/ search • enter profile • a add • e edit • d delete • x export • T theme • q quit"
	}
}

func (m model) View() string {
	st := m.styles

	var body string
	switch {
	case m.form != nil:
		body = m.form.view(st)
	case m.nav.Current() == ViewProfile:
		body = m.profile.view(st)
	case m.nav.Current() == ViewSettings:
		body = m.settings.view(st)
	default:
		body = m.roster.view(st)
	}

	var b strings.Builder
	b.WriteString(m.header() + "\n\n")
	b.WriteString(body + "\n")
	if m.confirm != nil {
		b.WriteString(st.err.Render(fmt.Sprintf("Delete %s? (y/N)", m.confirm.Name)) + "\n")
	}
	switch {
	case m.err != nil:
		b.WriteString(st.err.Render("Error: "+m.err.Error()) + "\n")
	case m.status != "":
		b.WriteString(st.ok.Render(m.status) + "\n")
	}
	if h := m.help(); h != "" {
		b.WriteString(st.muted.Render(h) + "\n")
	}
	return b.String()
}
