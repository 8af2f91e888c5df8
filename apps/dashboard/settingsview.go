package main

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/trezcool/cptracker/core/settings"
)

const nextRunFormat = "Mon Jan 02 15:04"

type settingsModel struct {
	overview *settings.SyncOverview // nil while loading
	time     textinput.Model
	editing  bool
	spinner  spinner.Model
	busy     string // the running action, if any
}

func newSettingsModel() settingsModel {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "HH:MM"
	ti.CharLimit = 5

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return settingsModel{time: ti, spinner: sp}
}

func (s settingsModel) view(st styles) string {
	var b strings.Builder
	b.WriteString(st.title.Render("Sync Settings"))
	b.WriteString("\n")
	if s.overview == nil {
		b.WriteString(st.muted.Render("Loading settings..."))
		return b.String()
	}
	ov := s.overview

	status := st.ok.Render(ov.Status)
	if !ov.Enabled {
		status = st.err.Render(ov.Status)
	}
	nextRun := "-"
	if ov.NextRun != nil {
		nextRun = ov.NextRun.Local().Format(nextRunFormat)
	}
	freq := string(ov.Frequency)
	if freq != "" {
		freq = strings.ToUpper(freq[:1]) + freq[1:]
	}
	syncTime := ov.Time
	if s.editing {
		syncTime = s.time.View()
	}

	b.WriteString(st.label.Render("Status") + status + "\n")
	b.WriteString(st.label.Render("Frequency") + freq + "\n")
	b.WriteString(st.label.Render("Time") + syncTime + "\n")
	b.WriteString(st.label.Render("Next Run") + nextRun + "\n")
	b.WriteString(st.label.Render("Last Sync") + ov.LastSyncTime.Local().Format(time.RFC1123) + "\n\n")

	if s.busy != "" {
		b.WriteString(s.spinner.View() + " " + s.busy + "\n\n")
	}
	if s.editing {
		b.WriteString(st.muted.Render("enter save • esc cancel"))
	} else {
		b.WriteString(st.muted.Render("f frequency • e enable/disable • h time • t test sync • s sync now"))
	}
	return b.String()
}
