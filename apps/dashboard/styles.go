package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/trezcool/cptracker/core/settings"
)

type palette struct {
	fg, muted, accent, ok, err lipgloss.Color
	heat                       [5]lipgloss.Color
}

var palettes = map[settings.Theme]palette{
	settings.Light: {
		fg: "#1f2328", muted: "#656d76", accent: "#0969da", ok: "#1a7f37", err: "#cf222e",
		heat: [5]lipgloss.Color{"#ebedf0", "#9be9a8", "#40c463", "#30a14e", "#216e39"},
	},
	settings.Dark: {
		fg: "#e6edf3", muted: "#8d96a0", accent: "#58a6ff", ok: "#3fb950", err: "#f85149",
		heat: [5]lipgloss.Color{"#161b22", "#0e4429", "#006d32", "#26a641", "#39d353"},
	},
}

type styles struct {
	title    lipgloss.Style
	tab      lipgloss.Style
	tabOn    lipgloss.Style
	label    lipgloss.Style
	muted    lipgloss.Style
	ok       lipgloss.Style
	err      lipgloss.Style
	box      lipgloss.Style
	selected lipgloss.Style
	heat     [5]lipgloss.Style
}

func newStyles(theme settings.Theme) styles {
	p, ok := palettes[theme]
	if !ok {
		p = palettes[settings.Light]
	}
	s := styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(p.accent).MarginBottom(1),
		tab:      lipgloss.NewStyle().Foreground(p.muted).Padding(0, 1),
		tabOn:    lipgloss.NewStyle().Bold(true).Foreground(p.accent).Underline(true).Padding(0, 1),
		label:    lipgloss.NewStyle().Foreground(p.muted).Width(22),
		muted:    lipgloss.NewStyle().Foreground(p.muted),
		ok:       lipgloss.NewStyle().Foreground(p.ok),
		err:      lipgloss.NewStyle().Foreground(p.err),
		box:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.muted).Padding(0, 1),
		selected: lipgloss.NewStyle().Bold(true).Foreground(p.fg).Background(p.accent),
	}
	for i, c := range p.heat {
		s.heat[i] = lipgloss.NewStyle().Foreground(c)
	}
	return s
}
