package main

// View is a dashboard screen.
type View int

const (
	ViewRoster View = iota
	ViewProfile
	ViewSettings
)

func (v View) String() string {
	switch v {
	case ViewProfile:
		return "profile"
	case ViewSettings:
		return "settings"
	default:
		return "roster"
	}
}

// Navigator tracks the active view and the selected student.
// The zero value shows the roster with nothing selected.
type Navigator struct {
	view     View
	selected int
	hasSel   bool
}

// Current returns the view to render. The profile needs a selected student, the roster is shown otherwise.
func (n Navigator) Current() View {
	if n.view == ViewProfile && !n.hasSel {
		return ViewRoster
	}
	return n.view
}

// Selected returns the selected student ID, if any.
func (n Navigator) Selected() (int, bool) {
	return n.selected, n.hasSel
}

// Navigate switches to v. The selection is kept only when v is the profile.
func (n *Navigator) Navigate(v View) {
	n.view = v
	if v != ViewProfile {
		n.selected, n.hasSel = 0, false
	}
}

// Open selects the student and shows their profile.
func (n *Navigator) Open(studentID int) {
	n.selected, n.hasSel = studentID, true
	n.view = ViewProfile
}

// Back returns to the roster and clears the selection.
func (n *Navigator) Back() {
	n.Navigate(ViewRoster)
}
