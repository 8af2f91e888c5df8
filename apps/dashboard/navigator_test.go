package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNavigator(t *testing.T) {
	type want struct {
		view   View
		id     int
		hasSel bool
	}
	tests := []struct {
		name  string
		steps func(n *Navigator)
		want  want
	}{
		{name: "zero value", steps: func(n *Navigator) {}, want: want{view: ViewRoster}},
		{name: "open", steps: func(n *Navigator) { n.Open(3) }, want: want{view: ViewProfile, id: 3, hasSel: true}},
		{name: "open then back", steps: func(n *Navigator) { n.Open(3); n.Back() }, want: want{view: ViewRoster}},
		{name: "open then settings", steps: func(n *Navigator) { n.Open(3); n.Navigate(ViewSettings) }, want: want{view: ViewSettings}},
		{name: "open then profile keeps selection", steps: func(n *Navigator) { n.Open(3); n.Navigate(ViewProfile) }, want: want{view: ViewProfile, id: 3, hasSel: true}},
		{name: "open another", steps: func(n *Navigator) { n.Open(3); n.Open(7) }, want: want{view: ViewProfile, id: 7, hasSel: true}},
		{name: "profile without selection", steps: func(n *Navigator) { n.Navigate(ViewProfile) }, want: want{view: ViewRoster}},
		{name: "settings then roster", steps: func(n *Navigator) { n.Navigate(ViewSettings); n.Navigate(ViewRoster) }, want: want{view: ViewRoster}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n Navigator
			tt.steps(&n)

			assert.Equal(t, tt.want.view, n.Current())
			id, ok := n.Selected()
			assert.Equal(t, tt.want.hasSel, ok)
			assert.Equal(t, tt.want.id, id)
		})
	}
}

func TestView_String(t *testing.T) {
	assert.Equal(t, "roster", ViewRoster.String())
	assert.Equal(t, "profile", ViewProfile.String())
	assert.Equal(t, "settings", ViewSettings.String())
}
