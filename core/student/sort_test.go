package student

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/cptracker/core"
)

func TestSort(t *testing.T) {
	now := time.Now()
	ada := Student{ID: 1, Name: "ada", Email: "ada@test.io", CodeforcesHandle: "Zed", CurrentRating: 1500, LastUpdated: now}
	bob := Student{ID: 2, Name: "Bob", Email: "bob@test.io", CodeforcesHandle: "alpha", CurrentRating: 1200, LastUpdated: now.Add(-time.Hour)}
	cyd := Student{ID: 3, Name: "cyd", Email: "cyd@test.io", CodeforcesHandle: "mid", CurrentRating: 1500, LastUpdated: now.Add(time.Hour)}

	ids := func(students []Student) []int {
		res := make([]int, 0, len(students))
		for _, s := range students {
			res = append(res, s.ID)
		}
		return res
	}

	tests := []struct {
		name      string
		orderings []core.DBOrdering
		want      []int
	}{
		{name: "by ID", want: []int{1, 2, 3}},
		{name: "name, case-insensitive", orderings: []core.DBOrdering{{Field: "name", Ascending: false}}, want: []int{3, 2, 1}},
		{name: "handle", orderings: []core.DBOrdering{{Field: "codeforces_handle", Ascending: true}}, want: []int{2, 3, 1}},
		{name: "rating ties by ID", orderings: []core.DBOrdering{{Field: "current_rating", Ascending: false}}, want: []int{1, 3, 2}},
		{
			name:      "rating then last updated",
			orderings: []core.DBOrdering{{Field: "current_rating", Ascending: false}, {Field: "last_updated", Ascending: false}},
			want:      []int{3, 1, 2},
		},
		{name: "unknown field", orderings: []core.DBOrdering{{Field: "lol", Ascending: false}}, want: []int{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			students := []Student{cyd, ada, bob}
			Sort(students, tt.orderings...)
			assert.Equal(t, tt.want, ids(students))
		})
	}
}

func TestCleanOrderings(t *testing.T) {
	got := CleanOrderings([]core.DBOrdering{{Field: "name"}, {Field: "password"}, {Field: "joined_date", Ascending: true}})
	assert.Equal(t, []core.DBOrdering{{Field: "name"}, {Field: "joined_date", Ascending: true}}, got)
}
