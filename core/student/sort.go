package student

import (
	"sort"
	"strings"

	"github.com/trezcool/cptracker/core"
)

// compare returns -1, 0 or 1 as a is less than, equal to or greater than b on field.
func compare(a, b Student, field string) int {
	cmpInt := func(x, y int) int {
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}

	switch field {
	case "id":
		return cmpInt(a.ID, b.ID)
	case "name":
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	case "email":
		return strings.Compare(a.Email, b.Email)
	case "codeforces_handle":
		return strings.Compare(strings.ToLower(a.CodeforcesHandle), strings.ToLower(b.CodeforcesHandle))
	case "current_rating":
		return cmpInt(a.CurrentRating, b.CurrentRating)
	case "max_rating":
		return cmpInt(a.MaxRating, b.MaxRating)
	case "email_reminders_count":
		return cmpInt(a.EmailRemindersCount, b.EmailRemindersCount)
	case "last_updated":
		return a.LastUpdated.Compare(b.LastUpdated)
	case "joined_date":
		return a.JoinedDate.Compare(b.JoinedDate)
	}
	return 0
}

// Sort orders students in place by the given orderings, then by ID.
func Sort(students []Student, orderings ...core.DBOrdering) {
	sort.SliceStable(students, func(i, j int) bool {
		for _, ord := range orderings {
			c := compare(students[i], students[j], ord.Field)
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return students[i].ID < students[j].ID
	})
}
