package student

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/cptracker/core"
)

// Rating bounds accepted by the student forms.
const (
	MinRating = 0
	MaxRating = 4000
)

type Student struct {
	ID                    int       `json:"id" db:"id"`
	Name                  string    `json:"name" db:"name"`
	Email                 string    `json:"email" db:"email"`
	Phone                 string    `json:"phone" db:"phone"`
	CodeforcesHandle      string    `json:"codeforces_handle" db:"codeforces_handle"`
	CurrentRating         int       `json:"current_rating" db:"current_rating"`
	MaxRating             int       `json:"max_rating" db:"max_rating"`
	LastUpdated           time.Time `json:"last_updated" db:"last_updated"` // UTC
	EmailRemindersCount   int       `json:"email_reminders_count" db:"email_reminders_count"`
	EmailRemindersEnabled bool      `json:"email_reminders_enabled" db:"email_reminders_enabled"`
	JoinedDate            time.Time `json:"joined_date" db:"joined_date"` // UTC
}

// Matches does a case-insensitive match of search on one of Name, Email or CodeforcesHandle.
// An empty search matches every student.
func (s Student) Matches(search string) bool {
	search = strings.ToLower(search)
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s.Name), search) ||
		strings.Contains(strings.ToLower(s.Email), search) ||
		strings.Contains(strings.ToLower(s.CodeforcesHandle), search)
}

// NewStudent contains information needed to add a Student to the roster.
type NewStudent struct {
	Name                  string `json:"name" validate:"required"`
	Email                 string `json:"email" validate:"required,email"`
	Phone                 string `json:"phone" validate:"required"`
	CodeforcesHandle      string `json:"codeforces_handle" validate:"required"`
	CurrentRating         int    `json:"current_rating" validate:"min=0,max=4000"`
	MaxRating             int    `json:"max_rating" validate:"min=0,max=4000"`
	EmailRemindersEnabled *bool  `json:"email_reminders_enabled"` // defaults to true
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Phone = core.CleanString(ns.Phone)
	ns.CodeforcesHandle = core.CleanString(ns.CodeforcesHandle)
	return validate.Struct(ns)
}

func (ns NewStudent) remindersEnabled() bool {
	return ns.EmailRemindersEnabled == nil || *ns.EmailRemindersEnabled
}

// UpdateStudent defines what information may be provided to modify an existing Student.
// Blank fields keep their current value.
type UpdateStudent struct {
	Name                  string `json:"name" validate:"required"`
	Email                 string `json:"email" validate:"required,email"`
	Phone                 string `json:"phone" validate:"required"`
	CodeforcesHandle      string `json:"codeforces_handle" validate:"required"`
	CurrentRating         *int   `json:"current_rating" validate:"omitempty,min=0,max=4000"`
	MaxRating             *int   `json:"max_rating" validate:"omitempty,min=0,max=4000"`
	EmailRemindersEnabled *bool  `json:"email_reminders_enabled"`
}

func (us *UpdateStudent) Validate(orig Student, validate *validator.Validate) error {
	fill := func(val *string, origVal string, lower ...bool) {
		if v := core.CleanString(*val, lower...); v != "" {
			*val = v
		} else {
			*val = origVal
		}
	}
	fill(&us.Name, orig.Name)
	fill(&us.Email, orig.Email, true /* lower */)
	fill(&us.Phone, orig.Phone)
	fill(&us.CodeforcesHandle, orig.CodeforcesHandle)

	if us.CurrentRating == nil {
		us.CurrentRating = &orig.CurrentRating
	}
	if us.MaxRating == nil {
		us.MaxRating = &orig.MaxRating
	}
	if us.EmailRemindersEnabled == nil {
		us.EmailRemindersEnabled = &orig.EmailRemindersEnabled
	}
	return validate.Struct(us)
}

// SyncSnapshot is the fresh account state fetched for a Student during a sync.
type SyncSnapshot struct {
	CurrentRating  int
	MaxRating      int
	LastSubmission time.Time
}

type QueryFilter struct {
	Search string `query:"search"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
