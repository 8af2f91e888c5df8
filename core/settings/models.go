package settings

import (
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/cptracker/core"
)

// Persisted keys
const (
	KeySyncSettings = "syncSettings"
	KeyTheme        = "theme"
	KeyLastSyncTime = "lastSyncTime"
)

// Statuses
const (
	StatusActive   = "Active"
	StatusDisabled = "Disabled"
)

type Frequency string

const (
	Daily  Frequency = "daily"
	Weekly Frequency = "weekly"
)

// Days returns the number of days between two runs.
func (f Frequency) Days() int {
	if f == Weekly {
		return 7
	}
	return 1
}

// SyncSettings is the schedule of the periodic data sync.
type SyncSettings struct {
	Frequency Frequency `json:"frequency" validate:"required,oneof=daily weekly"`
	Time      string    `json:"time" validate:"required,hhmm"` // HH:MM, 24h
	Enabled   bool      `json:"enabled"`
}

func DefaultSyncSettings() SyncSettings {
	return SyncSettings{Frequency: Daily, Time: "02:00", Enabled: true}
}

func (s SyncSettings) Validate(validate *validator.Validate) error {
	return validate.Struct(s)
}

func (s SyncSettings) clock() (hour, min int) {
	if !core.IsTimeOfDay(s.Time) {
		return 0, 0
	}
	hour, _ = strconv.Atoi(s.Time[:2])
	min, _ = strconv.Atoi(s.Time[3:])
	return hour, min
}

// NextRun returns today at Time when it is still ahead of now.
// Otherwise it is pushed by one day (daily) or one week (weekly).
func (s SyncSettings) NextRun(now time.Time) time.Time {
	hour, min := s.clock()
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, s.Frequency.Days())
	}
	return next
}

func (s SyncSettings) Status() string {
	if s.Enabled {
		return StatusActive
	}
	return StatusDisabled
}

// SyncSettingsPatch holds the SyncSettings fields to change. Nil fields are left as is.
type SyncSettingsPatch struct {
	Frequency *Frequency `json:"frequency" validate:"omitempty,oneof=daily weekly"`
	Time      *string    `json:"time" validate:"omitempty,hhmm"`
	Enabled   *bool      `json:"enabled"`
}

func (p *SyncSettingsPatch) Validate(validate *validator.Validate) error {
	if p.Time != nil {
		t := core.CleanString(*p.Time)
		p.Time = &t
	}
	return validate.Struct(p)
}

func (p SyncSettingsPatch) apply(s SyncSettings) SyncSettings {
	if p.Frequency != nil {
		s.Frequency = *p.Frequency
	}
	if p.Time != nil {
		s.Time = *p.Time
	}
	if p.Enabled != nil {
		s.Enabled = *p.Enabled
	}
	return s
}

// SyncOverview is what the settings panel shows.
type SyncOverview struct {
	SyncSettings
	Status       string     `json:"status"`
	NextRun      *time.Time `json:"next_run"` // nil when disabled
	LastSyncTime time.Time  `json:"last_sync_time"`
}

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}
