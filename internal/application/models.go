// Package application orchestrates validation, authorization, and
// persistence for availability schedules, and derives the cached per-user
// status from them.
package application

import (
	"time"

	"github.com/example/availability-tracker/internal/availability"
)

// Principal identifies the acting user for authorization decisions. The
// identity is asserted by the calling gateway, not verified here.
type Principal struct {
	UserID  string
	IsAdmin bool
}

// User is a tracked user together with the last status the engine derived
// for them.
type User struct {
	ID        string
	Timezone  string
	Status    availability.Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScheduleEntry is one day's planned window in the owner's local time.
type ScheduleEntry struct {
	UserID    string
	Day       availability.Weekday
	Start     availability.Minute
	End       availability.Minute
	Status    availability.Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultWindows holds a user's fallback working hours, applied on days
// without an explicit entry and used to rebuild a cleared schedule.
type DefaultWindows struct {
	UserID       string
	WeekdayStart availability.Minute
	WeekdayEnd   availability.Minute
	WeekendStart availability.Minute
	WeekendEnd   availability.Minute
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Snapshot is one user's complete availability state, read consistently.
type Snapshot struct {
	User    User
	Entries []ScheduleEntry
	Default *DefaultWindows
}

// SetTimezoneParams carries the input for ScheduleService.SetTimezone.
type SetTimezoneParams struct {
	Principal Principal
	UserID    string
	Timezone  string
}

// SetStatusParams carries the input for ScheduleService.SetStatus.
type SetStatusParams struct {
	Principal Principal
	UserID    string
	Status    string
}

// SetEntryParams carries the raw input for ScheduleService.SetEntry. Day,
// times, and status are validated and normalized by the service.
type SetEntryParams struct {
	Principal Principal
	UserID    string
	Day       string
	Start     string
	End       string
	Status    string
}

// SetDefaultParams carries the raw input for ScheduleService.SetDefault.
type SetDefaultParams struct {
	Principal    Principal
	UserID       string
	WeekdayStart string
	WeekdayEnd   string
	WeekendStart string
	WeekendEnd   string
}
