package persistence

import "time"

// User represents a tracked account. The identifier is opaque and assigned by
// the chat platform; rows are created on first mutating action and never
// deleted. Timezone may be empty until the user sets one. Status holds the
// lower-case enum value, "unknown" until the engine or a caller writes one.
type User struct {
	ID        string
	Timezone  string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScheduleEntry is one weekly schedule row, unique on (UserID, Day). Day is
// the lower-case weekday name; times are zero-padded HH:MM wall clock in the
// user's home zone, stored as given so the round trip is lossless to minute
// precision.
type ScheduleEntry struct {
	UserID    string
	Day       string
	StartTime string
	EndTime   string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultAvailability is the per-user fallback window row, one per user, all
// four times HH:MM in the user's home zone.
type DefaultAvailability struct {
	UserID       string
	WeekdayStart string
	WeekdayEnd   string
	WeekendStart string
	WeekendEnd   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AvailabilitySnapshot bundles everything the status engine needs for one
// user in a single read.
type AvailabilitySnapshot struct {
	User    User
	Entries []ScheduleEntry
	Default *DefaultAvailability
}
