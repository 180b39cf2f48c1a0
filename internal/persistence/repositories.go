package persistence

import (
	"context"
	"time"
)

// UserRepository stores user rows and their cached statuses.
type UserRepository interface {
	// UpsertTimezone creates the user row if needed and sets its timezone.
	UpsertTimezone(ctx context.Context, userID, timezone string, now time.Time) (User, error)
	// UpsertStatus creates the user row if needed and sets its status.
	UpsertStatus(ctx context.Context, userID, status string, now time.Time) (User, error)
	// UpdateStatuses applies a batch of engine-computed statuses in one
	// atomic write. Users without an existing row are skipped.
	UpdateStatuses(ctx context.Context, statuses map[string]string, now time.Time) error
	GetUser(ctx context.Context, id string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	// ListSnapshots returns one snapshot per user, each carrying the user's
	// schedule entries and default row, read under a single consistent view.
	ListSnapshots(ctx context.Context) ([]AvailabilitySnapshot, error)
}

// ScheduleRepository stores weekly schedule entries keyed by (user, day).
type ScheduleRepository interface {
	// UpsertEntry replaces any existing entry for (entry.UserID, entry.Day),
	// creating the owning user row first when it does not exist. The stored
	// entry is returned with its original creation timestamp preserved.
	UpsertEntry(ctx context.Context, entry ScheduleEntry) (ScheduleEntry, error)
	ListEntries(ctx context.Context, userID string) ([]ScheduleEntry, error)
	// ClearSchedule atomically deletes every entry for the user and, when a
	// default availability row exists, synthesizes seven green replacement
	// entries from its windows (Mon-Fri weekday, Sat-Sun weekend). The
	// synthesized entries are returned; a nil slice means no default existed.
	ClearSchedule(ctx context.Context, userID string, now time.Time) ([]ScheduleEntry, error)
}

// DefaultRepository stores the per-user fallback availability windows.
type DefaultRepository interface {
	// UpsertDefault replaces the user's default row, creating the owning user
	// row first when it does not exist. The stored row is returned with its
	// original creation timestamp preserved.
	UpsertDefault(ctx context.Context, def DefaultAvailability) (DefaultAvailability, error)
	GetDefault(ctx context.Context, userID string) (DefaultAvailability, error)
}
