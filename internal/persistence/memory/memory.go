// Package memory provides a mutex-guarded in-memory implementation of the
// persistence repositories, used by tests and as a dependency-free storage
// backend for local development.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/example/availability-tracker/internal/persistence"
)

type entryKey struct {
	userID string
	day    string
}

// Storage holds every relation behind a single RWMutex so each logical
// operation, including the read-then-write sequences of ClearSchedule and
// batched status updates, is serialized against concurrent edits.
type Storage struct {
	mu       sync.RWMutex
	users    map[string]persistence.User
	entries  map[entryKey]persistence.ScheduleEntry
	defaults map[string]persistence.DefaultAvailability
}

// Open returns an empty in-memory storage.
func Open() *Storage {
	return &Storage{
		users:    make(map[string]persistence.User),
		entries:  make(map[entryKey]persistence.ScheduleEntry),
		defaults: make(map[string]persistence.DefaultAvailability),
	}
}

// Close releases resources held by the storage. No-op for the in-memory
// implementation.
func (s *Storage) Close() error {
	return nil
}

// --- UserRepository implementation ---

// UpsertTimezone creates the user row if needed and sets its timezone.
func (s *Storage) UpsertTimezone(ctx context.Context, userID, timezone string, now time.Time) (persistence.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.ensureUserLocked(userID, now)
	user.Timezone = timezone
	user.UpdatedAt = now
	s.users[userID] = user
	return user, nil
}

// UpsertStatus creates the user row if needed and sets its status.
func (s *Storage) UpsertStatus(ctx context.Context, userID, status string, now time.Time) (persistence.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.ensureUserLocked(userID, now)
	user.Status = status
	user.UpdatedAt = now
	s.users[userID] = user
	return user, nil
}

// UpdateStatuses applies engine-computed statuses in one atomic write.
func (s *Storage) UpdateStatuses(ctx context.Context, statuses map[string]string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for userID, status := range statuses {
		user, ok := s.users[userID]
		if !ok {
			continue
		}
		user.Status = status
		user.UpdatedAt = now
		s.users[userID] = user
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *Storage) GetUser(ctx context.Context, id string) (persistence.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return persistence.User{}, persistence.ErrNotFound
	}
	return user, nil
}

// ListUsers returns all users ordered by CreatedAt ascending, then ID.
func (s *Storage) ListUsers(ctx context.Context) ([]persistence.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]persistence.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}

	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID < users[j].ID
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})

	return users, nil
}

// ListSnapshots returns one snapshot per user under a single read lock.
func (s *Storage) ListSnapshots(ctx context.Context) ([]persistence.AvailabilitySnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]persistence.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID < users[j].ID
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})

	snapshots := make([]persistence.AvailabilitySnapshot, 0, len(users))
	for _, user := range users {
		snapshot := persistence.AvailabilitySnapshot{
			User:    user,
			Entries: s.listEntriesLocked(user.ID),
		}
		if def, ok := s.defaults[user.ID]; ok {
			clone := def
			snapshot.Default = &clone
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, nil
}

// --- ScheduleRepository implementation ---

// UpsertEntry replaces any existing entry for (user, day).
func (s *Storage) UpsertEntry(ctx context.Context, entry persistence.ScheduleEntry) (persistence.ScheduleEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureUserLocked(entry.UserID, entry.UpdatedAt)

	key := entryKey{userID: entry.UserID, day: entry.Day}
	if existing, ok := s.entries[key]; ok {
		entry.CreatedAt = existing.CreatedAt
	} else {
		entry.CreatedAt = entry.UpdatedAt
	}
	s.entries[key] = entry
	return entry, nil
}

// ListEntries returns the user's entries ordered Monday through Sunday.
func (s *Storage) ListEntries(ctx context.Context, userID string) ([]persistence.ScheduleEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listEntriesLocked(userID), nil
}

// ClearSchedule deletes all entries and resets to the default windows when a
// default row exists. The whole sequence runs under one lock hold.
func (s *Storage) ClearSchedule(ctx context.Context, userID string, now time.Time) ([]persistence.ScheduleEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.entries {
		if key.userID == userID {
			delete(s.entries, key)
		}
	}

	def, ok := s.defaults[userID]
	if !ok {
		return nil, nil
	}

	synthesized := persistence.SynthesizeDefaultEntries(userID, def, now)
	for _, entry := range synthesized {
		s.entries[entryKey{userID: entry.UserID, day: entry.Day}] = entry
	}
	return synthesized, nil
}

// --- DefaultRepository implementation ---

// UpsertDefault replaces the user's default availability row.
func (s *Storage) UpsertDefault(ctx context.Context, def persistence.DefaultAvailability) (persistence.DefaultAvailability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureUserLocked(def.UserID, def.UpdatedAt)

	if existing, ok := s.defaults[def.UserID]; ok {
		def.CreatedAt = existing.CreatedAt
	} else {
		def.CreatedAt = def.UpdatedAt
	}
	s.defaults[def.UserID] = def
	return def, nil
}

// GetDefault retrieves the user's default availability row.
func (s *Storage) GetDefault(ctx context.Context, userID string) (persistence.DefaultAvailability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	def, ok := s.defaults[userID]
	if !ok {
		return persistence.DefaultAvailability{}, persistence.ErrNotFound
	}
	return def, nil
}

// --- Helpers ---

// ensureUserLocked guarantees the owning user row exists before dependent
// rows are written, keeping the user relation authoritative.
func (s *Storage) ensureUserLocked(userID string, now time.Time) persistence.User {
	if user, ok := s.users[userID]; ok {
		return user
	}
	user := persistence.User{
		ID:        userID,
		Status:    "unknown",
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.users[userID] = user
	return user
}

var dayOrder = map[string]int{
	"monday": 0, "tuesday": 1, "wednesday": 2, "thursday": 3,
	"friday": 4, "saturday": 5, "sunday": 6,
}

func (s *Storage) listEntriesLocked(userID string) []persistence.ScheduleEntry {
	entries := make([]persistence.ScheduleEntry, 0, 7)
	for key, entry := range s.entries {
		if key.userID == userID {
			entries = append(entries, entry)
		}
	}
	if len(entries) == 0 {
		return nil
	}

	sort.Slice(entries, func(i, j int) bool {
		return dayOrder[entries[i].Day] < dayOrder[entries[j].Day]
	})
	return entries
}
