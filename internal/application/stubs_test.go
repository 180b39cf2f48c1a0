package application

import (
	"context"
	"time"

	"github.com/example/availability-tracker/internal/availability"
)

type userRepoStub struct {
	users     map[string]User
	snapshots []Snapshot
	applied   map[string]availability.Status
	err       error
}

func newUserRepoStub(users ...User) *userRepoStub {
	stub := &userRepoStub{users: make(map[string]User)}
	for _, user := range users {
		stub.users[user.ID] = user
	}
	return stub
}

func (u *userRepoStub) UpsertTimezone(ctx context.Context, userID, timezone string, now time.Time) (User, error) {
	if u.err != nil {
		return User{}, u.err
	}
	user := u.users[userID]
	user.ID = userID
	user.Timezone = timezone
	if user.Status == "" {
		user.Status = availability.StatusUnknown
	}
	user.UpdatedAt = now
	u.users[userID] = user
	return user, nil
}

func (u *userRepoStub) UpsertStatus(ctx context.Context, userID string, status availability.Status, now time.Time) (User, error) {
	if u.err != nil {
		return User{}, u.err
	}
	user := u.users[userID]
	user.ID = userID
	user.Status = status
	user.UpdatedAt = now
	u.users[userID] = user
	return user, nil
}

func (u *userRepoStub) UpdateStatuses(ctx context.Context, statuses map[string]availability.Status, now time.Time) error {
	if u.err != nil {
		return u.err
	}
	u.applied = statuses
	for id, status := range statuses {
		if user, ok := u.users[id]; ok {
			user.Status = status
			u.users[id] = user
		}
	}
	return nil
}

func (u *userRepoStub) GetUser(ctx context.Context, id string) (User, error) {
	if u.err != nil {
		return User{}, u.err
	}
	user, ok := u.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (u *userRepoStub) ListUsers(ctx context.Context) ([]User, error) {
	if u.err != nil {
		return nil, u.err
	}
	var out []User
	for _, snapshot := range u.snapshots {
		out = append(out, snapshot.User)
	}
	if out != nil {
		return out, nil
	}
	for _, user := range u.users {
		out = append(out, user)
	}
	return out, nil
}

func (u *userRepoStub) ListSnapshots(ctx context.Context) ([]Snapshot, error) {
	if u.err != nil {
		return nil, u.err
	}
	return u.snapshots, nil
}

type scheduleRepoStub struct {
	entries  map[string][]ScheduleEntry
	upserted []ScheduleEntry
	cleared  []string
	reset    []ScheduleEntry
	err      error
}

func newScheduleRepoStub() *scheduleRepoStub {
	return &scheduleRepoStub{entries: make(map[string][]ScheduleEntry)}
}

func (s *scheduleRepoStub) UpsertEntry(ctx context.Context, entry ScheduleEntry) (ScheduleEntry, error) {
	if s.err != nil {
		return ScheduleEntry{}, s.err
	}
	s.upserted = append(s.upserted, entry)
	replaced := false
	for i, existing := range s.entries[entry.UserID] {
		if existing.Day == entry.Day {
			s.entries[entry.UserID][i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		s.entries[entry.UserID] = append(s.entries[entry.UserID], entry)
	}
	return entry, nil
}

func (s *scheduleRepoStub) ListEntries(ctx context.Context, userID string) ([]ScheduleEntry, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.entries[userID], nil
}

func (s *scheduleRepoStub) ClearSchedule(ctx context.Context, userID string, now time.Time) ([]ScheduleEntry, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.cleared = append(s.cleared, userID)
	s.entries[userID] = s.reset
	return s.reset, nil
}

type defaultRepoStub struct {
	defaults map[string]DefaultWindows
	err      error
}

func newDefaultRepoStub() *defaultRepoStub {
	return &defaultRepoStub{defaults: make(map[string]DefaultWindows)}
}

func (d *defaultRepoStub) UpsertDefault(ctx context.Context, def DefaultWindows) (DefaultWindows, error) {
	if d.err != nil {
		return DefaultWindows{}, d.err
	}
	d.defaults[def.UserID] = def
	return def, nil
}

func (d *defaultRepoStub) GetDefault(ctx context.Context, userID string) (DefaultWindows, error) {
	if d.err != nil {
		return DefaultWindows{}, d.err
	}
	def, ok := d.defaults[userID]
	if !ok {
		return DefaultWindows{}, ErrNotFound
	}
	return def, nil
}
