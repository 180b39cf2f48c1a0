package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/availability-tracker/internal/application"
	"github.com/example/availability-tracker/internal/availability"
	"github.com/example/availability-tracker/internal/persistence"
)

// The persistence layer stores day names, clock times, and statuses as plain
// strings; the application layer works with the typed domain values. These
// adapters convert between the two and translate sentinel errors.

type userRepositoryAdapter struct {
	repo persistence.UserRepository
}

func newUserRepositoryAdapter(repo persistence.UserRepository) *userRepositoryAdapter {
	return &userRepositoryAdapter{repo: repo}
}

func (a *userRepositoryAdapter) UpsertTimezone(ctx context.Context, userID, timezone string, now time.Time) (application.User, error) {
	stored, err := a.repo.UpsertTimezone(ctx, userID, timezone, now)
	if err != nil {
		return application.User{}, mapPersistenceError(err)
	}
	return toApplicationUser(stored), nil
}

func (a *userRepositoryAdapter) UpsertStatus(ctx context.Context, userID string, status availability.Status, now time.Time) (application.User, error) {
	stored, err := a.repo.UpsertStatus(ctx, userID, string(status), now)
	if err != nil {
		return application.User{}, mapPersistenceError(err)
	}
	return toApplicationUser(stored), nil
}

func (a *userRepositoryAdapter) UpdateStatuses(ctx context.Context, statuses map[string]availability.Status, now time.Time) error {
	raw := make(map[string]string, len(statuses))
	for id, status := range statuses {
		raw[id] = string(status)
	}
	return mapPersistenceError(a.repo.UpdateStatuses(ctx, raw, now))
}

func (a *userRepositoryAdapter) GetUser(ctx context.Context, id string) (application.User, error) {
	stored, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return application.User{}, mapPersistenceError(err)
	}
	return toApplicationUser(stored), nil
}

func (a *userRepositoryAdapter) ListUsers(ctx context.Context) ([]application.User, error) {
	stored, err := a.repo.ListUsers(ctx)
	if err != nil {
		return nil, mapPersistenceError(err)
	}
	users := make([]application.User, 0, len(stored))
	for _, user := range stored {
		users = append(users, toApplicationUser(user))
	}
	return users, nil
}

func (a *userRepositoryAdapter) ListSnapshots(ctx context.Context) ([]application.Snapshot, error) {
	stored, err := a.repo.ListSnapshots(ctx)
	if err != nil {
		return nil, mapPersistenceError(err)
	}

	snapshots := make([]application.Snapshot, 0, len(stored))
	for _, raw := range stored {
		snapshot := application.Snapshot{User: toApplicationUser(raw.User)}
		snapshot.Entries = make([]application.ScheduleEntry, 0, len(raw.Entries))
		for _, entry := range raw.Entries {
			converted, err := toApplicationEntry(entry)
			if err != nil {
				return nil, err
			}
			snapshot.Entries = append(snapshot.Entries, converted)
		}
		if raw.Default != nil {
			converted, err := toApplicationDefault(*raw.Default)
			if err != nil {
				return nil, err
			}
			snapshot.Default = &converted
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, nil
}

type scheduleRepositoryAdapter struct {
	repo persistence.ScheduleRepository
}

func newScheduleRepositoryAdapter(repo persistence.ScheduleRepository) *scheduleRepositoryAdapter {
	return &scheduleRepositoryAdapter{repo: repo}
}

func (a *scheduleRepositoryAdapter) UpsertEntry(ctx context.Context, entry application.ScheduleEntry) (application.ScheduleEntry, error) {
	stored, err := a.repo.UpsertEntry(ctx, toPersistenceEntry(entry))
	if err != nil {
		return application.ScheduleEntry{}, mapPersistenceError(err)
	}
	return toApplicationEntry(stored)
}

func (a *scheduleRepositoryAdapter) ListEntries(ctx context.Context, userID string) ([]application.ScheduleEntry, error) {
	stored, err := a.repo.ListEntries(ctx, userID)
	if err != nil {
		return nil, mapPersistenceError(err)
	}
	entries := make([]application.ScheduleEntry, 0, len(stored))
	for _, entry := range stored {
		converted, err := toApplicationEntry(entry)
		if err != nil {
			return nil, err
		}
		entries = append(entries, converted)
	}
	return entries, nil
}

func (a *scheduleRepositoryAdapter) ClearSchedule(ctx context.Context, userID string, now time.Time) ([]application.ScheduleEntry, error) {
	stored, err := a.repo.ClearSchedule(ctx, userID, now)
	if err != nil {
		return nil, mapPersistenceError(err)
	}
	if stored == nil {
		return nil, nil
	}
	entries := make([]application.ScheduleEntry, 0, len(stored))
	for _, entry := range stored {
		converted, err := toApplicationEntry(entry)
		if err != nil {
			return nil, err
		}
		entries = append(entries, converted)
	}
	return entries, nil
}

type defaultRepositoryAdapter struct {
	repo persistence.DefaultRepository
}

func newDefaultRepositoryAdapter(repo persistence.DefaultRepository) *defaultRepositoryAdapter {
	return &defaultRepositoryAdapter{repo: repo}
}

func (a *defaultRepositoryAdapter) UpsertDefault(ctx context.Context, def application.DefaultWindows) (application.DefaultWindows, error) {
	stored, err := a.repo.UpsertDefault(ctx, persistence.DefaultAvailability{
		UserID:       def.UserID,
		WeekdayStart: def.WeekdayStart.String(),
		WeekdayEnd:   def.WeekdayEnd.String(),
		WeekendStart: def.WeekendStart.String(),
		WeekendEnd:   def.WeekendEnd.String(),
		CreatedAt:    def.CreatedAt,
		UpdatedAt:    def.UpdatedAt,
	})
	if err != nil {
		return application.DefaultWindows{}, mapPersistenceError(err)
	}
	return toApplicationDefault(stored)
}

func (a *defaultRepositoryAdapter) GetDefault(ctx context.Context, userID string) (application.DefaultWindows, error) {
	stored, err := a.repo.GetDefault(ctx, userID)
	if err != nil {
		return application.DefaultWindows{}, mapPersistenceError(err)
	}
	return toApplicationDefault(stored)
}

func toApplicationUser(user persistence.User) application.User {
	return application.User{
		ID:        user.ID,
		Timezone:  user.Timezone,
		Status:    availability.Status(user.Status),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func toApplicationEntry(entry persistence.ScheduleEntry) (application.ScheduleEntry, error) {
	day, err := availability.ParseWeekday(entry.Day)
	if err != nil {
		return application.ScheduleEntry{}, fmt.Errorf("stored entry for user %s: %w", entry.UserID, err)
	}
	start, err := availability.ParseClock(entry.StartTime)
	if err != nil {
		return application.ScheduleEntry{}, fmt.Errorf("stored entry for user %s: %w", entry.UserID, err)
	}
	end, err := availability.ParseClock(entry.EndTime)
	if err != nil {
		return application.ScheduleEntry{}, fmt.Errorf("stored entry for user %s: %w", entry.UserID, err)
	}
	return application.ScheduleEntry{
		UserID:    entry.UserID,
		Day:       day,
		Start:     start,
		End:       end,
		Status:    availability.Status(entry.Status),
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
	}, nil
}

func toPersistenceEntry(entry application.ScheduleEntry) persistence.ScheduleEntry {
	return persistence.ScheduleEntry{
		UserID:    entry.UserID,
		Day:       entry.Day.String(),
		StartTime: entry.Start.String(),
		EndTime:   entry.End.String(),
		Status:    string(entry.Status),
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
	}
}

func toApplicationDefault(def persistence.DefaultAvailability) (application.DefaultWindows, error) {
	parse := func(value string) (availability.Minute, error) {
		minute, err := availability.ParseClock(value)
		if err != nil {
			return 0, fmt.Errorf("stored default for user %s: %w", def.UserID, err)
		}
		return minute, nil
	}

	weekdayStart, err := parse(def.WeekdayStart)
	if err != nil {
		return application.DefaultWindows{}, err
	}
	weekdayEnd, err := parse(def.WeekdayEnd)
	if err != nil {
		return application.DefaultWindows{}, err
	}
	weekendStart, err := parse(def.WeekendStart)
	if err != nil {
		return application.DefaultWindows{}, err
	}
	weekendEnd, err := parse(def.WeekendEnd)
	if err != nil {
		return application.DefaultWindows{}, err
	}

	return application.DefaultWindows{
		UserID:       def.UserID,
		WeekdayStart: weekdayStart,
		WeekdayEnd:   weekdayEnd,
		WeekendStart: weekendStart,
		WeekendEnd:   weekendEnd,
		CreatedAt:    def.CreatedAt,
		UpdatedAt:    def.UpdatedAt,
	}, nil
}

func mapPersistenceError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return application.ErrNotFound
	}
	return err
}
