package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/availability-tracker/internal/availability"
)

// UserRepository captures the persistence operations needed for users and
// their cached statuses.
type UserRepository interface {
	UpsertTimezone(ctx context.Context, userID, timezone string, now time.Time) (User, error)
	UpsertStatus(ctx context.Context, userID string, status availability.Status, now time.Time) (User, error)
	UpdateStatuses(ctx context.Context, statuses map[string]availability.Status, now time.Time) error
	GetUser(ctx context.Context, id string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	ListSnapshots(ctx context.Context) ([]Snapshot, error)
}

// ScheduleRepository captures the persistence operations for weekly entries.
type ScheduleRepository interface {
	UpsertEntry(ctx context.Context, entry ScheduleEntry) (ScheduleEntry, error)
	ListEntries(ctx context.Context, userID string) ([]ScheduleEntry, error)
	ClearSchedule(ctx context.Context, userID string, now time.Time) ([]ScheduleEntry, error)
}

// DefaultRepository captures the persistence operations for fallback windows.
type DefaultRepository interface {
	UpsertDefault(ctx context.Context, def DefaultWindows) (DefaultWindows, error)
	GetDefault(ctx context.Context, userID string) (DefaultWindows, error)
}

// ScheduleService orchestrates validation, authorization, and persistence
// for timezones, statuses, weekly entries, and default windows.
type ScheduleService struct {
	users    UserRepository
	schedule ScheduleRepository
	defaults DefaultRepository
	now      func() time.Time
	logger   *slog.Logger
}

// NewScheduleService wires dependencies for the schedule service.
func NewScheduleService(users UserRepository, schedule ScheduleRepository, defaults DefaultRepository, now func() time.Time, logger *slog.Logger) *ScheduleService {
	if now == nil {
		now = time.Now
	}
	return &ScheduleService{
		users:    users,
		schedule: schedule,
		defaults: defaults,
		now:      now,
		logger:   defaultLogger(logger),
	}
}

// SetTimezone validates and stores the user's IANA timezone.
func (s *ScheduleService) SetTimezone(ctx context.Context, params SetTimezoneParams) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("ScheduleService is nil")
	}
	if err := authorizeSubject(params.Principal, params.UserID); err != nil {
		return User{}, err
	}

	name := strings.TrimSpace(params.Timezone)
	if _, err := availability.LoadZone(name); err != nil {
		vErr := &ValidationError{}
		vErr.add("timezone", fmt.Sprintf("unknown timezone %q", name))
		return User{}, vErr
	}

	user, err := s.users.UpsertTimezone(ctx, params.UserID, name, s.now())
	if err != nil {
		return User{}, err
	}

	serviceLogger(ctx, s.logger, "schedule", "set_timezone").InfoContext(ctx, "timezone updated",
		"user_id", user.ID, "timezone", user.Timezone)
	return user, nil
}

// SetStatus stores an explicit current status for the user. The next engine
// pass may overwrite it.
func (s *ScheduleService) SetStatus(ctx context.Context, params SetStatusParams) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("ScheduleService is nil")
	}
	if err := authorizeSubject(params.Principal, params.UserID); err != nil {
		return User{}, err
	}

	status, err := availability.ParseStatus(params.Status)
	if err != nil {
		vErr := &ValidationError{}
		vErr.add("status", fmt.Sprintf("invalid status %q, use green, yellow, or red", params.Status))
		return User{}, vErr
	}

	user, err := s.users.UpsertStatus(ctx, params.UserID, status, s.now())
	if err != nil {
		return User{}, err
	}

	serviceLogger(ctx, s.logger, "schedule", "set_status").InfoContext(ctx, "status updated",
		"user_id", user.ID, "status", string(user.Status))
	return user, nil
}

// SetEntry validates and stores one day's window, replacing any previous
// entry for that day.
func (s *ScheduleService) SetEntry(ctx context.Context, params SetEntryParams) (ScheduleEntry, error) {
	if s == nil {
		return ScheduleEntry{}, fmt.Errorf("ScheduleService is nil")
	}
	if err := authorizeSubject(params.Principal, params.UserID); err != nil {
		return ScheduleEntry{}, err
	}

	vErr := &ValidationError{}

	day, err := availability.ParseWeekday(params.Day)
	if err != nil {
		vErr.add("day", fmt.Sprintf("invalid day %q", params.Day))
	}
	start, err := availability.ParseClock(params.Start)
	if err != nil {
		vErr.add("start", fmt.Sprintf("invalid time %q, use HH:MM", params.Start))
	}
	end, err := availability.ParseClock(params.End)
	if err != nil {
		vErr.add("end", fmt.Sprintf("invalid time %q, use HH:MM", params.End))
	}
	status, err := availability.ParseStatus(params.Status)
	if err != nil {
		vErr.add("status", fmt.Sprintf("invalid status %q, use green, yellow, or red", params.Status))
	}
	if vErr.HasErrors() {
		return ScheduleEntry{}, vErr
	}

	now := s.now()
	entry, err := s.schedule.UpsertEntry(ctx, ScheduleEntry{
		UserID:    params.UserID,
		Day:       day,
		Start:     start,
		End:       end,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return ScheduleEntry{}, err
	}

	serviceLogger(ctx, s.logger, "schedule", "set_entry").InfoContext(ctx, "entry updated",
		"user_id", entry.UserID, "day", entry.Day.String(), "status", string(entry.Status))
	return entry, nil
}

// ClearSchedule wipes the user's entries and, when default windows exist,
// resets every day to a green entry built from them.
func (s *ScheduleService) ClearSchedule(ctx context.Context, principal Principal, userID string) ([]ScheduleEntry, error) {
	if s == nil {
		return nil, fmt.Errorf("ScheduleService is nil")
	}
	if err := authorizeSubject(principal, userID); err != nil {
		return nil, err
	}

	reset, err := s.schedule.ClearSchedule(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}

	serviceLogger(ctx, s.logger, "schedule", "clear_schedule").InfoContext(ctx, "schedule cleared",
		"user_id", userID, "reset_entries", len(reset))
	return reset, nil
}

// SetDefault validates and stores the user's fallback working windows.
func (s *ScheduleService) SetDefault(ctx context.Context, params SetDefaultParams) (DefaultWindows, error) {
	if s == nil {
		return DefaultWindows{}, fmt.Errorf("ScheduleService is nil")
	}
	if err := authorizeSubject(params.Principal, params.UserID); err != nil {
		return DefaultWindows{}, err
	}

	vErr := &ValidationError{}
	parse := func(field, value string) availability.Minute {
		minute, err := availability.ParseClock(value)
		if err != nil {
			vErr.add(field, fmt.Sprintf("invalid time %q, use HH:MM", value))
		}
		return minute
	}

	weekdayStart := parse("weekday_start", params.WeekdayStart)
	weekdayEnd := parse("weekday_end", params.WeekdayEnd)
	weekendStart := parse("weekend_start", params.WeekendStart)
	weekendEnd := parse("weekend_end", params.WeekendEnd)
	if vErr.HasErrors() {
		return DefaultWindows{}, vErr
	}

	now := s.now()
	def, err := s.defaults.UpsertDefault(ctx, DefaultWindows{
		UserID:       params.UserID,
		WeekdayStart: weekdayStart,
		WeekdayEnd:   weekdayEnd,
		WeekendStart: weekendStart,
		WeekendEnd:   weekendEnd,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return DefaultWindows{}, err
	}

	serviceLogger(ctx, s.logger, "schedule", "set_default").InfoContext(ctx, "default windows updated",
		"user_id", def.UserID)
	return def, nil
}

// GetUser returns one user with their cached status.
func (s *ScheduleService) GetUser(ctx context.Context, userID string) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("ScheduleService is nil")
	}
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

// ListUsers returns every tracked user.
func (s *ScheduleService) ListUsers(ctx context.Context) ([]User, error) {
	if s == nil {
		return nil, fmt.Errorf("ScheduleService is nil")
	}
	return s.users.ListUsers(ctx)
}

// GetSchedule returns the user's entries ordered Monday through Sunday.
func (s *ScheduleService) GetSchedule(ctx context.Context, userID string) ([]ScheduleEntry, error) {
	if s == nil {
		return nil, fmt.Errorf("ScheduleService is nil")
	}
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.schedule.ListEntries(ctx, userID)
}

// GetDefault returns the user's fallback windows. A user without stored
// windows is not an error: the second return reports whether any exist.
func (s *ScheduleService) GetDefault(ctx context.Context, userID string) (DefaultWindows, bool, error) {
	if s == nil {
		return DefaultWindows{}, false, fmt.Errorf("ScheduleService is nil")
	}
	def, err := s.defaults.GetDefault(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return DefaultWindows{}, false, nil
		}
		return DefaultWindows{}, false, err
	}
	return def, true, nil
}

// authorizeSubject allows the subject themselves and administrators.
func authorizeSubject(principal Principal, userID string) error {
	if principal.IsAdmin {
		return nil
	}
	if principal.UserID != "" && principal.UserID == userID {
		return nil
	}
	return ErrUnauthorized
}
