package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/availability-tracker/internal/availability"
)

// StatusService derives each user's current status from their schedule and
// default windows and writes the results back as one batch.
type StatusService struct {
	users  UserRepository
	logger *slog.Logger
}

// NewStatusService wires dependencies for the status service.
func NewStatusService(users UserRepository, logger *slog.Logger) *StatusService {
	return &StatusService{users: users, logger: defaultLogger(logger)}
}

// RecomputeAll evaluates every user's schedule at the given instant and
// persists the statuses that changed. Users without a timezone are skipped,
// as are users whose schedule yields no decision. The applied statuses are
// returned keyed by user ID.
func (s *StatusService) RecomputeAll(ctx context.Context, now time.Time) (map[string]availability.Status, error) {
	if s == nil {
		return nil, fmt.Errorf("StatusService is nil")
	}

	logger := serviceLogger(ctx, s.logger, "status", "recompute_all")

	snapshots, err := s.users.ListSnapshots(ctx)
	if err != nil {
		return nil, err
	}

	changed := make(map[string]availability.Status)
	skipped := 0
	for _, snapshot := range snapshots {
		status, ok := s.evaluate(logger, snapshot, now)
		if !ok {
			skipped++
			continue
		}
		if status != snapshot.User.Status {
			changed[snapshot.User.ID] = status
		}
	}

	if len(changed) > 0 {
		if err := s.users.UpdateStatuses(ctx, changed, now); err != nil {
			return nil, err
		}
	}

	logger.InfoContext(ctx, "statuses recomputed",
		"users", len(snapshots), "changed", len(changed), "skipped", skipped)
	return changed, nil
}

// evaluate resolves one user's status at the given instant. The second
// return is false when the user is skipped or the engine abstains.
func (s *StatusService) evaluate(logger *slog.Logger, snapshot Snapshot, now time.Time) (availability.Status, bool) {
	if snapshot.User.Timezone == "" {
		return "", false
	}

	loc, err := availability.LoadZone(snapshot.User.Timezone)
	if err != nil {
		logger.Warn("skipping user with invalid timezone",
			"user_id", snapshot.User.ID, "timezone", snapshot.User.Timezone)
		return "", false
	}

	local := now.In(loc)
	day := availability.FromTime(local.Weekday())
	minute := availability.MinuteOf(local)

	var entry *availability.Entry
	for _, e := range snapshot.Entries {
		if e.Day == day {
			entry = &availability.Entry{
				Day:    e.Day,
				Start:  e.Start,
				End:    e.End,
				Status: e.Status,
			}
			break
		}
	}

	var def *availability.DefaultWindows
	if snapshot.Default != nil {
		def = &availability.DefaultWindows{
			WeekdayStart: snapshot.Default.WeekdayStart,
			WeekdayEnd:   snapshot.Default.WeekdayEnd,
			WeekendStart: snapshot.Default.WeekendStart,
			WeekendEnd:   snapshot.Default.WeekendEnd,
		}
	}

	return availability.ResolveStatus(entry, def, day, minute)
}
