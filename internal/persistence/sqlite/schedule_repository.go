package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/availability-tracker/internal/persistence"
)

// dayOrderExpr orders day names Monday first, matching how schedules are
// rendered.
const dayOrderExpr = `CASE day
	WHEN 'monday' THEN 0
	WHEN 'tuesday' THEN 1
	WHEN 'wednesday' THEN 2
	WHEN 'thursday' THEN 3
	WHEN 'friday' THEN 4
	WHEN 'saturday' THEN 5
	WHEN 'sunday' THEN 6
	ELSE 7
END`

// ScheduleRepository implements persistence.ScheduleRepository using SQLite.
type ScheduleRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
	retry  *RetryHelper
}

// NewScheduleRepository creates a new SQLite schedule repository.
func NewScheduleRepository(pool *ConnectionPool) *ScheduleRepository {
	return &ScheduleRepository{
		pool:   pool,
		mapper: NewErrorMapper(),
		retry:  NewRetryHelper(DefaultRetryConfig()),
	}
}

// UpsertEntry writes a user's window for one day, replacing any previous row
// for that day. The user row is created if it does not exist yet.
func (r *ScheduleRepository) UpsertEntry(ctx context.Context, entry persistence.ScheduleEntry) (persistence.ScheduleEntry, error) {
	var saved persistence.ScheduleEntry

	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := ensureUserTx(ctx, tx, entry.UserID, entry.UpdatedAt); err != nil {
			return err
		}

		ts := entry.UpdatedAt.UTC().Format(time.RFC3339)
		_, err := tx.ExecContext(ctx, `
			INSERT INTO schedule (user_id, day, start_time, end_time, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (user_id, day) DO UPDATE SET
				start_time = excluded.start_time,
				end_time = excluded.end_time,
				status = excluded.status,
				updated_at = excluded.updated_at
		`, entry.UserID, entry.Day, entry.StartTime, entry.EndTime, entry.Status, ts, ts)
		if err != nil {
			return err
		}

		row := tx.QueryRowContext(ctx, `
			SELECT user_id, day, start_time, end_time, status, created_at, updated_at
			FROM schedule
			WHERE user_id = ? AND day = ?
		`, entry.UserID, entry.Day)
		saved, err = scanEntry(row.Scan)
		return err
	})
	if err != nil {
		return persistence.ScheduleEntry{}, r.mapper.MapError(err)
	}
	return saved, nil
}

// ListEntries returns a user's schedule entries ordered Monday through Sunday.
func (r *ScheduleRepository) ListEntries(ctx context.Context, userID string) ([]persistence.ScheduleEntry, error) {
	rows, err := r.pool.DB().QueryContext(ctx, `
		SELECT user_id, day, start_time, end_time, status, created_at, updated_at
		FROM schedule
		WHERE user_id = ?
		ORDER BY `+dayOrderExpr, userID)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var entries []persistence.ScheduleEntry
	for rows.Next() {
		entry, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return entries, nil
}

// ClearSchedule deletes the user's entries and, when a default row exists,
// rewrites one forced green row per day from it. Delete and rewrite happen in
// a single transaction.
func (r *ScheduleRepository) ClearSchedule(ctx context.Context, userID string, now time.Time) ([]persistence.ScheduleEntry, error) {
	var reset []persistence.ScheduleEntry

	err := r.retry.WithRetry(ctx, func() error {
		reset = nil
		return r.clearScheduleTx(ctx, userID, now, &reset)
	})
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	return reset, nil
}

func (r *ScheduleRepository) clearScheduleTx(ctx context.Context, userID string, now time.Time, reset *[]persistence.ScheduleEntry) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM schedule WHERE user_id = ?", userID); err != nil {
			return err
		}

		row := tx.QueryRowContext(ctx, `
			SELECT user_id, weekday_start, weekday_end, weekend_start, weekend_end, created_at, updated_at
			FROM default_availability
			WHERE user_id = ?
		`, userID)
		def, err := scanDefault(row.Scan)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return err
		}

		*reset = persistence.SynthesizeDefaultEntries(userID, def, now)
		for _, entry := range *reset {
			ts := entry.CreatedAt.UTC().Format(time.RFC3339)
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO schedule (user_id, day, start_time, end_time, status, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, entry.UserID, entry.Day, entry.StartTime, entry.EndTime, entry.Status, ts, ts); err != nil {
				return err
			}
		}
		return nil
	})
}

// ensureUserTx inserts a placeholder user row so schedule and default rows
// always have a parent in users.
func ensureUserTx(ctx context.Context, tx *sql.Tx, userID string, now time.Time) error {
	ts := now.UTC().Format(time.RFC3339)
	_, err := tx.ExecContext(ctx, `
		INSERT INTO users (user_id, timezone, status, created_at, updated_at)
		VALUES (?, '', 'unknown', ?, ?)
		ON CONFLICT (user_id) DO NOTHING
	`, userID, ts, ts)
	return err
}

func scanEntry(scan func(dest ...any) error) (persistence.ScheduleEntry, error) {
	var entry persistence.ScheduleEntry
	var createdAt, updatedAt string

	if err := scan(&entry.UserID, &entry.Day, &entry.StartTime, &entry.EndTime, &entry.Status, &createdAt, &updatedAt); err != nil {
		return persistence.ScheduleEntry{}, err
	}

	var err error
	if entry.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.ScheduleEntry{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if entry.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.ScheduleEntry{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return entry, nil
}
