package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/availability-tracker/internal/persistence"
)

// DefaultRepository implements persistence.DefaultRepository using SQLite.
type DefaultRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
}

// NewDefaultRepository creates a new SQLite default-availability repository.
func NewDefaultRepository(pool *ConnectionPool) *DefaultRepository {
	return &DefaultRepository{pool: pool, mapper: NewErrorMapper()}
}

// UpsertDefault writes a user's default working windows, creating the user
// row if needed.
func (r *DefaultRepository) UpsertDefault(ctx context.Context, def persistence.DefaultAvailability) (persistence.DefaultAvailability, error) {
	var saved persistence.DefaultAvailability

	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := ensureUserTx(ctx, tx, def.UserID, def.UpdatedAt); err != nil {
			return err
		}

		ts := def.UpdatedAt.UTC().Format(time.RFC3339)
		_, err := tx.ExecContext(ctx, `
			INSERT INTO default_availability (user_id, weekday_start, weekday_end, weekend_start, weekend_end, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (user_id) DO UPDATE SET
				weekday_start = excluded.weekday_start,
				weekday_end = excluded.weekday_end,
				weekend_start = excluded.weekend_start,
				weekend_end = excluded.weekend_end,
				updated_at = excluded.updated_at
		`, def.UserID, def.WeekdayStart, def.WeekdayEnd, def.WeekendStart, def.WeekendEnd, ts, ts)
		if err != nil {
			return err
		}

		row := tx.QueryRowContext(ctx, `
			SELECT user_id, weekday_start, weekday_end, weekend_start, weekend_end, created_at, updated_at
			FROM default_availability
			WHERE user_id = ?
		`, def.UserID)
		saved, err = scanDefault(row.Scan)
		return err
	})
	if err != nil {
		return persistence.DefaultAvailability{}, r.mapper.MapError(err)
	}
	return saved, nil
}

// GetDefault retrieves a user's default working windows.
func (r *DefaultRepository) GetDefault(ctx context.Context, userID string) (persistence.DefaultAvailability, error) {
	row := r.pool.DB().QueryRowContext(ctx, `
		SELECT user_id, weekday_start, weekday_end, weekend_start, weekend_end, created_at, updated_at
		FROM default_availability
		WHERE user_id = ?
	`, userID)

	def, err := scanDefault(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.DefaultAvailability{}, persistence.ErrNotFound
		}
		return persistence.DefaultAvailability{}, r.mapper.MapError(err)
	}
	return def, nil
}

func scanDefault(scan func(dest ...any) error) (persistence.DefaultAvailability, error) {
	var def persistence.DefaultAvailability
	var createdAt, updatedAt string

	if err := scan(&def.UserID, &def.WeekdayStart, &def.WeekdayEnd, &def.WeekendStart, &def.WeekendEnd, &createdAt, &updatedAt); err != nil {
		return persistence.DefaultAvailability{}, err
	}

	var err error
	if def.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.DefaultAvailability{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if def.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.DefaultAvailability{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return def, nil
}
