package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/availability-tracker/internal/persistence"
)

// UserRepository implements persistence.UserRepository using SQLite.
type UserRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
	retry  *RetryHelper
}

// NewUserRepository creates a new SQLite user repository.
func NewUserRepository(pool *ConnectionPool) *UserRepository {
	return &UserRepository{
		pool:   pool,
		mapper: NewErrorMapper(),
		retry:  NewRetryHelper(DefaultRetryConfig()),
	}
}

// UpsertTimezone creates the user row if needed and sets its timezone.
func (r *UserRepository) UpsertTimezone(ctx context.Context, userID, timezone string, now time.Time) (persistence.User, error) {
	query := `
		INSERT INTO users (user_id, timezone, status, created_at, updated_at)
		VALUES (?, ?, 'unknown', ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			timezone = excluded.timezone,
			updated_at = excluded.updated_at
	`

	ts := now.UTC().Format(time.RFC3339)
	if _, err := r.pool.DB().ExecContext(ctx, query, userID, timezone, ts, ts); err != nil {
		return persistence.User{}, r.mapper.MapError(err)
	}

	return r.GetUser(ctx, userID)
}

// UpsertStatus creates the user row if needed and sets its status.
func (r *UserRepository) UpsertStatus(ctx context.Context, userID, status string, now time.Time) (persistence.User, error) {
	query := `
		INSERT INTO users (user_id, timezone, status, created_at, updated_at)
		VALUES (?, '', ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			status = excluded.status,
			updated_at = excluded.updated_at
	`

	ts := now.UTC().Format(time.RFC3339)
	if _, err := r.pool.DB().ExecContext(ctx, query, userID, status, ts, ts); err != nil {
		return persistence.User{}, r.mapper.MapError(err)
	}

	return r.GetUser(ctx, userID)
}

// UpdateStatuses applies engine-computed statuses in one transaction. Users
// without an existing row are skipped.
func (r *UserRepository) UpdateStatuses(ctx context.Context, statuses map[string]string, now time.Time) error {
	if len(statuses) == 0 {
		return nil
	}

	ts := now.UTC().Format(time.RFC3339)
	return r.retry.WithRetry(ctx, func() error {
		return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
			for userID, status := range statuses {
				if _, err := tx.ExecContext(ctx,
					"UPDATE users SET status = ?, updated_at = ? WHERE user_id = ?",
					status, ts, userID,
				); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

// GetUser retrieves a user by ID.
func (r *UserRepository) GetUser(ctx context.Context, id string) (persistence.User, error) {
	query := `
		SELECT user_id, timezone, status, created_at, updated_at
		FROM users
		WHERE user_id = ?
	`

	row := r.pool.DB().QueryRowContext(ctx, query, id)
	user, err := scanUser(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.User{}, persistence.ErrNotFound
		}
		return persistence.User{}, r.mapper.MapError(err)
	}
	return user, nil
}

// ListUsers returns all users ordered by creation timestamp then ID.
func (r *UserRepository) ListUsers(ctx context.Context) ([]persistence.User, error) {
	rows, err := r.pool.DB().QueryContext(ctx, `
		SELECT user_id, timezone, status, created_at, updated_at
		FROM users
		ORDER BY created_at ASC, user_id ASC
	`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var users []persistence.User
	for rows.Next() {
		user, err := scanUser(rows.Scan)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return users, nil
}

// ListSnapshots reads all users with their schedule entries and default rows
// inside one transaction so the engine sees a consistent view.
func (r *UserRepository) ListSnapshots(ctx context.Context) ([]persistence.AvailabilitySnapshot, error) {
	var snapshots []persistence.AvailabilitySnapshot

	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		users, err := listUsersTx(ctx, tx)
		if err != nil {
			return err
		}

		entriesByUser, err := listAllEntriesTx(ctx, tx)
		if err != nil {
			return err
		}

		defaultsByUser, err := listAllDefaultsTx(ctx, tx)
		if err != nil {
			return err
		}

		snapshots = make([]persistence.AvailabilitySnapshot, 0, len(users))
		for _, user := range users {
			snapshot := persistence.AvailabilitySnapshot{
				User:    user,
				Entries: entriesByUser[user.ID],
			}
			if def, ok := defaultsByUser[user.ID]; ok {
				clone := def
				snapshot.Default = &clone
			}
			snapshots = append(snapshots, snapshot)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}

func listUsersTx(ctx context.Context, tx *sql.Tx) ([]persistence.User, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT user_id, timezone, status, created_at, updated_at
		FROM users
		ORDER BY created_at ASC, user_id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []persistence.User
	for rows.Next() {
		user, err := scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func listAllEntriesTx(ctx context.Context, tx *sql.Tx) (map[string][]persistence.ScheduleEntry, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT user_id, day, start_time, end_time, status, created_at, updated_at
		FROM schedule
		ORDER BY user_id, `+dayOrderExpr)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byUser := make(map[string][]persistence.ScheduleEntry)
	for rows.Next() {
		entry, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		byUser[entry.UserID] = append(byUser[entry.UserID], entry)
	}
	return byUser, rows.Err()
}

func listAllDefaultsTx(ctx context.Context, tx *sql.Tx) (map[string]persistence.DefaultAvailability, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT user_id, weekday_start, weekday_end, weekend_start, weekend_end, created_at, updated_at
		FROM default_availability
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byUser := make(map[string]persistence.DefaultAvailability)
	for rows.Next() {
		def, err := scanDefault(rows.Scan)
		if err != nil {
			return nil, err
		}
		byUser[def.UserID] = def
	}
	return byUser, rows.Err()
}

func scanUser(scan func(dest ...any) error) (persistence.User, error) {
	var user persistence.User
	var createdAt, updatedAt string

	if err := scan(&user.ID, &user.Timezone, &user.Status, &createdAt, &updatedAt); err != nil {
		return persistence.User{}, err
	}

	var err error
	if user.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.User{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if user.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.User{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return user, nil
}
