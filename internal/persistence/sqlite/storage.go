// Package sqlite implements the persistence repositories on a SQLite
// database via database/sql and the modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	user_id    TEXT PRIMARY KEY,
	timezone   TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL DEFAULT 'unknown',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS schedule (
	user_id    TEXT NOT NULL REFERENCES users (user_id),
	day        TEXT NOT NULL,
	start_time TEXT NOT NULL,
	end_time   TEXT NOT NULL,
	status     TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	UNIQUE (user_id, day)
);

CREATE TABLE IF NOT EXISTS default_availability (
	user_id       TEXT PRIMARY KEY REFERENCES users (user_id),
	weekday_start TEXT NOT NULL,
	weekday_end   TEXT NOT NULL,
	weekend_start TEXT NOT NULL,
	weekend_end   TEXT NOT NULL,
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);
`

// Storage bundles the SQLite-backed repositories behind one connection pool.
type Storage struct {
	pool     *ConnectionPool
	Users    *UserRepository
	Schedule *ScheduleRepository
	Defaults *DefaultRepository
}

// Open creates a connection pool for the DSN and wires the repositories.
func Open(dsn string) (*Storage, error) {
	pool, err := NewConnectionPool(dsn)
	if err != nil {
		return nil, err
	}

	return &Storage{
		pool:     pool,
		Users:    NewUserRepository(pool),
		Schedule: NewScheduleRepository(pool),
		Defaults: NewDefaultRepository(pool),
	}, nil
}

// Migrate creates the schema when it does not exist yet.
func (s *Storage) Migrate(ctx context.Context) error {
	if _, err := s.pool.DB().ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Ping tests the database connection.
func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the underlying connection pool.
func (s *Storage) Close() error {
	return s.pool.Close()
}
