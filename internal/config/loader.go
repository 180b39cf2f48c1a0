// Package config loads the environment driven configuration of the
// availability tracker.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures environment driven configuration values for the
// availability service.
type Config struct {
	HTTPPort int
	// SQLiteDSN selects the storage backend. The literal "memory" runs the
	// non-durable in-process store, anything else is a SQLite DSN.
	SQLiteDSN       string
	RefreshInterval time.Duration
	ChunkSize       int
}

// Load parses configuration values from the current process environment,
// primed from a .env file when one exists.
//
// Every field has a sensible default; only malformed values fail the load.
func Load() (Config, error) {
	_ = godotenv.Load(".env")

	cfg := Config{
		HTTPPort:        8080,
		SQLiteDSN:       "file:availability.db",
		RefreshInterval: time.Minute,
		ChunkSize:       1900,
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("AVAILABILITY_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "AVAILABILITY_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("AVAILABILITY_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if secondsValue := strings.TrimSpace(os.Getenv("AVAILABILITY_REFRESH_SECONDS")); secondsValue != "" {
		seconds, err := strconv.Atoi(secondsValue)
		if err != nil || seconds <= 0 {
			invalid = append(invalid, "AVAILABILITY_REFRESH_SECONDS")
		} else {
			cfg.RefreshInterval = time.Duration(seconds) * time.Second
		}
	}

	if chunkValue := strings.TrimSpace(os.Getenv("AVAILABILITY_CHUNK_SIZE")); chunkValue != "" {
		chunk, err := strconv.Atoi(chunkValue)
		if err != nil || chunk <= 0 {
			invalid = append(invalid, "AVAILABILITY_CHUNK_SIZE")
		} else {
			cfg.ChunkSize = chunk
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
