package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	_ "modernc.org/sqlite"
)

const (
	driverName   = "sqlite"
	gooseDialect = "sqlite3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// KVStore is a string key-value store backed by a local sqlite file.
type KVStore struct {
	DB  *sql.DB
	log zerolog.Logger
}

// NewKVStore opens (or creates) the database at path and applies migrations.
func NewKVStore(ctx context.Context, path string, logger zerolog.Logger) (*KVStore, error) {
	if path == "" {
		return nil, errors.New("database path cannot be empty")
	}
	logger = logger.With().Str("component", "KVStore").Logger()

	db, err := sql.Open(driverName, "file:"+path+"?cache=shared&mode=rwc")
	if err != nil {
		return nil, err
	}
	// A single connection keeps writes serialised inside the process.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info().Str("path", path).Msg("key-value store ready")
	return &KVStore{DB: db, log: logger}, nil
}

func migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(gooseDialect); err != nil {
		return err
	}
	return goose.Up(db, "migrations")
}

// Get returns the value stored under key and whether it exists.
func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.DB.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		s.log.Debug().Ctx(ctx).Str("key", key).Msg("key not found")
		return "", false, nil
	}
	if err != nil {
		s.log.Error().Err(err).Ctx(ctx).Str("key", key).Msg("failed to read key")
		return "", false, err
	}
	return value, true, nil
}

// Set replaces the value under key in a single statement.
func (s *KVStore) Set(ctx context.Context, key, value string) error {
	start := time.Now()
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339),
	)
	dur := time.Since(start)
	if err != nil {
		s.log.Error().Err(err).Ctx(ctx).
			Str("key", key).
			Dur("duration", dur).
			Msg("failed to write key")
		return err
	}

	s.log.Debug().Ctx(ctx).
		Str("key", key).
		Int("bytes", len(value)).
		Dur("duration", dur).
		Msg("key written")
	return nil
}

func (s *KVStore) Close() error {
	return s.DB.Close()
}
