package blob

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/officialpathway/pathwei-website/internal/platform/storage/sqlitemigrate"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// SQLite stores blobs in a table of the shared SQLite database. Versions are
// integers bumped on every write, so conditional writes are a single UPDATE.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite prepares the blobs table on db.
func NewSQLite(ctx context.Context, db *sql.DB) (*SQLite, error) {
	if db == nil {
		return nil, fmt.Errorf("sql db is required")
	}
	if err := sqlitemigrate.Apply(ctx, db, migrationFS, "migrations"); err != nil {
		return nil, fmt.Errorf("migrate blobs: %w", err)
	}
	return &SQLite{db: db, now: time.Now}, nil
}

func (s *SQLite) Get(ctx context.Context, key string) (Object, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return Object{}, err
	}
	var (
		data    []byte
		version int64
	)
	err = s.db.QueryRowContext(ctx, "SELECT data, version FROM blobs WHERE key = ?", key).Scan(&data, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return Object{}, ErrNotFound
	}
	if err != nil {
		return Object{}, fmt.Errorf("get blob %s: %w", key, err)
	}
	return Object{Data: data, Version: strconv.FormatInt(version, 10)}, nil
}

func (s *SQLite) Put(ctx context.Context, key string, data []byte, opts PutOptions) (string, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return "", err
	}
	if data == nil {
		data = []byte{}
	}
	updatedAt := s.now().UTC().Format(time.RFC3339Nano)

	var (
		row     *sql.Row
		version int64
	)
	switch {
	case opts.IfAbsent:
		row = s.db.QueryRowContext(ctx,
			`INSERT INTO blobs (key, data, version, updated_at) VALUES (?, ?, 1, ?)
			 ON CONFLICT(key) DO NOTHING
			 RETURNING version`,
			key, data, updatedAt)
	case opts.IfVersion != "":
		expected, err := strconv.ParseInt(opts.IfVersion, 10, 64)
		if err != nil {
			return "", ErrConflict
		}
		row = s.db.QueryRowContext(ctx,
			`UPDATE blobs SET data = ?, version = version + 1, updated_at = ?
			 WHERE key = ? AND version = ?
			 RETURNING version`,
			data, updatedAt, key, expected)
	default:
		row = s.db.QueryRowContext(ctx,
			`INSERT INTO blobs (key, data, version, updated_at) VALUES (?, ?, 1, ?)
			 ON CONFLICT(key) DO UPDATE SET data = excluded.data, version = blobs.version + 1, updated_at = excluded.updated_at
			 RETURNING version`,
			key, data, updatedAt)
	}
	if err := row.Scan(&version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrConflict
		}
		return "", fmt.Errorf("put blob %s: %w", key, err)
	}
	return strconv.FormatInt(version, 10), nil
}

func (s *SQLite) Delete(ctx context.Context, key string) error {
	key, err := normalizeKey(key)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM blobs WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete blob %s: %w", key, err)
	}
	return nil
}

var _ Store = (*SQLite)(nil)
