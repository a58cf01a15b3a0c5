package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/officialpathway/pathwei-website/internal/storage"
)

// UpsertSEO creates or replaces the metadata for a path.
func (s *Store) UpsertSEO(ctx context.Context, entry storage.SEOEntry) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	path, err := storage.NormalizeSEOPath(entry.Path)
	if err != nil {
		return err
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = s.now()
	}
	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO seo (path, title, description, keywords, og_image, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(path) DO UPDATE SET
    title = excluded.title,
    description = excluded.description,
    keywords = excluded.keywords,
    og_image = excluded.og_image,
    updated_at = excluded.updated_at`,
		path, strings.TrimSpace(entry.Title), strings.TrimSpace(entry.Description),
		strings.TrimSpace(entry.Keywords), strings.TrimSpace(entry.OGImage), toMillis(entry.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert seo: %w", err)
	}
	return nil
}

// GetSEO returns the metadata stored for path.
func (s *Store) GetSEO(ctx context.Context, path string) (storage.SEOEntry, error) {
	if err := s.ready(ctx); err != nil {
		return storage.SEOEntry{}, err
	}
	path, err := storage.NormalizeSEOPath(path)
	if err != nil {
		return storage.SEOEntry{}, err
	}
	var (
		entry     storage.SEOEntry
		updatedAt int64
	)
	err = s.sqlDB.QueryRowContext(ctx,
		`SELECT path, title, description, keywords, og_image, updated_at FROM seo WHERE path = ?`, path,
	).Scan(&entry.Path, &entry.Title, &entry.Description, &entry.Keywords, &entry.OGImage, &updatedAt)
	if err != nil {
		return storage.SEOEntry{}, notFound(err)
	}
	entry.UpdatedAt = fromMillis(updatedAt)
	return entry, nil
}

// ListSEO returns every entry ordered by path.
func (s *Store) ListSEO(ctx context.Context) ([]storage.SEOEntry, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT path, title, description, keywords, og_image, updated_at FROM seo ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("list seo: %w", err)
	}
	defer rows.Close()

	var entries []storage.SEOEntry
	for rows.Next() {
		var (
			entry     storage.SEOEntry
			updatedAt int64
		)
		if err := rows.Scan(&entry.Path, &entry.Title, &entry.Description, &entry.Keywords, &entry.OGImage, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan seo: %w", err)
		}
		entry.UpdatedAt = fromMillis(updatedAt)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// DeleteSEO removes the metadata for path.
func (s *Store) DeleteSEO(ctx context.Context, path string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	path, err := storage.NormalizeSEOPath(path)
	if err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM seo WHERE path = ?`, path)
	if err != nil {
		return fmt.Errorf("delete seo: %w", err)
	}
	return requireAffected(result)
}
