package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/officialpathway/pathwei-website/internal/storage"
)

const feedbackColumns = "id, email, message, rating, page, locale, status, created_at"

// CreateFeedback stores a visitor message. Status defaults to new.
func (s *Store) CreateFeedback(ctx context.Context, f storage.Feedback) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(f.ID) == "" {
		return fmt.Errorf("feedback id is required")
	}
	if err := storage.ValidateFeedback(f); err != nil {
		return err
	}
	if f.Status == "" {
		f.Status = storage.FeedbackNew
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = s.now()
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO feedback (`+feedbackColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, strings.ToLower(strings.TrimSpace(f.Email)), strings.TrimSpace(f.Message), f.Rating,
		strings.TrimSpace(f.Page), f.Locale, string(f.Status), toMillis(f.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

// ListFeedback returns feedback newest first. An empty status lists all.
func (s *Store) ListFeedback(ctx context.Context, status storage.FeedbackStatus) ([]storage.Feedback, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	query := `SELECT ` + feedbackColumns + ` FROM feedback`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	var entries []storage.Feedback
	for rows.Next() {
		var (
			f         storage.Feedback
			rawStatus string
			createdAt int64
		)
		if err := rows.Scan(&f.ID, &f.Email, &f.Message, &f.Rating, &f.Page, &f.Locale, &rawStatus, &createdAt); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		f.Status = storage.FeedbackStatus(rawStatus)
		f.CreatedAt = fromMillis(createdAt)
		entries = append(entries, f)
	}
	return entries, rows.Err()
}

// SetFeedbackStatus moves a feedback entry to status.
func (s *Store) SetFeedbackStatus(ctx context.Context, feedbackID string, status storage.FeedbackStatus) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if _, err := storage.ParseFeedbackStatus(string(status)); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, `UPDATE feedback SET status = ? WHERE id = ?`, string(status), feedbackID)
	if err != nil {
		return fmt.Errorf("update feedback: %w", err)
	}
	return requireAffected(result)
}

// DeleteFeedback removes a feedback entry.
func (s *Store) DeleteFeedback(ctx context.Context, feedbackID string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM feedback WHERE id = ?`, feedbackID)
	if err != nil {
		return fmt.Errorf("delete feedback: %w", err)
	}
	return requireAffected(result)
}

// CountFeedbackByStatus returns the number of entries in every status.
func (s *Store) CountFeedbackByStatus(ctx context.Context) (map[storage.FeedbackStatus]int, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	counts := make(map[storage.FeedbackStatus]int, len(storage.FeedbackStatuses))
	for _, status := range storage.FeedbackStatuses {
		counts[status] = 0
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT status, COUNT(*) FROM feedback GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count feedback: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan feedback count: %w", err)
		}
		counts[storage.FeedbackStatus(status)] = count
	}
	return counts, rows.Err()
}
