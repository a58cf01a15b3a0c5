package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/officialpathway/pathwei-website/internal/storage"
)

const defaultListLimit = 50

// CreateCampaign records a bulk email send.
func (s *Store) CreateCampaign(ctx context.Context, c storage.EmailCampaign) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("campaign id is required")
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO email_campaigns (id, subject, body_markdown, audience, recipients, sent, failed, created_by, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Subject, c.BodyMarkdown, c.Audience, c.Recipients, c.Sent, c.Failed, c.CreatedBy, toMillis(c.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert campaign: %w", err)
	}
	return nil
}

// ListCampaigns returns the most recent sends first.
func (s *Store) ListCampaigns(ctx context.Context, limit int) ([]storage.EmailCampaign, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, subject, body_markdown, audience, recipients, sent, failed, created_by, created_at
FROM email_campaigns ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []storage.EmailCampaign
	for rows.Next() {
		var (
			c         storage.EmailCampaign
			createdAt int64
		)
		if err := rows.Scan(&c.ID, &c.Subject, &c.BodyMarkdown, &c.Audience, &c.Recipients, &c.Sent, &c.Failed, &c.CreatedBy, &createdAt); err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		c.CreatedAt = fromMillis(createdAt)
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

// PutUserSession persists a login audit record.
func (s *Store) PutUserSession(ctx context.Context, sessionID, userID string, createdAt time.Time) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	if createdAt.IsZero() {
		createdAt = s.now()
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO admin_sessions (session_id, user_id, created_at) VALUES (?, ?, ?)`,
		sessionID, userID, toMillis(createdAt))
	if err != nil {
		return fmt.Errorf("insert user session: %w", err)
	}
	return nil
}

// ListUserSessions returns the most recent logins first.
func (s *Store) ListUserSessions(ctx context.Context, limit int) ([]storage.UserSession, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT session_id, user_id, created_at FROM admin_sessions ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list user sessions: %w", err)
	}
	defer rows.Close()

	var sessions []storage.UserSession
	for rows.Next() {
		var (
			session   storage.UserSession
			createdAt int64
		)
		if err := rows.Scan(&session.SessionID, &session.UserID, &createdAt); err != nil {
			return nil, fmt.Errorf("scan user session: %w", err)
		}
		session.CreatedAt = fromMillis(createdAt)
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}
