package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/officialpathway/pathwei-website/internal/platform/errors"
	"github.com/officialpathway/pathwei-website/internal/storage"
)

const adminRole = "admin"

const userColumns = "id, email, display_name, role, password_hash, created_at, updated_at"

// CreateUser inserts a new account. Emails are stored lowercase.
func (s *Store) CreateUser(ctx context.Context, u storage.User) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	u.ID = strings.TrimSpace(u.ID)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.ID == "" {
		return fmt.Errorf("user id is required")
	}
	if u.Email == "" {
		return apperrors.New(apperrors.CodeEmailInvalid, "email is required")
	}
	if strings.TrimSpace(u.Role) == "" {
		return apperrors.New(apperrors.CodeUserRoleInvalid, "role is required")
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now()
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, strings.TrimSpace(u.DisplayName), u.Role, u.PasswordHash,
		toMillis(u.CreatedAt), toMillis(u.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return apperrors.WithMetadata(apperrors.CodeUserEmailTaken, "email is already registered",
			map[string]string{"Email": u.Email})
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUser returns the account with userID.
func (s *Store) GetUser(ctx context.Context, userID string) (storage.User, error) {
	if err := s.ready(ctx); err != nil {
		return storage.User{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, userID)
	u, err := scanUser(row)
	if err != nil {
		return storage.User{}, notFound(err)
	}
	return u, nil
}

// GetUserByEmail returns the account registered with email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (storage.User, error) {
	if err := s.ready(ctx); err != nil {
		return storage.User{}, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err != nil {
		return storage.User{}, notFound(err)
	}
	return u, nil
}

// ListUsers returns every account ordered by email.
func (s *Store) ListUsers(ctx context.Context) ([]storage.User, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY email`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []storage.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUserRole changes a user's role. Demoting the last admin fails with
// USER_LAST_ADMIN.
func (s *Store) UpdateUserRole(ctx context.Context, userID, role string, updatedAt time.Time) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if updatedAt.IsZero() {
		updatedAt = s.now()
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if role != adminRole {
			if err := guardLastAdmin(ctx, tx, userID); err != nil {
				return err
			}
		}
		result, err := tx.ExecContext(ctx, `UPDATE users SET role = ?, updated_at = ? WHERE id = ?`,
			role, toMillis(updatedAt), userID)
		if err != nil {
			return fmt.Errorf("update user role: %w", err)
		}
		return requireAffected(result)
	})
}

// UpdateUserPassword replaces a user's password hash.
func (s *Store) UpdateUserPassword(ctx context.Context, userID, passwordHash string, updatedAt time.Time) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if updatedAt.IsZero() {
		updatedAt = s.now()
	}
	result, err := s.sqlDB.ExecContext(ctx, `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, toMillis(updatedAt), userID)
	if err != nil {
		return fmt.Errorf("update user password: %w", err)
	}
	return requireAffected(result)
}

// DeleteUser removes an account. Deleting the last admin fails with
// USER_LAST_ADMIN.
func (s *Store) DeleteUser(ctx context.Context, userID string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := guardLastAdmin(ctx, tx, userID); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return requireAffected(result)
	})
}

// CountUsers returns the number of accounts.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	var count int
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

// CountUsersByRole returns the number of accounts holding role.
func (s *Store) CountUsersByRole(ctx context.Context, role string) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	var count int
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = ?`, role).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users by role: %w", err)
	}
	return count, nil
}

// LookupRole returns the current role of userID.
func (s *Store) LookupRole(ctx context.Context, userID string) (string, error) {
	if err := s.ready(ctx); err != nil {
		return "", err
	}
	var role string
	err := s.sqlDB.QueryRowContext(ctx, `SELECT role FROM users WHERE id = ?`, userID).Scan(&role)
	if err != nil {
		return "", notFound(err)
	}
	return role, nil
}

func guardLastAdmin(ctx context.Context, tx *sql.Tx, userID string) error {
	var role string
	err := tx.QueryRowContext(ctx, `SELECT role FROM users WHERE id = ?`, userID).Scan(&role)
	if err != nil {
		return notFound(err)
	}
	if role != adminRole {
		return nil
	}
	var admins int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role = ?`, adminRole).Scan(&admins); err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if admins <= 1 {
		return apperrors.New(apperrors.CodeUserLastAdmin, "the last admin cannot be removed or demoted")
	}
	return nil
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func scanUser(row rowScanner) (storage.User, error) {
	var (
		u         storage.User
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.Role, &u.PasswordHash, &createdAt, &updatedAt); err != nil {
		return storage.User{}, err
	}
	u.CreatedAt = fromMillis(createdAt)
	u.UpdatedAt = fromMillis(updatedAt)
	return u, nil
}
