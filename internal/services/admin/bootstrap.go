package admin

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	apperrors "github.com/officialpathway/pathwei-website/internal/platform/errors"
	"github.com/officialpathway/pathwei-website/internal/platform/id"
	"github.com/officialpathway/pathwei-website/internal/services/auth"
	"github.com/officialpathway/pathwei-website/internal/services/newsletter"
	"github.com/officialpathway/pathwei-website/internal/storage"
)

// BootstrapConfig names the first admin account, created at startup when no
// admin exists yet.
type BootstrapConfig struct {
	Email    string `env:"PATHWAY_ADMIN_BOOTSTRAP_EMAIL"`
	Password string `env:"PATHWAY_ADMIN_BOOTSTRAP_PASSWORD"`
	Name     string `env:"PATHWAY_ADMIN_BOOTSTRAP_NAME" envDefault:"Administrator"`
}

// Enabled reports whether bootstrap credentials are configured.
func (c BootstrapConfig) Enabled() bool {
	return strings.TrimSpace(c.Email) != "" && c.Password != ""
}

// EnsureBootstrapAdmin creates the configured admin when the store holds no
// admin. An existing account with the same email is promoted instead.
func EnsureBootstrapAdmin(ctx context.Context, users storage.UserStore, cfg BootstrapConfig, now time.Time) (bool, error) {
	if !cfg.Enabled() {
		return false, nil
	}
	admins, err := users.CountUsersByRole(ctx, string(auth.RoleAdmin))
	if err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	if admins > 0 {
		return false, nil
	}
	email, err := newsletter.NormalizeEmail(cfg.Email)
	if err != nil {
		return false, fmt.Errorf("bootstrap email: %w", err)
	}
	hash, err := auth.HashPassword(cfg.Password)
	if err != nil {
		return false, fmt.Errorf("bootstrap password: %w", err)
	}

	existing, err := users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if err := users.UpdateUserRole(ctx, existing.ID, string(auth.RoleAdmin), now); err != nil {
			return false, fmt.Errorf("promote bootstrap admin: %w", err)
		}
		if err := users.UpdateUserPassword(ctx, existing.ID, hash, now); err != nil {
			return false, fmt.Errorf("reset bootstrap admin password: %w", err)
		}
		log.Printf("bootstrap admin promoted user_id=%s", existing.ID)
		return true, nil
	case !apperrors.IsCode(err, apperrors.CodeNotFound):
		return false, fmt.Errorf("lookup bootstrap admin: %w", err)
	}

	userID, err := id.NewID()
	if err != nil {
		return false, err
	}
	user := storage.User{
		ID:           userID,
		Email:        email,
		DisplayName:  strings.TrimSpace(cfg.Name),
		Role:         string(auth.RoleAdmin),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.CreateUser(ctx, user); err != nil {
		return false, fmt.Errorf("create bootstrap admin: %w", err)
	}
	log.Printf("bootstrap admin created user_id=%s", user.ID)
	return true, nil
}
