package admin

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/officialpathway/pathwei-website/internal/services/auth"
	"github.com/officialpathway/pathwei-website/internal/storage"
	"github.com/officialpathway/pathwei-website/internal/storage/sqlite"
)

func openBootstrapStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "bootstrap.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestEnsureBootstrapAdminDisabled(t *testing.T) {
	store := openBootstrapStore(t)
	created, err := EnsureBootstrapAdmin(context.Background(), store, BootstrapConfig{Email: "root@pathway.test"}, testNow)
	if err != nil || created {
		t.Fatalf("created=%v err=%v", created, err)
	}
	if count, _ := store.CountUsers(context.Background()); count != 0 {
		t.Fatalf("users = %d", count)
	}
}

func TestEnsureBootstrapAdminCreatesOnce(t *testing.T) {
	store := openBootstrapStore(t)
	ctx := context.Background()
	cfg := BootstrapConfig{Email: " Root@Pathway.test ", Password: "bootstrap-secret", Name: "Root"}

	created, err := EnsureBootstrapAdmin(ctx, store, cfg, testNow)
	if err != nil || !created {
		t.Fatalf("created=%v err=%v", created, err)
	}
	user, err := store.GetUserByEmail(ctx, "root@pathway.test")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.Role != string(auth.RoleAdmin) || user.DisplayName != "Root" || !auth.CheckPassword(user.PasswordHash, "bootstrap-secret") {
		t.Fatalf("user = %+v", user)
	}

	created, err = EnsureBootstrapAdmin(ctx, store, cfg, testNow)
	if err != nil || created {
		t.Fatalf("second run created=%v err=%v", created, err)
	}
	if count, _ := store.CountUsers(ctx); count != 1 {
		t.Fatalf("users = %d", count)
	}
}

func TestEnsureBootstrapAdminPromotesExisting(t *testing.T) {
	store := openBootstrapStore(t)
	ctx := context.Background()
	existing := storage.User{
		ID:           "u-1",
		Email:        "root@pathway.test",
		Role:         string(auth.RoleEditor),
		PasswordHash: "old",
		CreatedAt:    testNow,
		UpdatedAt:    testNow,
	}
	if err := store.CreateUser(ctx, existing); err != nil {
		t.Fatalf("create user: %v", err)
	}

	created, err := EnsureBootstrapAdmin(ctx, store, BootstrapConfig{Email: existing.Email, Password: "bootstrap-secret"}, testNow)
	if err != nil || !created {
		t.Fatalf("created=%v err=%v", created, err)
	}
	user, err := store.GetUser(ctx, "u-1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.Role != string(auth.RoleAdmin) || !auth.CheckPassword(user.PasswordHash, "bootstrap-secret") {
		t.Fatalf("user = %+v", user)
	}
}

func TestEnsureBootstrapAdminRejectsShortPassword(t *testing.T) {
	store := openBootstrapStore(t)
	if _, err := EnsureBootstrapAdmin(context.Background(), store, BootstrapConfig{Email: "root@pathway.test", Password: "short"}, testNow); err == nil {
		t.Fatal("expected short password to fail")
	}
}
