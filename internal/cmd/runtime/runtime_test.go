package runtime

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/officialpathway/pathwei-website/internal/platform/blob"
)

func TestOpenCreatesDatabaseDirectory(t *testing.T) {
	cfg := Config{
		DBPath:      filepath.Join(t.TempDir(), "nested", "pathway.db"),
		Blob:        blob.Config{Backend: blob.BackendSQLite},
		Prices:      []string{"9.99", "14.99"},
		PriceCookie: "test_price",
	}
	rt, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open runtime: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })

	if got := rt.Experiment.Prices(); len(got) != 2 {
		t.Fatalf("prices = %v", got)
	}
	if rt.Experiment.CookieName() != "test_price" {
		t.Fatalf("cookie = %q", rt.Experiment.CookieName())
	}
	if _, err := rt.Stats.RecordClick(context.Background(), "9.99"); err != nil {
		t.Fatalf("record click through sqlite blobs: %v", err)
	}
	if _, _, err := rt.Newsletter.Subscribe(context.Background(), "reader@example.com", "cli", "en"); err != nil {
		t.Fatalf("subscribe through sqlite blobs: %v", err)
	}
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), Config{
		DBPath: filepath.Join(t.TempDir(), "pathway.db"),
		Blob:   blob.Config{Backend: "ftp"},
	})
	if err == nil {
		t.Fatal("expected unknown backend to fail")
	}
}

func TestOpenRequiresDBPath(t *testing.T) {
	if _, err := Open(context.Background(), Config{}); err == nil {
		t.Fatal("expected empty db path to fail")
	}
}

func TestSchemePolicy(t *testing.T) {
	policy := Config{TrustProto: true}.SchemePolicy()
	if !policy.TrustForwardedProto || policy.TrustForwardedFor {
		t.Fatalf("policy = %+v", policy)
	}
}
