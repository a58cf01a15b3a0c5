package site

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("site", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != "localhost:8080" {
		t.Fatalf("expected default http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.Runtime.DBPath != "data/pathway.db" {
		t.Fatalf("expected default db path, got %q", cfg.Runtime.DBPath)
	}
	if len(cfg.Runtime.Prices) != 3 || cfg.Runtime.Prices[0] != "9.99" {
		t.Fatalf("expected default prices, got %v", cfg.Runtime.Prices)
	}
	if cfg.Runtime.Blob.Backend != "sqlite" {
		t.Fatalf("expected sqlite blob backend, got %q", cfg.Runtime.Blob.Backend)
	}
}

func TestParseConfigEnvThenFlags(t *testing.T) {
	t.Setenv("PATHWAY_SITE_HTTP_ADDR", "env-addr")
	t.Setenv("PATHWAY_SITE_PUBLIC_URL", "https://env.example")
	t.Setenv("PATHWAY_PRICES", "5,10")
	t.Setenv("PATHWAY_BLOB_BACKEND", "memory")

	fs := flag.NewFlagSet("site", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-http-addr", "flag-addr", "-db-path", "/tmp/site.db"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != "flag-addr" {
		t.Fatalf("expected flag http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.PublicURL != "https://env.example" {
		t.Fatalf("expected env public url, got %q", cfg.PublicURL)
	}
	if cfg.Runtime.DBPath != "/tmp/site.db" {
		t.Fatalf("expected flag db path, got %q", cfg.Runtime.DBPath)
	}
	if len(cfg.Runtime.Prices) != 2 || cfg.Runtime.Prices[1] != "10" {
		t.Fatalf("expected env prices, got %v", cfg.Runtime.Prices)
	}
	if cfg.Runtime.Blob.Backend != "memory" {
		t.Fatalf("expected env blob backend, got %q", cfg.Runtime.Blob.Backend)
	}
}
