// Package runtime opens the storage and experiment dependencies shared by the
// service commands.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/officialpathway/pathwei-website/internal/platform/blob"
	"github.com/officialpathway/pathwei-website/internal/platform/requestmeta"
	"github.com/officialpathway/pathwei-website/internal/services/newsletter"
	"github.com/officialpathway/pathwei-website/internal/services/pricing"
	"github.com/officialpathway/pathwei-website/internal/storage/sqlite"
)

// Config holds the storage and experiment settings read from the environment.
type Config struct {
	DBPath string `env:"PATHWAY_DB_PATH" envDefault:"data/pathway.db"`
	Blob   blob.Config

	Prices       []string      `env:"PATHWAY_PRICES" envSeparator:"," envDefault:"9.99,14.99,19.99"`
	PriceCookie  string        `env:"PATHWAY_PRICE_COOKIE" envDefault:"pathway_price"`
	PriceMaxAge  time.Duration `env:"PATHWAY_PRICE_COOKIE_MAX_AGE" envDefault:"720h"`
	TrustProto   bool          `env:"PATHWAY_TRUST_FORWARDED_PROTO"`
	TrustForward bool          `env:"PATHWAY_TRUST_FORWARDED_FOR"`
}

// SchemePolicy returns the proxy trust settings.
func (c Config) SchemePolicy() requestmeta.SchemePolicy {
	return requestmeta.SchemePolicy{TrustForwardedProto: c.TrustProto, TrustForwardedFor: c.TrustForward}
}

// Runtime bundles the opened dependencies.
type Runtime struct {
	Store      *sqlite.Store
	Blob       blob.Store
	Experiment *pricing.Experiment
	Stats      *pricing.StatsStore
	Newsletter *newsletter.Store
}

// Open opens the SQLite store, the configured blob backend and the price
// experiment. Callers must Close the runtime.
func Open(ctx context.Context, cfg Config) (*Runtime, error) {
	store, err := openStore(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	blobs, err := blob.Open(ctx, cfg.Blob, store.DB())
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("open blob store: %w", err)
	}
	experiment, err := pricing.NewExperiment(pricing.Config{
		Prices:       cfg.Prices,
		CookieName:   cfg.PriceCookie,
		CookieMaxAge: cfg.PriceMaxAge,
		SchemePolicy: cfg.SchemePolicy(),
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("price experiment: %w", err)
	}
	return &Runtime{
		Store:      store,
		Blob:       blobs,
		Experiment: experiment,
		Stats:      pricing.NewStatsStore(blobs, experiment),
		Newsletter: newsletter.NewStore(blobs),
	}, nil
}

// Close releases the SQLite handle.
func (r *Runtime) Close() error {
	if r == nil || r.Store == nil {
		return nil
	}
	return r.Store.Close()
}

func openStore(path string) (*sqlite.Store, error) {
	cleanPath := filepath.Clean(strings.TrimSpace(path))
	if cleanPath == "." || cleanPath == "" {
		return nil, errors.New("db path is required")
	}
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := sqlite.Open(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	return store, nil
}
