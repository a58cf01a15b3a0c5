// Package site parses site command configuration and launches the public
// website.
package site

import (
	"context"
	"flag"
	"fmt"

	runtimecmd "github.com/officialpathway/pathwei-website/internal/cmd/runtime"
	entrypoint "github.com/officialpathway/pathwei-website/internal/platform/cmd"
	"github.com/officialpathway/pathwei-website/internal/services/site"
)

// Config holds the site command configuration.
type Config struct {
	HTTPAddr    string `env:"PATHWAY_SITE_HTTP_ADDR" envDefault:"localhost:8080"`
	PublicURL   string `env:"PATHWAY_SITE_PUBLIC_URL" envDefault:"https://aihavenlabs.com"`
	ContentPath string `env:"PATHWAY_CONTENT_PATH"`
	Runtime     runtimecmd.Config
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.PublicURL, "public-url", cfg.PublicURL, "Canonical public URL used in the sitemap")
	fs.StringVar(&cfg.ContentPath, "content", cfg.ContentPath, "YAML content file (embedded default when empty)")
	fs.StringVar(&cfg.Runtime.DBPath, "db-path", cfg.Runtime.DBPath, "SQLite database path")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the public site.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSite, func(ctx context.Context) error {
		content, err := site.LoadContent(cfg.ContentPath)
		if err != nil {
			return err
		}
		rt, err := runtimecmd.Open(ctx, cfg.Runtime)
		if err != nil {
			return err
		}
		defer rt.Close()

		server, err := site.NewServer(ctx, site.Config{
			HTTPAddr:     cfg.HTTPAddr,
			PublicURL:    cfg.PublicURL,
			SchemePolicy: cfg.Runtime.SchemePolicy(),
			Content:      content,
			SEO:          rt.Store,
			Feedback:     rt.Store,
			Newsletter:   rt.Newsletter,
			Experiment:   rt.Experiment,
			Stats:        rt.Stats,
		})
		if err != nil {
			return fmt.Errorf("init site server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve site: %w", err)
		}
		return nil
	})
}
