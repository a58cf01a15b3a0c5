// Package admin parses admin command configuration and launches the
// back-office.
package admin

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	runtimecmd "github.com/officialpathway/pathwei-website/internal/cmd/runtime"
	entrypoint "github.com/officialpathway/pathwei-website/internal/platform/cmd"
	"github.com/officialpathway/pathwei-website/internal/services/admin"
	"github.com/officialpathway/pathwei-website/internal/services/auth"
	"github.com/officialpathway/pathwei-website/internal/services/mailer"
)

// Config holds the admin command configuration.
type Config struct {
	HTTPAddr        string        `env:"PATHWAY_ADMIN_HTTP_ADDR" envDefault:"localhost:8081"`
	TokenSecret     string        `env:"PATHWAY_ADMIN_TOKEN_SECRET"`
	TokenTTL        time.Duration `env:"PATHWAY_ADMIN_TOKEN_TTL" envDefault:"12h"`
	MailConcurrency int           `env:"PATHWAY_MAIL_CONCURRENCY" envDefault:"4"`
	SMTP            mailer.SMTPConfig
	Bootstrap       admin.BootstrapConfig
	Runtime         runtimecmd.Config
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.Runtime.DBPath, "db-path", cfg.Runtime.DBPath, "SQLite database path")
	fs.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "Session token lifetime")
	fs.IntVar(&cfg.MailConcurrency, "mail-concurrency", cfg.MailConcurrency, "Concurrent deliveries per bulk email")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.TokenSecret == "" {
		return Config{}, errors.New("PATHWAY_ADMIN_TOKEN_SECRET is required")
	}
	return cfg, nil
}

// NewSender returns the SMTP sender when a host is configured and a logging
// sender otherwise.
func NewSender(cfg mailer.SMTPConfig) (mailer.Sender, error) {
	if !cfg.Enabled() {
		log.Printf("smtp host not configured, bulk email will only be logged")
		return mailer.LogSender{}, nil
	}
	return mailer.NewSMTPSender(cfg)
}

// Run starts the admin back-office.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceAdmin, func(ctx context.Context) error {
		issuer, err := auth.NewIssuer(auth.IssuerConfig{Secret: []byte(cfg.TokenSecret), TTL: cfg.TokenTTL})
		if err != nil {
			return fmt.Errorf("token issuer: %w", err)
		}
		sender, err := NewSender(cfg.SMTP)
		if err != nil {
			return fmt.Errorf("mail sender: %w", err)
		}
		rt, err := runtimecmd.Open(ctx, cfg.Runtime)
		if err != nil {
			return err
		}
		defer rt.Close()

		server, err := admin.NewServer(ctx, admin.Config{
			HTTPAddr:        cfg.HTTPAddr,
			SchemePolicy:    cfg.Runtime.SchemePolicy(),
			Store:           rt.Store,
			Newsletter:      rt.Newsletter,
			Experiment:      rt.Experiment,
			Stats:           rt.Stats,
			Issuer:          issuer,
			Sender:          sender,
			MailConcurrency: cfg.MailConcurrency,
			Bootstrap:       cfg.Bootstrap,
		})
		if err != nil {
			return fmt.Errorf("init admin server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve admin: %w", err)
		}
		return nil
	})
}
