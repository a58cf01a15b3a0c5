// Package pathwayctl builds the operator command line: user accounts, API
// tokens, price experiment stats and newsletter exports.
package pathwayctl

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	runtimecmd "github.com/officialpathway/pathwei-website/internal/cmd/runtime"
	entrypoint "github.com/officialpathway/pathwei-website/internal/platform/cmd"
)

// Config holds the CLI configuration read from the environment.
type Config struct {
	TokenSecret string        `env:"PATHWAY_ADMIN_TOKEN_SECRET"`
	TokenTTL    time.Duration `env:"PATHWAY_ADMIN_TOKEN_TTL" envDefault:"12h"`
	Runtime     runtimecmd.Config

	// Deps holds overridable dependencies. Nil fields use production
	// defaults.
	Deps Deps
}

// Deps are the dependencies commands reach for at execution time.
type Deps struct {
	Open func(ctx context.Context, cfg runtimecmd.Config) (*runtimecmd.Runtime, error)
	Now  func() time.Time
}

func (d *Deps) applyDefaults() {
	if d.Open == nil {
		d.Open = runtimecmd.Open
	}
	if d.Now == nil {
		d.Now = time.Now
	}
}

// ParseConfig loads the CLI configuration from the environment.
func ParseConfig() (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewCommand builds the root command with every subcommand attached.
func NewCommand(cfg Config) *cobra.Command {
	cfg.Deps.applyDefaults()
	app := &app{cfg: &cfg}

	root := &cobra.Command{
		Use:           entrypoint.ServiceCLI,
		Short:         "Operate the Pathway site and back-office",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfg.Runtime.DBPath, "db-path", cfg.Runtime.DBPath, "SQLite database path")
	root.PersistentFlags().StringVar(&cfg.Runtime.Blob.Backend, "blob-backend", cfg.Runtime.Blob.Backend, "Blob backend: sqlite, s3 or memory")

	root.AddCommand(app.newUserCmd())
	root.AddCommand(app.newTokenCmd())
	root.AddCommand(app.newStatsCmd())
	root.AddCommand(app.newNewsletterCmd())
	return root
}

// Run executes the command line in args.
func Run(ctx context.Context, cfg Config, args []string) error {
	cmd := NewCommand(cfg)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

type app struct {
	cfg *Config
}

// withRuntime opens the shared runtime for the duration of fn.
func (a *app) withRuntime(cmd *cobra.Command, fn func(context.Context, *runtimecmd.Runtime) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	rt, err := a.cfg.Deps.Open(ctx, a.cfg.Runtime)
	if err != nil {
		return err
	}
	defer rt.Close()
	return fn(ctx, rt)
}

var errMissingSecret = errors.New("PATHWAY_ADMIN_TOKEN_SECRET is required to issue tokens")
