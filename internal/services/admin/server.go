package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/officialpathway/pathwei-website/internal/platform/httpx"
	"github.com/officialpathway/pathwei-website/internal/platform/otel"
	"github.com/officialpathway/pathwei-website/internal/platform/requestmeta"
	"github.com/officialpathway/pathwei-website/internal/platform/timeouts"
	"github.com/officialpathway/pathwei-website/internal/services/admin/routepath"
	"github.com/officialpathway/pathwei-website/internal/services/auth"
	"github.com/officialpathway/pathwei-website/internal/services/mailer"
	"github.com/officialpathway/pathwei-website/internal/services/newsletter"
	"github.com/officialpathway/pathwei-website/internal/services/pricing"
	"github.com/officialpathway/pathwei-website/internal/storage"
)

// Config defines the inputs for the back-office process.
type Config struct {
	HTTPAddr        string
	SchemePolicy    requestmeta.SchemePolicy
	Store           storage.Store
	Newsletter      *newsletter.Store
	Experiment      *pricing.Experiment
	Stats           *pricing.StatsStore
	Issuer          *auth.Issuer
	Sender          mailer.Sender
	MailConcurrency int
	Bootstrap       BootstrapConfig
	Now             func() time.Time
}

// Server hosts the back-office HTTP surface and lifecycle.
type Server struct {
	httpAddr   string
	httpServer *http.Server
}

// NewHandler builds the root handler of the back-office.
func NewHandler(cfg Config) (http.Handler, error) {
	if cfg.Store == nil {
		return nil, errors.New("store is required")
	}
	if cfg.Newsletter == nil {
		return nil, errors.New("newsletter store is required")
	}
	if cfg.Experiment == nil || cfg.Stats == nil {
		return nil, errors.New("price experiment is required")
	}
	if cfg.Issuer == nil {
		return nil, errors.New("token issuer is required")
	}
	sender := cfg.Sender
	if sender == nil {
		sender = mailer.LogSender{}
	}
	concurrency := cfg.MailConcurrency
	if concurrency <= 0 {
		concurrency = mailer.DefaultConcurrency
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	h := &Handler{
		store:           cfg.Store,
		newsletter:      cfg.Newsletter,
		stats:           cfg.Stats,
		pricing:         pricing.NewHandlers(cfg.Experiment, cfg.Stats),
		issuer:          cfg.Issuer,
		guard:           auth.NewGuard(cfg.Issuer, cfg.Store, routepath.Login),
		sender:          sender,
		mailConcurrency: concurrency,
		policy:          cfg.SchemePolicy,
		now:             now,
	}
	return httpx.Chain(h.routes(),
		httpx.RecoverPanic(),
		httpx.RequestID("admin"),
		httpx.SecurityHeaders(),
		httpx.AccessLog(),
	), nil
}

// NewServer bootstraps the first admin when configured and constructs the
// back-office server.
func NewServer(ctx context.Context, cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	handler, err := NewHandler(cfg)
	if err != nil {
		return nil, fmt.Errorf("compose admin handler: %w", err)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	if _, err := EnsureBootstrapAdmin(ctx, cfg.Store, cfg.Bootstrap, now().UTC()); err != nil {
		return nil, err
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           otel.HTTPHandler(handler, "admin"),
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
	}, nil
}

// ListenAndServe serves HTTP traffic until context cancellation or server stop.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("admin server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown admin http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve admin http: %w", err)
	}
}

// Close closes open server resources.
func (s *Server) Close() {
	if s == nil || s.httpServer == nil {
		return
	}
	_ = s.httpServer.Close()
}
