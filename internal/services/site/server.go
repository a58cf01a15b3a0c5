package site

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/officialpathway/pathwei-website/internal/platform/httpx"
	"github.com/officialpathway/pathwei-website/internal/platform/i18n"
	"github.com/officialpathway/pathwei-website/internal/platform/otel"
	"github.com/officialpathway/pathwei-website/internal/platform/requestmeta"
	"github.com/officialpathway/pathwei-website/internal/platform/timeouts"
	"github.com/officialpathway/pathwei-website/internal/services/newsletter"
	"github.com/officialpathway/pathwei-website/internal/services/pricing"
	sitestatic "github.com/officialpathway/pathwei-website/internal/services/site/static"
)

// Config defines startup inputs for the public site.
type Config struct {
	HTTPAddr     string
	PublicURL    string
	SchemePolicy requestmeta.SchemePolicy
	Content      Content
	SEO          SEOReader
	Feedback     FeedbackWriter
	Newsletter   *newsletter.Store
	Experiment   *pricing.Experiment
	Stats        *pricing.StatsStore
	Now          func() time.Time
}

// Server hosts the public site HTTP surface and lifecycle.
type Server struct {
	httpAddr   string
	httpServer *http.Server
}

// NewHandler builds the root handler of the public site.
func NewHandler(cfg Config) (http.Handler, error) {
	if cfg.Experiment == nil || cfg.Stats == nil {
		return nil, errors.New("price experiment is required")
	}
	if cfg.Newsletter == nil {
		return nil, errors.New("newsletter store is required")
	}
	if cfg.Feedback == nil {
		return nil, errors.New("feedback store is required")
	}
	if strings.TrimSpace(cfg.Content.Product) == "" {
		return nil, errors.New("site content is required")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	h := &handlers{
		content:    cfg.Content,
		seo:        cfg.SEO,
		feedback:   cfg.Feedback,
		experiment: cfg.Experiment,
		publicURL:  strings.TrimRight(strings.TrimSpace(cfg.PublicURL), "/"),
		policy:     cfg.SchemePolicy,
		now:        now,
	}

	mux := http.NewServeMux()
	mux.Handle(staticPrefix, http.StripPrefix(staticPrefix, http.FileServer(http.FS(sitestatic.FS))))
	mux.HandleFunc("GET /{$}", h.serveHome)
	mux.HandleFunc("GET "+pathStory, h.serveStory)
	mux.HandleFunc("GET "+pathTeam, h.serveTeam)
	mux.HandleFunc("GET "+pathPricing, h.servePricing)
	mux.HandleFunc("POST "+pathFeedback, h.serveFeedback)
	mux.HandleFunc("POST "+pathNewsletter, newsletter.SubscribeHandler(cfg.Newsletter, func(r *http.Request) string {
		tag, _ := i18n.ResolveTag(r)
		return tag.String()
	}))
	pricing.NewHandlers(cfg.Experiment, cfg.Stats).RegisterPublic(mux)
	mux.HandleFunc("GET "+pathSitemap, h.serveSitemap)
	mux.HandleFunc("GET "+pathRobots, h.serveRobots)
	mux.HandleFunc("GET "+pathHealth, serveHealth)
	mux.HandleFunc("/", h.serveNotFound)

	return httpx.Chain(mux,
		httpx.RecoverPanic(),
		httpx.RequestID("site"),
		httpx.SecurityHeaders(),
		cfg.Experiment.Middleware(skipPriceAssignment),
		httpx.AccessLog(),
	), nil
}

// skipPriceAssignment exempts infrastructure routes and API writes from the
// experiment so crawlers, health checks and tracking calls are not assigned a
// price.
func skipPriceAssignment(r *http.Request) bool {
	path := r.URL.Path
	switch path {
	case pathHealth, pathRobots, pathSitemap, "/favicon.ico":
		return true
	}
	if r.Method == http.MethodPost && strings.HasPrefix(path, "/api/") {
		return true
	}
	return strings.HasPrefix(path, staticPrefix)
}

// NewServer validates config and constructs a site server.
func NewServer(_ context.Context, cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	handler, err := NewHandler(cfg)
	if err != nil {
		return nil, fmt.Errorf("compose site handler: %w", err)
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           otel.HTTPHandler(handler, "site"),
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
	}, nil
}

// ListenAndServe serves HTTP traffic until context cancellation or server stop.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("site server is nil")
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
			return fmt.Errorf("shutdown site http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve site http: %w", err)
	}
}

// Close closes open server resources.
func (s *Server) Close() {
	if s == nil || s.httpServer == nil {
		return
	}
	_ = s.httpServer.Close()
}
