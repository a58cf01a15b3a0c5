package pricing

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/officialpathway/pathwei-website/internal/platform/httpx"
	"github.com/officialpathway/pathwei-website/internal/platform/requestmeta"
)

const (
	// DefaultCookieName is the cookie pinning a visitor's assigned price.
	DefaultCookieName = "pathway_price"
	// DefaultCookieMaxAge is how long an assignment sticks.
	DefaultCookieMaxAge = 30 * 24 * time.Hour
)

// DefaultPrices are the monthly prices under test.
var DefaultPrices = []string{"9.99", "14.99", "19.99"}

// Config configures an Experiment.
type Config struct {
	Prices       []string
	CookieName   string
	CookieMaxAge time.Duration
	// SchemePolicy decides when the cookie is marked Secure.
	SchemePolicy requestmeta.SchemePolicy
	// Pick returns an index in [0, n). Defaults to a uniform random choice.
	Pick func(n int) int
}

// Experiment assigns prices to visitors.
type Experiment struct {
	prices     []string
	allowed    map[string]struct{}
	cookieName string
	maxAge     time.Duration
	policy     requestmeta.SchemePolicy
	pick       func(n int) int
}

// NewExperiment validates cfg and fills defaults.
func NewExperiment(cfg Config) (*Experiment, error) {
	prices := cfg.Prices
	if len(prices) == 0 {
		prices = DefaultPrices
	}
	allowed := make(map[string]struct{}, len(prices))
	normalized := make([]string, 0, len(prices))
	for _, price := range prices {
		price = strings.TrimSpace(price)
		value, err := strconv.ParseFloat(price, 64)
		if err != nil || value <= 0 {
			return nil, fmt.Errorf("price %q must be a positive decimal", price)
		}
		if _, dup := allowed[price]; dup {
			return nil, fmt.Errorf("price %q is listed twice", price)
		}
		allowed[price] = struct{}{}
		normalized = append(normalized, price)
	}
	cookieName := strings.TrimSpace(cfg.CookieName)
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	maxAge := cfg.CookieMaxAge
	if maxAge <= 0 {
		maxAge = DefaultCookieMaxAge
	}
	pick := cfg.Pick
	if pick == nil {
		pick = rand.IntN
	}
	return &Experiment{
		prices:     normalized,
		allowed:    allowed,
		cookieName: cookieName,
		maxAge:     maxAge,
		policy:     cfg.SchemePolicy,
		pick:       pick,
	}, nil
}

// Prices returns the prices under test in configured order.
func (e *Experiment) Prices() []string {
	return append([]string(nil), e.prices...)
}

// CookieName returns the assignment cookie name.
func (e *Experiment) CookieName() string {
	return e.cookieName
}

// IsValid reports whether price is part of the experiment.
func (e *Experiment) IsValid(price string) bool {
	_, ok := e.allowed[price]
	return ok
}

// Assigned returns the price pinned by the request cookie, if valid.
func (e *Experiment) Assigned(r *http.Request) (string, bool) {
	if r == nil {
		return "", false
	}
	cookie, err := r.Cookie(e.cookieName)
	if err != nil {
		return "", false
	}
	price := strings.TrimSpace(cookie.Value)
	if !e.IsValid(price) {
		return "", false
	}
	return price, true
}

// Assign returns the visitor's price. isNew is true when no valid cookie was
// present and a fresh price was drawn.
func (e *Experiment) Assign(r *http.Request) (price string, isNew bool) {
	if price, ok := e.Assigned(r); ok {
		return price, false
	}
	return e.prices[e.pick(len(e.prices))], true
}

// SetCookie pins price for the visitor.
func (e *Experiment) SetCookie(w http.ResponseWriter, r *http.Request, price string) {
	http.SetCookie(w, &http.Cookie{
		Name:     e.cookieName,
		Value:    price,
		Path:     "/",
		MaxAge:   int(e.maxAge / time.Second),
		Expires:  time.Now().Add(e.maxAge),
		HttpOnly: true,
		Secure:   requestmeta.IsHTTPS(r, e.policy),
		SameSite: http.SameSiteLaxMode,
	})
}

// Middleware assigns a price to every request outside skip, writes the cookie
// for first-time visitors and exposes the price through the request context.
func (e *Experiment) Middleware(skip func(*http.Request) bool) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip != nil && skip(r) {
				next.ServeHTTP(w, r)
				return
			}
			price, isNew := e.Assign(r)
			if isNew {
				e.SetCookie(w, r, price)
			}
			next.ServeHTTP(w, r.WithContext(WithPrice(r.Context(), price)))
		})
	}
}

type priceContextKey struct{}

// WithPrice stores the assigned price in ctx.
func WithPrice(ctx context.Context, price string) context.Context {
	return context.WithValue(ctx, priceContextKey{}, price)
}

// PriceFromContext returns the price assigned by Middleware.
func PriceFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	price, ok := ctx.Value(priceContextKey{}).(string)
	return price, ok && price != ""
}
