// Package routepath names the back-office routes.
package routepath

import (
	"net/url"
	"strings"
)

const (
	Root         = "/"
	StaticPrefix = "/static/"
	Health       = "/healthz"
)

const (
	Login  = "/login"
	Logout = "/logout"
)

const (
	Users          = "/users"
	UsersCreate    = "/users/create"
	UsersRole      = "/users/role"
	UsersDelete    = "/users/delete"
	UsersPassword  = "/users/password"
	UsersSessions  = "/users/sessions"
	Assets         = "/assets"
	AssetsCreate   = "/assets/create"
	AssetsPaid     = "/assets/paid"
	AssetsDelete   = "/assets/delete"
	Email          = "/email"
	EmailPreview   = "/email/preview"
	Feedback       = "/feedback"
	FeedbackStatus = "/feedback/status"
	FeedbackDelete = "/feedback/delete"
	SEO            = "/seo"
	SEODelete      = "/seo/delete"
)

const (
	AB       = "/ab"
	ABReset  = "/ab/reset"
	ABStats  = "/api/ab/stats"
	APIToken = "/api/token"
)

const (
	Subscribers       = "/subscribers"
	SubscribersDelete = "/subscribers/delete"
	SubscribersExport = "/subscribers/export.csv"
)

// WithFlash appends a flash message to a redirect target.
func WithFlash(target, message string) string {
	return withQuery(target, "flash", message)
}

// WithError appends an error message to a redirect target.
func WithError(target, message string) string {
	return withQuery(target, "error", message)
}

// LoginNext returns the login page that returns to next after sign in.
func LoginNext(next string) string {
	if !SafeNext(next) {
		return Login
	}
	return withQuery(Login, "next", next)
}

// SafeNext reports whether next is a local path that is safe to redirect to.
func SafeNext(next string) bool {
	next = strings.TrimSpace(next)
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return false
	}
	return !strings.HasPrefix(next, Login) && !strings.HasPrefix(next, Logout)
}

// FeedbackFiltered returns the feedback list narrowed to status.
func FeedbackFiltered(status string) string {
	status = strings.TrimSpace(status)
	if status == "" {
		return Feedback
	}
	return withQuery(Feedback, "status", status)
}

func withQuery(target, key, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return target
	}
	separator := "?"
	if strings.Contains(target, "?") {
		separator = "&"
	}
	return target + separator + url.QueryEscape(key) + "=" + url.QueryEscape(value)
}

// SEOEdit returns the SEO page with the form prefilled for path.
func SEOEdit(path string) string {
	return withQuery(SEO, "path", path)
}
