package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/officialpathway/pathwei-website/internal/platform/requestmeta"
)

// SessionCookieName holds the admin session token.
const SessionCookieName = "pathway_admin_session"

// SetSessionCookie writes the session token cookie.
func SetSessionCookie(w http.ResponseWriter, r *http.Request, policy requestmeta.SchemePolicy, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   requestmeta.IsHTTPS(r, policy),
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session token cookie.
func ClearSessionCookie(w http.ResponseWriter, r *http.Request, policy requestmeta.SchemePolicy) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   requestmeta.IsHTTPS(r, policy),
		SameSite: http.SameSiteLaxMode,
	})
}

// TokenFromRequest returns the bearer token, falling back to the session
// cookie. fromHeader reports which source was used.
func TokenFromRequest(r *http.Request) (token string, fromHeader bool) {
	if r == nil {
		return "", false
	}
	if header := strings.TrimSpace(r.Header.Get("Authorization")); header != "" {
		scheme, value, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(value), true
		}
	}
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(cookie.Value), false
}
