package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/officialpathway/pathwei-website/internal/platform/errors"
	"github.com/officialpathway/pathwei-website/internal/platform/requestctx"
	"github.com/officialpathway/pathwei-website/internal/platform/requestmeta"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func init() {
	passwordCost = bcrypt.MinCost
}

func newTestIssuer(t *testing.T, now time.Time) *Issuer {
	t.Helper()
	issuer, err := NewIssuer(IssuerConfig{
		Secret: testSecret,
		TTL:    time.Hour,
		Now:    func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	return issuer
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole(" Admin ")
	if err != nil || role != RoleAdmin {
		t.Fatalf("ParseRole = %q, %v", role, err)
	}
	if _, err := ParseRole("owner"); !apperrors.IsCode(err, apperrors.CodeUserRoleInvalid) {
		t.Fatalf("ParseRole(owner) error = %v", err)
	}
}

func TestRoleAllows(t *testing.T) {
	tests := []struct {
		role Role
		min  Role
		want bool
	}{
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleEditor, true},
		{RoleEditor, RoleAdmin, false},
		{RoleEditor, RoleEditor, true},
		{RoleUser, RoleEditor, false},
		{Role("ghost"), RoleUser, false},
	}
	for _, tc := range tests {
		if got := tc.role.Allows(tc.min); got != tc.want {
			t.Errorf("%s.Allows(%s) = %v, want %v", tc.role, tc.min, got, tc.want)
		}
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(hash, "correct horse") {
		t.Fatal("expected password to match")
	}
	if CheckPassword(hash, "wrong horse") {
		t.Fatal("expected wrong password to fail")
	}
	if CheckPassword("", "correct horse") {
		t.Fatal("expected empty hash to fail")
	}
	if _, err := HashPassword("short"); !apperrors.IsCode(err, apperrors.CodeInvalidArgument) {
		t.Fatalf("short password error = %v", err)
	}
}

func TestNewIssuerRejectsShortSecret(t *testing.T) {
	if _, err := NewIssuer(IssuerConfig{Secret: []byte("short")}); err == nil {
		t.Fatal("expected short secret to fail")
	}
}

func TestIssueAndVerify(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	issuer := newTestIssuer(t, now)

	token, issued, err := issuer.Issue("user-1", "ada@example.com", RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "user-1" || claims.Email != "ada@example.com" || claims.Role != RoleAdmin {
		t.Fatalf("claims = %+v", claims)
	}
	if claims.TokenID == "" || claims.TokenID != issued.TokenID {
		t.Fatalf("token id = %q, issued %q", claims.TokenID, issued.TokenID)
	}
	if !claims.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("expires = %v", claims.ExpiresAt)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	token, _, err := newTestIssuer(t, now).Issue("user-1", "", RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	later := newTestIssuer(t, now.Add(2*time.Hour))
	if _, err := later.Verify(token); !apperrors.IsCode(err, apperrors.CodeAuthTokenExpired) {
		t.Fatalf("verify error = %v, want AUTH_TOKEN_EXPIRED", err)
	}
}

func TestVerifyRejectsForeignTokens(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	issuer := newTestIssuer(t, now)

	other, err := NewIssuer(IssuerConfig{
		Secret: []byte("ffffffffffffffffffffffffffffffff"),
		Now:    func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	wrongKey, _, err := other.Issue("user-1", "", RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	wrongAudience, err := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    DefaultIssuer,
			Subject:   "user-1",
			Audience:  jwt.ClaimStrings{"someone-else"},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Role: string(RoleAdmin),
	}).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    DefaultIssuer,
			Subject:   "user-1",
			Audience:  jwt.ClaimStrings{DefaultAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Role: string(RoleAdmin),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	for name, token := range map[string]string{
		"wrong key":      wrongKey,
		"wrong audience": wrongAudience,
		"none alg":       noneAlg,
		"garbage":        "not.a.token",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := issuer.Verify(token); !apperrors.IsCode(err, apperrors.CodeAuthTokenInvalid) {
				t.Fatalf("verify error = %v, want AUTH_TOKEN_INVALID", err)
			}
		})
	}

	if _, err := issuer.Verify(" "); !apperrors.IsCode(err, apperrors.CodeAuthTokenMissing) {
		t.Fatalf("empty token error = %v", err)
	}
}

func TestTokenFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "cookie-token"})
	if token, fromHeader := TokenFromRequest(req); token != "cookie-token" || fromHeader {
		t.Fatalf("cookie token = %q, %v", token, fromHeader)
	}
	req.Header.Set("Authorization", "bearer header-token")
	if token, fromHeader := TokenFromRequest(req); token != "header-token" || !fromHeader {
		t.Fatalf("header token = %q, %v", token, fromHeader)
	}
}

func TestSessionCookieAttributes(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "https://admin.example.com/login", nil)
	SetSessionCookie(rec, req, requestmetaPolicy(), "tok", time.Hour)
	cookie := rec.Result().Cookies()[0]
	if cookie.Name != SessionCookieName || !cookie.HttpOnly || !cookie.Secure || cookie.SameSite != http.SameSiteLaxMode {
		t.Fatalf("cookie = %+v", cookie)
	}

	rec = httptest.NewRecorder()
	ClearSessionCookie(rec, req, requestmetaPolicy())
	if cleared := rec.Result().Cookies()[0]; cleared.MaxAge >= 0 || cleared.Value != "" {
		t.Fatalf("cleared cookie = %+v", cleared)
	}
}

type fakeRoles map[string]string

func (f fakeRoles) LookupRole(_ context.Context, userID string) (string, error) {
	role, ok := f[userID]
	if !ok {
		return "", apperrors.New(apperrors.CodeNotFound, "user not found")
	}
	return role, nil
}

func TestRequireRole(t *testing.T) {
	now := time.Now()
	issuer := newTestIssuer(t, now)
	roles := fakeRoles{"admin-1": "admin", "demoted-1": "user", "editor-1": "editor"}
	guard := NewGuard(issuer, roles, "/login")

	var seen requestctx.Principal
	protected := guard.RequireRole(RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	issue := func(userID string) string {
		token, _, err := issuer.Issue(userID, userID+"@example.com", RoleAdmin)
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		return token
	}

	t.Run("admin cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: issue("admin-1")})
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d", rec.Code)
		}
		if seen.UserID != "admin-1" || seen.Role != "admin" {
			t.Fatalf("principal = %+v", seen)
		}
	})

	t.Run("browser without session redirects", func(t *testing.T) {
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d", rec.Code)
		}
		if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/login?next=") {
			t.Fatalf("location = %q", loc)
		}
	})

	t.Run("api without token is 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/ab/stats", nil)
		req.Header.Set("Accept", "application/json")
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("demoted user token is forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/ab/stats", nil)
		req.Header.Set("Authorization", "Bearer "+issue("demoted-1"))
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("deleted user token is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/ab/stats", nil)
		req.Header.Set("Authorization", "Bearer "+issue("gone-1"))
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("editor passes editor gate", func(t *testing.T) {
		editorOnly := guard.RequireRole(RoleEditor)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		req := httptest.NewRequest(http.MethodGet, "/seo", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: issue("editor-1")})
		rec := httptest.NewRecorder()
		editorOnly.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d", rec.Code)
		}
	})
}

func requestmetaPolicy() requestmeta.SchemePolicy {
	return requestmeta.SchemePolicy{}
}
