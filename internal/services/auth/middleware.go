package auth

import (
	"context"
	"log"
	"net/http"
	"net/url"

	apperrors "github.com/officialpathway/pathwei-website/internal/platform/errors"
	"github.com/officialpathway/pathwei-website/internal/platform/httpx"
	"github.com/officialpathway/pathwei-website/internal/platform/requestctx"
)

// RoleLookup resolves the current role of a user. It returns a NOT_FOUND
// error when the user no longer exists.
type RoleLookup interface {
	LookupRole(ctx context.Context, userID string) (string, error)
}

// RoleLookupFunc adapts a function to RoleLookup.
type RoleLookupFunc func(ctx context.Context, userID string) (string, error)

// LookupRole calls f.
func (f RoleLookupFunc) LookupRole(ctx context.Context, userID string) (string, error) {
	return f(ctx, userID)
}

// Guard authenticates back-office requests.
type Guard struct {
	issuer    *Issuer
	roles     RoleLookup
	loginPath string
}

// NewGuard builds a Guard. Browsers that fail authentication are sent to
// loginPath.
func NewGuard(issuer *Issuer, roles RoleLookup, loginPath string) *Guard {
	if loginPath == "" {
		loginPath = "/login"
	}
	return &Guard{issuer: issuer, roles: roles, loginPath: loginPath}
}

// Authenticate resolves the principal behind r. The role comes from the
// live user record rather than the token.
func (g *Guard) Authenticate(r *http.Request) (requestctx.Principal, error) {
	token, _ := TokenFromRequest(r)
	claims, err := g.issuer.Verify(token)
	if err != nil {
		return requestctx.Principal{}, err
	}
	role := claims.Role
	if g.roles != nil {
		current, err := g.roles.LookupRole(r.Context(), claims.Subject)
		if err != nil {
			if apperrors.IsCode(err, apperrors.CodeNotFound) {
				return requestctx.Principal{}, apperrors.New(apperrors.CodeAuthTokenInvalid, "session user no longer exists")
			}
			return requestctx.Principal{}, err
		}
		role = Role(current)
	}
	return requestctx.Principal{UserID: claims.Subject, Email: claims.Email, Role: string(role)}, nil
}

// RequireRole rejects requests whose principal does not hold at least min.
func (g *Guard) RequireRole(min Role) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := g.Authenticate(r)
			if err != nil {
				g.reject(w, r, err)
				return
			}
			if !Role(principal.Role).Allows(min) {
				log.Printf("admin access denied user_id=%s role=%s required=%s path=%s", principal.UserID, principal.Role, min, r.URL.Path)
				g.reject(w, r, apperrors.WithMetadata(apperrors.CodeAuthForbidden, "insufficient role",
					map[string]string{"Required": string(min)}))
				return
			}
			next.ServeHTTP(w, r.WithContext(requestctx.WithPrincipal(r.Context(), principal)))
		})
	}
}

func (g *Guard) reject(w http.ResponseWriter, r *http.Request, err error) {
	if _, fromHeader := TokenFromRequest(r); fromHeader || httpx.WantsJSON(r) {
		httpx.WriteError(w, r, err)
		return
	}
	if apperrors.HTTPStatus(err) >= http.StatusInternalServerError {
		httpx.WriteError(w, r, err)
		return
	}
	if apperrors.IsCode(err, apperrors.CodeAuthForbidden) {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	target := g.loginPath
	if r.Method == http.MethodGet && r.URL.Path != "/" {
		target += "?next=" + url.QueryEscape(r.URL.RequestURI())
	}
	httpx.WriteRedirect(w, r, target)
}

// PrincipalFromContext returns the principal attached by RequireRole.
func PrincipalFromContext(ctx context.Context) (requestctx.Principal, bool) {
	return requestctx.PrincipalFromContext(ctx)
}
