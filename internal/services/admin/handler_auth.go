package admin

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/officialpathway/pathwei-website/internal/platform/errors"
	"github.com/officialpathway/pathwei-website/internal/platform/httpx"
	"github.com/officialpathway/pathwei-website/internal/platform/pagerender"
	"github.com/officialpathway/pathwei-website/internal/services/admin/routepath"
	"github.com/officialpathway/pathwei-website/internal/services/admin/templates"
	"github.com/officialpathway/pathwei-website/internal/services/auth"
	"github.com/officialpathway/pathwei-website/internal/storage"
)

// dummyHash keeps unknown-email logins as slow as wrong-password ones.
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z9ZLq5pY5p4mEv1p8sQ2R8xS"

var errBadCredentials = apperrors.New(apperrors.CodeAuthCredentialsInvalid, "invalid email or password")

// checkCredentials returns the user behind email and password when they
// match and the role may use the back-office.
func (h *Handler) checkCredentials(ctx context.Context, email, password string) (storage.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return storage.User{}, errBadCredentials
	}
	user, err := h.store.GetUserByEmail(ctx, email)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeNotFound) {
			auth.CheckPassword(dummyHash, password)
			return storage.User{}, errBadCredentials
		}
		return storage.User{}, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return storage.User{}, errBadCredentials
	}
	if !auth.Role(user.Role).Allows(auth.RoleEditor) {
		return storage.User{}, apperrors.New(apperrors.CodeAuthForbidden, "this account cannot use the back-office")
	}
	return user, nil
}

// startSession issues a token for user and records the sign-in.
func (h *Handler) startSession(ctx context.Context, user storage.User) (string, auth.Claims, error) {
	token, claims, err := h.issuer.Issue(user.ID, user.Email, auth.Role(user.Role))
	if err != nil {
		return "", auth.Claims{}, err
	}
	if err := h.store.PutUserSession(ctx, claims.TokenID, user.ID, h.now().UTC()); err != nil {
		return "", auth.Claims{}, err
	}
	log.Printf("admin login user_id=%s role=%s session_id=%s", user.ID, user.Role, claims.TokenID)
	return token, claims, nil
}

func (h *Handler) serveLogin(w http.ResponseWriter, r *http.Request) {
	next := r.URL.Query().Get("next")
	if _, err := h.guard.Authenticate(r); err == nil {
		httpx.WriteRedirect(w, r, loginTarget(next))
		return
	}
	writeLogin(w, r, http.StatusOK, templates.LoginView{Next: next})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeLogin(w, r, http.StatusBadRequest, templates.LoginView{Error: "Invalid form."})
		return
	}
	email := formValue(r, "email")
	next := formValue(r, "next")
	user, err := h.checkCredentials(r.Context(), email, r.PostForm.Get("password"))
	if err != nil {
		status := apperrors.HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			log.Printf("admin login failed err=%v", err)
		}
		writeLogin(w, r, status, templates.LoginView{Email: email, Next: next, Error: apperrors.PublicMessage(err)})
		return
	}
	token, _, err := h.startSession(r.Context(), user)
	if err != nil {
		log.Printf("admin session start failed user_id=%s err=%v", user.ID, err)
		writeLogin(w, r, http.StatusInternalServerError, templates.LoginView{Email: email, Next: next, Error: apperrors.PublicMessage(err)})
		return
	}
	auth.SetSessionCookie(w, r, h.policy, token, h.issuer.TTL())
	httpx.WriteRedirect(w, r, loginTarget(next))
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, r, h.policy)
	httpx.WriteRedirect(w, r, routepath.Login)
}

type tokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"tokenType"`
	ExpiresAt time.Time `json:"expiresAt"`
	Role      string    `json:"role"`
}

// handleToken exchanges credentials for a bearer token.
func (h *Handler) handleToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	user, err := h.checkCredentials(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	token, claims, err := h.startSession(r.Context(), user)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, tokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: claims.ExpiresAt,
		Role:      string(claims.Role),
	})
}

func loginTarget(next string) string {
	if routepath.SafeNext(next) {
		return next
	}
	return routepath.Root
}

func writeLogin(w http.ResponseWriter, r *http.Request, status int, view templates.LoginView) {
	pagerender.Write(w, r, pagerender.Page{StatusCode: status, Fragment: templates.LoginPage(view)})
}
