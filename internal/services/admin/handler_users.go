package admin

import (
	"log"
	"net/http"

	apperrors "github.com/officialpathway/pathwei-website/internal/platform/errors"
	"github.com/officialpathway/pathwei-website/internal/platform/id"
	"github.com/officialpathway/pathwei-website/internal/services/admin/routepath"
	"github.com/officialpathway/pathwei-website/internal/services/admin/templates"
	"github.com/officialpathway/pathwei-website/internal/services/auth"
	"github.com/officialpathway/pathwei-website/internal/services/newsletter"
	"github.com/officialpathway/pathwei-website/internal/storage"
)

func roleNames() []string {
	names := make([]string, 0, len(auth.Roles))
	for _, role := range auth.Roles {
		names = append(names, string(role))
	}
	return names
}

func (h *Handler) serveUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	self := principal(r).UserID
	rows := make([]templates.UserRow, 0, len(users))
	for _, user := range users {
		rows = append(rows, templates.UserRow{
			ID:          user.ID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
			Role:        user.Role,
			CreatedAt:   formatDate(user.CreatedAt),
			IsSelf:      user.ID == self,
		})
	}
	renderPage(w, r, h.pageContext(r, "Users"), templates.UsersPage(templates.UsersView{Users: rows, Roles: roleNames()}))
}

func (h *Handler) handleUserCreate(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r, routepath.Users) {
		return
	}
	email, err := newsletter.NormalizeEmail(formValue(r, "email"))
	if err != nil {
		redirectError(w, r, routepath.Users, err)
		return
	}
	role, err := auth.ParseRole(formValue(r, "role"))
	if err != nil {
		redirectError(w, r, routepath.Users, err)
		return
	}
	hash, err := auth.HashPassword(r.PostForm.Get("password"))
	if err != nil {
		redirectError(w, r, routepath.Users, err)
		return
	}
	userID, err := id.NewID()
	if err != nil {
		redirectError(w, r, routepath.Users, err)
		return
	}
	now := h.now().UTC()
	user := storage.User{
		ID:           userID,
		Email:        email,
		DisplayName:  formValue(r, "display_name"),
		Role:         string(role),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.store.CreateUser(r.Context(), user); err != nil {
		redirectError(w, r, routepath.Users, err)
		return
	}
	log.Printf("admin user created user_id=%s role=%s by=%s", user.ID, user.Role, principal(r).UserID)
	redirectFlash(w, r, routepath.Users, "Created "+email+".")
}

func (h *Handler) handleUserRole(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r, routepath.Users) {
		return
	}
	userID := formValue(r, "id")
	role, err := auth.ParseRole(formValue(r, "role"))
	if err != nil {
		redirectError(w, r, routepath.Users, err)
		return
	}
	if err := h.store.UpdateUserRole(r.Context(), userID, string(role), h.now().UTC()); err != nil {
		redirectError(w, r, routepath.Users, err)
		return
	}
	log.Printf("admin user role changed user_id=%s role=%s by=%s", userID, role, principal(r).UserID)
	redirectFlash(w, r, routepath.Users, "Role updated.")
}

func (h *Handler) handleUserPassword(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r, routepath.Users) {
		return
	}
	userID := formValue(r, "id")
	hash, err := auth.HashPassword(r.PostForm.Get("password"))
	if err != nil {
		redirectError(w, r, routepath.Users, err)
		return
	}
	if err := h.store.UpdateUserPassword(r.Context(), userID, hash, h.now().UTC()); err != nil {
		redirectError(w, r, routepath.Users, err)
		return
	}
	log.Printf("admin user password reset user_id=%s by=%s", userID, principal(r).UserID)
	redirectFlash(w, r, routepath.Users, "Password updated.")
}

func (h *Handler) handleUserDelete(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r, routepath.Users) {
		return
	}
	userID := formValue(r, "id")
	if userID == principal(r).UserID {
		redirectError(w, r, routepath.Users, apperrors.New(apperrors.CodeInvalidArgument, "you cannot delete your own account"))
		return
	}
	if err := h.store.DeleteUser(r.Context(), userID); err != nil {
		redirectError(w, r, routepath.Users, err)
		return
	}
	log.Printf("admin user deleted user_id=%s by=%s", userID, principal(r).UserID)
	redirectFlash(w, r, routepath.Users, "User deleted.")
}
