package admin

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"

	apperrors "github.com/officialpathway/pathwei-website/internal/platform/errors"
	"github.com/officialpathway/pathwei-website/internal/platform/httpx"
	"github.com/officialpathway/pathwei-website/internal/platform/pagerender"
	"github.com/officialpathway/pathwei-website/internal/platform/requestctx"
	"github.com/officialpathway/pathwei-website/internal/platform/requestmeta"
	"github.com/officialpathway/pathwei-website/internal/services/admin/routepath"
	adminstatic "github.com/officialpathway/pathwei-website/internal/services/admin/static"
	"github.com/officialpathway/pathwei-website/internal/services/admin/templates"
	"github.com/officialpathway/pathwei-website/internal/services/auth"
	"github.com/officialpathway/pathwei-website/internal/services/mailer"
	"github.com/officialpathway/pathwei-website/internal/services/newsletter"
	"github.com/officialpathway/pathwei-website/internal/services/pricing"
	"github.com/officialpathway/pathwei-website/internal/storage"
)

// Handler serves the back-office routes.
type Handler struct {
	store           storage.Store
	newsletter      *newsletter.Store
	stats           *pricing.StatsStore
	pricing         *pricing.Handlers
	issuer          *auth.Issuer
	guard           *auth.Guard
	sender          mailer.Sender
	mailConcurrency int
	policy          requestmeta.SchemePolicy
	now             func() time.Time
}

// routes mounts every back-office route on a fresh mux.
func (h *Handler) routes() http.Handler {
	mux := http.NewServeMux()
	sameOrigin := httpx.RequireSameOrigin(h.policy)
	editor := h.guard.RequireRole(auth.RoleEditor)
	admin := h.guard.RequireRole(auth.RoleAdmin)
	page := func(gate httpx.Middleware, fn http.HandlerFunc) http.Handler {
		return gate(fn)
	}
	form := func(gate httpx.Middleware, fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn, sameOrigin, gate)
	}

	mux.Handle(routepath.StaticPrefix, http.StripPrefix(routepath.StaticPrefix, http.FileServer(http.FS(adminstatic.FS))))
	mux.HandleFunc("GET "+routepath.Health, func(w http.ResponseWriter, _ *http.Request) {
		_ = httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET "+routepath.Login, h.serveLogin)
	mux.Handle("POST "+routepath.Login, sameOrigin(http.HandlerFunc(h.handleLogin)))
	mux.Handle("POST "+routepath.Logout, sameOrigin(http.HandlerFunc(h.handleLogout)))
	mux.HandleFunc("POST "+routepath.APIToken, h.handleToken)

	mux.Handle("GET /{$}", page(editor, h.serveDashboard))

	mux.Handle("GET "+routepath.Users, page(admin, h.serveUsers))
	mux.Handle("GET "+routepath.UsersSessions, page(admin, h.serveSessions))
	mux.Handle("POST "+routepath.UsersCreate, form(admin, h.handleUserCreate))
	mux.Handle("POST "+routepath.UsersRole, form(admin, h.handleUserRole))
	mux.Handle("POST "+routepath.UsersPassword, form(admin, h.handleUserPassword))
	mux.Handle("POST "+routepath.UsersDelete, form(admin, h.handleUserDelete))

	mux.Handle("GET "+routepath.Assets, page(admin, h.serveAssets))
	mux.Handle("POST "+routepath.AssetsCreate, form(admin, h.handleAssetCreate))
	mux.Handle("POST "+routepath.AssetsPaid, form(admin, h.handleAssetPaid))
	mux.Handle("POST "+routepath.AssetsDelete, form(admin, h.handleAssetDelete))

	mux.Handle("GET "+routepath.Email, page(admin, h.serveEmail))
	mux.Handle("POST "+routepath.Email, form(admin, h.handleEmailSend))
	mux.Handle("POST "+routepath.EmailPreview, form(admin, h.handleEmailPreview))

	mux.Handle("GET "+routepath.Feedback, page(editor, h.serveFeedback))
	mux.Handle("POST "+routepath.FeedbackStatus, form(admin, h.handleFeedbackStatus))
	mux.Handle("POST "+routepath.FeedbackDelete, form(admin, h.handleFeedbackDelete))

	mux.Handle("GET "+routepath.SEO, page(editor, h.serveSEO))
	mux.Handle("POST "+routepath.SEO, form(editor, h.handleSEOUpsert))
	mux.Handle("POST "+routepath.SEODelete, form(editor, h.handleSEODelete))

	mux.Handle("GET "+routepath.AB, page(admin, h.serveAB))
	mux.Handle("POST "+routepath.ABReset, form(admin, h.handleABReset))
	mux.Handle("GET "+routepath.ABStats, page(admin, h.pricing.ServeStats))

	mux.Handle("GET "+routepath.Subscribers, page(admin, h.serveSubscribers))
	mux.Handle("GET "+routepath.SubscribersExport, page(admin, h.serveSubscribersExport))
	mux.Handle("POST "+routepath.SubscribersDelete, form(admin, h.handleSubscriberDelete))

	return mux
}

// pageContext builds the layout context from the principal and the flash
// query parameters.
func (h *Handler) pageContext(r *http.Request, title string) templates.PageContext {
	principal, _ := requestctx.PrincipalFromContext(r.Context())
	query := r.URL.Query()
	return templates.PageContext{
		Title:       title,
		CurrentPath: r.URL.Path,
		Flash:       strings.TrimSpace(query.Get("flash")),
		Error:       strings.TrimSpace(query.Get("error")),
		UserEmail:   principal.Email,
		UserRole:    principal.Role,
		IsAdmin:     auth.Role(principal.Role).Allows(auth.RoleAdmin),
	}
}

// renderPage writes body inside the layout, or alone for HTMX requests.
func renderPage(w http.ResponseWriter, r *http.Request, pageCtx templates.PageContext, body templ.Component) {
	pagerender.Write(w, r, pagerender.Page{
		StatusCode: http.StatusOK,
		Layout:     templates.Layout(pageCtx),
		Fragment:   templates.Content(pageCtx, body),
	})
}

// fail answers a page request whose data could not be loaded.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	if httpx.WantsJSON(r) {
		httpx.WriteError(w, r, err)
		return
	}
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("admin page failed path=%s err=%v", r.URL.Path, err)
	}
	http.Error(w, apperrors.PublicMessage(err), status)
}

// redirectFlash finishes a mutation with a success message.
func redirectFlash(w http.ResponseWriter, r *http.Request, target, message string) {
	httpx.WriteRedirect(w, r, routepath.WithFlash(target, message))
}

// redirectError finishes a failed mutation, carrying the public message.
func redirectError(w http.ResponseWriter, r *http.Request, target string, err error) {
	if apperrors.HTTPStatus(err) >= http.StatusInternalServerError {
		log.Printf("admin action failed path=%s err=%v", r.URL.Path, err)
	}
	httpx.WriteRedirect(w, r, routepath.WithError(target, apperrors.PublicMessage(err)))
}

// parseForm reads a POST form, redirecting back to target on failure.
func parseForm(w http.ResponseWriter, r *http.Request, target string) bool {
	if err := r.ParseForm(); err != nil {
		redirectError(w, r, target, apperrors.New(apperrors.CodeInvalidArgument, "invalid form body"))
		return false
	}
	return true
}

func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.PostForm.Get(key))
}

func principal(r *http.Request) requestctx.Principal {
	p, _ := requestctx.PrincipalFromContext(r.Context())
	return p
}
