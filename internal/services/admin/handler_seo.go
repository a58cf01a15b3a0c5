package admin

import (
	"log"
	"net/http"
	"strings"

	apperrors "github.com/officialpathway/pathwei-website/internal/platform/errors"
	"github.com/officialpathway/pathwei-website/internal/services/admin/routepath"
	"github.com/officialpathway/pathwei-website/internal/services/admin/templates"
	"github.com/officialpathway/pathwei-website/internal/storage"
)

func seoRow(entry storage.SEOEntry) templates.SEORow {
	return templates.SEORow{
		Path:        entry.Path,
		Title:       entry.Title,
		Description: entry.Description,
		Keywords:    entry.Keywords,
		OGImage:     entry.OGImage,
		UpdatedAt:   formatTime(entry.UpdatedAt),
	}
}

func (h *Handler) serveSEO(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.ListSEO(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	view := templates.SEOView{Entries: make([]templates.SEORow, 0, len(entries))}
	for _, entry := range entries {
		view.Entries = append(view.Entries, seoRow(entry))
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("path")); raw != "" {
		entry, err := h.store.GetSEO(r.Context(), raw)
		switch {
		case err == nil:
			view.Edit = seoRow(entry)
		case apperrors.IsCode(err, apperrors.CodeNotFound):
			view.Edit = templates.SEORow{Path: raw}
		case apperrors.IsCode(err, apperrors.CodeSEOPathInvalid):
		default:
			fail(w, r, err)
			return
		}
	}
	renderPage(w, r, h.pageContext(r, "SEO"), templates.SEOPage(view))
}

func (h *Handler) handleSEOUpsert(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r, routepath.SEO) {
		return
	}
	path, err := storage.NormalizeSEOPath(formValue(r, "path"))
	if err != nil {
		redirectError(w, r, routepath.SEO, err)
		return
	}
	entry := storage.SEOEntry{
		Path:        path,
		Title:       formValue(r, "title"),
		Description: formValue(r, "description"),
		Keywords:    formValue(r, "keywords"),
		OGImage:     formValue(r, "og_image"),
		UpdatedAt:   h.now().UTC(),
	}
	if err := h.store.UpsertSEO(r.Context(), entry); err != nil {
		redirectError(w, r, routepath.SEOEdit(path), err)
		return
	}
	log.Printf("admin seo saved path=%s by=%s", path, principal(r).UserID)
	redirectFlash(w, r, routepath.SEOEdit(path), "Saved metadata for "+path+".")
}

func (h *Handler) handleSEODelete(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r, routepath.SEO) {
		return
	}
	path := formValue(r, "path")
	if err := h.store.DeleteSEO(r.Context(), path); err != nil {
		redirectError(w, r, routepath.SEO, err)
		return
	}
	log.Printf("admin seo deleted path=%s by=%s", path, principal(r).UserID)
	redirectFlash(w, r, routepath.SEO, "Deleted metadata for "+path+".")
}
