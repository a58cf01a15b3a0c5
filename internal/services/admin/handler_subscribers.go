package admin

import (
	"bytes"
	"log"
	"net/http"
	"strconv"

	"github.com/officialpathway/pathwei-website/internal/services/admin/routepath"
	"github.com/officialpathway/pathwei-website/internal/services/admin/templates"
)

func (h *Handler) serveSubscribers(w http.ResponseWriter, r *http.Request) {
	subscribers, err := h.newsletter.List(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	view := templates.SubscribersView{
		Total:       formatCount(int64(len(subscribers))),
		Subscribers: make([]templates.SubscriberRow, 0, len(subscribers)),
	}
	// Newest first.
	for i := len(subscribers) - 1; i >= 0; i-- {
		sub := subscribers[i]
		view.Subscribers = append(view.Subscribers, templates.SubscriberRow{
			Email:        sub.Email,
			Source:       sub.Source,
			Locale:       sub.Locale,
			SubscribedAt: formatTime(sub.SubscribedAt),
		})
	}
	renderPage(w, r, h.pageContext(r, "Subscribers"), templates.SubscribersPage(view))
}

func (h *Handler) serveSubscribersExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.newsletter.ExportCSV(r.Context(), &buf); err != nil {
		fail(w, r, err)
		return
	}
	filename := "subscribers-" + h.now().UTC().Format("20060102") + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}

func (h *Handler) handleSubscriberDelete(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r, routepath.Subscribers) {
		return
	}
	email := formValue(r, "email")
	if err := h.newsletter.Unsubscribe(r.Context(), email); err != nil {
		redirectError(w, r, routepath.Subscribers, err)
		return
	}
	log.Printf("newsletter subscriber removed by=%s", principal(r).UserID)
	redirectFlash(w, r, routepath.Subscribers, "Removed "+email+".")
}
