package admin

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/officialpathway/pathwei-website/internal/services/admin/routepath"
	"github.com/officialpathway/pathwei-website/internal/services/admin/templates"
	"github.com/officialpathway/pathwei-website/internal/services/auth"
	"github.com/officialpathway/pathwei-website/internal/storage"
)

func (h *Handler) serveFeedback(w http.ResponseWriter, r *http.Request) {
	var status storage.FeedbackStatus
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		parsed, err := storage.ParseFeedbackStatus(raw)
		if err != nil {
			fail(w, r, err)
			return
		}
		status = parsed
	}
	entries, err := h.store.ListFeedback(r.Context(), status)
	if err != nil {
		fail(w, r, err)
		return
	}
	counts, err := h.store.CountFeedbackByStatus(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}

	total := 0
	for _, count := range counts {
		total += count
	}
	view := templates.FeedbackView{
		Filter:  string(status),
		CanEdit: auth.Role(principal(r).Role).Allows(auth.RoleAdmin),
		Tabs: []templates.StatusTab{
			{Label: "All", Count: formatCount(int64(total)), Active: status == ""},
		},
		Entries: make([]templates.FeedbackRow, 0, len(entries)),
	}
	for _, candidate := range storage.FeedbackStatuses {
		view.Statuses = append(view.Statuses, string(candidate))
		view.Tabs = append(view.Tabs, templates.StatusTab{
			Status: string(candidate),
			Label:  strings.ToUpper(string(candidate[:1])) + string(candidate[1:]),
			Count:  formatCount(int64(counts[candidate])),
			Active: status == candidate,
		})
	}
	for _, entry := range entries {
		rating := "-"
		if entry.Rating > 0 {
			rating = strconv.Itoa(entry.Rating) + "/5"
		}
		email := entry.Email
		if email == "" {
			email = "anonymous"
		}
		view.Entries = append(view.Entries, templates.FeedbackRow{
			ID:        entry.ID,
			Email:     email,
			Message:   entry.Message,
			Rating:    rating,
			Page:      entry.Page,
			Locale:    entry.Locale,
			Status:    string(entry.Status),
			CreatedAt: formatTime(entry.CreatedAt),
		})
	}
	renderPage(w, r, h.pageContext(r, "Feedback"), templates.FeedbackPage(view))
}

// feedbackReturn is the list the form was submitted from.
func feedbackReturn(r *http.Request) string {
	filter := formValue(r, "filter")
	if _, err := storage.ParseFeedbackStatus(filter); err != nil {
		return routepath.Feedback
	}
	return routepath.FeedbackFiltered(filter)
}

func (h *Handler) handleFeedbackStatus(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r, routepath.Feedback) {
		return
	}
	target := feedbackReturn(r)
	status, err := storage.ParseFeedbackStatus(formValue(r, "status"))
	if err != nil {
		redirectError(w, r, target, err)
		return
	}
	if err := h.store.SetFeedbackStatus(r.Context(), formValue(r, "id"), status); err != nil {
		redirectError(w, r, target, err)
		return
	}
	redirectFlash(w, r, target, "Feedback marked "+string(status)+".")
}

func (h *Handler) handleFeedbackDelete(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r, routepath.Feedback) {
		return
	}
	target := feedbackReturn(r)
	if err := h.store.DeleteFeedback(r.Context(), formValue(r, "id")); err != nil {
		redirectError(w, r, target, err)
		return
	}
	redirectFlash(w, r, target, "Feedback deleted.")
}
