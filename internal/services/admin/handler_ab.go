package admin

import (
	"log"
	"net/http"

	"github.com/officialpathway/pathwei-website/internal/services/admin/routepath"
	"github.com/officialpathway/pathwei-website/internal/services/admin/templates"
	"github.com/officialpathway/pathwei-website/internal/services/pricing"
)

func (h *Handler) serveAB(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Snapshot(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	report := pricing.BuildReport(stats)
	view := templates.ABView{
		TotalClicks:      formatCount(report.TotalClicks),
		TotalConversions: formatCount(report.TotalConversions),
		Leader:           report.Leader,
		Rows:             make([]templates.PriceRow, 0, len(report.Rows)),
	}
	for _, row := range report.Rows {
		view.Rows = append(view.Rows, templates.PriceRow{
			Price:          row.Price,
			Clicks:         formatCount(row.Clicks),
			Conversions:    formatCount(row.Conversions),
			ConversionRate: formatRate(row.ConversionRate),
			LastUpdated:    formatTime(row.LastUpdated),
			Leader:         row.Price == report.Leader,
		})
	}
	renderPage(w, r, h.pageContext(r, "Price test"), templates.ABPage(view))
}

func (h *Handler) handleABReset(w http.ResponseWriter, r *http.Request) {
	if _, err := h.stats.Reset(r.Context()); err != nil {
		redirectError(w, r, routepath.AB, err)
		return
	}
	log.Printf("price experiment reset by=%s", principal(r).UserID)
	redirectFlash(w, r, routepath.AB, "Counters reset.")
}
