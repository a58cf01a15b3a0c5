package admin

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/officialpathway/pathwei-website/internal/services/admin/routepath"
	"github.com/officialpathway/pathwei-website/internal/services/admin/templates"
	"github.com/officialpathway/pathwei-website/internal/services/pricing"
	"github.com/officialpathway/pathwei-website/internal/storage"
)

const recentSessions = 5

// dashboardData is everything the dashboard loads, fetched concurrently.
type dashboardData struct {
	users       int
	subscribers int
	feedback    map[storage.FeedbackStatus]int
	seo         int
	assets      storage.AssetSummary
	report      pricing.Report
	sessions    []storage.UserSession
	emails      map[string]string
}

func (h *Handler) loadDashboard(ctx context.Context, isAdmin bool) (dashboardData, error) {
	var data dashboardData
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		counts, err := h.store.CountFeedbackByStatus(ctx)
		data.feedback = counts
		return err
	})
	group.Go(func() error {
		entries, err := h.store.ListSEO(ctx)
		data.seo = len(entries)
		return err
	})
	if isAdmin {
		group.Go(func() error {
			users, err := h.store.ListUsers(ctx)
			data.users = len(users)
			data.emails = make(map[string]string, len(users))
			for _, user := range users {
				data.emails[user.ID] = user.Email
			}
			return err
		})
		group.Go(func() error {
			count, err := h.newsletter.Count(ctx)
			data.subscribers = count
			return err
		})
		group.Go(func() error {
			summary, err := h.store.SummarizeAssets(ctx, h.now())
			data.assets = summary
			return err
		})
		group.Go(func() error {
			stats, err := h.stats.Snapshot(ctx)
			data.report = pricing.BuildReport(stats)
			return err
		})
		group.Go(func() error {
			sessions, err := h.store.ListUserSessions(ctx, recentSessions)
			data.sessions = sessions
			return err
		})
	}
	if err := group.Wait(); err != nil {
		return dashboardData{}, err
	}
	return data, nil
}

func (h *Handler) serveDashboard(w http.ResponseWriter, r *http.Request) {
	pageCtx := h.pageContext(r, "Dashboard")
	data, err := h.loadDashboard(r.Context(), pageCtx.IsAdmin)
	if err != nil {
		fail(w, r, err)
		return
	}

	var view templates.DashboardView
	if pageCtx.IsAdmin {
		view.Cards = append(view.Cards,
			templates.StatCard{Label: "Users", Value: formatCount(int64(data.users)), URL: routepath.Users},
			templates.StatCard{Label: "Subscribers", Value: formatCount(int64(data.subscribers)), URL: routepath.Subscribers},
			templates.StatCard{
				Label: "Unpaid bills",
				Value: formatCount(int64(data.assets.UnpaidCount)),
				Hint:  unpaidHint(data.assets),
				URL:   routepath.Assets + "?unpaid=1",
			},
			templates.StatCard{
				Label: "Price test clicks",
				Value: formatCount(data.report.TotalClicks),
				Hint:  leaderHint(data.report),
				URL:   routepath.AB,
			},
		)
	}
	view.Cards = append(view.Cards,
		templates.StatCard{
			Label: "New feedback",
			Value: formatCount(int64(data.feedback[storage.FeedbackNew])),
			URL:   routepath.FeedbackFiltered(string(storage.FeedbackNew)),
		},
		templates.StatCard{Label: "Pages with SEO", Value: formatCount(int64(data.seo)), URL: routepath.SEO},
	)
	view.Sessions = sessionRows(data.sessions, data.emails)
	renderPage(w, r, pageCtx, templates.DashboardPage(view))
}

func (h *Handler) serveSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.ListUserSessions(r.Context(), 100)
	if err != nil {
		fail(w, r, err)
		return
	}
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	emails := make(map[string]string, len(users))
	for _, user := range users {
		emails[user.ID] = user.Email
	}
	renderPage(w, r, h.pageContext(r, "Sign-ins"), templates.SessionsPage(sessionRows(sessions, emails)))
}

func sessionRows(sessions []storage.UserSession, emails map[string]string) []templates.SessionRow {
	rows := make([]templates.SessionRow, 0, len(sessions))
	for _, session := range sessions {
		email := emails[session.UserID]
		if email == "" {
			email = session.UserID + " (deleted)"
		}
		rows = append(rows, templates.SessionRow{Email: email, CreatedAt: formatTime(session.CreatedAt)})
	}
	return rows
}

func unpaidHint(summary storage.AssetSummary) string {
	totals := unpaidTotals(summary)
	hint := strings.Join(totals, ", ")
	if summary.OverdueCount > 0 {
		if hint != "" {
			hint += "; "
		}
		hint += formatCount(int64(summary.OverdueCount)) + " overdue"
	}
	return hint
}

// unpaidTotals formats per-currency totals in currency order.
func unpaidTotals(summary storage.AssetSummary) []string {
	codes := make([]string, 0, len(summary.UnpaidByCurrency))
	for code := range summary.UnpaidByCurrency {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	totals := make([]string, 0, len(codes))
	for _, code := range codes {
		totals = append(totals, formatMoney(summary.UnpaidByCurrency[code], code))
	}
	return totals
}

func leaderHint(report pricing.Report) string {
	if report.Leader == "" {
		return "no clicks yet"
	}
	return "leading: " + report.Leader
}
