package templates

import (
	"github.com/a-h/templ"

	"github.com/officialpathway/pathwei-website/internal/platform/pagerender"
	"github.com/officialpathway/pathwei-website/internal/services/admin/routepath"
)

// StatCard is one dashboard tile.
type StatCard struct {
	Label string
	Value string
	Hint  string
	URL   string
}

// DashboardView lists the dashboard tiles and recent activity.
type DashboardView struct {
	Cards    []StatCard
	Sessions []SessionRow
}

// SessionRow is one recent sign-in.
type SessionRow struct {
	Email     string
	CreatedAt string
}

// DashboardPage renders the overview tiles.
func DashboardPage(view DashboardView) templ.Component {
	return pagerender.Func(func(m *pagerender.Markup) {
		m.Raw(`<section class="cards">`)
		for _, card := range view.Cards {
			m.Raw(`<a class="card"`).URLAttr("href", card.URL).Raw(">")
			m.Raw(`<span class="label">`).Text(card.Label).Raw("</span>")
			m.Raw(`<strong class="value">`).Text(card.Value).Raw("</strong>")
			if card.Hint != "" {
				m.Raw(`<small>`).Text(card.Hint).Raw("</small>")
			}
			m.Raw("</a>")
		}
		m.Raw("</section>")
		if len(view.Sessions) == 0 {
			return
		}
		m.Raw(`<h2>Recent sign-ins</h2><table><thead><tr><th>User</th><th>When</th></tr></thead><tbody>`)
		for _, session := range view.Sessions {
			m.Raw("<tr><td>").Text(session.Email).Raw("</td><td>").Text(session.CreatedAt).Raw("</td></tr>")
		}
		m.Raw(`</tbody></table><p><a`).URLAttr("href", routepath.UsersSessions).Raw(">All sign-ins</a></p>")
	})
}

// SessionsPage lists the sign-in audit trail.
func SessionsPage(rows []SessionRow) templ.Component {
	return pagerender.Func(func(m *pagerender.Markup) {
		m.Raw(`<table><thead><tr><th>User</th><th>When</th></tr></thead><tbody>`)
		if len(rows) == 0 {
			emptyRow(m, 2, "No sign-ins recorded.")
		}
		for _, row := range rows {
			m.Raw("<tr><td>").Text(row.Email).Raw("</td><td>").Text(row.CreatedAt).Raw("</td></tr>")
		}
		m.Raw("</tbody></table>")
	})
}
