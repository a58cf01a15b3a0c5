package templates

import (
	"github.com/a-h/templ"

	"github.com/officialpathway/pathwei-website/internal/platform/pagerender"
	"github.com/officialpathway/pathwei-website/internal/services/admin/routepath"
)

// SubscriberRow is one newsletter address.
type SubscriberRow struct {
	Email        string
	Source       string
	Locale       string
	SubscribedAt string
}

// SubscribersView carries the newsletter list.
type SubscribersView struct {
	Total       string
	Subscribers []SubscriberRow
}

// SubscribersPage lists newsletter subscribers.
func SubscribersPage(view SubscribersView) templ.Component {
	return pagerender.Func(func(m *pagerender.Markup) {
		m.Raw(`<p class="summary">`).Text(view.Total).Raw(` subscribers. <a`).
			URLAttr("href", routepath.SubscribersExport).Raw(` download>Export CSV</a></p>`)
		m.Raw(`<table><thead><tr><th>Email</th><th>Source</th><th>Locale</th><th>Subscribed</th><th></th></tr></thead><tbody>`)
		if len(view.Subscribers) == 0 {
			emptyRow(m, 5, "No subscribers yet.")
		}
		for _, sub := range view.Subscribers {
			m.Raw("<tr><td>").Text(sub.Email).
				Raw("</td><td>").Text(sub.Source).
				Raw("</td><td>").Text(sub.Locale).
				Raw("</td><td>").Text(sub.SubscribedAt).Raw("</td><td>")
			m.Component(postButton(routepath.SubscribersDelete, "Remove", "Remove this subscriber?", Field{Name: "email", Value: sub.Email}))
			m.Raw("</td></tr>")
		}
		m.Raw("</tbody></table>")
	})
}
