package templates

import (
	"github.com/a-h/templ"

	"github.com/officialpathway/pathwei-website/internal/platform/pagerender"
	"github.com/officialpathway/pathwei-website/internal/services/admin/routepath"
)

// FeedbackRow is one visitor message.
type FeedbackRow struct {
	ID        string
	Email     string
	Message   string
	Rating    string
	Page      string
	Locale    string
	Status    string
	CreatedAt string
}

// StatusTab is one status filter with its count.
type StatusTab struct {
	Status string
	Label  string
	Count  string
	Active bool
}

// FeedbackView carries the feedback list and filter tabs.
type FeedbackView struct {
	Tabs     []StatusTab
	Entries  []FeedbackRow
	Statuses []string
	Filter   string
	CanEdit  bool
}

// FeedbackPage lists feedback, filtered by status.
func FeedbackPage(view FeedbackView) templ.Component {
	return pagerender.Func(func(m *pagerender.Markup) {
		m.Raw(`<nav class="tabs">`)
		for _, tab := range view.Tabs {
			m.Raw("<a").URLAttr("href", routepath.FeedbackFiltered(tab.Status))
			if tab.Active {
				m.Raw(` aria-current="page"`)
			}
			m.Raw(">").Text(tab.Label)
			if tab.Count != "" {
				m.Raw(" <small>").Text(tab.Count).Raw("</small>")
			}
			m.Raw("</a>")
		}
		m.Raw("</nav>")

		columns := 6
		if view.CanEdit {
			columns = 7
		}
		m.Raw(`<table><thead><tr><th>Message</th><th>Rating</th><th>From</th><th>Page</th><th>Status</th><th>Received</th>`)
		if view.CanEdit {
			m.Raw("<th></th>")
		}
		m.Raw("</tr></thead><tbody>")
		if len(view.Entries) == 0 {
			emptyRow(m, columns, "No feedback here.")
		}
		for _, entry := range view.Entries {
			m.Raw(`<tr><td class="message">`).Text(entry.Message).
				Raw("</td><td>").Text(entry.Rating).
				Raw("</td><td>").Text(entry.Email).
				Raw("</td><td>").Text(entry.Page)
			if entry.Locale != "" {
				m.Raw(" <small>").Text(entry.Locale).Raw("</small>")
			}
			m.Raw("</td><td>").Text(entry.Status).
				Raw("</td><td>").Text(entry.CreatedAt).Raw("</td>")
			if view.CanEdit {
				m.Raw("<td>")
				m.Raw(`<form class="inline" method="post"`).URLAttr("action", routepath.FeedbackStatus).Raw(">")
				m.Raw(`<input type="hidden" name="id"`).Attr("value", entry.ID).Raw(">")
				m.Raw(`<input type="hidden" name="filter"`).Attr("value", view.Filter).Raw(">")
				selectInput(m, "status", view.Statuses, entry.Status)
				m.Raw(`<button type="submit">Update</button></form>`)
				m.Component(postButton(routepath.FeedbackDelete, "Delete", "Delete this feedback?",
					Field{Name: "id", Value: entry.ID}, Field{Name: "filter", Value: view.Filter}))
				m.Raw("</td>")
			}
			m.Raw("</tr>")
		}
		m.Raw("</tbody></table>")
	})
}
