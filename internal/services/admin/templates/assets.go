package templates

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/officialpathway/pathwei-website/internal/platform/pagerender"
	"github.com/officialpathway/pathwei-website/internal/services/admin/routepath"
)

// AssetRow is one bill in the table.
type AssetRow struct {
	ID       string
	Name     string
	Category string
	Amount   string
	DueDate  string
	Paid     bool
	Overdue  bool
	Notes    string
}

// AssetsView carries the bills table and its summary line.
type AssetsView struct {
	Assets     []AssetRow
	UnpaidOnly bool
	Category   string
	Totals     []string
	Overdue    int
}

// AssetsPage lists bills with paid toggles and a create form.
func AssetsPage(view AssetsView) templ.Component {
	return pagerender.Func(func(m *pagerender.Markup) {
		m.Raw(`<form class="filters" method="get"`).URLAttr("action", routepath.Assets).Raw(">")
		m.Raw(`<label><input type="checkbox" name="unpaid" value="1"`)
		if view.UnpaidOnly {
			m.Raw(" checked")
		}
		m.Raw(`> Unpaid only</label>`)
		m.Raw(`<label>Category <input type="text" name="category"`).Attr("value", view.Category).Raw("></label>")
		m.Raw(`<button type="submit">Filter</button></form>`)

		m.Raw(`<p class="summary">Unpaid: `)
		if len(view.Totals) == 0 {
			m.Text("nothing due")
		}
		for i, total := range view.Totals {
			if i > 0 {
				m.Raw(", ")
			}
			m.Text(total)
		}
		if view.Overdue > 0 {
			m.Raw(` <span class="overdue">`).Text(pluralize(view.Overdue, "overdue bill", "overdue bills")).Raw("</span>")
		}
		m.Raw("</p>")

		m.Raw(`<table><thead><tr><th>Name</th><th>Category</th><th>Amount</th><th>Due</th><th>Status</th><th></th></tr></thead><tbody>`)
		if len(view.Assets) == 0 {
			emptyRow(m, 6, "No bills match.")
		}
		for _, asset := range view.Assets {
			m.Raw("<tr")
			if asset.Overdue {
				m.Raw(` class="overdue"`)
			}
			m.Raw("><td>").Text(asset.Name)
			if asset.Notes != "" {
				m.Raw("<br><small>").Text(asset.Notes).Raw("</small>")
			}
			m.Raw("</td><td>").Text(asset.Category).
				Raw("</td><td>").Text(asset.Amount).
				Raw("</td><td>").Text(asset.DueDate).Raw("</td><td>")
			label, next := "Mark paid", "1"
			if asset.Paid {
				m.Text("Paid")
				label, next = "Mark unpaid", "0"
			} else {
				m.Text("Unpaid")
			}
			m.Raw("</td><td>")
			m.Component(postButton(routepath.AssetsPaid, label, "", Field{Name: "id", Value: asset.ID}, Field{Name: "paid", Value: next}))
			m.Component(postButton(routepath.AssetsDelete, "Delete", "Delete this bill?", Field{Name: "id", Value: asset.ID}))
			m.Raw("</td></tr>")
		}
		m.Raw("</tbody></table>")

		m.Raw(`<h2>Add bill</h2><form class="stack" method="post"`).URLAttr("action", routepath.AssetsCreate).Raw(">")
		m.Raw(`<label>Name <input type="text" name="name" required></label>`)
		m.Raw(`<label>Category <input type="text" name="category" placeholder="hosting"></label>`)
		m.Raw(`<label>Amount <input type="text" name="amount" required inputmode="decimal" placeholder="49.00"></label>`)
		m.Raw(`<label>Currency <input type="text" name="currency" value="USD" maxlength="3"></label>`)
		m.Raw(`<label>Due date <input type="date" name="due_date"></label>`)
		m.Raw(`<label>Notes <textarea name="notes"></textarea></label>`)
		m.Raw(`<button type="submit">Add</button></form>`)
	})
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return "1 " + singular
	}
	return strconv.Itoa(n) + " " + plural
}
