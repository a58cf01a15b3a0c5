package templates

import (
	"github.com/a-h/templ"

	"github.com/officialpathway/pathwei-website/internal/platform/pagerender"
	"github.com/officialpathway/pathwei-website/internal/services/admin/routepath"
)

// PriceRow is one price in the experiment report.
type PriceRow struct {
	Price          string
	Clicks         string
	Conversions    string
	ConversionRate string
	LastUpdated    string
	Leader         bool
}

// ABView carries the experiment report.
type ABView struct {
	Rows             []PriceRow
	TotalClicks      string
	TotalConversions string
	Leader           string
}

// ABPage renders the price experiment report and reset control.
func ABPage(view ABView) templ.Component {
	return pagerender.Func(func(m *pagerender.Markup) {
		m.Raw(`<table><thead><tr><th>Price</th><th>Clicks</th><th>Conversions</th><th>Rate</th><th>Last event</th></tr></thead><tbody>`)
		for _, row := range view.Rows {
			m.Raw("<tr")
			if row.Leader {
				m.Raw(` class="leader"`)
			}
			m.Raw("><td>").Text(row.Price).
				Raw("</td><td>").Text(row.Clicks).
				Raw("</td><td>").Text(row.Conversions).
				Raw("</td><td>").Text(row.ConversionRate).
				Raw("</td><td>").Text(row.LastUpdated).
				Raw("</td></tr>")
		}
		m.Raw("</tbody><tfoot><tr><th>Total</th><td>").Text(view.TotalClicks).
			Raw("</td><td>").Text(view.TotalConversions).
			Raw("</td><td colspan=\"2\"></td></tr></tfoot></table>")
		if view.Leader != "" {
			m.Raw(`<p>Best converting price: <strong>`).Text(view.Leader).Raw("</strong></p>")
		} else {
			m.Raw(`<p>No clicks recorded yet.</p>`)
		}
		m.Raw(`<p><a`).URLAttr("href", routepath.ABStats).Raw(`>Raw JSON</a></p>`)
		m.Component(postButton(routepath.ABReset, "Reset counters", "Reset all experiment counters?"))
	})
}
