package templates

import (
	"github.com/a-h/templ"

	"github.com/officialpathway/pathwei-website/internal/platform/pagerender"
	"github.com/officialpathway/pathwei-website/internal/services/admin/routepath"
)

// AudienceOption is one selectable recipient group.
type AudienceOption struct {
	Value string
	Label string
	Count string
}

// CampaignRow is one past send.
type CampaignRow struct {
	Subject    string
	Audience   string
	Recipients string
	Sent       string
	Failed     string
	CreatedBy  string
	CreatedAt  string
}

// EmailView carries the compose form and the send history.
type EmailView struct {
	Audiences []AudienceOption
	Campaigns []CampaignRow
}

// EmailPage renders the bulk email composer.
func EmailPage(view EmailView) templ.Component {
	return pagerender.Func(func(m *pagerender.Markup) {
		m.Raw(`<form class="stack" method="post"`).URLAttr("action", routepath.Email).Raw(">")
		m.Raw(`<label>Audience <select name="audience">`)
		for _, option := range view.Audiences {
			m.Raw("<option").Attr("value", option.Value).Raw(">").Text(option.Label + " (" + option.Count + ")").Raw("</option>")
		}
		m.Raw(`</select></label>`)
		m.Raw(`<label>Subject <input type="text" name="subject" required maxlength="200"></label>`)
		m.Raw(`<label>Body (Markdown) <textarea name="body" rows="12" required`).
			Attr("hx-post", routepath.EmailPreview).
			Raw(` hx-trigger="keyup changed delay:500ms" hx-target="#email-preview"></textarea></label>`)
		m.Raw(`<button type="submit" onclick="return confirm('Send this email now?')">Send</button></form>`)
		m.Raw(`<h2>Preview</h2><div id="email-preview" class="preview"></div>`)

		m.Raw(`<h2>History</h2><table><thead><tr><th>Subject</th><th>Audience</th><th>Recipients</th><th>Sent</th><th>Failed</th><th>By</th><th>When</th></tr></thead><tbody>`)
		if len(view.Campaigns) == 0 {
			emptyRow(m, 7, "Nothing sent yet.")
		}
		for _, campaign := range view.Campaigns {
			m.Raw("<tr><td>").Text(campaign.Subject).
				Raw("</td><td>").Text(campaign.Audience).
				Raw("</td><td>").Text(campaign.Recipients).
				Raw("</td><td>").Text(campaign.Sent).
				Raw("</td><td>").Text(campaign.Failed).
				Raw("</td><td>").Text(campaign.CreatedBy).
				Raw("</td><td>").Text(campaign.CreatedAt).
				Raw("</td></tr>")
		}
		m.Raw("</tbody></table>")
	})
}

// EmailPreview renders already sanitized HTML produced from Markdown.
func EmailPreview(html string) templ.Component {
	return pagerender.Func(func(m *pagerender.Markup) {
		m.Raw(html)
	})
}
