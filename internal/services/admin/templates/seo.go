package templates

import (
	"github.com/a-h/templ"

	"github.com/officialpathway/pathwei-website/internal/platform/pagerender"
	"github.com/officialpathway/pathwei-website/internal/services/admin/routepath"
)

// SEORow is the stored metadata of one page.
type SEORow struct {
	Path        string
	Title       string
	Description string
	Keywords    string
	OGImage     string
	UpdatedAt   string
}

// SEOView carries the metadata list and the entry being edited.
type SEOView struct {
	Entries []SEORow
	Edit    SEORow
}

// SEOPage lists page metadata with an upsert form.
func SEOPage(view SEOView) templ.Component {
	return pagerender.Func(func(m *pagerender.Markup) {
		m.Raw(`<table><thead><tr><th>Path</th><th>Title</th><th>Description</th><th>Updated</th><th></th></tr></thead><tbody>`)
		if len(view.Entries) == 0 {
			emptyRow(m, 5, "No page metadata stored. Pages use their default copy.")
		}
		for _, entry := range view.Entries {
			m.Raw("<tr><td><code>").Text(entry.Path).
				Raw("</code></td><td>").Text(entry.Title).
				Raw("</td><td>").Text(entry.Description).
				Raw("</td><td>").Text(entry.UpdatedAt).Raw("</td><td>")
			m.Raw("<a").URLAttr("href", routepath.SEOEdit(entry.Path)).Raw(">Edit</a> ")
			m.Component(postButton(routepath.SEODelete, "Delete", "Delete metadata for this page?", Field{Name: "path", Value: entry.Path}))
			m.Raw("</td></tr>")
		}
		m.Raw("</tbody></table>")

		m.Raw(`<h2>Edit page metadata</h2><form class="stack" method="post"`).URLAttr("action", routepath.SEO).Raw(">")
		m.Raw(`<label>Path <input type="text" name="path" required placeholder="/pricing"`).Attr("value", view.Edit.Path).Raw("></label>")
		m.Raw(`<label>Title <input type="text" name="title" maxlength="70"`).Attr("value", view.Edit.Title).Raw("></label>")
		m.Raw(`<label>Description <textarea name="description" maxlength="160">`).Text(view.Edit.Description).Raw("</textarea></label>")
		m.Raw(`<label>Keywords <input type="text" name="keywords"`).Attr("value", view.Edit.Keywords).Raw("></label>")
		m.Raw(`<label>Social image <input type="text" name="og_image" placeholder="/static/og-pathway.svg"`).Attr("value", view.Edit.OGImage).Raw("></label>")
		m.Raw(`<button type="submit">Save</button></form>`)
	})
}
