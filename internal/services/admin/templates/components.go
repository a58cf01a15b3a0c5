package templates

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/officialpathway/pathwei-website/internal/platform/pagerender"
)

// Field is one hidden form value.
type Field struct {
	Name  string
	Value string
}

// postButton renders a single-button form that posts fields to action.
func postButton(action, label, confirm string, fields ...Field) templ.Component {
	return pagerender.Func(func(m *pagerender.Markup) {
		m.Raw(`<form class="inline" method="post"`).URLAttr("action", action)
		if confirm != "" {
			m.Attr("onsubmit", "return confirm('"+confirm+"')")
		}
		m.Raw(">")
		for _, field := range fields {
			m.Raw(`<input type="hidden"`).Attr("name", field.Name).Attr("value", field.Value).Raw(">")
		}
		m.Raw(`<button type="submit">`).Text(label).Raw("</button></form>")
	})
}

// selectInput renders a select with selected preselected.
func selectInput(m *pagerender.Markup, name string, options []string, selected string) {
	m.Raw("<select").Attr("name", name).Raw(">")
	for _, option := range options {
		m.Raw("<option").Attr("value", option)
		if option == selected {
			m.Raw(" selected")
		}
		m.Raw(">").Text(option).Raw("</option>")
	}
	m.Raw("</select>")
}

// emptyRow renders a full-width placeholder table row.
func emptyRow(m *pagerender.Markup, columns int, message string) {
	m.Raw(`<tr><td class="empty"`).Attr("colspan", strconv.Itoa(columns)).Raw(">").Text(message).Raw("</td></tr>")
}
