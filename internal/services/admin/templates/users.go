package templates

import (
	"github.com/a-h/templ"

	"github.com/officialpathway/pathwei-website/internal/platform/pagerender"
	"github.com/officialpathway/pathwei-website/internal/services/admin/routepath"
)

// UserRow is one account in the users table.
type UserRow struct {
	ID          string
	Email       string
	DisplayName string
	Role        string
	CreatedAt   string
	IsSelf      bool
}

// UsersView carries the users table and the create form options.
type UsersView struct {
	Users []UserRow
	Roles []string
}

// UsersPage lists accounts with role and delete controls.
func UsersPage(view UsersView) templ.Component {
	return pagerender.Func(func(m *pagerender.Markup) {
		m.Raw(`<table><thead><tr><th>Email</th><th>Name</th><th>Role</th><th>Created</th><th></th></tr></thead><tbody>`)
		if len(view.Users) == 0 {
			emptyRow(m, 5, "No users yet.")
		}
		for _, user := range view.Users {
			m.Raw("<tr><td>").Text(user.Email)
			if user.IsSelf {
				m.Raw(` <small>(you)</small>`)
			}
			m.Raw("</td><td>").Text(user.DisplayName).Raw("</td><td>")
			m.Raw(`<form class="inline" method="post"`).URLAttr("action", routepath.UsersRole).Raw(">")
			m.Raw(`<input type="hidden" name="id"`).Attr("value", user.ID).Raw(">")
			selectInput(m, "role", view.Roles, user.Role)
			m.Raw(`<button type="submit">Save</button></form></td><td>`).Text(user.CreatedAt).Raw("</td><td>")
			if !user.IsSelf {
				m.Component(postButton(routepath.UsersDelete, "Delete", "Delete this user?", Field{Name: "id", Value: user.ID}))
			}
			m.Raw("</td></tr>")
		}
		m.Raw("</tbody></table>")

		m.Raw(`<h2>Add user</h2><form class="stack" method="post"`).URLAttr("action", routepath.UsersCreate).Raw(">")
		m.Raw(`<label>Email <input type="email" name="email" required></label>`)
		m.Raw(`<label>Name <input type="text" name="display_name"></label>`)
		m.Raw(`<label>Password <input type="password" name="password" required minlength="8"></label>`)
		m.Raw(`<label>Role `)
		selectInput(m, "role", view.Roles, "editor")
		m.Raw(`</label><button type="submit">Create</button></form>`)

		m.Raw(`<h2>Reset password</h2><form class="stack" method="post"`).URLAttr("action", routepath.UsersPassword).Raw(">")
		m.Raw(`<label>User <select name="id">`)
		for _, user := range view.Users {
			m.Raw("<option").Attr("value", user.ID).Raw(">").Text(user.Email).Raw("</option>")
		}
		m.Raw(`</select></label><label>New password <input type="password" name="password" required minlength="8"></label>`)
		m.Raw(`<button type="submit">Update password</button></form>`)
	})
}
