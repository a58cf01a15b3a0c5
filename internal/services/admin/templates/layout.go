// Package templates renders the back-office pages.
package templates

import (
	"strings"

	"github.com/a-h/templ"

	"github.com/officialpathway/pathwei-website/internal/platform/pagerender"
	"github.com/officialpathway/pathwei-website/internal/services/admin/routepath"
)

// AppName is shown in the page title and header.
const AppName = "Pathway Admin"

// PageContext provides shared layout context for admin pages.
type PageContext struct {
	Title       string
	CurrentPath string
	Flash       string
	Error       string
	UserEmail   string
	UserRole    string
	IsAdmin     bool
}

type navItem struct {
	Path      string
	Label     string
	AdminOnly bool
}

var navItems = []navItem{
	{Path: routepath.Root, Label: "Dashboard"},
	{Path: routepath.Users, Label: "Users", AdminOnly: true},
	{Path: routepath.Assets, Label: "Bills", AdminOnly: true},
	{Path: routepath.Email, Label: "Email", AdminOnly: true},
	{Path: routepath.Subscribers, Label: "Subscribers", AdminOnly: true},
	{Path: routepath.AB, Label: "Price test", AdminOnly: true},
	{Path: routepath.Feedback, Label: "Feedback"},
	{Path: routepath.SEO, Label: "SEO"},
}

// PageTitle formats a document title.
func PageTitle(title string) string {
	if title == "" {
		return AppName
	}
	return title + " | " + AppName
}

// Layout is the full-page shell around Content.
func Layout(page PageContext) templ.Component {
	return pagerender.Func(func(m *pagerender.Markup) {
		m.Raw(`<!doctype html><html lang="en"><head><meta charset="utf-8">`)
		m.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1"><meta name="robots" content="noindex">`)
		m.Raw("<title>").Text(PageTitle(page.Title)).Raw("</title>")
		m.Raw(`<link rel="stylesheet"`).URLAttr("href", routepath.StaticPrefix+"admin.css").Raw(">")
		m.Raw(`<script src="https://unpkg.com/htmx.org@2.0.4" defer></script></head><body>`)
		m.Raw(`<aside class="sidebar"><a class="brand"`).URLAttr("href", routepath.Root).Raw(">").Text(AppName).Raw("</a><nav>")
		for _, item := range navItems {
			if item.AdminOnly && !page.IsAdmin {
				continue
			}
			m.Raw("<a").URLAttr("href", item.Path).
				Attr("hx-get", item.Path).
				Raw(` hx-target="#content" hx-push-url="true"`)
			if navActive(item.Path, page.CurrentPath) {
				m.Raw(` aria-current="page"`)
			}
			m.Raw(">").Text(item.Label).Raw("</a>")
		}
		m.Raw("</nav>")
		if page.UserEmail != "" {
			m.Raw(`<div class="who"><span>`).Text(page.UserEmail).Raw(`</span> <small>`).Text(page.UserRole).Raw("</small>")
			m.Raw(`<form method="post"`).URLAttr("action", routepath.Logout).Raw(`><button type="submit">Sign out</button></form></div>`)
		}
		m.Raw(`</aside><main id="content">`).Children().Raw("</main></body></html>")
	})
}

func navActive(itemPath, currentPath string) bool {
	if itemPath == routepath.Root {
		return currentPath == routepath.Root
	}
	return currentPath == itemPath || strings.HasPrefix(currentPath, itemPath+"/")
}

// Content renders the flash banners followed by body. It is the fragment
// returned to HTMX requests.
func Content(page PageContext, body templ.Component) templ.Component {
	return pagerender.Func(func(m *pagerender.Markup) {
		if page.Title != "" {
			m.Raw("<h1>").Text(page.Title).Raw("</h1>")
		}
		if page.Flash != "" {
			m.Raw(`<p class="flash" role="status">`).Text(page.Flash).Raw("</p>")
		}
		if page.Error != "" {
			m.Raw(`<p class="flash error" role="alert">`).Text(page.Error).Raw("</p>")
		}
		m.Component(body)
	})
}

// LoginView carries the sign-in form state.
type LoginView struct {
	Email string
	Next  string
	Error string
}

// LoginPage is a standalone page without the navigation shell.
func LoginPage(view LoginView) templ.Component {
	return pagerender.Func(func(m *pagerender.Markup) {
		m.Raw(`<!doctype html><html lang="en"><head><meta charset="utf-8">`)
		m.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1"><meta name="robots" content="noindex">`)
		m.Raw("<title>").Text(PageTitle("Sign in")).Raw("</title>")
		m.Raw(`<link rel="stylesheet"`).URLAttr("href", routepath.StaticPrefix+"admin.css").Raw(`></head><body class="login">`)
		m.Raw(`<form class="card" method="post"`).URLAttr("action", routepath.Login).Raw(">")
		m.Raw("<h1>").Text(AppName).Raw("</h1>")
		if view.Error != "" {
			m.Raw(`<p class="flash error" role="alert">`).Text(view.Error).Raw("</p>")
		}
		m.Raw(`<label>Email <input type="email" name="email" required autocomplete="username"`).Attr("value", view.Email).Raw("></label>")
		m.Raw(`<label>Password <input type="password" name="password" required autocomplete="current-password"></label>`)
		m.Raw(`<input type="hidden" name="next"`).Attr("value", view.Next).Raw(">")
		m.Raw(`<button type="submit">Sign in</button></form></body></html>`)
	})
}
