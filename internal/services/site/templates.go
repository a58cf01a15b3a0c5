package site

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/officialpathway/pathwei-website/internal/platform/pagerender"
)

// PageMeta is the head metadata of a page.
type PageMeta struct {
	Title       string
	Description string
	Keywords    string
	OGImage     string
	Canonical   string
}

// layoutView carries everything the shared page shell needs.
type layoutView struct {
	Meta    PageMeta
	Lang    string
	Active  string
	Company string
	Product string
}

var navItems = []struct {
	Path  string
	Label string
}{
	{pathHome, "Home"},
	{pathStory, "Story"},
	{pathTeam, "Team"},
	{pathPricing, "Pricing"},
}

func layout(view layoutView) templ.Component {
	return pagerender.Func(func(m *pagerender.Markup) {
		m.Raw("<!doctype html><html").Attr("lang", view.Lang).Raw("><head>")
		m.Raw(`<meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		m.Raw("<title>").Text(view.Meta.Title).Raw("</title>")
		if view.Meta.Description != "" {
			m.Raw(`<meta name="description"`).Attr("content", view.Meta.Description).Raw(">")
			m.Raw(`<meta property="og:description"`).Attr("content", view.Meta.Description).Raw(">")
		}
		if view.Meta.Keywords != "" {
			m.Raw(`<meta name="keywords"`).Attr("content", view.Meta.Keywords).Raw(">")
		}
		m.Raw(`<meta property="og:title"`).Attr("content", view.Meta.Title).Raw(">")
		m.Raw(`<meta property="og:site_name"`).Attr("content", view.Product).Raw(">")
		if view.Meta.OGImage != "" {
			m.Raw(`<meta property="og:image"`).Attr("content", view.Meta.OGImage).Raw(">")
		}
		if view.Meta.Canonical != "" {
			m.Raw(`<link rel="canonical"`).URLAttr("href", view.Meta.Canonical).Raw(">")
		}
		m.Raw(`<link rel="stylesheet" href="/static/site.css"></head><body>`)

		m.Raw(`<header class="site"><a href="/"><strong>`).Text(view.Product).Raw("</strong></a><nav>")
		for _, item := range navItems {
			m.Raw("<a").URLAttr("href", item.Path)
			if item.Path == view.Active {
				m.Raw(` aria-current="page"`)
			}
			m.Raw(">").Text(item.Label).Raw("</a>")
		}
		m.Raw(`</nav><nav aria-label="Language"><a href="?lang=en">EN</a><a href="?lang=es">ES</a></nav></header>`)

		m.Raw("<main>").Children().Raw("</main>")

		m.Raw(`<footer class="site"><span>&copy; `).Text(view.Company).Raw("</span>")
		m.Component(newsletterForm("footer"))
		m.Raw(`</footer><script src="/static/site.js" defer></script></body></html>`)
	})
}

func newsletterForm(source string) templ.Component {
	return pagerender.Func(func(m *pagerender.Markup) {
		m.Raw(`<form class="inline" method="post" data-json-form data-success="Thanks, you are on the list."`).
			URLAttr("action", pathNewsletter).Raw(">")
		m.Raw(`<input type="email" name="email" required placeholder="you@example.com" aria-label="Email">`)
		m.Raw(`<input type="hidden" name="source"`).Attr("value", source).Raw(">")
		m.Raw(`<button type="submit">Join the newsletter</button><p class="notice" role="status"></p></form>`)
	})
}

// homeView is the landing page.
type homeView struct {
	Content        Content
	Price          string
	FormattedPrice string
}

func homePage(view homeView) templ.Component {
	return pagerender.Func(func(m *pagerender.Markup) {
		c := view.Content
		m.Raw(`<section class="hero"><h1>`).Text(c.Hero.Title).Raw("</h1><p>").Text(c.Hero.Subtitle).Raw("</p>")
		m.Component(newsletterForm("hero"))
		m.Raw("</section>")

		m.Raw(`<section class="features">`)
		for _, feature := range c.Features {
			m.Raw(`<article class="card"><h2>`).Text(feature.Title).Raw("</h2><p>").Text(feature.Body).Raw("</p></article>")
		}
		m.Raw("</section>")

		m.Raw(`<section class="card" id="pricing-teaser"><h2>`).Text(c.Pricing.Plan).Raw("</h2>")
		m.Raw(`<p class="price">`).Text(view.FormattedPrice).Raw(" <small>/ ").Text(c.Pricing.Period).Raw("</small></p>")
		m.Raw(`<a data-ab-track="click"`).Attr("data-price", view.Price).URLAttr("href", pathPricing).Raw(">").
			Text(c.Hero.CTA).Raw("</a></section>")
	})
}

func storyPage(story Story) templ.Component {
	return pagerender.Func(func(m *pagerender.Markup) {
		m.Raw("<h1>").Text(story.Title).Raw("</h1>")
		for i, chapter := range story.Chapters {
			m.Raw(`<section class="chapter"`).Attr("id", "chapter-"+strconv.Itoa(i+1)).Raw("><h2>").
				Text(chapter.Heading).Raw("</h2><p>").Text(chapter.Body).Raw("</p></section>")
		}
	})
}

func teamPage(team Team) templ.Component {
	return pagerender.Func(func(m *pagerender.Markup) {
		m.Raw("<h1>").Text(team.Title).Raw(`</h1><section class="team">`)
		for _, member := range team.Members {
			m.Raw(`<article class="card"><h2>`).Text(member.Name).Raw("</h2><p><em>").Text(member.Role).Raw("</em></p><p>").
				Text(member.Bio).Raw("</p></article>")
		}
		m.Raw("</section>")
	})
}

// pricingView is the pricing page.
type pricingView struct {
	Pricing        PricingContent
	Price          string
	FormattedPrice string
}

func pricingPage(view pricingView) templ.Component {
	return pagerender.Func(func(m *pagerender.Markup) {
		p := view.Pricing
		m.Raw("<h1>").Text(p.Title).Raw(`</h1><section class="card"><h2>`).Text(p.Plan).Raw("</h2>")
		m.Raw(`<p class="price"`).Attr("data-price", view.Price).Raw(">").Text(view.FormattedPrice).
			Raw(" <small>/ ").Text(p.Period).Raw("</small></p><ul>")
		for _, perk := range p.Perks {
			m.Raw("<li>").Text(perk).Raw("</li>")
		}
		m.Raw("</ul>")
		m.Raw(`<form class="inline" method="post" data-json-form data-success="Welcome aboard! Check your inbox."`).
			URLAttr("action", pathNewsletter).Raw(">")
		m.Raw(`<input type="email" name="email" required placeholder="you@example.com" aria-label="Email">`)
		m.Raw(`<input type="hidden" name="source" value="pricing">`)
		m.Raw(`<button type="submit" data-ab-track="conversion"`).Attr("data-price", view.Price).Raw(">").
			Text(p.CTA).Raw(`</button><p class="notice" role="status"></p></form></section>`)

		m.Raw(`<section class="card"><h2>Tell us what you think</h2>`)
		m.Raw(`<form method="post" data-json-form data-success="Thank you for the feedback."`).URLAttr("action", pathFeedback).Raw(">")
		m.Raw(`<input type="hidden" name="page" value="/pricing">`)
		m.Raw(`<input type="email" name="email" placeholder="Email (optional)" aria-label="Email">`)
		m.Raw(`<textarea name="message" required maxlength="2000" aria-label="Message"></textarea>`)
		m.Raw(`<select name="rating" aria-label="Rating"><option value="0">No rating</option>`)
		for i := 1; i <= 5; i++ {
			n := strconv.Itoa(i)
			m.Raw("<option").Attr("value", n).Raw(">").Text(n).Raw("</option>")
		}
		m.Raw(`</select><button type="submit">Send</button><p class="notice" role="status"></p></form></section>`)
	})
}

func notFoundPage() templ.Component {
	return pagerender.Func(func(m *pagerender.Markup) {
		m.Raw(`<h1>Page not found</h1><p>The page you are looking for does not exist. <a href="/">Go home</a>.</p>`)
	})
}
