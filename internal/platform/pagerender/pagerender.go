// Package pagerender writes templ components as HTTP responses and offers
// small helpers for components assembled in Go.
package pagerender

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/a-h/templ"

	"github.com/officialpathway/pathwei-website/internal/platform/httpx"
)

// Page describes a response for both full-page and HTMX flows.
type Page struct {
	StatusCode int
	// Layout wraps Fragment for full-page requests. It reads the fragment
	// from templ.GetChildren.
	Layout   templ.Component
	Fragment templ.Component
}

// Write renders page. HTMX requests receive the fragment only.
func Write(w http.ResponseWriter, r *http.Request, page Page) {
	if w == nil {
		return
	}
	status := page.StatusCode
	if status <= 0 {
		status = http.StatusOK
	}
	fragment := page.Fragment
	if fragment == nil {
		fragment = templ.NopComponent
	}
	component := fragment
	if page.Layout != nil && !httpx.IsHTMXRequest(r) {
		component = page.Layout
	}

	ctx := templ.WithChildren(httpx.RequestContext(r), fragment)
	var buf bytes.Buffer
	if err := component.Render(ctx, &buf); err != nil {
		path := "-"
		if r != nil {
			path = r.URL.Path
		}
		log.Printf("render page failed path=%s err=%v", path, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Markup accumulates the first write error while a component emits HTML.
type Markup struct {
	ctx context.Context
	w   io.Writer
	err error
}

// NewMarkup starts writing markup to w.
func NewMarkup(ctx context.Context, w io.Writer) *Markup {
	return &Markup{ctx: ctx, w: w}
}

// Raw writes trusted markup.
func (m *Markup) Raw(parts ...string) *Markup {
	for _, part := range parts {
		if m.err != nil {
			return m
		}
		_, m.err = io.WriteString(m.w, part)
	}
	return m
}

// Text writes escaped text.
func (m *Markup) Text(value string) *Markup {
	return m.Raw(templ.EscapeString(value))
}

// Attr writes ` name="value"` with value escaped.
func (m *Markup) Attr(name, value string) *Markup {
	return m.Raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

// URLAttr writes an attribute holding a sanitized URL.
func (m *Markup) URLAttr(name, value string) *Markup {
	return m.Attr(name, string(templ.URL(value)))
}

// Component renders a nested component.
func (m *Markup) Component(c templ.Component) *Markup {
	if m.err != nil || c == nil {
		return m
	}
	m.err = c.Render(m.ctx, m.w)
	return m
}

// Children renders the children attached to the context.
func (m *Markup) Children() *Markup {
	return m.Component(templ.GetChildren(m.ctx))
}

// Err returns the first write error.
func (m *Markup) Err() error {
	return m.err
}

// Func builds a component from a function that writes markup.
func Func(fn func(m *Markup)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := NewMarkup(ctx, w)
		fn(m)
		return m.Err()
	})
}
