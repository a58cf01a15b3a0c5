package mailer

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownOnce sync.Once
	markdownConv goldmark.Markdown
)

func markdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		// Raw HTML in the source is dropped.
		markdownConv = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		)
	})
	return markdownConv
}

// RenderMarkdown converts an email body written in Markdown to HTML.
func RenderMarkdown(body string) (string, error) {
	var buf bytes.Buffer
	if err := markdown().Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
