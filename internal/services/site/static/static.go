package static

import "embed"

// FS exposes the public site's static assets for HTTP serving.
//
//go:embed *.css *.js *.svg
var FS embed.FS
