package static

import "embed"

// FS exposes the back-office stylesheet.
//
//go:embed admin.css
var FS embed.FS
