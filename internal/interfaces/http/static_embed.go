package http

import "embed"

// staticFiles holds the dashboard page assets.
//
//go:embed static
var staticFiles embed.FS
