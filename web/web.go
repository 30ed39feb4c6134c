// Package web holds the static HTML pages served by the backend.
package web

import "embed"

// Pages contains login.html, register.html, dashboard.html and game.html.
//
//go:embed *.html
var Pages embed.FS
