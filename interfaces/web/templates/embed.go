// Package templates holds the page components and their static assets.
package templates

import "embed"

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.943 generate

//go:embed assets
var FS embed.FS
