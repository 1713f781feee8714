// Package web embeds the server-rendered chat page.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/index.html
var templateFS embed.FS

// PageTemplate parses and returns the embedded chat page template.
// It panics on a malformed template, which can only happen at build time.
func PageTemplate() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/index.html"))
}
