// Package web holds the HTML templates of the auth views and the data
// they render.
package web

import (
	"embed"
	"html/template"

	"github.com/jwalitptl/auth-ui/internal/localization"
)

// Template names
const (
	TemplateAuth     = "auth.html"
	TemplateSettings = "settings.html"
	TemplateError    = "error.html"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses the embedded templates with loc bound to the t helper.
func Templates(loc localization.Localization) (*template.Template, error) {
	return template.New("").Funcs(Funcs(loc)).ParseFS(files, "templates/*.html")
}

// Funcs returns the helpers available to templates.
func Funcs(loc localization.Localization) template.FuncMap {
	return template.FuncMap{
		"t": loc.Get,
	}
}
