// Package web holds the embedded HTML templates and static assets.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates parses every page template together with the shared layout.
func Templates() (*template.Template, error) {
	return template.New("").
		Funcs(template.FuncMap{
			"gravatar": Gravatar,
		}).
		ParseFS(templateFS, "templates/*.html")
}

// Static serves the files under static/ rooted at "/".
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// The embedded tree always contains static/.
		panic(err)
	}
	return http.FS(sub)
}
