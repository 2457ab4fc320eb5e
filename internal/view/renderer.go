package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Renderer implements echo.Renderer over the embedded page templates.
// Each page is parsed together with the shared layout; in strict mode
// (development) a contract violation fails the render instead of
// producing a half-populated page.
type Renderer struct {
	pages  map[string]*template.Template
	strict bool
}

func NewRenderer(strict bool) (*Renderer, error) {
	entries, err := fs.Glob(templateFiles, "templates/*.html")
	if err != nil {
		return nil, err
	}
	pages := make(map[string]*template.Template, len(entries))
	for _, page := range entries {
		if page == "templates/layout.html" {
			continue
		}
		t, err := template.ParseFS(templateFiles, "templates/layout.html", page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		name := page[len("templates/") : len(page)-len(".html")]
		pages[name] = t
	}
	return &Renderer{pages: pages, strict: strict}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("view: unknown template %q", name)
	}
	if r.strict {
		d, _ := data.(Data)
		if err := Check(name, d); err != nil {
			return err
		}
	}
	return t.ExecuteTemplate(w, "layout", data)
}
