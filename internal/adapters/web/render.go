package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const (
	pageHome     = "home"
	pagePricing  = "pricing"
	pageTool     = "tool"
	pageNotFound = "notfound"
)

// Renderer renders full pages: the shared layout with one page's content block
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the embedded layout once per page
func NewRenderer() (*Renderer, error) {
	layout, err := template.ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, name := range []string{pageHome, pagePricing, pageTool, pageNotFound} {
		t, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone layout for %s: %w", name, err)
		}
		if _, err := t.ParseFS(templateFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render implements echo.Renderer
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

func staticFiles() fs.FS {
	return echo.MustSubFS(staticFS, "static")
}
