package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	layoutFile     = "layout.html"
	layoutTemplate = "layout"
)

// viewData is the value every page template is executed with.
type viewData map[string]any

// renderer holds one parsed template set per page, each combined with the layout.
type renderer struct {
	pages map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"formatTime": func(t time.Time) string {
		return t.Local().Format("Mon Jan 2 2006, 3:04 PM")
	},
}

func newRenderer() (*renderer, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		name := path.Base(file)
		if name == layoutFile {
			continue
		}
		page, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS, "templates/"+layoutFile, file)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = page
	}
	return &renderer{pages: pages}, nil
}

// render executes page into a buffer so a failing template never leaves a
// half written response behind.
func (r *renderer) render(page string, data viewData) ([]byte, error) {
	tmpl, ok := r.pages[page]
	if !ok {
		return nil, fmt.Errorf("unknown page %q", page)
	}
	if data == nil {
		data = viewData{}
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, layoutTemplate, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", page, err)
	}
	return buf.Bytes(), nil
}
