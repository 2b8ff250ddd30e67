package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"photoshare/pkg/notify"
)

const (
	layoutTemplate = "templates/layout.html"
	pagesGlob      = "templates/pages/*.html"
)

type page struct {
	Title    string
	Messages []notify.Message
	Data     any
}

// Renderer executes page templates and delivers pending notifications with them.
type Renderer struct {
	pages   map[string]*template.Template
	flasher *notify.Flasher
	logger  *slog.Logger
}

func NewRenderer(fsys fs.FS, flasher *notify.Flasher, logger *slog.Logger) (*Renderer, error) {
	files, err := fs.Glob(fsys, pagesGlob)
	if err != nil {
		return nil, fmt.Errorf("glob pages: %w", err)
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		name := strings.TrimSuffix(path.Base(file), ".html")
		tmpl, err := template.ParseFS(fsys, layoutTemplate, file)
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Renderer{pages: pages, flasher: flasher, logger: logger}, nil
}

// HTML renders a page with the given status.
func (rd *Renderer) HTML(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	tmpl, ok := rd.pages[name]
	if !ok {
		rd.logger.Error("render", "error", "unknown page", "page", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	msgs, err := rd.flasher.Collect(w, r)
	if err != nil {
		rd.logger.Warn("render", "error", err, "page", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page{Title: title, Messages: msgs, Data: data}); err != nil {
		rd.logger.Error("render", "error", err, "page", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		rd.logger.Error("failed to write page", "error", err, "page", name)
	}
}

// Redirect keeps the queued notifications for the next page and redirects.
func (rd *Renderer) Redirect(w http.ResponseWriter, r *http.Request, url string) {
	if err := rd.flasher.Persist(w, r); err != nil {
		rd.logger.Warn("redirect", "error", err)
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

type errorPage struct {
	Heading string
}

func (rd *Renderer) Error(w http.ResponseWriter, r *http.Request, status int, heading string) {
	rd.HTML(w, r, status, "error", heading, errorPage{Heading: heading})
}

// NotFound renders the page for routes nothing else matched.
func (rd *Renderer) NotFound(w http.ResponseWriter, r *http.Request) {
	rd.Error(w, r, http.StatusNotFound, "Page not found")
}

// MethodNotAllowed renders the page for a known path requested with the wrong method.
func (rd *Renderer) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	rd.Error(w, r, http.StatusMethodNotAllowed, "Method not allowed")
}
