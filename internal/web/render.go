package web

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"

	"microblog/internal/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageNames = []string{
	"index.html",
	"group_list.html",
	"profile.html",
	"post_detail.html",
	"create_post.html",
	"follow.html",
	"signup.html",
	"login.html",
	"about_author.html",
	"about_tech.html",
	"404.html",
	"403.html",
}

var pages = parsePages()

func parsePages() map[string]*template.Template {
	parsed := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		parsed[name] = template.Must(template.ParseFS(templatesFS,
			"templates/layout.html", "templates/"+name))
	}

	return parsed
}

// renderBytes renders a full page into memory, so a template error
// never leaves a half-written response and cached payloads are the
// exact bytes sent to every reader.
func renderBytes(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := pages[name].ExecuteTemplate(&buf, "base", data); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, name string, status int, data any) {
	payload, err := renderBytes(name, data)
	if err != nil {
		s.log.ErrorContext(r.Context(), "Failed to render page",
			"error", err,
			"page", name)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	s.writeHTML(w, status, payload)
}

func (s *Server) writeHTML(w http.ResponseWriter, status int, payload []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

// handleError maps domain errors to their pages: missing keys are a
// generic not-found page, ownership violations a forbidden page, and
// anything else the opaque internal error fallback.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		s.renderPage(w, r, "404.html", http.StatusNotFound,
			map[string]any{"Path": r.URL.Path})
	case errors.Is(err, models.ErrForbidden):
		s.renderPage(w, r, "403.html", http.StatusForbidden, nil)
	default:
		s.log.ErrorContext(r.Context(), "Request failed",
			"error", err,
			"path", r.URL.Path)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, "404.html", http.StatusNotFound,
		map[string]any{"Path": r.URL.Path})
}
