package api

import (
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"queryadmin/internal/logger"
	"queryadmin/internal/service"
	"queryadmin/web"
)

// ParseTemplates loads every page from the embedded web assets.
func ParseTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"hasPrefix": strings.HasPrefix,
		"fmtTime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02 15:04:05")
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"dismissMs": func() int64 {
			return service.NoticeTimeout.Milliseconds()
		},
	}
	return template.New("").Funcs(funcMap).ParseFS(web.FS, "templates/*.html")
}

// renderTemplate executes a standalone page (login, confirmation, redirect).
func renderTemplate(w http.ResponseWriter, templates *template.Template, status int, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		logger.Error().Err(err).Str("template", name).Msg("Failed to render template")
	}
}

// RegisterStatic serves the embedded stylesheet and script.
func RegisterStatic(r chi.Router) {
	static, err := fs.Sub(web.FS, "static")
	if err != nil {
		panic(err)
	}
	FileServer(r, "/static", http.FS(static))
}

// Simple file server helper for Chi
func FileServer(r chi.Router, path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("FileServer does not permit any URL parameters.")
	}

	if path != "/" && path[len(path)-1] != '/' {
		r.Get(path, http.RedirectHandler(path+"/", http.StatusMovedPermanently).ServeHTTP)
		path += "/"
	}
	path += "*"

	r.Get(path, func(w http.ResponseWriter, r *http.Request) {
		rctx := chi.RouteContext(r.Context())
		pathPrefix := strings.TrimSuffix(rctx.RoutePattern(), "/*")
		fs := http.StripPrefix(pathPrefix, http.FileServer(root))
		fs.ServeHTTP(w, r)
	})
}
