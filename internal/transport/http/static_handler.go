package http

import (
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// ServeFrontend serves the dashboard front-end from fsys. Page paths such as
// /dataset or /analytics/amazon have no file of their own and get
// index.html, which routes on the client.
func ServeFrontend(fsys fs.FS) http.HandlerFunc {
	files := http.FileServerFS(fsys)
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
		if name == "" {
			name = "index.html"
		}

		if _, err := fs.Stat(fsys, name); err != nil {
			if path.Ext(name) != "" {
				http.NotFound(w, r)
				return
			}
			serveIndex(w, r, fsys)
			return
		}

		if name == "index.html" {
			serveIndex(w, r, fsys)
			return
		}
		files.ServeHTTP(w, r)
	}
}

func serveIndex(w http.ResponseWriter, r *http.Request, fsys fs.FS) {
	data, err := fs.ReadFile(fsys, "index.html")
	if err != nil {
		http.Error(w, "Main application page not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
