package storage

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// serveDir returns a handler that serves files from dir. Unlike
// http.FileServer it never lists directories, and a miss is answered with
// a 404 right here rather than falling through to another layer.
func serveDir(dir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rel := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
		if rel == "" || strings.HasPrefix(rel, "..") {
			http.NotFound(w, r)
			return
		}

		file := filepath.Join(dir, filepath.FromSlash(rel))
		info, err := os.Stat(file)
		if err != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}

		http.ServeFile(w, r, file)
	})
}
