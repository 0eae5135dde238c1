package api

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// WithSPA serves the bundled frontend next to the API: /api/* goes to the API
// handler, existing files are served directly, everything else falls back to
// index.html for client-side routing.
func WithSPA(apiHandler http.Handler, webDir string) http.Handler {
	fileServer := http.FileServer(http.Dir(webDir))
	indexPath := filepath.Join(webDir, "index.html")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			apiHandler.ServeHTTP(w, r)
			return
		}

		clean := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
		if clean != "" && clean != "." {
			full := filepath.Join(webDir, clean)
			if info, err := os.Stat(full); err == nil && !info.IsDir() {
				w.Header().Set("Cache-Control", "no-store")
				fileServer.ServeHTTP(w, r)
				return
			}
		}

		if _, err := os.Stat(indexPath); err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		http.ServeFile(w, r, indexPath)
	})
}
