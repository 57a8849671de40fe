package server

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// handleSPA serves the built frontend. Real files under the static directory
// are served as-is; anything else falls back to index.html so client-side
// routes survive a reload.
func (s *Service) handleSPA(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}

	index := filepath.Join(s.cfg.StaticDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		http.Error(w, "Frontend build not found. Run the frontend build first.", http.StatusInternalServerError)
		return
	}

	reqPath := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
	if reqPath != "" && reqPath != "." {
		candidate := filepath.Join(s.cfg.StaticDir, filepath.FromSlash(reqPath))
		rel, err := filepath.Rel(s.cfg.StaticDir, candidate)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				http.ServeFile(w, r, candidate)
				return
			}
		}
	}

	http.ServeFile(w, r, index)
}
