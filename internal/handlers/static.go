package handlers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// StaticHandler serves the portfolio site itself: index.html at the root and
// asset files below it. Missing files get a plain-text 404 rather than the
// stdlib file server's directory listings.
type StaticHandler struct {
	dir string
}

// NewStaticHandler creates a handler serving files from dir.
func NewStaticHandler(dir string) *StaticHandler {
	return &StaticHandler{dir: dir}
}

// ServeHTTP implements http.Handler.
func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Page not found", http.StatusNotFound)
		return
	}

	// Clean the path before joining so ".." cannot escape the static dir.
	clean := path.Clean("/" + r.URL.Path)
	name := filepath.Join(h.dir, filepath.FromSlash(clean))

	info, err := os.Stat(name)
	if err == nil && info.IsDir() {
		name = filepath.Join(name, "index.html")
		info, err = os.Stat(name)
	}
	if err != nil || info.IsDir() {
		http.Error(w, "Page not found", http.StatusNotFound)
		return
	}

	http.ServeFile(w, r, name)
}
