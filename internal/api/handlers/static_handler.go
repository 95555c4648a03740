package handlers

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

const indexDocument = "index.html"

// StaticHandler serves the browser client. Existing files are served as-is;
// every other path gets the root document so client-side routes resolve.
type StaticHandler struct {
	root string
}

// NewStaticHandler creates a handler serving files below root
func NewStaticHandler(root string) *StaticHandler {
	return &StaticHandler{root: root}
}

func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := path.Clean("/" + r.URL.Path)
	if name != "/" && h.serveFile(w, r, filepath.FromSlash(strings.TrimPrefix(name, "/"))) {
		return
	}
	if h.serveFile(w, r, indexDocument) {
		return
	}

	log.Warn().Str("root", h.root).Msg("Client root document not found")
	respondWithError(w, http.StatusNotFound, "Not found.")
}

// serveFile writes the regular file at rel and reports whether it existed.
// http.ServeFile is avoided because it redirects requests for index.html.
func (h *StaticHandler) serveFile(w http.ResponseWriter, r *http.Request, rel string) bool {
	f, err := os.Open(filepath.Join(h.root, rel))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Error().Err(err).Str("file", rel).Msg("Failed to open static file")
		}
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return false
	}

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	return true
}
