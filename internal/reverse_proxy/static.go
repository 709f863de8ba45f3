package reverse_proxy

import (
	"errors"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/eagraf/porch/core/rules"
	"github.com/rs/zerolog/log"
)

// FileServerRule serves files from a directory subtree.
type FileServerRule struct {
	rule rules.Rule
	root string
}

func (r *FileServerRule) Rule() rules.Rule {
	return r.rule
}

func (r *FileServerRule) Match(url *url.URL) bool {
	return r.rule.Match(url.Path)
}

func (r *FileServerRule) Handler() http.Handler {
	return &FileServerHandler{
		Rule: r.rule,
		Root: r.root,
	}
}

// FileServerHandler resolves a request path under Root and streams the file
// back with an inferred content type. Requests that would escape Root are
// rejected before touching the filesystem.
type FileServerHandler struct {
	Rule rules.Rule
	Root string
}

func (h *FileServerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if containsDotDot(r.URL.Path) {
		http.Error(w, ErrForbidden.Error(), statusForError(ErrForbidden))
		return
	}

	rel := path.Clean("/" + h.Rule.StripPrefix(r.URL.Path))
	name := filepath.Join(h.Root, filepath.FromSlash(rel))

	// Second line of defense: never serve anything outside the root subtree.
	root := filepath.Clean(h.Root)
	if name != root && !strings.HasPrefix(name, root+string(os.PathSeparator)) {
		http.Error(w, ErrForbidden.Error(), statusForError(ErrForbidden))
		return
	}

	h.serveFile(w, r, name)
}

func (h *FileServerHandler) serveFile(w http.ResponseWriter, r *http.Request, name string) {
	info, err := os.Stat(name)
	if err != nil {
		h.serveError(w, r, err)
		return
	}

	// Directory requests fall back to the directory's index document.
	if info.IsDir() {
		name = filepath.Join(name, "index.html")
		info, err = os.Stat(name)
		if err != nil {
			h.serveError(w, r, err)
			return
		}
	}

	f, err := os.Open(name)
	if err != nil {
		h.serveError(w, r, err)
		return
	}
	defer f.Close()

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

func (h *FileServerHandler) serveError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		http.NotFound(w, r)
	case errors.Is(err, fs.ErrPermission):
		http.Error(w, ErrForbidden.Error(), statusForError(ErrForbidden))
	default:
		log.Error().Err(err).Str("rule", h.Rule.ID).Str("path", r.URL.Path).Msg("file server error")
		http.Error(w, ErrInternal.Error(), statusForError(ErrInternal))
	}
}

func containsDotDot(v string) bool {
	if !strings.Contains(v, "..") {
		return false
	}
	for _, ent := range strings.FieldsFunc(v, isSlashRune) {
		if ent == ".." {
			return true
		}
	}
	return false
}

func isSlashRune(r rune) bool { return r == '/' || r == '\\' }
