package reverse_proxy

import (
	_ "embed"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
)

//go:embed default_error_page.html
var defaultErrorPage []byte

// Statuses that may be mapped to a static error page. These are the ones the
// upstream forwarder can produce on its own.
var errorPageStatuses = map[int]struct{}{
	http.StatusInternalServerError: {},
	http.StatusBadGateway:          {},
	http.StatusServiceUnavailable:  {},
	http.StatusGatewayTimeout:      {},
}

// ErrorPages maps failure statuses to static fallback documents. The mapping
// is loaded once at startup and read-only afterwards, so it is safe to share
// across request handlers without locking.
type ErrorPages struct {
	pages map[int][]byte
}

// LoadErrorPages reads the configured documents into memory. File names are
// resolved against root. Statuses without a mapping fall back to an embedded
// default page.
func LoadErrorPages(root string, files map[int]string) (*ErrorPages, error) {
	pages := make(map[int][]byte, len(files))
	for status, name := range files {
		if _, ok := errorPageStatuses[status]; !ok {
			return nil, fmt.Errorf("status %d cannot be mapped to an error page", status)
		}
		b, err := os.ReadFile(filepath.Join(root, name))
		if err != nil {
			return nil, fmt.Errorf("reading error page for status %d: %w", status, err)
		}
		pages[status] = b
	}
	return &ErrorPages{pages: pages}, nil
}

// Serve writes the document mapped to status, or the embedded default page if
// none is configured. A nil *ErrorPages is valid and always serves the default.
func (e *ErrorPages) Serve(w http.ResponseWriter, status int) {
	body := defaultErrorPage
	if e != nil {
		if b, ok := e.pages[status]; ok {
			body = b
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
