package reverse_proxy

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/eagraf/porch/core/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()

	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func newStaticHandler(t *testing.T, matcher string) (*FileServerHandler, string) {
	t.Helper()

	root := t.TempDir()
	rule := rules.Rule{ID: "static", Type: rules.TypeFileServer, Matcher: matcher, Target: root}
	return &FileServerHandler{Rule: rule, Root: root}, root
}

func TestFileServerServesFiles(t *testing.T) {
	handler, root := newStaticHandler(t, "/static")

	err := os.WriteFile(filepath.Join(root, "style.css"), []byte("body {}"), 0o644)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/style.css", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "body {}", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")
}

func TestFileServerDirectoryIndex(t *testing.T) {
	handler, root := newStaticHandler(t, "/")

	require.NoError(t, os.Mkdir(filepath.Join(root, "docs"), 0o755))
	err := os.WriteFile(filepath.Join(root, "docs", "index.html"), []byte("docs index"), 0o644)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "docs index", rec.Body.String())

	// A directory without an index document is reported as not found
	require.NoError(t, os.Mkdir(filepath.Join(root, "empty"), 0o755))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/empty", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFileServerNotFound(t *testing.T) {
	handler, _ := newStaticHandler(t, "/")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing.html", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFileServerRejectsTraversal(t *testing.T) {
	handler, root := newStaticHandler(t, "/static")

	secret := filepath.Join(filepath.Dir(root), "secret.txt")
	require.NoError(t, os.WriteFile(secret, []byte("secret"), 0o644))
	defer os.Remove(secret)

	for _, path := range []string{
		"/static/../secret.txt",
		"/static/../../secret.txt",
		"/static/a/../../secret.txt",
		`/static/..\secret.txt`,
	} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
		req.URL.Path = path
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code, "path %s", path)
		assert.NotContains(t, rec.Body.String(), "secret")
	}
}

func TestFileServerRuleMatch(t *testing.T) {
	root := t.TempDir()
	rule, err := handlerFromRule(rules.Rule{
		ID:      "static",
		Type:    rules.TypeFileServer,
		Matcher: "/app",
		Target:  root,
	}, "", nil)
	require.NoError(t, err)

	assert.True(t, rule.Match(mustParseURL(t, "/app")))
	assert.True(t, rule.Match(mustParseURL(t, "/app/index.html")))
	assert.False(t, rule.Match(mustParseURL(t, "/apple")))
	assert.False(t, rule.Match(mustParseURL(t, "/other")))
}

func TestFileServerRelativeTarget(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "bundle", "dist"), 0o755))
	err := os.WriteFile(filepath.Join(base, "bundle", "dist", "index.html"), []byte("bundled"), 0o644)
	require.NoError(t, err)

	// Relative file server targets resolve against the base file path
	handler, err := handlerFromRule(rules.Rule{
		ID:      "bundle",
		Type:    rules.TypeFileServer,
		Matcher: "/",
		Target:  filepath.Join("bundle", "dist"),
	}, base, nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bundled", rec.Body.String())
}
