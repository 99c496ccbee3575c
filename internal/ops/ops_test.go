package ops

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ericbqEtos/artefakt-extension/internal/cite"
	"github.com/ericbqEtos/artefakt-extension/internal/config"
	"github.com/ericbqEtos/artefakt-extension/internal/db"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func testEngine(t *testing.T, database *sql.DB) *cite.Engine {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<style xmlns="http://purl.org/net/xbiblio/csl"/>`))
	}))
	t.Cleanup(srv.Close)
	return cite.NewEngine(StyleStore{DB: database}, cite.Options{
		BaseURL: srv.URL + "/",
		TTL:     7 * 24 * time.Hour,
	})
}

func brokenEngine(t *testing.T) *cite.Engine {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	return cite.NewEngine(nil, cite.Options{BaseURL: srv.URL + "/"})
}

func testConfig() *config.Config {
	return config.DefaultConfig()
}

const articleHTML = `<!DOCTYPE html>
<html><head>
<title>Understanding Soil | Example Blog</title>
<meta property="og:title" content="Understanding Soil">
<meta property="og:site_name" content="Example Blog">
<meta name="author" content="Jane Doe">
<meta property="article:published_time" content="2024-03-15T10:00:00Z">
<meta name="description" content="A primer on soil composition.">
</head><body><article><h1>Understanding Soil</h1><p>Dirt is complicated.</p></article></body></html>`

const chatHTML = `<!DOCTYPE html>
<html><head><title>Tunneling explained - ChatGPT</title></head><body>
<div data-testid="model-switcher-dropdown-button">GPT-5.1</div>
<div data-message-author-role="user">Explain quantum tunneling simply.</div>
<div data-message-author-role="assistant">Particles sometimes cross barriers they should not.</div>
</body></html>`

func TestGenerateULID(t *testing.T) {
	a, err := generateULID()
	if err != nil {
		t.Fatal(err)
	}
	b, err := generateULID()
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 26 || a == b {
		t.Errorf("ids = %q, %q", a, b)
	}
}

func TestClampLimit(t *testing.T) {
	if got := clampLimit(0); got != DefaultListLimit {
		t.Errorf("clampLimit(0) = %d", got)
	}
	if got := clampLimit(7); got != 7 {
		t.Errorf("clampLimit(7) = %d", got)
	}
	if got := clampLimit(1000); got != MaxListLimit {
		t.Errorf("clampLimit(1000) = %d", got)
	}
}
