package web

import (
	"context"
	"encoding/json"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ericbqEtos/artefakt-extension/internal/cite"
	"github.com/ericbqEtos/artefakt-extension/internal/config"
	"github.com/ericbqEtos/artefakt-extension/internal/db"
	"github.com/ericbqEtos/artefakt-extension/internal/ops"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head>
<title>Understanding Soil - Example Blog</title>
<meta property="og:title" content="Understanding Soil">
<meta property="og:site_name" content="Example Blog">
<meta name="author" content="Jane Doe">
<meta property="article:published_time" content="2024-03-15">
</head>
<body><article><p>Soil is alive.</p></article></body>
</html>`

func setupTest(t *testing.T) *Handlers {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	styleSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<style xmlns="http://purl.org/net/xbiblio/csl" class="in-text"/>`))
	}))
	t.Cleanup(styleSrv.Close)

	cfg := config.DefaultConfig()

	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		t.Fatalf("template sub-FS: %v", err)
	}

	return &Handlers{
		db:  database,
		cfg: cfg,
		engine: cite.NewEngine(ops.StyleStore{DB: database}, cite.Options{
			BaseURL: styleSrv.URL,
			TTL:     24 * time.Hour,
			Client:  styleSrv.Client(),
		}),
		renderer: NewRenderer(templateSub, "test"),
	}
}

// seedSource captures an article fixture and returns its ID.
func seedSource(t *testing.T, h *Handlers, url, sessionID string) string {
	t.Helper()
	out, err := ops.Capture(context.Background(), h.db, h.cfg, ops.CaptureInput{
		URL:       url,
		HTML:      articleHTML,
		SessionID: sessionID,
	})
	if err != nil {
		t.Fatalf("seed source %q: %v", url, err)
	}
	return out.ID
}

// --- HandleList ---

func TestHandleList_Default(t *testing.T) {
	h := setupTest(t)
	seedSource(t, h, "https://example.com/soil", "sess-1")

	req := httptest.NewRequest("GET", "/sources", nil)
	rec := httptest.NewRecorder()
	h.HandleList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Understanding Soil") {
		t.Error("expected source title in response")
	}
	if !strings.Contains(body, "Sources") {
		t.Error("expected page title 'Sources' in response")
	}
}

func TestHandleList_Empty(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/sources", nil)
	rec := httptest.NewRecorder()
	h.HandleList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No sources captured yet") {
		t.Error("expected empty state message")
	}
}

func TestHandleList_HtmxReturnsContentOnly(t *testing.T) {
	h := setupTest(t)
	seedSource(t, h, "https://example.com/htmx", "sess-1")

	req := httptest.NewRequest("GET", "/sources", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.HandleList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, "<!DOCTYPE html>") {
		t.Error("htmx response should not contain full layout")
	}
	if !strings.Contains(body, "Understanding Soil") {
		t.Error("htmx response should contain source data")
	}
}

func TestHandleList_InvalidParamsFallBack(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/sources?limit=notanumber&offset=bad&include_deleted=maybe", nil)
	rec := httptest.NewRecorder()
	h.HandleList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestHandleList_ExcludesDeletedByDefault(t *testing.T) {
	h := setupTest(t)
	id := seedSource(t, h, "https://example.com/gone", "sess-1")
	if _, err := ops.Delete(context.Background(), h.db, ops.DeleteInput{ID: id}); err != nil {
		t.Fatalf("delete: %v", err)
	}

	req := httptest.NewRequest("GET", "/sources", nil)
	rec := httptest.NewRecorder()
	h.HandleList(rec, req)

	if strings.Contains(rec.Body.String(), id) {
		t.Error("deleted source should not appear in default listing")
	}

	req = httptest.NewRequest("GET", "/sources?include_deleted=true", nil)
	rec = httptest.NewRecorder()
	h.HandleList(rec, req)

	if !strings.Contains(rec.Body.String(), id) {
		t.Error("deleted source should appear with include_deleted=true")
	}
}

// --- HandleDetail ---

func TestHandleDetail_Found(t *testing.T) {
	h := setupTest(t)
	id := seedSource(t, h, "https://example.com/detail", "sess-1")

	req := httptest.NewRequest("GET", "/sources/"+id, nil)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Understanding Soil") {
		t.Error("expected title in detail page")
	}
	if !strings.Contains(body, "Metadata") {
		t.Error("expected metadata section")
	}
	if !strings.Contains(body, "Jane Doe") {
		t.Error("expected author in detail page")
	}
	if !strings.Contains(body, "Citation") {
		t.Error("expected citation preview section")
	}
	if !strings.Contains(body, "Doe, J.") {
		t.Error("expected rendered bibliography entry")
	}
}

func TestHandleDetail_NotesRendered(t *testing.T) {
	h := setupTest(t)
	id := seedSource(t, h, "https://example.com/notes", "sess-1")

	notes := "## Reading notes\n\nKey **insight** here."
	if _, err := ops.Update(context.Background(), h.db, ops.UpdateInput{
		ID:    id,
		Notes: &notes,
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	req := httptest.NewRequest("GET", "/sources/"+id, nil)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "Reading notes") {
		t.Error("expected rendered notes heading")
	}
	if !strings.Contains(body, "<strong>insight</strong>") {
		t.Error("expected markdown-rendered emphasis")
	}
}

func TestHandleDetail_DeletedShowsWarningNoCitation(t *testing.T) {
	h := setupTest(t)
	id := seedSource(t, h, "https://example.com/deleted-detail", "sess-1")
	if _, err := ops.Delete(context.Background(), h.db, ops.DeleteInput{ID: id}); err != nil {
		t.Fatalf("delete: %v", err)
	}

	req := httptest.NewRequest("GET", "/sources/"+id, nil)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "deleted") {
		t.Error("expected deletion notice")
	}
	if strings.Contains(body, "In-text:") {
		t.Error("deleted source should not render a citation preview")
	}
}

func TestHandleDetail_StyleOverride(t *testing.T) {
	h := setupTest(t)
	id := seedSource(t, h, "https://example.com/style", "sess-1")

	req := httptest.NewRequest("GET", "/sources/"+id+"?style=mla", nil)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `<option value="mla" selected>`) {
		t.Error("expected mla selected in style picker")
	}
	if !strings.Contains(body, "Doe, Jane.") {
		t.Error("expected MLA-style bibliography entry")
	}
}

func TestHandleDetail_NotFound(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/sources/NONEXISTENT", nil)
	req.SetPathValue("id", "NONEXISTENT")
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandleDetail_EmptyID(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/sources/", nil)
	req.SetPathValue("id", "")
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

// --- HandleTrail ---

func TestHandleTrail_NoSession(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/trail", nil)
	rec := httptest.NewRecorder()
	h.HandleTrail(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Enter a session id") {
		t.Error("expected session prompt")
	}
}

func TestHandleTrail_ShowsSessionIncludingDeleted(t *testing.T) {
	h := setupTest(t)
	first := seedSource(t, h, "https://example.com/trail-1", "trail-sess")
	second := seedSource(t, h, "https://example.com/trail-2", "trail-sess")
	seedSource(t, h, "https://example.com/other", "other-sess")

	if _, err := ops.Delete(context.Background(), h.db, ops.DeleteInput{ID: second}); err != nil {
		t.Fatalf("delete: %v", err)
	}

	req := httptest.NewRequest("GET", "/trail?session_id=trail-sess", nil)
	rec := httptest.NewRecorder()
	h.HandleTrail(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, first) {
		t.Error("expected first capture in trail")
	}
	if !strings.Contains(body, second) {
		t.Error("expected soft-deleted capture in trail")
	}
	if strings.Count(body, "/sources/01") < 2 {
		t.Error("expected links to both session captures")
	}
}

// --- HandleDelete ---

func TestHandleDelete_HtmxRequest(t *testing.T) {
	h := setupTest(t)
	id := seedSource(t, h, "https://example.com/del-htmx", "sess-1")

	req := httptest.NewRequest("DELETE", "/sources/"+id, nil)
	req.SetPathValue("id", id)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.HandleDelete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("htmx delete should have empty body, got %q", rec.Body.String())
	}
}

func TestHandleDelete_JSONRequest(t *testing.T) {
	h := setupTest(t)
	id := seedSource(t, h, "https://example.com/del-json", "sess-1")

	req := httptest.NewRequest("DELETE", "/sources/"+id, nil)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	h.HandleDelete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	if payload["id"] != id {
		t.Errorf("id = %v, want %s", payload["id"], id)
	}
}

func TestHandleDelete_NotFound_JSON(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("DELETE", "/sources/NONEXISTENT", nil)
	req.SetPathValue("id", "NONEXISTENT")
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.HandleDelete(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	if _, ok := payload["error"]; !ok {
		t.Fatal("expected error object in JSON response")
	}
}

// --- Server wiring ---

func TestSecurityHeaders(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	req := httptest.NewRequest("GET", "/sources", nil)
	rec := httptest.NewRecorder()
	securityHeaders(inner).ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Security-Policy"); !strings.Contains(got, "default-src 'self'") {
		t.Errorf("Content-Security-Policy = %q", got)
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
}

func TestNewServer_RoutesAndRedirect(t *testing.T) {
	h := setupTest(t)
	srv := NewServer(h.db, h.cfg, "test", "127.0.0.1", 0)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/sources" {
		t.Errorf("Location = %q, want /sources", got)
	}

	req = httptest.NewRequest("GET", "/static/style.css", nil)
	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("static status = %d, want 200", rec.Code)
	}
}
