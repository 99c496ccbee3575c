package cite

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ericbqEtos/artefakt-extension/internal/csl"
	"github.com/ericbqEtos/artefakt-extension/internal/errors"
)

// memStore is an in-memory Store for tests.
type memStore struct {
	xml  map[string]string
	at   map[string]int64
	puts int
}

func newMemStore() *memStore {
	return &memStore{xml: map[string]string{}, at: map[string]int64{}}
}

func (s *memStore) GetStyle(id string) (string, int64, error) {
	return s.xml[id], s.at[id], nil
}

func (s *memStore) PutStyle(id, xml string, fetchedAt int64) error {
	s.xml[id] = xml
	s.at[id] = fetchedAt
	s.puts++
	return nil
}

func styleServer(t *testing.T, hits *int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		w.Write([]byte(`<style xmlns="http://purl.org/net/xbiblio/csl"/>`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func failingServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testItems() []*csl.Item {
	return []*csl.Item{
		{
			ID:     "01ZED",
			Type:   csl.TypeWebpage,
			Title:  "Zebra patterns",
			Author: []csl.Name{{Family: "Zed", Given: "Ann"}},
			URL:    "https://example.com/zebra",
			Issued: csl.NewDate(2023, 0, 0),
		},
		{
			ID:     "01ADA",
			Type:   csl.TypeWebpage,
			Title:  "Ant colonies",
			Author: []csl.Name{{Family: "Adams", Given: "Bo"}},
			URL:    "https://example.com/ants",
			Issued: csl.NewDate(2024, 0, 0),
		},
		{
			ID:     "01BRO",
			Type:   csl.TypeWebpage,
			Title:  "Bird song",
			Author: []csl.Name{{Family: "Brown", Given: "Cal"}},
			URL:    "https://example.com/birds",
			Issued: csl.NewDate(2022, 0, 0),
		},
	}
}

func TestGenerate_EntriesJoinByID(t *testing.T) {
	hits := 0
	srv := styleServer(t, &hits)
	eng := NewEngine(nil, Options{BaseURL: srv.URL + "/"})

	res, err := eng.Generate(context.Background(), "apa", testItems())
	if err != nil {
		t.Fatal(err)
	}
	if res.Approximate {
		t.Error("render should not be degraded when the style fetch succeeds")
	}
	if len(res.Entries) != 3 {
		t.Fatalf("entries = %d", len(res.Entries))
	}

	// APA sorts the bibliography by author, so input order is not
	// preserved; the join back to records must go through ids.
	wantOrder := []string{"01ADA", "01BRO", "01ZED"}
	for i, id := range wantOrder {
		if res.Entries[i].ID != id {
			t.Errorf("entry %d id = %s, want %s", i, res.Entries[i].ID, id)
		}
	}

	entry, ok := res.Entry("01ZED")
	if !ok {
		t.Fatal("entry for 01ZED missing")
	}
	if entry.Bibliography == "" || entry.InText != "(Zed, 2023)" {
		t.Errorf("entry = %+v", entry)
	}
}

func TestGenerate_IEEEKeepsCitationOrder(t *testing.T) {
	hits := 0
	srv := styleServer(t, &hits)
	eng := NewEngine(nil, Options{BaseURL: srv.URL + "/"})

	res, err := eng.Generate(context.Background(), "ieee", testItems())
	if err != nil {
		t.Fatal(err)
	}
	if res.Entries[0].ID != "01ZED" || res.Entries[0].InText != "[1]" {
		t.Errorf("first entry = %+v", res.Entries[0])
	}
	if res.Entries[2].ID != "01BRO" || res.Entries[2].InText != "[3]" {
		t.Errorf("third entry = %+v", res.Entries[2])
	}
}

func TestGenerate_DegradesOnFetchFailure(t *testing.T) {
	srv := failingServer(t)
	eng := NewEngine(nil, Options{BaseURL: srv.URL + "/"})

	res, err := eng.Generate(context.Background(), "apa", testItems())
	if err != nil {
		t.Fatal(err)
	}
	if !res.Approximate {
		t.Error("result should be marked approximate when no style is available")
	}
	if len(res.Entries) != 3 {
		t.Fatalf("entries = %d", len(res.Entries))
	}
	for _, e := range res.Entries {
		if e.Bibliography == "" {
			t.Errorf("entry %s rendered empty", e.ID)
		}
	}
}

func TestGenerate_UnknownStyle(t *testing.T) {
	eng := NewEngine(nil, Options{BaseURL: "http://127.0.0.1:0/"})
	_, err := eng.Generate(context.Background(), "turabian", testItems())
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want invalid request", err)
	}
}

func TestGenerate_NoItems(t *testing.T) {
	eng := NewEngine(nil, Options{BaseURL: "http://127.0.0.1:0/"})
	_, err := eng.Generate(context.Background(), "apa", nil)
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want invalid request", err)
	}
}

func TestEnsureStyle_FetchOncePerProcess(t *testing.T) {
	hits := 0
	srv := styleServer(t, &hits)
	store := newMemStore()
	eng := NewEngine(store, Options{BaseURL: srv.URL + "/"})

	for i := 0; i < 3; i++ {
		if _, err := eng.EnsureStyle(context.Background(), "apa"); err != nil {
			t.Fatal(err)
		}
	}
	if hits != 1 {
		t.Errorf("fetches = %d, want 1", hits)
	}
	if store.puts != 1 {
		t.Errorf("persistent writes = %d, want 1", store.puts)
	}
}

func TestEnsureStyle_FreshPersistentCopySkipsFetch(t *testing.T) {
	hits := 0
	srv := styleServer(t, &hits)
	store := newMemStore()
	store.PutStyle("apa", "<cached/>", time.Now().Unix())
	store.puts = 0
	eng := NewEngine(store, Options{BaseURL: srv.URL + "/"})

	xml, err := eng.EnsureStyle(context.Background(), "apa")
	if err != nil {
		t.Fatal(err)
	}
	if xml != "<cached/>" {
		t.Errorf("xml = %q", xml)
	}
	if hits != 0 {
		t.Errorf("fetches = %d, want 0", hits)
	}
}

func TestEnsureStyle_StaleCopyRefetched(t *testing.T) {
	hits := 0
	srv := styleServer(t, &hits)
	store := newMemStore()
	store.PutStyle("apa", "<old/>", time.Now().Add(-30*24*time.Hour).Unix())
	eng := NewEngine(store, Options{BaseURL: srv.URL + "/", TTL: 7 * 24 * time.Hour})

	xml, err := eng.EnsureStyle(context.Background(), "apa")
	if err != nil {
		t.Fatal(err)
	}
	if xml == "<old/>" {
		t.Error("stale copy served despite reachable repository")
	}
	if hits != 1 {
		t.Errorf("fetches = %d, want 1", hits)
	}
}

func TestEnsureStyle_StaleFallbackWhenFetchFails(t *testing.T) {
	srv := failingServer(t)
	store := newMemStore()
	store.PutStyle("apa", "<old/>", time.Now().Add(-30*24*time.Hour).Unix())
	eng := NewEngine(store, Options{BaseURL: srv.URL + "/", TTL: 7 * 24 * time.Hour})

	xml, err := eng.EnsureStyle(context.Background(), "apa")
	if err != nil {
		t.Fatal(err)
	}
	if xml != "<old/>" {
		t.Errorf("xml = %q, want stale cached copy", xml)
	}
}

func TestEnsureStyle_NothingCachedFetchFails(t *testing.T) {
	srv := failingServer(t)
	eng := NewEngine(newMemStore(), Options{BaseURL: srv.URL + "/"})

	_, err := eng.EnsureStyle(context.Background(), "apa")
	if !errors.Is(err, errors.ErrStyleUnavailable) {
		t.Errorf("err = %v, want style unavailable", err)
	}
}

func TestEnsureStyle_RejectsNonStyleBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>404 page</html>"))
	}))
	t.Cleanup(srv.Close)
	eng := NewEngine(newMemStore(), Options{BaseURL: srv.URL + "/"})

	_, err := eng.EnsureStyle(context.Background(), "apa")
	if !errors.Is(err, errors.ErrStyleUnavailable) {
		t.Errorf("err = %v, want style unavailable", err)
	}
}

func TestValidStyle(t *testing.T) {
	for _, id := range StyleIDs() {
		if !ValidStyle(id) {
			t.Errorf("%s should be valid", id)
		}
	}
	if ValidStyle("turabian") {
		t.Error("turabian should be invalid")
	}
}
