package cite

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/ericbqEtos/artefakt-extension/internal/csl"
	"github.com/ericbqEtos/artefakt-extension/internal/errors"
)

// fetchTimeout bounds a single style-definition fetch.
const fetchTimeout = 15 * time.Second

// maxStyleBytes caps how much of a style response the engine will read.
const maxStyleBytes = 4 << 20

// Options configures an Engine. Zero values select the defaults.
type Options struct {
	// BaseURL is the root of the style repository.
	BaseURL string

	// TTL is the style-cache freshness window.
	TTL time.Duration

	// Client is the HTTP client used for style fetches.
	Client *http.Client
}

// Engine renders citations for cleaned CSL items. Style definitions are
// fetched lazily per style id and cached across the two tiers; a fetch
// failure degrades the render to the built-in templates instead of
// failing it.
type Engine struct {
	client  *http.Client
	cache   *StyleCache
	baseURL string
}

// NewEngine builds an engine backed by the given persistent style store
// (nil disables the persistent tier).
func NewEngine(store Store, opts Options) *Engine {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultStyleBaseURL
	}
	if opts.TTL <= 0 {
		opts.TTL = 7 * 24 * time.Hour
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: fetchTimeout}
	}
	return &Engine{
		client:  opts.Client,
		cache:   NewStyleCache(store, opts.TTL),
		baseURL: opts.BaseURL,
	}
}

// Entry pairs one item's rendered outputs with its originating record id.
type Entry struct {
	ID           string `json:"id"`
	Bibliography string `json:"bibliography"`
	InText       string `json:"in_text"`
}

// Result is a full citation render.
type Result struct {
	Style string `json:"style"`

	// Approximate is set when the style definition could not be obtained
	// and the entries came from the degraded template path.
	Approximate bool `json:"approximate,omitempty"`

	Entries []Entry `json:"entries"`
}

// Entry returns the rendered entry for a record id.
func (r *Result) Entry(id string) (Entry, bool) {
	for _, e := range r.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// EnsureStyle returns the style's XML definition, fetching and caching it
// if needed. A fetch failure with a stale cached copy on hand returns the
// stale copy; with nothing cached it returns a style-unavailable error.
func (e *Engine) EnsureStyle(ctx context.Context, styleID string) (string, error) {
	style, ok := stylesByID[styleID]
	if !ok {
		return "", errors.NewInvalidRequest(fmt.Sprintf("unknown citation style %q", styleID))
	}
	if xml, fresh := e.cache.Get(styleID); fresh {
		return xml, nil
	}

	xml, err := e.fetchStyle(ctx, style)
	if err != nil {
		if stale, ok := e.cache.GetStale(styleID); ok {
			log.Printf("style %s refresh failed, serving stale copy: %v", styleID, err)
			return stale, nil
		}
		return "", errors.NewStyleUnavailable(styleID, err)
	}
	e.cache.Put(styleID, xml)
	return xml, nil
}

func (e *Engine) fetchStyle(ctx context.Context, style Style) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+style.File, nil)
	if err != nil {
		return "", err
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("style fetch: unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxStyleBytes))
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("style fetch: empty body")
	}
	if !strings.Contains(string(data), "<style") {
		return "", fmt.Errorf("style fetch: body is not a CSL style definition")
	}
	return string(data), nil
}

// Generate renders a bibliography entry and an in-text citation for every
// item. Items are re-cleaned at this boundary regardless of what the
// caller did; the renderer must never see a present-but-empty field.
// Entries are returned in bibliography order, each carrying its record id
// so callers join outputs back to records explicitly rather than by
// position. Style-definition failures degrade the result (Approximate set)
// instead of failing it.
func (e *Engine) Generate(ctx context.Context, styleID string, items []*csl.Item) (*Result, error) {
	if !ValidStyle(styleID) {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("unknown citation style %q", styleID))
	}
	if len(items) == 0 {
		return nil, errors.NewInvalidRequest("no items to cite")
	}
	render := renderers[styleID]

	result := &Result{Style: styleID}
	if _, err := e.EnsureStyle(ctx, styleID); err != nil {
		if errors.Is(err, errors.ErrInvalidRequest) {
			return nil, err
		}
		log.Printf("style %s unavailable, rendering approximate citations: %v", styleID, err)
		result.Approximate = true
	}

	type rendered struct {
		entry Entry
		sort  string
	}
	out := make([]rendered, 0, len(items))
	for i, item := range items {
		v := view(item.Clean())
		bib, inText := render(v, i+1)
		out = append(out, rendered{
			entry: Entry{ID: item.ID, Bibliography: bib, InText: inText},
			sort:  sortKey(v),
		})
	}

	// Numbered styles keep citation order; author-date styles sort the
	// bibliography alphabetically.
	if styleID != "ieee" {
		sort.SliceStable(out, func(a, b int) bool { return out[a].sort < out[b].sort })
	}
	for _, r := range out {
		result.Entries = append(result.Entries, r.entry)
	}
	return result, nil
}

// sortKey orders bibliography entries by first-author surname, falling
// back to title.
func sortKey(v itemView) string {
	names := v.names()
	key := ""
	if len(names) > 0 {
		key = names[0].surname()
	}
	if key == "" {
		key = v.str("title")
	}
	return strings.ToLower(key)
}
