package cite

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Store is the persistent tier of the style cache. The database package
// satisfies it with the style_cache table.
type Store interface {
	// GetStyle returns the cached XML and its fetch time, or ("", 0, nil)
	// when the style has never been cached.
	GetStyle(styleID string) (xml string, fetchedAt int64, err error)
	PutStyle(styleID, xml string, fetchedAt int64) error
}

// StyleCache layers a process-local memory cache over the persistent store.
// Entries within the freshness window are served without a network fetch;
// stale persistent entries are still retained so the engine can fall back
// to them when a refresh fetch fails.
type StyleCache struct {
	mem   *gocache.Cache
	store Store
	ttl   time.Duration
	now   func() time.Time
}

// NewStyleCache builds a cache with the given freshness window. A nil
// store leaves the persistent tier disabled (memory only).
func NewStyleCache(store Store, ttl time.Duration) *StyleCache {
	return &StyleCache{
		mem:   gocache.New(ttl, ttl),
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get returns a fresh cached style definition. fresh is false when the
// style is absent or past the freshness window.
func (c *StyleCache) Get(styleID string) (xml string, fresh bool) {
	if v, ok := c.mem.Get(styleID); ok {
		return v.(string), true
	}
	if c.store == nil {
		return "", false
	}
	xml, fetchedAt, err := c.store.GetStyle(styleID)
	if err != nil || xml == "" {
		return "", false
	}
	if c.now().Unix()-fetchedAt > int64(c.ttl.Seconds()) {
		return "", false
	}
	c.mem.Set(styleID, xml, gocache.DefaultExpiration)
	return xml, true
}

// GetStale returns whatever persistent copy exists, fresh or not. Used as
// a last resort when a refresh fetch fails.
func (c *StyleCache) GetStale(styleID string) (string, bool) {
	if v, ok := c.mem.Get(styleID); ok {
		return v.(string), true
	}
	if c.store == nil {
		return "", false
	}
	xml, _, err := c.store.GetStyle(styleID)
	if err != nil || xml == "" {
		return "", false
	}
	return xml, true
}

// Put stores a freshly fetched definition in both tiers. Persistent-tier
// write failures are swallowed; the memory tier alone still serves the
// current process.
func (c *StyleCache) Put(styleID, xml string) {
	c.mem.Set(styleID, xml, gocache.DefaultExpiration)
	if c.store != nil {
		_ = c.store.PutStyle(styleID, xml, c.now().Unix())
	}
}
