package forms

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// loadTimeout bounds a shared load, which outlives any one caller.
const loadTimeout = 30 * time.Second

type cacheEntry struct {
	catalog  *Catalog
	loadedAt time.Time
}

// Cache keeps one built Catalog per slug. Concurrent misses on a slug share
// a single load, and a reload returning an already-built version keeps the
// existing Catalog, so each version is built at most once.
type Cache struct {
	provider Provider
	ttl      time.Duration
	now      func() time.Time

	mu      sync.RWMutex
	entries map[string]cacheEntry
	group   singleflight.Group
}

// NewCache returns a cache over p. A ttl of zero keeps entries until
// Invalidate is called.
func NewCache(p Provider, ttl time.Duration) *Cache {
	return &Cache{
		provider: p,
		ttl:      ttl,
		now:      time.Now,
		entries:  map[string]cacheEntry{},
	}
}

func (c *Cache) fresh(e cacheEntry) bool {
	return c.ttl <= 0 || c.now().Sub(e.loadedAt) < c.ttl
}

// Get returns the active Catalog for slug.
func (c *Cache) Get(ctx context.Context, slug string) (*Catalog, error) {
	c.mu.RLock()
	e, ok := c.entries[slug]
	c.mu.RUnlock()
	if ok && c.fresh(e) {
		return e.catalog, nil
	}

	// The load is shared by every caller waiting on slug, so it runs detached
	// from the first caller's cancellation. Each caller still stops waiting
	// when its own ctx is done.
	ch := c.group.DoChan(slug, func() (any, error) {
		c.mu.RLock()
		e, ok := c.entries[slug]
		c.mu.RUnlock()
		if ok && c.fresh(e) {
			return e.catalog, nil
		}

		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		g, err := c.provider.LoadFormBySlug(lctx, slug, true)
		if err != nil {
			return nil, err
		}
		if g == nil {
			return nil, &NotFoundError{Slug: slug}
		}

		cat := e.catalog
		if !ok || cat.Version != g.Form.Version {
			cat = NewCatalog(g)
		}
		c.mu.Lock()
		c.entries[slug] = cacheEntry{catalog: cat, loadedAt: c.now()}
		c.mu.Unlock()
		return cat, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Catalog), nil
	}
}

// Invalidate drops the cached Catalog for slug.
func (c *Cache) Invalidate(slug string) {
	c.mu.Lock()
	delete(c.entries, slug)
	c.mu.Unlock()
}
