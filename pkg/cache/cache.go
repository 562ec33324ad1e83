// Package cache holds the last fetched collection per logical resource and
// implements the optimistic-patch and invalidation protocol: patch rewrites a
// cached entity in place without a round trip, invalidate marks the entry
// stale while keeping the old value visible until the refetch resolves.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/sync/singleflight"
)

// Entity is anything with a stable server-assigned identifier.
type Entity interface {
	EntityID() string
}

// Loader fetches a collection from the network.
type Loader[E Entity] func(ctx context.Context) ([]E, error)

type entry[E Entity] struct {
	items     []E
	fetchedAt time.Time
	stale     bool
}

// Cache is a per-resource response cache. All mutation goes through Fetch,
// Invalidate, Patch and Clear.
type Cache[E Entity] struct {
	mu      sync.Mutex
	entries *ttlcache.Cache[string, *entry[E]]
	flight  singleflight.Group
	ttl     time.Duration
}

// New returns a cache whose entries become stale after ttl. A zero ttl keeps
// entries fresh until explicitly invalidated. Expiry only marks an entry
// stale, exactly like Invalidate: the old collection stays readable through
// Get until the refetch lands, so entries are stored without an eviction TTL.
func New[E Entity](ttl time.Duration) *Cache[E] {
	entries := ttlcache.New[string, *entry[E]](
		ttlcache.WithTTL[string, *entry[E]](ttlcache.NoTTL),
		ttlcache.WithDisableTouchOnHit[string, *entry[E]](),
	)
	go entries.Start()
	if ttl < 0 {
		ttl = 0
	}
	return &Cache[E]{entries: entries, ttl: ttl}
}

// Fetch returns the cached collection for key, hitting the network through
// loader only when the entry is missing or stale. Concurrent fetches for the
// same key share one network call. A loader failure never evicts a previously
// good entry; it surfaces as the returned error.
func (c *Cache[E]) Fetch(ctx context.Context, key string, loader Loader[E]) ([]E, error) {
	if items, ok := c.fresh(key); ok {
		return items, nil
	}
	v, err, _ := c.flight.Do(key, func() (any, error) {
		// A concurrent call may have refreshed the entry while this one
		// waited on the flight group.
		if items, ok := c.fresh(key); ok {
			return items, nil
		}
		items, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		c.store(key, items)
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]E), nil
}

// Get returns the held collection regardless of staleness, with its fetch
// time. Used to keep the previous value visible while a refetch is pending.
func (c *Cache[E]) Get(key string) ([]E, time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item := c.entries.Get(key)
	if item == nil {
		return nil, time.Time{}, false
	}
	e := item.Value()
	return e.items, e.fetchedAt, true
}

// Invalidate marks the entry stale so the next Fetch re-hits the network.
// The held collection stays readable through Get until then.
func (c *Cache[E]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if item := c.entries.Get(key); item != nil {
		item.Value().stale = true
	}
}

// Patch rewrites matching entities in the cached collection in place. A
// missing entry is a no-op: an optimistic update never fabricates a
// collection.
func (c *Cache[E]) Patch(key, id string, update func(E) E) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item := c.entries.Get(key)
	if item == nil {
		return
	}
	e := item.Value()
	for i := range e.items {
		if e.items[i].EntityID() == id {
			e.items[i] = update(e.items[i])
		}
	}
}

// Clear drops every entry unconditionally.
func (c *Cache[E]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.DeleteAll()
}

// Stop ends the background eviction loop.
func (c *Cache[E]) Stop() {
	c.entries.Stop()
}

func (c *Cache[E]) fresh(key string) ([]E, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item := c.entries.Get(key)
	if item == nil {
		return nil, false
	}
	e := item.Value()
	if e.stale {
		return nil, false
	}
	if c.ttl > 0 && time.Since(e.fetchedAt) >= c.ttl {
		return nil, false
	}
	return e.items, true
}

func (c *Cache[E]) store(key string, items []E) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Set(key, &entry[E]{items: items, fetchedAt: time.Now().UTC()}, ttlcache.DefaultTTL)
}
