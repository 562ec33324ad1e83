package cache

import "sync"

// Clearer wipes a cache.
type Clearer interface {
	Clear()
}

// Registry tracks every resource cache so a session collapse can wipe them
// all: no resource's data survives a deauthentication.
type Registry struct {
	mu       sync.Mutex
	clearers []Clearer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a cache to the collapse set.
func (r *Registry) Register(c Clearer) {
	r.mu.Lock()
	r.clearers = append(r.clearers, c)
	r.mu.Unlock()
}

// Clear wipes every registered cache.
func (r *Registry) Clear() {
	r.mu.Lock()
	clearers := append([]Clearer(nil), r.clearers...)
	r.mu.Unlock()
	for _, c := range clearers {
		c.Clear()
	}
}
