// Package prefs persists per-entity "liked" overlays. An overlay is a mapping
// from entity ID to a boolean flag, namespaced per entity type, layered onto
// server data at read time and never sent back to the server.
package prefs

// Namespaces for the two overlay blobs.
const (
	NamespaceBooks     = "likedBooks"
	NamespaceLibraries = "likedLibraries"
)

// Store reads and flips liked flags.
//
// Load never fails: a missing or unparseable blob yields an empty overlay.
// Toggle flips the flag for id (absent means false), persists the full
// updated overlay and returns it.
type Store interface {
	Load(namespace string) map[string]bool
	Toggle(namespace, id string) (map[string]bool, error)
}
