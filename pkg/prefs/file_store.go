package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore keeps one JSON blob per namespace under a base directory.
type FileStore struct {
	mu       sync.Mutex
	basePath string
}

// NewFileStore creates the base directory if missing.
func NewFileStore(basePath string) (*FileStore, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, fmt.Errorf("prefs base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create prefs dir: %w", err)
	}
	return &FileStore{basePath: basePath}, nil
}

// Load returns the stored overlay, or an empty one when the blob is missing
// or corrupt.
func (f *FileStore) Load(namespace string) map[string]bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loadLocked(namespace)
}

// Toggle flips the flag for id and persists the updated overlay.
func (f *FileStore) Toggle(namespace, id string) (map[string]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	overlay := f.loadLocked(namespace)
	overlay[id] = !overlay[id]

	data, err := json.Marshal(overlay)
	if err != nil {
		return nil, fmt.Errorf("encode overlay: %w", err)
	}
	target := f.path(namespace)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return nil, fmt.Errorf("write overlay: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return nil, fmt.Errorf("replace overlay: %w", err)
	}
	return overlay, nil
}

func (f *FileStore) loadLocked(namespace string) map[string]bool {
	data, err := os.ReadFile(f.path(namespace))
	if err != nil {
		return map[string]bool{}
	}
	overlay := map[string]bool{}
	if err := json.Unmarshal(data, &overlay); err != nil {
		return map[string]bool{}
	}
	return overlay
}

func (f *FileStore) path(namespace string) string {
	return filepath.Join(f.basePath, safeNamespace(namespace)+".json")
}

func safeNamespace(namespace string) string {
	namespace = filepath.Base(strings.TrimSpace(namespace))
	if namespace == "" || namespace == "." {
		return "prefs"
	}
	return namespace
}
