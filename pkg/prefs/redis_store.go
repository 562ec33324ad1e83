package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisOpTimeout = 3 * time.Second

// RedisStore keeps overlays in Redis, one JSON string per namespace key.
// Used when several admin workstations should share liked flags.
type RedisStore struct {
	mu     sync.Mutex
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis at addr. prefix namespaces the keys so the
// instance can be shared with other services.
func NewRedisStore(addr, password, prefix string) (*RedisStore, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis addr is required")
	}
	if prefix == "" {
		prefix = "ezma:prefs"
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	return &RedisStore{client: client, prefix: prefix}, nil
}

// Load returns the stored overlay, or an empty one on any read or decode
// failure.
func (r *RedisStore) Load(namespace string) map[string]bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked(namespace)
}

// Toggle flips the flag for id and persists the updated overlay.
func (r *RedisStore) Toggle(namespace, id string) (map[string]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	overlay := r.loadLocked(namespace)
	overlay[id] = !overlay[id]

	data, err := json.Marshal(overlay)
	if err != nil {
		return nil, fmt.Errorf("encode overlay: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := r.client.Set(ctx, r.key(namespace), data, 0).Err(); err != nil {
		return nil, fmt.Errorf("persist overlay: %w", err)
	}
	return overlay, nil
}

// Close releases the Redis connection.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) loadLocked(namespace string) map[string]bool {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	data, err := r.client.Get(ctx, r.key(namespace)).Bytes()
	if err != nil {
		return map[string]bool{}
	}
	overlay := map[string]bool{}
	if err := json.Unmarshal(data, &overlay); err != nil {
		return map[string]bool{}
	}
	return overlay
}

func (r *RedisStore) key(namespace string) string {
	return r.prefix + ":" + namespace
}
