// Package cachex holds the cache contract shared by the Redis and in-memory
// snapshot stores.
package cachex

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Store is a JSON value cache.
type Store interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any) error
}

// Key hashes content so raw query values never appear in cache keys.
func Key(prefix, content string) string {
	hash := sha256.Sum256([]byte(content))
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Memory is an in-process Store. Values are kept as JSON so callers never
// share memory with the cache.
type Memory struct {
	items *gocache.Cache
}

var _ Store = (*Memory)(nil)

// NewMemory creates an in-memory store whose entries expire after ttl.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{items: gocache.New(ttl, 2*ttl)}
}

func (m *Memory) Get(_ context.Context, key string, dest any) error {
	raw, ok := m.items.Get(key)
	if !ok {
		return ErrCacheMiss
	}
	data, ok := raw.([]byte)
	if !ok {
		return fmt.Errorf("unexpected cached type %T", raw)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal cached data: %w", err)
	}
	return nil
}

func (m *Memory) Set(_ context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal data for cache: %w", err)
	}
	m.items.Set(key, data, gocache.DefaultExpiration)
	return nil
}

// Delete removes a key.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.items.Delete(key)
	return nil
}
