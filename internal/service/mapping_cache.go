package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"whichcharacter/internal/traits"
)

// MappingCache es la capa caliente delante del store persistido de mappings.
// Es best-effort: un miss o un error de red simplemente cae al siguiente paso.
type MappingCache interface {
	Get(ctx context.Context, category, name string) (traits.Vector, bool)
	Set(ctx context.Context, category, name string, vector traits.Vector)
	Delete(ctx context.Context, category, name string)
}

type memoryMappingCache struct {
	mu    sync.Mutex
	items map[string]traits.Vector
}

func NewMemoryMappingCache() MappingCache {
	return &memoryMappingCache{items: make(map[string]traits.Vector)}
}

func (c *memoryMappingCache) Get(_ context.Context, category, name string) (traits.Vector, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[category+":"+name]
	return v, ok
}

func (c *memoryMappingCache) Set(_ context.Context, category, name string, vector traits.Vector) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[category+":"+name] = vector
}

func (c *memoryMappingCache) Delete(_ context.Context, category, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, category+":"+name)
}

type redisMappingCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisMappingCache construye la capa redis; nil deshabilita la capa.
func NewRedisMappingCache(client *redis.Client, ttl time.Duration) MappingCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &redisMappingCache{
		client: client,
		ttl:    ttl,
		prefix: "traits:map:",
	}
}

func (c *redisMappingCache) Get(ctx context.Context, category, name string) (traits.Vector, bool) {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	raw, err := c.client.Get(ctx, c.prefix+category+":"+name).Bytes()
	if err != nil {
		return nil, false
	}
	var v traits.Vector
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false
	}
	return v, true
}

func (c *redisMappingCache) Set(ctx context.Context, category, name string, vector traits.Vector) {
	raw, err := json.Marshal(vector)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	_ = c.client.Set(ctx, c.prefix+category+":"+name, raw, c.ttl).Err()
}

func (c *redisMappingCache) Delete(ctx context.Context, category, name string) {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	_ = c.client.Del(ctx, c.prefix+category+":"+name).Err()
}
