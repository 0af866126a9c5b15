package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/devxstore/storefront/pkg/common/jsonutil"
	"github.com/redis/go-redis/v9"
)

type localEntry struct {
	expires time.Time
	data    []byte
}

// Cache keeps upstream api responses in redis with a short in-process layer
// in front of it, so a storefront restart or a fleet of instances does not
// hammer the upstream.
type Cache struct {
	client *redis.Client
	mu     sync.Mutex
	local  map[string]localEntry
}

const localTtl = time.Minute

func NewCache(addr, password string, db int) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Cache{client: rdb, local: make(map[string]localEntry)}
}

func (c *Cache) Get(ctx context.Context, key string, out any) error {
	c.mu.Lock()
	entry, found := c.local[key]
	if found && time.Now().Before(entry.expires) {
		c.mu.Unlock()
		return jsonutil.Unmarshal(entry.data, out)
	}
	delete(c.local, key)
	c.mu.Unlock()

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	if err := jsonutil.Unmarshal(data, out); err != nil {
		return err
	}
	c.mu.Lock()
	c.local[key] = localEntry{expires: time.Now().Add(localTtl), data: data}
	c.mu.Unlock()
	return nil
}

func (c *Cache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	data, err := jsonutil.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.local[key] = localEntry{expires: time.Now().Add(min(localTtl, expiration)), data: data}
	c.mu.Unlock()
	return c.client.Set(ctx, key, data, expiration).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}
