package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/ejjsharpe/cook-club-sub004/internal/types"
)

const cacheKeyPrefix = "recipe:parse:"

// CachedParse is the cache entry for a successfully parsed source: the
// recipe plus the confidence it was originally parsed with, so cache hits
// report the original signal.
type CachedParse struct {
	Recipe     types.ParsedRecipe `json:"recipe"`
	Confidence string             `json:"confidence"`
}

// RedisParseCache stores parse results in Redis. Entries have no TTL;
// eviction is the store's concern.
type RedisParseCache struct {
	client *redis.Client
}

// NewRedisParseCache creates a cache backed by the given Redis client.
func NewRedisParseCache(client *redis.Client) *RedisParseCache {
	return &RedisParseCache{client: client}
}

// Get returns the cached entry for key, or ErrCacheMiss.
func (c *RedisParseCache) Get(ctx context.Context, key string) (*CachedParse, error) {
	data, err := c.client.Get(ctx, cacheKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}

	var entry CachedParse
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache entry: %w", err)
	}
	return &entry, nil
}

// Put stores entry under key. Only schema-valid parses reach this point;
// failures are never written.
func (c *RedisParseCache) Put(ctx context.Context, key string, entry *CachedParse) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	if err := c.client.Set(ctx, cacheKeyPrefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// MemoryParseCache is an in-process ParseCache used by the CLI and tests.
type MemoryParseCache struct {
	mu   sync.RWMutex
	data map[string]CachedParse
}

// NewMemoryParseCache creates an empty in-memory cache.
func NewMemoryParseCache() *MemoryParseCache {
	return &MemoryParseCache{data: make(map[string]CachedParse)}
}

// Get returns the cached entry for key, or ErrCacheMiss.
func (c *MemoryParseCache) Get(ctx context.Context, key string) (*CachedParse, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return &entry, nil
}

// Put stores a copy of entry under key.
func (c *MemoryParseCache) Put(ctx context.Context, key string, entry *CachedParse) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = *entry
	return nil
}

// trackingParams are query parameters stripped during URL normalization;
// they never change page content.
var trackingParams = map[string]bool{
	"fbclid":  true,
	"gclid":   true,
	"msclkid": true,
	"ref":     true,
}

// NormalizeURL canonicalizes a source URL into its cache key: lowercased
// scheme/host, fragment dropped, tracking parameters stripped, trailing
// slash removed.
func NormalizeURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("url must be absolute with http or https scheme")
	}
	if u.Host == "" {
		return "", fmt.Errorf("url must have a host")
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for param := range q {
		if trackingParams[param] || strings.HasPrefix(param, "utm_") {
			q.Del(param)
		}
	}
	u.RawQuery = q.Encode()

	u.Path = strings.TrimSuffix(u.Path, "/")

	return u.String(), nil
}
