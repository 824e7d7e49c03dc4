// Package cache keeps public catalog reads in Redis. Entries are keyed by a
// global version so one increment invalidates every cached page.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const catalogVersionKey = "catalog:version"

// Catalog wraps Redis based caching with versioning controls. A nil
// *Catalog, or one without a client, calls the loader every time.
type Catalog struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalog instantiates the cache helper.
func NewCatalog(client *redis.Client, ttl time.Duration) *Catalog {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Catalog{client: client, ttl: ttl}
}

func (c *Catalog) enabled() bool {
	return c != nil && c.client != nil
}

// Version returns the current cache version, initialising when missing.
func (c *Catalog) Version(ctx context.Context) (int64, error) {
	if !c.enabled() {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, catalogVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		// SetNX so two instances starting together agree on the version
		if err := c.client.SetNX(ctx, catalogVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.client.Get(ctx, catalogVersionKey).Int64()
	}
	return ver, err
}

// BuildKey composes a cache key under the current version.
func (c *Catalog) BuildKey(ctx context.Context, parts ...string) (string, error) {
	joined := "catalog:" + strings.Join(parts, ":")
	if !c.enabled() {
		return joined, nil
	}
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:v%d", joined, ver), nil
}

// FetchJSON decodes the cached value at key into dest, or calls loader,
// stores its result and decodes that.
func (c *Catalog) FetchJSON(ctx context.Context, key string, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	if loader == nil {
		return errors.New("cache: loader required")
	}
	if c.enabled() {
		payload, err := c.client.Get(ctx, key).Bytes()
		if err == nil {
			return json.Unmarshal(payload, dest)
		}
		if !errors.Is(err, redis.Nil) {
			return err
		}
	}

	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if c.enabled() {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			return err
		}
	}
	return json.Unmarshal(raw, dest)
}

// Bump invalidates every cached catalog entry.
func (c *Catalog) Bump(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	return c.client.Incr(ctx, catalogVersionKey).Err()
}
