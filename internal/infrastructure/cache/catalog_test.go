package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type page struct {
	Slugs []string `json:"slugs"`
}

func newTestCatalog(t *testing.T) (*Catalog, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCatalog(client, time.Minute), mr
}

func TestFetchJSONCachesUntilBump(t *testing.T) {
	c, mr := newTestCatalog(t)
	ctx := context.Background()

	calls := 0
	loader := func(context.Context) (interface{}, error) {
		calls++
		return page{Slugs: []string{"abrazadera-reparacion"}}, nil
	}

	key, err := c.BuildKey(ctx, "products", "all", "1")
	require.NoError(t, err)
	assert.Equal(t, "catalog:products:all:1:v1", key)

	var got page
	require.NoError(t, c.FetchJSON(ctx, key, &got, loader))
	require.NoError(t, c.FetchJSON(ctx, key, &got, loader))
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"abrazadera-reparacion"}, got.Slugs)
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Minute, mr.TTL(key))

	require.NoError(t, c.Bump(ctx))
	key, err = c.BuildKey(ctx, "products", "all", "1")
	require.NoError(t, err)
	assert.Equal(t, "catalog:products:all:1:v2", key)

	require.NoError(t, c.FetchJSON(ctx, key, &got, loader))
	assert.Equal(t, 2, calls)
}

func TestFetchJSONLoaderError(t *testing.T) {
	c, mr := newTestCatalog(t)
	ctx := context.Background()

	boom := errors.New("db down")
	var got page
	err := c.FetchJSON(ctx, "catalog:x", &got, func(context.Context) (interface{}, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("catalog:x"))
}

func TestNilCatalogPassesThrough(t *testing.T) {
	var c *Catalog
	ctx := context.Background()

	key, err := c.BuildKey(ctx, "product", "kit-epoxico")
	require.NoError(t, err)
	assert.Equal(t, "catalog:product:kit-epoxico", key)

	var got page
	require.NoError(t, c.FetchJSON(ctx, key, &got, func(context.Context) (interface{}, error) {
		return page{Slugs: []string{"kit-epoxico"}}, nil
	}))
	assert.Equal(t, []string{"kit-epoxico"}, got.Slugs)
	assert.NoError(t, c.Bump(ctx))
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	_ = client.Close()

	addr := mr.Addr()
	mr.Close()
	_, err = NewRedisClient(context.Background(), addr, "", 0)
	assert.Error(t, err)
}
