package cache

import (
	"context"
	"geohash-service/config"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RegionCache, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	c, err := New(context.Background(), config.RedisConfig{Addr: s.Addr(), TTL: time.Minute})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, s
}

func TestRegionKey(t *testing.T) {
	key := RegionKey{LatMin: -1.5, LatMax: 1, LonMin: 0, LonMax: 10.25, Precision: 5}
	require.Equal(t, "region:5:-1.5:1:0:10.25", key.String())
}

func TestRegionCacheRoundTrip(t *testing.T) {
	c, s := newTestCache(t)
	ctx := context.Background()
	key := RegionKey{LatMin: -1, LatMax: 1, LonMin: -1, LonMax: 1, Precision: 1}

	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.Set(ctx, key, []string{"s", "k", "e", "7"}))

	hashes, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"s", "k", "e", "7"}, hashes)

	s.FastForward(2 * time.Minute)
	_, ok, err = c.Get(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRegionCacheEmptyResult(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	key := RegionKey{LatMin: 1, LatMax: 0, Precision: 3}

	require.NoError(t, c.Set(ctx, key, []string{}))
	hashes, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Empty(t, hashes)
}

func TestRegionCacheCorruptEntry(t *testing.T) {
	c, s := newTestCache(t)
	key := RegionKey{Precision: 2}
	require.NoError(t, s.Set(key.String(), "not json"))

	_, _, err := c.Get(context.Background(), key)
	require.Error(t, err)
}

func TestNewUnreachable(t *testing.T) {
	s := miniredis.RunT(t)
	addr := s.Addr()
	s.Close()

	_, err := New(context.Background(), config.RedisConfig{Addr: addr})
	require.Error(t, err)
}

func TestNewWithClient(t *testing.T) {
	s := miniredis.RunT(t)
	c := NewWithClient(redis.NewClient(&redis.Options{Addr: s.Addr()}), 0)
	defer c.Close()

	key := RegionKey{Precision: 1}
	require.NoError(t, c.Set(context.Background(), key, []string{"s"}))
	require.Equal(t, time.Duration(0), s.TTL(key.String()))
}
