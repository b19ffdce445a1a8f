package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"geohash-service/config"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "region:"

// RegionKey identifies a region enumeration. The cell limit is not part of
// the key: a successful enumeration has the same result for every limit.
type RegionKey struct {
	LatMin, LatMax float64
	LonMin, LonMax float64
	Precision      uint
}

func (k RegionKey) String() string {
	return fmt.Sprintf("%s%d:%s:%s:%s:%s", keyPrefix, k.Precision,
		formatFloat(k.LatMin), formatFloat(k.LatMax),
		formatFloat(k.LonMin), formatFloat(k.LonMax))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// RegionCache stores region enumerations in Redis as JSON arrays.
type RegionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis and checks the connection.
func New(ctx context.Context, cfg config.RedisConfig) (*RegionCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewWithClient(client, cfg.TTL), nil
}

// NewWithClient wraps an existing client. A zero ttl stores entries without expiry.
func NewWithClient(client *redis.Client, ttl time.Duration) *RegionCache {
	return &RegionCache{client: client, ttl: ttl}
}

// Get returns the cached hashes for key; ok is false on a miss.
func (c *RegionCache) Get(ctx context.Context, key RegionKey) (hashes []string, ok bool, err error) {
	data, err := c.client.Get(ctx, key.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, &hashes); err != nil {
		return nil, false, fmt.Errorf("decoding cached region %s: %w", key, err)
	}
	return hashes, true, nil
}

// Set stores hashes under key for the configured ttl.
func (c *RegionCache) Set(ctx context.Context, key RegionKey, hashes []string) error {
	data, err := json.Marshal(hashes)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key.String(), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (c *RegionCache) Close() error {
	return c.client.Close()
}
