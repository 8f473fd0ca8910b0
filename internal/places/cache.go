package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
)

// Cache stores lookup results keyed on rounded coordinates.
type Cache interface {
	Get(ctx context.Context, key string) ([]Station, bool, error)
	Set(ctx context.Context, key string, stations []Station) error
}

// cacheKey rounds to 4 decimals (~11 m) so nearby repeats share an entry.
func cacheKey(category string, lat, lon float64) string {
	return fmt.Sprintf("places:%s:%.4f:%.4f", category, lat, lon)
}

// OpenRedis returns a client for addr, or nil when addr is empty.
func OpenRedis(addr, pass string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})
}

// RedisCache implements Cache on go-redis.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]Station, bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, eris.Wrap(err, "places: redis get")
	}
	var stations []Station
	if err := json.Unmarshal(raw, &stations); err != nil {
		return nil, false, eris.Wrap(err, "places: decode cached stations")
	}
	return stations, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, stations []Station) error {
	raw, err := json.Marshal(stations)
	if err != nil {
		return eris.Wrap(err, "places: encode stations")
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return eris.Wrap(err, "places: redis set")
	}
	return nil
}
