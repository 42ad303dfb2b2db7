package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/deppfellow/talent-catalog/internal/metrics"
)

// CountryNamesKey is the Redis hash holding country id -> name.
const CountryNamesKey = "talentcatalog:country-names"

// CountryNameCache keeps the country name index in a Redis hash so candidate
// projections don't reload every country per request.
type CountryNameCache struct {
	client  *redis.Client
	ttl     time.Duration
	metrics *metrics.Metrics
}

func NewCountryNameCache(client *redis.Client, ttl time.Duration, m *metrics.Metrics) *CountryNameCache {
	return &CountryNameCache{client: client, ttl: ttl, metrics: m}
}

// Get returns the cached index. ok is false on a miss.
func (c *CountryNameCache) Get(ctx context.Context) (map[int64]string, bool, error) {
	fields, err := c.client.HGetAll(ctx, CountryNamesKey).Result()
	if errors.Is(err, redis.Nil) || (err == nil && len(fields) == 0) {
		c.metrics.RecordCacheLookup("country_names", false)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	names := make(map[int64]string, len(fields))
	for k, v := range fields {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			// a foreign field; treat the whole entry as stale
			c.metrics.RecordCacheLookup("country_names", false)
			return nil, false, nil
		}
		names[id] = v
	}
	c.metrics.RecordCacheLookup("country_names", true)
	return names, true, nil
}

// Set replaces the cached index and restarts its TTL.
func (c *CountryNameCache) Set(ctx context.Context, names map[int64]string) error {
	if len(names) == 0 {
		return c.Invalidate(ctx)
	}

	values := make(map[string]any, len(names))
	for id, name := range names {
		values[strconv.FormatInt(id, 10)] = name
	}

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, CountryNamesKey)
		pipe.HSet(ctx, CountryNamesKey, values)
		pipe.Expire(ctx, CountryNamesKey, c.ttl)
		return nil
	})
	return err
}

func (c *CountryNameCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, CountryNamesKey).Err()
}
