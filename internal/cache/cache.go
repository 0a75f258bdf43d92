package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// CurrentWeatherCache is an optional Redis read-through cache for per-city
// current-conditions responses. A cache miss or any Redis failure is treated
// as a miss; the caller always has the provider as source of truth.
type CurrentWeatherCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis and verifies the connection. Returns an error when
// the server is unreachable so the caller can decide to run without caching.
func New(addr string, ttl time.Duration) (*CurrentWeatherCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &CurrentWeatherCache{client: client, ttl: ttl}, nil
}

func key(city string) string {
	return "current_weather:" + city
}

// Get unmarshals the cached entry for a city into v. Returns false on miss.
func (c *CurrentWeatherCache) Get(ctx context.Context, city string, v interface{}) bool {
	data, err := c.client.Get(ctx, key(city)).Result()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		log.Printf("cache: get failed for %s: %v", city, err)
		return false
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		log.Printf("cache: corrupt entry for %s: %v", city, err)
		return false
	}
	return true
}

// Set stores the entry for a city with the configured TTL. Failures are
// logged and swallowed; caching is best effort.
func (c *CurrentWeatherCache) Set(ctx context.Context, city string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("cache: marshal failed for %s: %v", city, err)
		return
	}
	if err := c.client.Set(ctx, key(city), data, c.ttl).Err(); err != nil {
		log.Printf("cache: set failed for %s: %v", city, err)
	}
}

// Close closes the underlying client.
func (c *CurrentWeatherCache) Close() error {
	return c.client.Close()
}
