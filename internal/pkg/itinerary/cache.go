package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ijalalfrz/flight-itinerary-search/internal/app/dto"
	"github.com/ijalalfrz/flight-itinerary-search/internal/pkg/catalog"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
)

type RedisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// ErrCacheMiss is returned by GetItineraries when nothing is cached under the key.
var ErrCacheMiss = errors.New("itineraries not cached")

// ItineraryCache stores search results per catalog. Calls go through a
// circuit breaker so an unavailable Redis fails fast.
type ItineraryCache struct {
	redis   RedisClient
	breaker *gobreaker.CircuitBreaker
}

func NewItineraryCache(client RedisClient) *ItineraryCache {
	return &ItineraryCache{
		redis: client,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "itinerary-cache",
			MaxRequests: 1,
			Interval:    30 * time.Second,
			Timeout:     10 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			IsSuccessful: func(err error) bool {
				// a missing key is a healthy answer
				return err == nil || errors.Is(err, redis.Nil)
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				slog.Warn("circuit breaker state changed",
					slog.String("name", name),
					slog.String("from", from.String()),
					slog.String("to", to.String()))
			},
		}),
	}
}

func (c *ItineraryCache) GetLockKey(cat *catalog.Catalog) string {
	return fmt.Sprintf("itinerary:lock:%s", cat.Fingerprint())
}

func (c *ItineraryCache) GetCacheKey(cat *catalog.Catalog) string {
	return fmt.Sprintf("itinerary:cache:%s", cat.Fingerprint())
}

func (c *ItineraryCache) AcquireLock(ctx context.Context, key string, timeout time.Duration) (bool, error) {
	acquired, err := c.breaker.Execute(func() (interface{}, error) {
		return c.redis.SetNX(ctx, key, "1", timeout).Result()
	})
	if err != nil {
		return false, err
	}

	return acquired.(bool), nil
}

func (c *ItineraryCache) ReleaseLock(ctx context.Context, key string) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.redis.Del(ctx, key).Err()
	})

	return err
}

func (c *ItineraryCache) SetItineraries(ctx context.Context,
	key string,
	items []dto.Itinerary,
	expiration time.Duration,
) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal itineraries: %w", err)
	}

	_, err = c.breaker.Execute(func() (interface{}, error) {
		return nil, c.redis.Set(ctx, key, data, expiration).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to set itineraries: %w", err)
	}

	return nil
}

func (c *ItineraryCache) GetItineraries(ctx context.Context, key string) ([]dto.Itinerary, error) {
	data, err := c.breaker.Execute(func() (interface{}, error) {
		return c.redis.Get(ctx, key).Bytes()
	})
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}

	if err != nil {
		return nil, err
	}

	var items []dto.Itinerary
	if err := json.Unmarshal(data.([]byte), &items); err != nil {
		return nil, err
	}

	return items, nil
}
