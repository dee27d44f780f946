package film

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/kinora/kinora/internal/platform/constants"
)

// Cache stores the popularity ranking in Redis, keyed per requested count.
//
// Entries carry a short TTL as a safety net; any film or like mutation
// also invalidates the whole prefix eagerly. The cache is strictly
// best-effort — read failures fall through to the repository.
type Cache struct {
	client *redis.Client
	logger *slog.Logger
}

// NewCache wraps a connected Redis client.
func NewCache(client *redis.Client, logger *slog.Logger) *Cache {
	return &Cache{client: client, logger: logger}
}

// GetPopular returns the cached ranking for count, if present and decodable.
func (cache *Cache) GetPopular(context context.Context, count int) ([]*Film, bool) {
	payload, err := cache.client.Get(context, popularKey(count)).Bytes()
	if err != nil {
		if err != redis.Nil {
			cache.logger.Warn("popular_cache_get_failed", slog.Any("error", err))
		}
		return nil, false
	}

	var films []*Film
	if err := json.Unmarshal(payload, &films); err != nil {
		cache.logger.Warn("popular_cache_decode_failed", slog.Any("error", err))
		return nil, false
	}
	return films, true
}

// SetPopular stores a ranking with the standard TTL. Failures are logged only.
func (cache *Cache) SetPopular(context context.Context, count int, films []*Film) {
	payload, err := json.Marshal(films)
	if err != nil {
		cache.logger.Warn("popular_cache_encode_failed", slog.Any("error", err))
		return
	}

	if err := cache.client.Set(context, popularKey(count), payload, constants.PopularCacheTTL).Err(); err != nil {
		cache.logger.Warn("popular_cache_set_failed", slog.Any("error", err))
	}
}

// InvalidatePopular removes every cached ranking, one SCAN page at a time.
func (cache *Cache) InvalidatePopular(context context.Context) error {
	iter := cache.client.Scan(context, 0, constants.RedisPrefixPopularFilms+"*", 0).Iterator()
	for iter.Next(context) {
		if err := cache.client.Del(context, iter.Val()).Err(); err != nil {
			return fmt.Errorf("popular_cache_del_failed: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("popular_cache_scan_failed: %w", err)
	}
	return nil
}

func popularKey(count int) string {
	return fmt.Sprintf("%s%d", constants.RedisPrefixPopularFilms, count)
}
