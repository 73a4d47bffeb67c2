package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"blogdesk/internal/storage"
	redisapp "blogdesk/internal/storage/redis"

	"github.com/redis/go-redis/v9"
)

// RedisRenderCache хранит готовую разметку постов. Версией ключа служит updated_at
// поста, поэтому изменённый пост никогда не читается из старой записи.
type RedisRenderCache struct {
	Client *redisapp.Client
}

func NewRedisRenderCache(client *redisapp.Client) *RedisRenderCache {
	return &RedisRenderCache{Client: client}
}

func (r *RedisRenderCache) GetRendered(ctx context.Context, slug string, version time.Time) (string, error) {
	const op = "repository.render_cache.GetRendered"

	val, err := r.Client.Get(ctx, renderKey(slug, version)).Result()
	if errors.Is(err, redis.Nil) {
		return "", storage.ErrCacheMiss
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return val, nil
}

func (r *RedisRenderCache) SaveRendered(ctx context.Context, slug string, version time.Time, html string, ttl time.Duration) error {
	const op = "repository.render_cache.SaveRendered"

	if err := r.Client.Set(ctx, renderKey(slug, version), html, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// InvalidatePost удаляет все версии разметки поста.
func (r *RedisRenderCache) InvalidatePost(ctx context.Context, slug string) error {
	const op = "repository.render_cache.InvalidatePost"

	keys, err := r.Client.Keys(ctx, renderPrefix(slug)+"*").Result()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(keys) == 0 {
		return nil
	}

	if err := r.Client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func renderKey(slug string, version time.Time) string {
	return renderPrefix(slug) + strconv.FormatInt(version.UnixNano(), 10)
}

func renderPrefix(slug string) string {
	return "render:" + slug + ":"
}
