package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/student-management-api/internal/dto"
	"github.com/noah-isme/student-management-api/internal/models"
	"github.com/noah-isme/student-management-api/internal/observability"
)

const studentCacheGenerationKey = "students:generation"

// studentPageCache stores rendered list and search pages in Redis. Keys embed a
// generation counter; bumping it retires every cached page at once.
type studentPageCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

func newStudentPageCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *studentPageCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &studentPageCache{client: client, ttl: ttl, logger: logger}
}

func (c *studentPageCache) key(ctx context.Context, scope, query string, page models.Pageable) (string, bool) {
	if c == nil {
		return "", false
	}

	generation, err := c.client.Get(ctx, studentCacheGenerationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.logger.Warn().Err(err).Msg("failed to read student cache generation")
		observability.StudentPageCache().WithLabelValues("error").Inc()
		return "", false
	}

	return fmt.Sprintf("students:page:v%d:%s:%s:%d:%d:%s:%t",
		generation, scope, url.QueryEscape(query), page.Page, page.Size, page.SortField, page.SortDescending), true
}

func (c *studentPageCache) get(ctx context.Context, key string) (dto.StudentPageResponse, bool) {
	if c == nil || key == "" {
		return dto.StudentPageResponse{}, false
	}

	cached, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Str("key", key).Msg("failed to read cached student page")
		}
		observability.StudentPageCache().WithLabelValues("miss").Inc()
		return dto.StudentPageResponse{}, false
	}

	var response dto.StudentPageResponse
	if err := json.Unmarshal(cached, &response); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("discarding malformed cached student page")
		observability.StudentPageCache().WithLabelValues("miss").Inc()
		return dto.StudentPageResponse{}, false
	}

	observability.StudentPageCache().WithLabelValues("hit").Inc()
	return response, true
}

func (c *studentPageCache) set(ctx context.Context, key string, response dto.StudentPageResponse) {
	if c == nil || key == "" {
		return
	}

	payload, err := json.Marshal(response)
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to encode student page for cache")
		return
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("failed to cache student page")
	}
}

func (c *studentPageCache) invalidate(ctx context.Context) {
	if c == nil {
		return
	}

	if err := c.client.Incr(ctx, studentCacheGenerationKey).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("failed to invalidate student page cache")
	}
}
