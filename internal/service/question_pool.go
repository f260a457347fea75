package service

import (
	"context"
	"encoding/json"
	"time"

	"quiz-engine/internal/cache"
	"quiz-engine/internal/domain"
	"quiz-engine/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// PublishedPool provides the published question catalog to the engine.
type PublishedPool interface {
	Published(ctx context.Context) ([]*domain.QuizQuestion, error)
	Invalidate(ctx context.Context) error
}

// questionPool is a cache-aside loader for the published pool. Every
// selection scans the whole published set, so the set is cached in Redis
// and concurrent misses are coalesced through singleflight.
type questionPool struct {
	repo  domain.QuestionRepository
	cache domain.Cache
	ttl   time.Duration
	group singleflight.Group
}

// NewQuestionPool creates a PublishedPool over the question repository.
// cacheClient may be nil, in which case every call hits the repository.
func NewQuestionPool(repo domain.QuestionRepository, cacheClient domain.Cache, ttl time.Duration) PublishedPool {
	return &questionPool{
		repo:  repo,
		cache: cacheClient,
		ttl:   ttl,
	}
}

func publishedPoolKey() string {
	return cache.GenerateCacheKey("quiz", "pool", "published")
}

// Published implements PublishedPool
func (p *questionPool) Published(ctx context.Context) ([]*domain.QuizQuestion, error) {
	key := publishedPoolKey()

	if p.cache != nil {
		cached, err := p.cache.Get(ctx, key)
		if err == nil {
			var pool []*domain.QuizQuestion
			if unmarshalErr := json.Unmarshal([]byte(cached), &pool); unmarshalErr == nil {
				return pool, nil
			}
			// A corrupt entry is treated as a miss and overwritten below.
			logger.Get().Warn("QuestionPool: dropping unreadable cache entry", zap.String("key", key))
		} else if err != domain.ErrCacheMiss {
			logger.Get().Error("QuestionPool: cache read failed, falling back to repository",
				zap.String("key", key),
				zap.Error(err))
		}
	}

	result, err, _ := p.group.Do(key, func() (interface{}, error) {
		pool, loadErr := p.repo.GetPublished(ctx)
		if loadErr != nil {
			return nil, loadErr
		}

		if p.cache != nil {
			if data, marshalErr := json.Marshal(pool); marshalErr == nil {
				if setErr := p.cache.Set(ctx, key, string(data), p.ttl); setErr != nil {
					logger.Get().Error("QuestionPool: cache write failed",
						zap.String("key", key),
						zap.Error(setErr))
				}
			}
		}
		return pool, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]*domain.QuizQuestion), nil
}

// Invalidate implements PublishedPool. Called after the catalog changes.
func (p *questionPool) Invalidate(ctx context.Context) error {
	if p.cache == nil {
		return nil
	}
	return p.cache.Delete(ctx, publishedPoolKey())
}
