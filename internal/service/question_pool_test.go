package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"quiz-engine/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestQuestionPool_MissLoadsAndCaches(t *testing.T) {
	ctx := context.Background()
	repo := new(MockQuestionRepository)
	cache := newFakeCache()
	pool := NewQuestionPool(repo, cache, 5*time.Minute)

	published := []*domain.QuizQuestion{testQuestion("q-1"), testQuestion("q-2")}
	repo.On("GetPublished", ctx).Return(published, nil).Once()

	result, err := pool.Published(ctx)
	assert.NoError(t, err)
	assert.Len(t, result, 2)

	cached, err := cache.Get(ctx, publishedPoolKey())
	assert.NoError(t, err)
	var fromCache []*domain.QuizQuestion
	assert.NoError(t, json.Unmarshal([]byte(cached), &fromCache))
	assert.Len(t, fromCache, 2)
	repo.AssertExpectations(t)
}

func TestQuestionPool_HitSkipsRepository(t *testing.T) {
	ctx := context.Background()
	repo := new(MockQuestionRepository)
	cache := newFakeCache()
	pool := NewQuestionPool(repo, cache, 5*time.Minute)

	published := []*domain.QuizQuestion{testQuestion("q-1")}
	data, err := json.Marshal(published)
	assert.NoError(t, err)
	assert.NoError(t, cache.Set(ctx, publishedPoolKey(), string(data), 5*time.Minute))

	result, err := pool.Published(ctx)
	assert.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, "q-1", result[0].Qid)
	repo.AssertNotCalled(t, "GetPublished", mock.Anything)
}

func TestQuestionPool_CorruptEntryFallsBack(t *testing.T) {
	ctx := context.Background()
	repo := new(MockQuestionRepository)
	cache := newFakeCache()
	pool := NewQuestionPool(repo, cache, 5*time.Minute)

	assert.NoError(t, cache.Set(ctx, publishedPoolKey(), "{not json", 5*time.Minute))
	repo.On("GetPublished", ctx).Return([]*domain.QuizQuestion{testQuestion("q-1")}, nil).Once()

	result, err := pool.Published(ctx)
	assert.NoError(t, err)
	assert.Len(t, result, 1)

	// The corrupt entry was overwritten with the fresh pool.
	cached, err := cache.Get(ctx, publishedPoolKey())
	assert.NoError(t, err)
	var fromCache []*domain.QuizQuestion
	assert.NoError(t, json.Unmarshal([]byte(cached), &fromCache))
	assert.Len(t, fromCache, 1)
}

func TestQuestionPool_NilCacheGoesToRepository(t *testing.T) {
	ctx := context.Background()
	repo := new(MockQuestionRepository)
	pool := NewQuestionPool(repo, nil, 5*time.Minute)

	repo.On("GetPublished", ctx).Return([]*domain.QuizQuestion{testQuestion("q-1")}, nil)

	result, err := pool.Published(ctx)
	assert.NoError(t, err)
	assert.Len(t, result, 1)
}

func TestQuestionPool_Invalidate(t *testing.T) {
	ctx := context.Background()
	repo := new(MockQuestionRepository)
	cache := newFakeCache()
	pool := NewQuestionPool(repo, cache, 5*time.Minute)

	assert.NoError(t, cache.Set(ctx, publishedPoolKey(), "[]", 5*time.Minute))
	assert.NoError(t, pool.Invalidate(ctx))

	_, err := cache.Get(ctx, publishedPoolKey())
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestQuestionPool_RepositoryErrorPropagates(t *testing.T) {
	ctx := context.Background()
	repo := new(MockQuestionRepository)
	pool := NewQuestionPool(repo, newFakeCache(), 5*time.Minute)

	repo.On("GetPublished", ctx).Return(nil, assert.AnError)

	_, err := pool.Published(ctx)
	assert.ErrorIs(t, err, assert.AnError)
}
