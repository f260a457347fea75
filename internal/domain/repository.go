package domain

import (
	"context"
	"time"
)

// SessionRepository owns the per-client QuizSession rows.
type SessionRepository interface {
	GetByClientID(ctx context.Context, clientID string) (*QuizSession, error)
	GetByID(ctx context.Context, id string) (*QuizSession, error)
	Create(ctx context.Context, session *QuizSession) error
	// Update patches the mutable fields (mode, current qid, recent history,
	// updated at) of a single row. One row per statement is the atomicity
	// contract; there are no multi-row transactions in this engine.
	Update(ctx context.Context, session *QuizSession) error
}

// QuestionRepository is the read side of the authored question catalog.
type QuestionRepository interface {
	GetByQid(ctx context.Context, qid string) (*QuizQuestion, error)
	GetPublished(ctx context.Context) ([]*QuizQuestion, error)
	Save(ctx context.Context, question *QuizQuestion) error
}

// StatsRepository owns the per-client QuizStats rows.
type StatsRepository interface {
	GetByClientID(ctx context.Context, clientID string) (*QuizStats, error)
	Create(ctx context.Context, stats *QuizStats) error
	Update(ctx context.Context, stats *QuizStats) error
}

// AnswerLogRepository appends accepted submissions. Entries are never
// mutated or deleted by the engine.
type AnswerLogRepository interface {
	Append(ctx context.Context, answer *QuizAnswer) error
}

// Cache is the engine's view of the key-value cache. Get returns
// ErrCacheMiss when the key is absent.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
