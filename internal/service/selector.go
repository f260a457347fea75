package service

import (
	"math/rand"
	"sync"

	"quiz-engine/internal/domain"
)

// SelectCandidates computes the eligible subset of the published pool for a
// session. Filters apply in sequence: recent-history exclusion, category,
// difficulty. If any stage empties the set while the pool itself is
// non-empty, the full pool is the result, so a session can never get stuck
// once at least one published question exists.
//
// Pure function over its inputs; picking happens separately.
func SelectCandidates(pool []*domain.QuizQuestion, session *domain.QuizSession, category, difficulty string) []*domain.QuizQuestion {
	if len(pool) == 0 {
		return []*domain.QuizQuestion{}
	}

	recent := make(map[string]struct{}, len(session.RecentQids))
	for _, qid := range session.RecentQids {
		recent[qid] = struct{}{}
	}

	candidates := make([]*domain.QuizQuestion, 0, len(pool))
	for _, q := range pool {
		if _, seen := recent[q.Qid]; !seen {
			candidates = append(candidates, q)
		}
	}
	if category != "" {
		filtered := candidates[:0:0]
		for _, q := range candidates {
			if q.Category == category {
				filtered = append(filtered, q)
			}
		}
		candidates = filtered
	}
	if difficulty != "" {
		filtered := candidates[:0:0]
		for _, q := range candidates {
			if q.Difficulty == difficulty {
				filtered = append(filtered, q)
			}
		}
		candidates = filtered
	}

	if len(candidates) == 0 {
		return pool
	}
	return candidates
}

// Selector picks uniformly at random from a candidate set. The random
// source is injected so tests can seed it.
type Selector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSelector creates a Selector over the given random source.
func NewSelector(rng *rand.Rand) *Selector {
	return &Selector{rng: rng}
}

// PickRandom returns one candidate chosen uniformly, or nil for an empty set.
func (s *Selector) PickRandom(candidates []*domain.QuizQuestion) *domain.QuizQuestion {
	if len(candidates) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return candidates[s.rng.Intn(len(candidates))]
}
