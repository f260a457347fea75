package domain

import "time"

// QuizQuestion is authored content. The engine only ever reads published
// questions; creation and editing happen in the authoring tools.
type QuizQuestion struct {
	ID           string
	Qid          string
	Prompt       string
	Choices      []string
	CorrectIndex int
	Explanation  string
	Category     string
	Difficulty   string
	Tags         []string
	IsPublished  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate validates the question
func (q *QuizQuestion) Validate() error {
	if q.Qid == "" {
		return NewInvalidInputError("qid is required")
	}
	if q.Prompt == "" {
		return NewInvalidInputError("prompt is required")
	}
	if len(q.Choices) == 0 {
		return NewInvalidInputError("at least one choice is required")
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Choices) {
		return NewInvalidInputError("correct index is out of range")
	}
	return nil
}

// QuizSession tracks one client's progress through the question pool.
// CurrentQid empty means "needs a new pick". RecentQids is the FIFO
// exclusion window for anti-repetition.
type QuizSession struct {
	ID         string
	ClientID   string
	Mode       string
	CurrentQid string
	RecentQids []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewQuizSession creates a session for a client with an empty history.
func NewQuizSession(clientID, mode string) *QuizSession {
	now := time.Now()
	return &QuizSession{
		ClientID:   clientID,
		Mode:       mode,
		RecentQids: []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// HasCurrentQuestion reports whether a question is being served.
func (s *QuizSession) HasCurrentQuestion() bool {
	return s.CurrentQid != ""
}

// AssignQuestion sets qid as the question being served. Any previously
// active question is overwritten.
func (s *QuizSession) AssignQuestion(qid string, now time.Time) {
	s.CurrentQid = qid
	s.UpdatedAt = now
}

// RecordAnswered appends qid to the recent history, evicting the oldest
// entry once the window is full, and clears the active question so the
// next one must be explicitly selected.
func (s *QuizSession) RecordAnswered(qid string, historySize int, now time.Time) {
	recent := append(s.RecentQids, qid)
	if len(recent) > historySize {
		recent = recent[1:]
	}
	s.RecentQids = recent
	s.CurrentQid = ""
	s.UpdatedAt = now
}

// QuizStats is the per-client answer counters. Total and Correct only grow;
// Streak resets on a wrong answer; DailyCount belongs to LastAnsweredDay and
// restarts at 1 on the first answer of a new day.
type QuizStats struct {
	ID              string
	ClientID        string
	Total           int
	Correct         int
	Streak          int
	DailyCount      int
	LastAnsweredDay string
	LastAnsweredAt  time.Time
	UpdatedAt       time.Time
}

// NewQuizStats creates the stats row for a client's first recorded answer.
func NewQuizStats(clientID string, isCorrect bool, day string, now time.Time) *QuizStats {
	s := &QuizStats{
		ClientID:        clientID,
		Total:           1,
		DailyCount:      1,
		LastAnsweredDay: day,
		LastAnsweredAt:  now,
		UpdatedAt:       now,
	}
	if isCorrect {
		s.Correct = 1
		s.Streak = 1
	}
	return s
}

// LimitReached reports whether the daily cap applies: the client has already
// recorded `limit` answers on `day`.
func (s *QuizStats) LimitReached(day string, limit int) bool {
	return s.LastAnsweredDay == day && s.DailyCount >= limit
}

// ApplyAnswer folds one accepted answer into the counters. A day different
// from LastAnsweredDay restarts DailyCount at 1 rather than incrementing.
func (s *QuizStats) ApplyAnswer(isCorrect bool, day string, now time.Time) {
	if s.LastAnsweredDay != day {
		s.DailyCount = 1
	} else {
		s.DailyCount++
	}
	s.Total++
	if isCorrect {
		s.Correct++
		s.Streak++
	} else {
		s.Streak = 0
	}
	s.LastAnsweredDay = day
	s.LastAnsweredAt = now
	s.UpdatedAt = now
}

// QuizAnswer is one append-only log entry per accepted submission. Category
// and difficulty are denormalized from the question for reporting.
type QuizAnswer struct {
	ID            string
	ClientID      string
	SessionID     string
	Qid           string
	SelectedIndex int
	IsCorrect     bool
	AnsweredAt    time.Time
	Category      string
	Difficulty    string
}
