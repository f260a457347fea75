package service

import (
	"context"
	"time"

	"quiz-engine/internal/config"
	"quiz-engine/internal/domain"
	"quiz-engine/internal/dto"
	"quiz-engine/internal/logger"

	"go.uber.org/zap"
)

// dayFormat is the calendar-date key used for the daily quota, computed in
// UTC.
const dayFormat = "2006-01-02"

// QuizService defines the quiz session engine operations
type QuizService interface {
	// EnsureSession creates the client's session on first contact or
	// re-enters the existing one, assigning a first question when none is
	// active. It returns the session id in both cases.
	EnsureSession(ctx context.Context, clientID, mode string) (string, error)

	// NextQuestion returns the currently served question, a limit_reached
	// view when the daily quota is used up, or nil when there is nothing to
	// serve. It performs no writes.
	NextQuestion(ctx context.Context, clientID, sessionID, category, difficulty string) (*dto.QuestionViewResponse, error)

	// PrepareNextQuestion assigns a fresh question to the session,
	// overwriting any active one. It returns "" when the published pool is
	// empty.
	PrepareNextQuestion(ctx context.Context, sessionID, category, difficulty string) (string, error)

	// SubmitAnswer validates, scores, and records the answer for the
	// question currently assigned to the session.
	SubmitAnswer(ctx context.Context, req *dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error)

	// GetStats returns the client's counters, or nil when none exist yet.
	GetStats(ctx context.Context, clientID string) (*dto.StatsResponse, error)
}

// quizService implements QuizService
type quizService struct {
	sessions  domain.SessionRepository
	questions domain.QuestionRepository
	stats     domain.StatsRepository
	answers   domain.AnswerLogRepository
	pool      PublishedPool
	selector  *Selector
	cfg       config.QuizConfig
	now       func() time.Time
}

// NewQuizService creates a new instance of quizService. The selector and
// clock are injected so tests can seed randomness and freeze time.
func NewQuizService(
	sessions domain.SessionRepository,
	questions domain.QuestionRepository,
	stats domain.StatsRepository,
	answers domain.AnswerLogRepository,
	pool PublishedPool,
	selector *Selector,
	cfg config.QuizConfig,
	now func() time.Time,
) QuizService {
	if now == nil {
		now = time.Now
	}
	return &quizService{
		sessions:  sessions,
		questions: questions,
		stats:     stats,
		answers:   answers,
		pool:      pool,
		selector:  selector,
		cfg:       cfg,
		now:       now,
	}
}

func (s *quizService) today() string {
	return s.now().UTC().Format(dayFormat)
}

// pickCandidate runs the candidate selection for a session and returns one
// question, or nil when the published pool is empty.
func (s *quizService) pickCandidate(ctx context.Context, session *domain.QuizSession, category, difficulty string) (*domain.QuizQuestion, error) {
	pool, err := s.pool.Published(ctx)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load published questions", err)
	}
	candidates := SelectCandidates(pool, session, category, difficulty)
	return s.selector.PickRandom(candidates), nil
}

// EnsureSession implements QuizService
func (s *quizService) EnsureSession(ctx context.Context, clientID, mode string) (string, error) {
	if clientID == "" {
		return "", domain.NewInvalidInputError("client_id is required")
	}

	session, err := s.sessions.GetByClientID(ctx, clientID)
	if err != nil {
		return "", domain.NewInternalError("Failed to look up session", err)
	}
	now := s.now()

	if session != nil {
		if mode != "" {
			session.Mode = mode
		}
		session.UpdatedAt = now
		if !session.HasCurrentQuestion() {
			pick, pickErr := s.pickCandidate(ctx, session, "", "")
			if pickErr != nil {
				return "", pickErr
			}
			if pick != nil {
				session.AssignQuestion(pick.Qid, now)
			}
		}
		if err := s.sessions.Update(ctx, session); err != nil {
			return "", domain.NewInternalError("Failed to update session", err)
		}
		return session.ID, nil
	}

	if mode == "" {
		mode = s.cfg.DefaultMode
	}
	session = domain.NewQuizSession(clientID, mode)
	session.CreatedAt = now
	session.UpdatedAt = now

	pick, pickErr := s.pickCandidate(ctx, session, "", "")
	if pickErr != nil {
		return "", pickErr
	}
	if pick != nil {
		session.CurrentQid = pick.Qid
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return "", domain.NewInternalError("Failed to create session", err)
	}
	logger.Get().Info("Created quiz session",
		zap.String("session_id", session.ID),
		zap.String("mode", session.Mode))
	return session.ID, nil
}

// NextQuestion implements QuizService. The category/difficulty arguments
// are accepted for interface parity but do not change which question is
// served: the active question stays stable across repeated reads.
func (s *quizService) NextQuestion(ctx context.Context, clientID, sessionID, category, difficulty string) (*dto.QuestionViewResponse, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to look up session", err)
	}
	if session == nil || !session.HasCurrentQuestion() {
		return nil, nil
	}

	// Advisory quota check; SubmitAnswer recomputes it authoritatively.
	stats, err := s.stats.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to look up stats", err)
	}
	if stats != nil && stats.LimitReached(s.today(), s.cfg.DailyAnswerLimit) {
		return &dto.QuestionViewResponse{Status: dto.StatusLimitReached}, nil
	}

	question, err := s.questions.GetByQid(ctx, session.CurrentQid)
	if err != nil {
		return nil, domain.NewInternalError("Failed to look up question", err)
	}
	if question == nil {
		return nil, nil
	}

	return &dto.QuestionViewResponse{
		Status:     dto.StatusOK,
		Qid:        question.Qid,
		Prompt:     question.Prompt,
		Choices:    question.Choices,
		Category:   question.Category,
		Difficulty: question.Difficulty,
	}, nil
}

// PrepareNextQuestion implements QuizService. This is the explicit
// skip/reshuffle action: it overwrites the active question without checking
// whether it was answered.
func (s *quizService) PrepareNextQuestion(ctx context.Context, sessionID, category, difficulty string) (string, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return "", domain.NewInternalError("Failed to look up session", err)
	}
	if session == nil {
		return "", domain.NewSessionNotFoundError(sessionID)
	}

	pick, err := s.pickCandidate(ctx, session, category, difficulty)
	if err != nil {
		return "", err
	}
	if pick == nil {
		return "", nil
	}

	session.AssignQuestion(pick.Qid, s.now())
	if err := s.sessions.Update(ctx, session); err != nil {
		return "", domain.NewInternalError("Failed to update session", err)
	}
	return pick.Qid, nil
}

// SubmitAnswer implements QuizService
func (s *quizService) SubmitAnswer(ctx context.Context, req *dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error) {
	question, err := s.questions.GetByQid(ctx, req.Qid)
	if err != nil {
		return nil, domain.NewInternalError("Failed to look up question", err)
	}
	if question == nil {
		return nil, domain.NewQuestionNotFoundError(req.Qid)
	}

	session, err := s.sessions.GetByID(ctx, req.SessionID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to look up session", err)
	}
	if session == nil {
		return nil, domain.NewSessionNotFoundError(req.SessionID)
	}

	// Anti-replay guard: only the question currently assigned to the
	// session can be answered. A retry after the answer landed fails here
	// because CurrentQid has been cleared.
	if session.CurrentQid != req.Qid {
		return nil, domain.NewStateConflictError("Invalid question for this session state")
	}

	today := s.today()
	stats, err := s.stats.GetByClientID(ctx, req.ClientID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to look up stats", err)
	}
	// Authoritative quota check; nothing below runs once the cap is hit.
	if stats != nil && stats.LimitReached(today, s.cfg.DailyAnswerLimit) {
		return nil, domain.NewQuotaExceededError()
	}

	isCorrect := question.CorrectIndex == req.SelectedIndex
	now := s.now()

	if stats != nil {
		stats.ApplyAnswer(isCorrect, today, now)
		if err := s.stats.Update(ctx, stats); err != nil {
			return nil, domain.NewInternalError("Failed to update stats", err)
		}
	} else {
		stats = domain.NewQuizStats(req.ClientID, isCorrect, today, now)
		if err := s.stats.Create(ctx, stats); err != nil {
			return nil, domain.NewInternalError("Failed to create stats", err)
		}
	}

	answer := &domain.QuizAnswer{
		ClientID:      req.ClientID,
		SessionID:     req.SessionID,
		Qid:           req.Qid,
		SelectedIndex: req.SelectedIndex,
		IsCorrect:     isCorrect,
		AnsweredAt:    now,
		Category:      question.Category,
		Difficulty:    question.Difficulty,
	}
	if err := s.answers.Append(ctx, answer); err != nil {
		return nil, domain.NewInternalError("Failed to append answer log", err)
	}

	session.RecordAnswered(req.Qid, s.cfg.RecentHistorySize, now)
	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, domain.NewInternalError("Failed to update session", err)
	}

	return &dto.SubmitAnswerResponse{
		OK:           true,
		IsCorrect:    isCorrect,
		CorrectIndex: question.CorrectIndex,
		Explanation:  question.Explanation,
	}, nil
}

// GetStats implements QuizService
func (s *quizService) GetStats(ctx context.Context, clientID string) (*dto.StatsResponse, error) {
	stats, err := s.stats.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to look up stats", err)
	}
	if stats == nil {
		return nil, nil
	}
	return &dto.StatsResponse{
		ClientID:        stats.ClientID,
		Total:           stats.Total,
		Correct:         stats.Correct,
		Streak:          stats.Streak,
		DailyCount:      stats.DailyCount,
		LastAnsweredDay: stats.LastAnsweredDay,
		LastAnsweredAt:  stats.LastAnsweredAt,
	}, nil
}
