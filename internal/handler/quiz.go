package handler

import (
	"quiz-engine/internal/domain"
	"quiz-engine/internal/dto"
	"quiz-engine/internal/logger"
	"quiz-engine/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service service.QuizService
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService) *QuizHandler {
	return &QuizHandler{service: service}
}

// EnsureSession handles POST /api/quiz/session
func (h *QuizHandler) EnsureSession(c *fiber.Ctx) error {
	var req dto.EnsureSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("request body is malformed")
	}
	if req.ClientID == "" {
		return domain.NewInvalidInputError("client_id is required")
	}

	sessionID, err := h.service.EnsureSession(c.Context(), req.ClientID, req.Mode)
	if err != nil {
		logger.Get().Error("Failed to ensure session",
			zap.Error(err),
			zap.String("client_id", req.ClientID),
		)
		return err
	}

	return c.JSON(dto.EnsureSessionResponse{SessionID: sessionID})
}

// NextQuestion handles GET /api/quiz/next
func (h *QuizHandler) NextQuestion(c *fiber.Ctx) error {
	clientID := c.Query("client_id")
	sessionID := c.Query("session_id")
	if clientID == "" || sessionID == "" {
		return domain.NewInvalidInputError("client_id and session_id are required")
	}

	view, err := h.service.NextQuestion(
		c.Context(),
		clientID,
		sessionID,
		c.Query("category"),
		c.Query("difficulty"),
	)
	if err != nil {
		logger.Get().Error("Failed to get next question",
			zap.Error(err),
			zap.String("session_id", sessionID),
		)
		return err
	}
	if view == nil {
		return c.JSON(dto.QuestionViewResponse{Status: dto.StatusEmpty})
	}
	return c.JSON(view)
}

// PrepareNextQuestion handles POST /api/quiz/prepare
func (h *QuizHandler) PrepareNextQuestion(c *fiber.Ctx) error {
	var req dto.PrepareNextQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("request body is malformed")
	}
	if req.SessionID == "" {
		return domain.NewInvalidInputError("session_id is required")
	}

	qid, err := h.service.PrepareNextQuestion(c.Context(), req.SessionID, req.Category, req.Difficulty)
	if err != nil {
		logger.Get().Error("Failed to prepare next question",
			zap.Error(err),
			zap.String("session_id", req.SessionID),
		)
		return err
	}
	if qid == "" {
		return c.JSON(dto.PrepareNextQuestionResponse{Status: dto.StatusNoCandidates})
	}
	return c.JSON(dto.PrepareNextQuestionResponse{Status: dto.StatusOK, Qid: qid})
}

// SubmitAnswer handles POST /api/quiz/answer
func (h *QuizHandler) SubmitAnswer(c *fiber.Ctx) error {
	var req dto.SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("request body is malformed")
	}
	if req.ClientID == "" || req.SessionID == "" || req.Qid == "" {
		return domain.NewInvalidInputError("client_id, session_id and qid are required")
	}
	if req.SelectedIndex < 0 {
		return domain.NewInvalidInputError("selected_index must not be negative")
	}

	result, err := h.service.SubmitAnswer(c.Context(), &req)
	if err != nil {
		logger.Get().Error("Failed to submit answer",
			zap.Error(err),
			zap.String("session_id", req.SessionID),
			zap.String("qid", req.Qid),
		)
		return err
	}
	return c.JSON(result)
}

// GetStats handles GET /api/quiz/stats
func (h *QuizHandler) GetStats(c *fiber.Ctx) error {
	clientID := c.Query("client_id")
	if clientID == "" {
		return domain.NewInvalidInputError("client_id is required")
	}

	stats, err := h.service.GetStats(c.Context(), clientID)
	if err != nil {
		logger.Get().Error("Failed to get stats",
			zap.Error(err),
			zap.String("client_id", clientID),
		)
		return err
	}
	if stats == nil {
		// No stats yet is a normal first-contact state.
		return c.JSON(nil)
	}
	return c.JSON(stats)
}
