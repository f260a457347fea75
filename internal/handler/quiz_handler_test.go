package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"testing"

	"quiz-engine/internal/config"
	"quiz-engine/internal/domain"
	"quiz-engine/internal/dto"
	"quiz-engine/internal/handler"
	"quiz-engine/internal/logger"
	"quiz-engine/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{}); err != nil {
		panic("Failed to initialize logger for tests: " + err.Error())
	}
	exitVal := m.Run()
	_ = logger.Sync()
	os.Exit(exitVal)
}

// MockQuizService is a manual function-field mock of service.QuizService.
type MockQuizService struct {
	EnsureSessionFunc       func(ctx context.Context, clientID, mode string) (string, error)
	NextQuestionFunc        func(ctx context.Context, clientID, sessionID, category, difficulty string) (*dto.QuestionViewResponse, error)
	PrepareNextQuestionFunc func(ctx context.Context, sessionID, category, difficulty string) (string, error)
	SubmitAnswerFunc        func(ctx context.Context, req *dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error)
	GetStatsFunc            func(ctx context.Context, clientID string) (*dto.StatsResponse, error)
}

func (m *MockQuizService) EnsureSession(ctx context.Context, clientID, mode string) (string, error) {
	if m.EnsureSessionFunc != nil {
		return m.EnsureSessionFunc(ctx, clientID, mode)
	}
	panic("MockQuizService.EnsureSessionFunc not implemented")
}

func (m *MockQuizService) NextQuestion(ctx context.Context, clientID, sessionID, category, difficulty string) (*dto.QuestionViewResponse, error) {
	if m.NextQuestionFunc != nil {
		return m.NextQuestionFunc(ctx, clientID, sessionID, category, difficulty)
	}
	panic("MockQuizService.NextQuestionFunc not implemented")
}

func (m *MockQuizService) PrepareNextQuestion(ctx context.Context, sessionID, category, difficulty string) (string, error) {
	if m.PrepareNextQuestionFunc != nil {
		return m.PrepareNextQuestionFunc(ctx, sessionID, category, difficulty)
	}
	panic("MockQuizService.PrepareNextQuestionFunc not implemented")
}

func (m *MockQuizService) SubmitAnswer(ctx context.Context, req *dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error) {
	if m.SubmitAnswerFunc != nil {
		return m.SubmitAnswerFunc(ctx, req)
	}
	panic("MockQuizService.SubmitAnswerFunc not implemented")
}

func (m *MockQuizService) GetStats(ctx context.Context, clientID string) (*dto.StatsResponse, error) {
	if m.GetStatsFunc != nil {
		return m.GetStatsFunc(ctx, clientID)
	}
	panic("MockQuizService.GetStatsFunc not implemented")
}

func setupApp(svc *MockQuizService) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
	})
	h := handler.NewQuizHandler(svc)
	quiz := app.Group("/api/quiz")
	quiz.Post("/session", h.EnsureSession)
	quiz.Get("/next", h.NextQuestion)
	quiz.Post("/prepare", h.PrepareNextQuestion)
	quiz.Post("/answer", h.SubmitAnswer)
	quiz.Get("/stats", h.GetStats)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) (int, []byte) {
	t.Helper()
	body, err := json.Marshal(payload)
	assert.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	assert.NoError(t, err)
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	return resp.StatusCode, respBody
}

func getJSON(t *testing.T, app *fiber.App, path string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	return resp.StatusCode, respBody
}

func TestEnsureSessionHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := &MockQuizService{
			EnsureSessionFunc: func(ctx context.Context, clientID, mode string) (string, error) {
				assert.Equal(t, "client-1", clientID)
				assert.Equal(t, "quick", mode)
				return "sess-1", nil
			},
		}
		app := setupApp(svc)

		status, body := postJSON(t, app, "/api/quiz/session", dto.EnsureSessionRequest{
			ClientID: "client-1",
			Mode:     "quick",
		})

		assert.Equal(t, fiber.StatusOK, status)
		var resp dto.EnsureSessionResponse
		assert.NoError(t, json.Unmarshal(body, &resp))
		assert.Equal(t, "sess-1", resp.SessionID)
	})

	t.Run("MissingClientID", func(t *testing.T) {
		app := setupApp(&MockQuizService{})

		status, body := postJSON(t, app, "/api/quiz/session", dto.EnsureSessionRequest{})

		assert.Equal(t, fiber.StatusBadRequest, status)
		var errResp middleware.ErrorResponse
		assert.NoError(t, json.Unmarshal(body, &errResp))
		assert.Equal(t, string(domain.CodeInvalidInput), errResp.Code)
	})
}

func TestNextQuestionHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := &MockQuizService{
			NextQuestionFunc: func(ctx context.Context, clientID, sessionID, category, difficulty string) (*dto.QuestionViewResponse, error) {
				return &dto.QuestionViewResponse{
					Status:  dto.StatusOK,
					Qid:     "q-1",
					Prompt:  "Prompt",
					Choices: []string{"a", "b"},
				}, nil
			},
		}
		app := setupApp(svc)

		status, body := getJSON(t, app, "/api/quiz/next?client_id=client-1&session_id=sess-1")

		assert.Equal(t, fiber.StatusOK, status)
		var resp dto.QuestionViewResponse
		assert.NoError(t, json.Unmarshal(body, &resp))
		assert.Equal(t, dto.StatusOK, resp.Status)
		assert.Equal(t, "q-1", resp.Qid)
	})

	t.Run("EmptyView", func(t *testing.T) {
		svc := &MockQuizService{
			NextQuestionFunc: func(ctx context.Context, clientID, sessionID, category, difficulty string) (*dto.QuestionViewResponse, error) {
				return nil, nil
			},
		}
		app := setupApp(svc)

		status, body := getJSON(t, app, "/api/quiz/next?client_id=client-1&session_id=sess-1")

		assert.Equal(t, fiber.StatusOK, status)
		var resp dto.QuestionViewResponse
		assert.NoError(t, json.Unmarshal(body, &resp))
		assert.Equal(t, dto.StatusEmpty, resp.Status)
	})

	t.Run("LimitReachedIsNotAnError", func(t *testing.T) {
		svc := &MockQuizService{
			NextQuestionFunc: func(ctx context.Context, clientID, sessionID, category, difficulty string) (*dto.QuestionViewResponse, error) {
				return &dto.QuestionViewResponse{Status: dto.StatusLimitReached}, nil
			},
		}
		app := setupApp(svc)

		status, body := getJSON(t, app, "/api/quiz/next?client_id=client-1&session_id=sess-1")

		assert.Equal(t, fiber.StatusOK, status)
		var resp dto.QuestionViewResponse
		assert.NoError(t, json.Unmarshal(body, &resp))
		assert.Equal(t, dto.StatusLimitReached, resp.Status)
		assert.Empty(t, resp.Qid)
	})

	t.Run("MissingQueryParams", func(t *testing.T) {
		app := setupApp(&MockQuizService{})

		status, _ := getJSON(t, app, "/api/quiz/next?client_id=client-1")

		assert.Equal(t, fiber.StatusBadRequest, status)
	})
}

func TestPrepareNextQuestionHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := &MockQuizService{
			PrepareNextQuestionFunc: func(ctx context.Context, sessionID, category, difficulty string) (string, error) {
				assert.Equal(t, "sess-1", sessionID)
				assert.Equal(t, "hard", difficulty)
				return "q-9", nil
			},
		}
		app := setupApp(svc)

		status, body := postJSON(t, app, "/api/quiz/prepare", dto.PrepareNextQuestionRequest{
			SessionID:  "sess-1",
			Difficulty: "hard",
		})

		assert.Equal(t, fiber.StatusOK, status)
		var resp dto.PrepareNextQuestionResponse
		assert.NoError(t, json.Unmarshal(body, &resp))
		assert.Equal(t, dto.StatusOK, resp.Status)
		assert.Equal(t, "q-9", resp.Qid)
	})

	t.Run("NoCandidates", func(t *testing.T) {
		svc := &MockQuizService{
			PrepareNextQuestionFunc: func(ctx context.Context, sessionID, category, difficulty string) (string, error) {
				return "", nil
			},
		}
		app := setupApp(svc)

		status, body := postJSON(t, app, "/api/quiz/prepare", dto.PrepareNextQuestionRequest{
			SessionID: "sess-1",
		})

		assert.Equal(t, fiber.StatusOK, status)
		var resp dto.PrepareNextQuestionResponse
		assert.NoError(t, json.Unmarshal(body, &resp))
		assert.Equal(t, dto.StatusNoCandidates, resp.Status)
	})

	t.Run("SessionNotFound", func(t *testing.T) {
		svc := &MockQuizService{
			PrepareNextQuestionFunc: func(ctx context.Context, sessionID, category, difficulty string) (string, error) {
				return "", domain.NewSessionNotFoundError(sessionID)
			},
		}
		app := setupApp(svc)

		status, body := postJSON(t, app, "/api/quiz/prepare", dto.PrepareNextQuestionRequest{
			SessionID: "sess-x",
		})

		assert.Equal(t, fiber.StatusNotFound, status)
		var errResp middleware.ErrorResponse
		assert.NoError(t, json.Unmarshal(body, &errResp))
		assert.Equal(t, string(domain.CodeSessionNotFound), errResp.Code)
	})
}

func TestSubmitAnswerHandler(t *testing.T) {
	validRequest := dto.SubmitAnswerRequest{
		ClientID:      "client-1",
		SessionID:     "sess-1",
		Qid:           "q-1",
		SelectedIndex: 1,
	}

	t.Run("Success", func(t *testing.T) {
		svc := &MockQuizService{
			SubmitAnswerFunc: func(ctx context.Context, req *dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error) {
				assert.Equal(t, "q-1", req.Qid)
				return &dto.SubmitAnswerResponse{
					OK:           true,
					IsCorrect:    true,
					CorrectIndex: 1,
					Explanation:  "Because",
				}, nil
			},
		}
		app := setupApp(svc)

		status, body := postJSON(t, app, "/api/quiz/answer", validRequest)

		assert.Equal(t, fiber.StatusOK, status)
		var resp dto.SubmitAnswerResponse
		assert.NoError(t, json.Unmarshal(body, &resp))
		assert.True(t, resp.OK)
		assert.True(t, resp.IsCorrect)
		assert.Equal(t, 1, resp.CorrectIndex)
		assert.Equal(t, "Because", resp.Explanation)
	})

	t.Run("StateConflict", func(t *testing.T) {
		svc := &MockQuizService{
			SubmitAnswerFunc: func(ctx context.Context, req *dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error) {
				return nil, domain.NewStateConflictError("Invalid question for this session state")
			},
		}
		app := setupApp(svc)

		status, body := postJSON(t, app, "/api/quiz/answer", validRequest)

		assert.Equal(t, fiber.StatusConflict, status)
		var errResp middleware.ErrorResponse
		assert.NoError(t, json.Unmarshal(body, &errResp))
		assert.Equal(t, string(domain.CodeStateConflict), errResp.Code)
	})

	t.Run("QuotaExceeded", func(t *testing.T) {
		svc := &MockQuizService{
			SubmitAnswerFunc: func(ctx context.Context, req *dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error) {
				return nil, domain.NewQuotaExceededError()
			},
		}
		app := setupApp(svc)

		status, body := postJSON(t, app, "/api/quiz/answer", validRequest)

		assert.Equal(t, fiber.StatusTooManyRequests, status)
		var errResp middleware.ErrorResponse
		assert.NoError(t, json.Unmarshal(body, &errResp))
		assert.Equal(t, string(domain.CodeQuotaExceeded), errResp.Code)
	})

	t.Run("QuestionNotFound", func(t *testing.T) {
		svc := &MockQuizService{
			SubmitAnswerFunc: func(ctx context.Context, req *dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error) {
				return nil, domain.NewQuestionNotFoundError(req.Qid)
			},
		}
		app := setupApp(svc)

		status, _ := postJSON(t, app, "/api/quiz/answer", validRequest)

		assert.Equal(t, fiber.StatusNotFound, status)
	})

	t.Run("NegativeSelectedIndex", func(t *testing.T) {
		app := setupApp(&MockQuizService{})

		req := validRequest
		req.SelectedIndex = -1
		status, _ := postJSON(t, app, "/api/quiz/answer", req)

		assert.Equal(t, fiber.StatusBadRequest, status)
	})

	t.Run("MissingFields", func(t *testing.T) {
		app := setupApp(&MockQuizService{})

		status, _ := postJSON(t, app, "/api/quiz/answer", dto.SubmitAnswerRequest{ClientID: "client-1"})

		assert.Equal(t, fiber.StatusBadRequest, status)
	})
}

func TestGetStatsHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := &MockQuizService{
			GetStatsFunc: func(ctx context.Context, clientID string) (*dto.StatsResponse, error) {
				return &dto.StatsResponse{
					ClientID:   "client-1",
					Total:      7,
					Correct:    5,
					Streak:     2,
					DailyCount: 3,
				}, nil
			},
		}
		app := setupApp(svc)

		status, body := getJSON(t, app, "/api/quiz/stats?client_id=client-1")

		assert.Equal(t, fiber.StatusOK, status)
		var resp dto.StatsResponse
		assert.NoError(t, json.Unmarshal(body, &resp))
		assert.Equal(t, 7, resp.Total)
		assert.Equal(t, 3, resp.DailyCount)
	})

	t.Run("NoStatsYet", func(t *testing.T) {
		svc := &MockQuizService{
			GetStatsFunc: func(ctx context.Context, clientID string) (*dto.StatsResponse, error) {
				return nil, nil
			},
		}
		app := setupApp(svc)

		status, body := getJSON(t, app, "/api/quiz/stats?client_id=client-1")

		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "null", string(bytes.TrimSpace(body)))
	})

	t.Run("MissingClientID", func(t *testing.T) {
		app := setupApp(&MockQuizService{})

		status, _ := getJSON(t, app, "/api/quiz/stats")

		assert.Equal(t, fiber.StatusBadRequest, status)
	})
}
