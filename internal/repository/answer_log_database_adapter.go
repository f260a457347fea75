package repository

import (
	"context"
	"fmt"
	"time"

	"quiz-engine/internal/domain"
	"quiz-engine/internal/repository/models"
	"quiz-engine/internal/util"

	"github.com/jmoiron/sqlx"
)

// AnswerLogDatabaseAdapter implements domain.AnswerLogRepository using sqlx.DB
type AnswerLogDatabaseAdapter struct {
	db *sqlx.DB
}

// NewAnswerLogDatabaseAdapter creates a new instance of AnswerLogDatabaseAdapter
func NewAnswerLogDatabaseAdapter(db *sqlx.DB) domain.AnswerLogRepository {
	return &AnswerLogDatabaseAdapter{db: db}
}

// Append implements domain.AnswerLogRepository. Log entries are insert-only.
func (a *AnswerLogDatabaseAdapter) Append(ctx context.Context, answer *domain.QuizAnswer) error {
	modelAnswer := toModelAnswer(answer)
	if modelAnswer == nil {
		return fmt.Errorf("cannot append nil answer")
	}
	if modelAnswer.ID == "" {
		modelAnswer.ID = util.NewULID()
	}
	if modelAnswer.AnsweredAt.IsZero() {
		modelAnswer.AnsweredAt = time.Now()
	}

	query := `INSERT INTO quiz_answers (
		id, client_id, session_id, qid, selected_index,
		is_correct, answered_at, category, difficulty
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7, :8, :9
	)`

	_, err := a.db.ExecContext(ctx, query,
		modelAnswer.ID,
		modelAnswer.ClientID,
		modelAnswer.SessionID,
		modelAnswer.Qid,
		modelAnswer.SelectedIndex,
		modelAnswer.IsCorrect,
		modelAnswer.AnsweredAt,
		modelAnswer.Category,
		modelAnswer.Difficulty,
	)
	if err != nil {
		return fmt.Errorf("failed to append answer log: %w", err)
	}

	answer.ID = modelAnswer.ID
	return nil
}

func toModelAnswer(d *domain.QuizAnswer) *models.QuizAnswer {
	if d == nil {
		return nil
	}
	isCorrect := 0
	if d.IsCorrect {
		isCorrect = 1
	}
	return &models.QuizAnswer{
		ID:            d.ID,
		ClientID:      d.ClientID,
		SessionID:     d.SessionID,
		Qid:           d.Qid,
		SelectedIndex: d.SelectedIndex,
		IsCorrect:     isCorrect,
		AnsweredAt:    d.AnsweredAt,
		Category:      util.StringToNullString(d.Category),
		Difficulty:    util.StringToNullString(d.Difficulty),
	}
}
