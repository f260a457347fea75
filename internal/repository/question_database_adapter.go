package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"quiz-engine/internal/domain"
	"quiz-engine/internal/repository/models"
	"quiz-engine/internal/util"

	"github.com/jmoiron/sqlx"
)

// QuestionDatabaseAdapter implements domain.QuestionRepository using sqlx.DB
type QuestionDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuestionDatabaseAdapter creates a new instance of QuestionDatabaseAdapter
func NewQuestionDatabaseAdapter(db *sqlx.DB) domain.QuestionRepository {
	return &QuestionDatabaseAdapter{db: db}
}

const questionColumns = `
		id "id",
		qid "qid",
		prompt "prompt",
		choices "choices",
		correct_index "correct_index",
		explanation "explanation",
		category "category",
		difficulty "difficulty",
		tags "tags",
		is_published "is_published",
		created_at "created_at",
		updated_at "updated_at"`

// GetByQid implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) GetByQid(ctx context.Context, qid string) (*domain.QuizQuestion, error) {
	var modelQuestion models.QuizQuestion
	query := `SELECT ` + questionColumns + `
	FROM quiz_questions
	WHERE qid = :1`

	stmt, err := a.db.Prepare(query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement for GetByQid: %w", err)
	}
	defer stmt.Close()

	err = stmt.QueryRowContext(ctx, qid).Scan(
		&modelQuestion.ID,
		&modelQuestion.Qid,
		&modelQuestion.Prompt,
		&modelQuestion.Choices,
		&modelQuestion.CorrectIndex,
		&modelQuestion.Explanation,
		&modelQuestion.Category,
		&modelQuestion.Difficulty,
		&modelQuestion.Tags,
		&modelQuestion.IsPublished,
		&modelQuestion.CreatedAt,
		&modelQuestion.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question by qid %s: %w", qid, err)
	}
	return toDomainQuestion(&modelQuestion), nil
}

// GetPublished implements domain.QuestionRepository. It returns the full
// published pool; the candidate filtering happens in the service layer.
func (a *QuestionDatabaseAdapter) GetPublished(ctx context.Context) ([]*domain.QuizQuestion, error) {
	query := `SELECT ` + questionColumns + `
	FROM quiz_questions
	WHERE is_published = 1
	ORDER BY qid ASC`

	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query published questions: %w", err)
	}
	defer rows.Close()

	var questions []*domain.QuizQuestion
	for rows.Next() {
		var modelQuestion models.QuizQuestion
		if err := rows.Scan(
			&modelQuestion.ID,
			&modelQuestion.Qid,
			&modelQuestion.Prompt,
			&modelQuestion.Choices,
			&modelQuestion.CorrectIndex,
			&modelQuestion.Explanation,
			&modelQuestion.Category,
			&modelQuestion.Difficulty,
			&modelQuestion.Tags,
			&modelQuestion.IsPublished,
			&modelQuestion.CreatedAt,
			&modelQuestion.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan question row: %w", err)
		}
		questions = append(questions, toDomainQuestion(&modelQuestion))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during published questions iteration: %w", err)
	}

	if questions == nil {
		return []*domain.QuizQuestion{}, nil
	}
	return questions, nil
}

// Save implements domain.QuestionRepository. Used by the seeding tool.
func (a *QuestionDatabaseAdapter) Save(ctx context.Context, question *domain.QuizQuestion) error {
	modelQuestion := toModelQuestion(question)
	if modelQuestion == nil {
		return fmt.Errorf("cannot save nil question")
	}
	if modelQuestion.ID == "" {
		modelQuestion.ID = util.NewULID()
	}
	if modelQuestion.CreatedAt.IsZero() {
		modelQuestion.CreatedAt = time.Now()
	}
	modelQuestion.UpdatedAt = time.Now()

	query := `INSERT INTO quiz_questions (
		id, qid, prompt, choices, correct_index, explanation,
		category, difficulty, tags, is_published, created_at, updated_at
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7, :8, :9, :10, :11, :12
	)`

	_, err := a.db.ExecContext(ctx, query,
		modelQuestion.ID,
		modelQuestion.Qid,
		modelQuestion.Prompt,
		modelQuestion.Choices,
		modelQuestion.CorrectIndex,
		modelQuestion.Explanation,
		modelQuestion.Category,
		modelQuestion.Difficulty,
		modelQuestion.Tags,
		modelQuestion.IsPublished,
		modelQuestion.CreatedAt,
		modelQuestion.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save question: %w", err)
	}

	question.ID = modelQuestion.ID
	question.CreatedAt = modelQuestion.CreatedAt
	question.UpdatedAt = modelQuestion.UpdatedAt
	return nil
}

// Helper functions for model conversion
func toDomainQuestion(m *models.QuizQuestion) *domain.QuizQuestion {
	if m == nil {
		return nil
	}
	return &domain.QuizQuestion{
		ID:           m.ID,
		Qid:          m.Qid,
		Prompt:       m.Prompt,
		Choices:      []string(m.Choices),
		CorrectIndex: m.CorrectIndex,
		Explanation:  util.NullStringToString(m.Explanation),
		Category:     util.NullStringToString(m.Category),
		Difficulty:   util.NullStringToString(m.Difficulty),
		Tags:         []string(m.Tags),
		IsPublished:  m.IsPublished == 1,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toModelQuestion(d *domain.QuizQuestion) *models.QuizQuestion {
	if d == nil {
		return nil
	}
	isPublished := 0
	if d.IsPublished {
		isPublished = 1
	}
	return &models.QuizQuestion{
		ID:           d.ID,
		Qid:          d.Qid,
		Prompt:       d.Prompt,
		Choices:      models.StringSlice(d.Choices),
		CorrectIndex: d.CorrectIndex,
		Explanation:  util.StringToNullString(d.Explanation),
		Category:     util.StringToNullString(d.Category),
		Difficulty:   util.StringToNullString(d.Difficulty),
		Tags:         models.StringSlice(d.Tags),
		IsPublished:  isPublished,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}
