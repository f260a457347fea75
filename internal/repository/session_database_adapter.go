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

// SessionDatabaseAdapter implements domain.SessionRepository using sqlx.DB
type SessionDatabaseAdapter struct {
	db *sqlx.DB
}

// NewSessionDatabaseAdapter creates a new instance of SessionDatabaseAdapter
func NewSessionDatabaseAdapter(db *sqlx.DB) domain.SessionRepository {
	return &SessionDatabaseAdapter{db: db}
}

const sessionColumns = `
		id "id",
		client_id "client_id",
		session_mode "session_mode",
		current_qid "current_qid",
		recent_qids "recent_qids",
		created_at "created_at",
		updated_at "updated_at"`

func (a *SessionDatabaseAdapter) getOne(ctx context.Context, query string, arg string) (*domain.QuizSession, error) {
	var modelSession models.QuizSession
	stmt, err := a.db.Prepare(query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare session statement: %w", err)
	}
	defer stmt.Close()

	err = stmt.QueryRowContext(ctx, arg).Scan(
		&modelSession.ID,
		&modelSession.ClientID,
		&modelSession.Mode,
		&modelSession.CurrentQid,
		&modelSession.RecentQids,
		&modelSession.CreatedAt,
		&modelSession.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return toDomainSession(&modelSession), nil
}

// GetByClientID implements domain.SessionRepository
func (a *SessionDatabaseAdapter) GetByClientID(ctx context.Context, clientID string) (*domain.QuizSession, error) {
	query := `SELECT ` + sessionColumns + `
	FROM quiz_sessions
	WHERE client_id = :1`
	return a.getOne(ctx, query, clientID)
}

// GetByID implements domain.SessionRepository
func (a *SessionDatabaseAdapter) GetByID(ctx context.Context, id string) (*domain.QuizSession, error) {
	query := `SELECT ` + sessionColumns + `
	FROM quiz_sessions
	WHERE id = :1`
	return a.getOne(ctx, query, id)
}

// Create implements domain.SessionRepository
func (a *SessionDatabaseAdapter) Create(ctx context.Context, session *domain.QuizSession) error {
	modelSession := toModelSession(session)
	if modelSession == nil {
		return fmt.Errorf("cannot create nil session")
	}
	if modelSession.ID == "" {
		modelSession.ID = util.NewULID()
	}
	if modelSession.CreatedAt.IsZero() {
		modelSession.CreatedAt = time.Now()
	}
	modelSession.UpdatedAt = modelSession.CreatedAt

	query := `INSERT INTO quiz_sessions (
		id, client_id, session_mode, current_qid, recent_qids, created_at, updated_at
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7
	)`

	_, err := a.db.ExecContext(ctx, query,
		modelSession.ID,
		modelSession.ClientID,
		modelSession.Mode,
		modelSession.CurrentQid,
		modelSession.RecentQids,
		modelSession.CreatedAt,
		modelSession.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	session.ID = modelSession.ID
	session.CreatedAt = modelSession.CreatedAt
	session.UpdatedAt = modelSession.UpdatedAt
	return nil
}

// Update implements domain.SessionRepository. It patches the mutable fields
// of one row in a single statement.
func (a *SessionDatabaseAdapter) Update(ctx context.Context, session *domain.QuizSession) error {
	modelSession := toModelSession(session)
	if modelSession == nil {
		return fmt.Errorf("cannot update nil session")
	}
	if modelSession.ID == "" {
		return fmt.Errorf("cannot update session with empty ID")
	}

	query := `UPDATE quiz_sessions SET
		session_mode = :1,
		current_qid = :2,
		recent_qids = :3,
		updated_at = :4
	WHERE id = :5`

	result, err := a.db.ExecContext(ctx, query,
		modelSession.Mode,
		modelSession.CurrentQid,
		modelSession.RecentQids,
		modelSession.UpdatedAt,
		modelSession.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("session with ID %s not found or not updated", session.ID)
	}
	return nil
}

// Helper functions for model conversion
func toDomainSession(m *models.QuizSession) *domain.QuizSession {
	if m == nil {
		return nil
	}
	return &domain.QuizSession{
		ID:         m.ID,
		ClientID:   m.ClientID,
		Mode:       m.Mode,
		CurrentQid: util.NullStringToString(m.CurrentQid),
		RecentQids: []string(m.RecentQids),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func toModelSession(d *domain.QuizSession) *models.QuizSession {
	if d == nil {
		return nil
	}
	return &models.QuizSession{
		ID:         d.ID,
		ClientID:   d.ClientID,
		Mode:       d.Mode,
		CurrentQid: util.StringToNullString(d.CurrentQid),
		RecentQids: models.StringSlice(d.RecentQids),
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}
