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

// StatsDatabaseAdapter implements domain.StatsRepository using sqlx.DB
type StatsDatabaseAdapter struct {
	db *sqlx.DB
}

// NewStatsDatabaseAdapter creates a new instance of StatsDatabaseAdapter
func NewStatsDatabaseAdapter(db *sqlx.DB) domain.StatsRepository {
	return &StatsDatabaseAdapter{db: db}
}

// GetByClientID implements domain.StatsRepository
func (a *StatsDatabaseAdapter) GetByClientID(ctx context.Context, clientID string) (*domain.QuizStats, error) {
	var modelStats models.QuizStats
	query := `SELECT
		id "id",
		client_id "client_id",
		total "total",
		correct "correct",
		streak "streak",
		daily_count "daily_count",
		last_answered_day "last_answered_day",
		last_answered_at "last_answered_at",
		updated_at "updated_at"
	FROM quiz_stats
	WHERE client_id = :1`

	stmt, err := a.db.Prepare(query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement for stats GetByClientID: %w", err)
	}
	defer stmt.Close()

	err = stmt.QueryRowContext(ctx, clientID).Scan(
		&modelStats.ID,
		&modelStats.ClientID,
		&modelStats.Total,
		&modelStats.Correct,
		&modelStats.Streak,
		&modelStats.DailyCount,
		&modelStats.LastAnsweredDay,
		&modelStats.LastAnsweredAt,
		&modelStats.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get stats for client %s: %w", clientID, err)
	}
	return toDomainStats(&modelStats), nil
}

// Create implements domain.StatsRepository
func (a *StatsDatabaseAdapter) Create(ctx context.Context, stats *domain.QuizStats) error {
	modelStats := toModelStats(stats)
	if modelStats == nil {
		return fmt.Errorf("cannot create nil stats")
	}
	if modelStats.ID == "" {
		modelStats.ID = util.NewULID()
	}
	if modelStats.UpdatedAt.IsZero() {
		modelStats.UpdatedAt = time.Now()
	}

	query := `INSERT INTO quiz_stats (
		id, client_id, total, correct, streak,
		daily_count, last_answered_day, last_answered_at, updated_at
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7, :8, :9
	)`

	_, err := a.db.ExecContext(ctx, query,
		modelStats.ID,
		modelStats.ClientID,
		modelStats.Total,
		modelStats.Correct,
		modelStats.Streak,
		modelStats.DailyCount,
		modelStats.LastAnsweredDay,
		modelStats.LastAnsweredAt,
		modelStats.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create stats: %w", err)
	}

	stats.ID = modelStats.ID
	return nil
}

// Update implements domain.StatsRepository
func (a *StatsDatabaseAdapter) Update(ctx context.Context, stats *domain.QuizStats) error {
	modelStats := toModelStats(stats)
	if modelStats == nil {
		return fmt.Errorf("cannot update nil stats")
	}
	if modelStats.ID == "" {
		return fmt.Errorf("cannot update stats with empty ID")
	}

	query := `UPDATE quiz_stats SET
		total = :1,
		correct = :2,
		streak = :3,
		daily_count = :4,
		last_answered_day = :5,
		last_answered_at = :6,
		updated_at = :7
	WHERE id = :8`

	result, err := a.db.ExecContext(ctx, query,
		modelStats.Total,
		modelStats.Correct,
		modelStats.Streak,
		modelStats.DailyCount,
		modelStats.LastAnsweredDay,
		modelStats.LastAnsweredAt,
		modelStats.UpdatedAt,
		modelStats.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update stats: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("stats with ID %s not found or not updated", stats.ID)
	}
	return nil
}

// Helper functions for model conversion
func toDomainStats(m *models.QuizStats) *domain.QuizStats {
	if m == nil {
		return nil
	}
	var lastAnsweredAt time.Time
	if m.LastAnsweredAt.Valid {
		lastAnsweredAt = m.LastAnsweredAt.Time
	}
	return &domain.QuizStats{
		ID:              m.ID,
		ClientID:        m.ClientID,
		Total:           m.Total,
		Correct:         m.Correct,
		Streak:          m.Streak,
		DailyCount:      m.DailyCount,
		LastAnsweredDay: util.NullStringToString(m.LastAnsweredDay),
		LastAnsweredAt:  lastAnsweredAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toModelStats(d *domain.QuizStats) *models.QuizStats {
	if d == nil {
		return nil
	}
	return &models.QuizStats{
		ID:              d.ID,
		ClientID:        d.ClientID,
		Total:           d.Total,
		Correct:         d.Correct,
		Streak:          d.Streak,
		DailyCount:      d.DailyCount,
		LastAnsweredDay: util.StringToNullString(d.LastAnsweredDay),
		LastAnsweredAt:  util.TimeToNullTime(d.LastAnsweredAt),
		UpdatedAt:       d.UpdatedAt,
	}
}
