package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// StringSlice stores a string array as a JSON CLOB column.
type StringSlice []string

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	var bytesToParse []byte
	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("StringSlice Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		*s = StringSlice{}
		return nil
	}
	return json.Unmarshal(bytesToParse, s)
}

// QuizQuestion row model for the quiz_questions table.
type QuizQuestion struct {
	ID           string         `db:"id"`
	Qid          string         `db:"qid"`
	Prompt       string         `db:"prompt"`
	Choices      StringSlice    `db:"choices"`
	CorrectIndex int            `db:"correct_index"`
	Explanation  sql.NullString `db:"explanation"`
	Category     sql.NullString `db:"category"`
	Difficulty   sql.NullString `db:"difficulty"`
	Tags         StringSlice    `db:"tags"`
	IsPublished  int            `db:"is_published"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

// QuizSession row model for the quiz_sessions table.
type QuizSession struct {
	ID         string         `db:"id"`
	ClientID   string         `db:"client_id"`
	Mode       string         `db:"session_mode"`
	CurrentQid sql.NullString `db:"current_qid"`
	RecentQids StringSlice    `db:"recent_qids"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

// QuizStats row model for the quiz_stats table.
type QuizStats struct {
	ID              string         `db:"id"`
	ClientID        string         `db:"client_id"`
	Total           int            `db:"total"`
	Correct         int            `db:"correct"`
	Streak          int            `db:"streak"`
	DailyCount      int            `db:"daily_count"`
	LastAnsweredDay sql.NullString `db:"last_answered_day"`
	LastAnsweredAt  sql.NullTime   `db:"last_answered_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

// QuizAnswer row model for the quiz_answers table.
type QuizAnswer struct {
	ID            string         `db:"id"`
	ClientID      string         `db:"client_id"`
	SessionID     string         `db:"session_id"`
	Qid           string         `db:"qid"`
	SelectedIndex int            `db:"selected_index"`
	IsCorrect     int            `db:"is_correct"`
	AnsweredAt    time.Time      `db:"answered_at"`
	Category      sql.NullString `db:"category"`
	Difficulty    sql.NullString `db:"difficulty"`
}
