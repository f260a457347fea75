package dto

import "time"

// Status discriminators for expected-empty outcomes. These are 200-level
// results, not errors: an empty pool or a reached daily limit is a normal
// state of the system.
const (
	StatusOK           = "ok"
	StatusEmpty        = "empty"
	StatusNoCandidates = "no_candidates"
	StatusLimitReached = "limit_reached"
)

// EnsureSessionRequest creates or re-enters a client's session.
type EnsureSessionRequest struct {
	ClientID string `json:"client_id"`
	Mode     string `json:"mode,omitempty"`
}

// EnsureSessionResponse carries the session identifier for both the
// created and the re-entered case.
type EnsureSessionResponse struct {
	SessionID string `json:"session_id"`
}

// QuestionViewResponse is the question as shown to a client. It never
// carries the correct index or the explanation; those are only revealed by
// SubmitAnswerResponse.
type QuestionViewResponse struct {
	Status     string   `json:"status"`
	Qid        string   `json:"qid,omitempty"`
	Prompt     string   `json:"prompt,omitempty"`
	Choices    []string `json:"choices,omitempty"`
	Category   string   `json:"category,omitempty"`
	Difficulty string   `json:"difficulty,omitempty"`
}

// PrepareNextQuestionRequest forces a fresh pick for the session.
type PrepareNextQuestionRequest struct {
	SessionID  string `json:"session_id"`
	Category   string `json:"category,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
}

// PrepareNextQuestionResponse returns the newly assigned qid, or a
// no_candidates status when the published pool is empty.
type PrepareNextQuestionResponse struct {
	Status string `json:"status"`
	Qid    string `json:"qid,omitempty"`
}

// SubmitAnswerRequest records a client's answer to the currently served
// question.
type SubmitAnswerRequest struct {
	ClientID      string `json:"client_id"`
	SessionID     string `json:"session_id"`
	Qid           string `json:"qid"`
	SelectedIndex int    `json:"selected_index"`
}

// SubmitAnswerResponse is the only payload that reveals the correct index
// and the explanation.
type SubmitAnswerResponse struct {
	OK           bool   `json:"ok"`
	IsCorrect    bool   `json:"is_correct"`
	CorrectIndex int    `json:"correct_index"`
	Explanation  string `json:"explanation"`
}

// StatsResponse is the per-client counter snapshot.
type StatsResponse struct {
	ClientID        string    `json:"client_id"`
	Total           int       `json:"total"`
	Correct         int       `json:"correct"`
	Streak          int       `json:"streak"`
	DailyCount      int       `json:"daily_count"`
	LastAnsweredDay string    `json:"last_answered_day,omitempty"`
	LastAnsweredAt  time.Time `json:"last_answered_at,omitempty"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}
