package domain

import (
	"fmt"
	"time"
)

// Question models a multiple-choice question as served by the question provider.
type Question struct {
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Correct  int      `json:"correct"`
	Year     int      `json:"year"`
}

// Option returns the text of option i, or false if i is out of range.
func (q Question) Option(i int) (string, bool) {
	if i < 0 || i >= len(q.Options) {
		return "", false
	}
	return q.Options[i], true
}

// AnswerMap maps question IDs to the selected option index.
type AnswerMap map[int]int

// With returns a copy of the map with id set to option. The receiver is not modified.
func (m AnswerMap) With(id, option int) AnswerMap {
	next := make(AnswerMap, len(m)+1)
	for k, v := range m {
		next[k] = v
	}
	next[id] = option
	return next
}

// PopupData is the per-submission feedback shown before moving on.
type PopupData struct {
	Question      Question `json:"question"`
	UserAnswer    int      `json:"userAnswer"`
	IsCorrect     bool     `json:"isCorrect"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// QuestionStats is the aggregate answer count for a single question.
type QuestionStats struct {
	CorrectAnswers int `json:"correct_answers"`
	TotalAttempts  int `json:"total_attempts"`
}

// Submission is the payload sent to the scoring service.
type Submission struct {
	Answers   AnswerMap `json:"answers"`
	SessionID string    `json:"session_id"`
}

// QuestionResult is the scoring service's verdict on a single question.
type QuestionResult struct {
	QuestionID    int     `json:"question_id"`
	Question      string  `json:"question"`
	UserAnswer    *int    `json:"user_answer"`
	CorrectAnswer int     `json:"correct_answer"`
	CorrectOption string  `json:"correct_option"`
	IsCorrect     bool    `json:"is_correct"`
	SuccessRate   float64 `json:"success_rate"`
}

// FinalResults is the score breakdown returned by the scoring service.
type FinalResults struct {
	SessionID  string           `json:"session_id,omitempty"`
	Score      int              `json:"score"`
	Total      int              `json:"total"`
	Percentage float64          `json:"percentage"`
	Results    []QuestionResult `json:"results"`
}

// NewSessionID builds a time-based session identifier. Two calls in the same
// millisecond collide; the scoring service tolerates duplicates.
func NewSessionID(now time.Time) string {
	return fmt.Sprintf("session_%d", now.UnixMilli())
}
