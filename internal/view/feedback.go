package view

import (
	"math"

	"quiz-client/internal/domain"
)

// Feedback is the answer popup shown after each submission.
type Feedback struct {
	Correct       bool        `json:"correct"`
	Headline      string      `json:"headline"`
	YourAnswer    string      `json:"yourAnswer"`
	CorrectAnswer string      `json:"correctAnswer,omitempty"`
	Stats         *StatsBlock `json:"stats,omitempty"`
}

// StatsBlock summarises how everyone else did on the question.
type StatsBlock struct {
	SuccessRate    int `json:"successRate"`
	CorrectAnswers int `json:"correctAnswers"`
	TotalAttempts  int `json:"totalAttempts"`
}

// SuccessRate is the rounded percentage of correct answers; 0 with no attempts.
func SuccessRate(stats domain.QuestionStats) int {
	if stats.TotalAttempts <= 0 {
		return 0
	}
	return int(math.Round(float64(stats.CorrectAnswers) / float64(stats.TotalAttempts) * 100))
}

// NewFeedback builds the popup model. stats may be nil when the fetch failed
// or has not landed yet; the block is then omitted.
func NewFeedback(popup domain.PopupData, stats *domain.QuestionStats) Feedback {
	fb := Feedback{
		Correct:    popup.IsCorrect,
		Headline:   "❌ Incorrect",
		YourAnswer: optionText(popup.Question, popup.UserAnswer),
	}
	if popup.IsCorrect {
		fb.Headline = "🎉 Correct!"
	} else {
		fb.CorrectAnswer = optionText(popup.Question, popup.CorrectAnswer)
	}
	if stats != nil {
		fb.Stats = &StatsBlock{
			SuccessRate:    SuccessRate(*stats),
			CorrectAnswers: stats.CorrectAnswers,
			TotalAttempts:  stats.TotalAttempts,
		}
	}
	return fb
}

func optionText(q domain.Question, i int) string {
	if text, ok := q.Option(i); ok {
		return text
	}
	return invalidAnswer
}
