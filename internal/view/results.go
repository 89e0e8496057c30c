package view

import (
	"fmt"
	"strconv"

	"quiz-client/internal/domain"
)

const (
	noAnswer      = "No answer provided"
	invalidAnswer = "Invalid answer"
)

// Color names the tier color; renderers map it to their own palette.
type Color string

const (
	Green  Color = "green"
	Yellow Color = "yellow"
	Red    Color = "red"
)

// Tier is the qualitative band a percentage falls into.
type Tier struct {
	Color   Color  `json:"color"`
	Emoji   string `json:"emoji"`
	Message string `json:"message"`
}

// TierFor maps a percentage to its tier.
func TierFor(percentage float64) Tier {
	t := Tier{Color: Red}
	switch {
	case percentage >= 80:
		t.Color = Green
	case percentage >= 60:
		t.Color = Yellow
	}

	switch {
	case percentage >= 90:
		t.Emoji, t.Message = "🏆", "Outstanding! You're a 90s expert!"
	case percentage >= 80:
		t.Emoji, t.Message = "🎉", "Excellent! You really know your 90s!"
	case percentage >= 70:
		t.Emoji, t.Message = "😊", "Great job! You have good 90s knowledge!"
	case percentage >= 60:
		t.Emoji, t.Message = "😐", "Not bad! You know some 90s trivia!"
	default:
		t.Emoji, t.Message = "😅", "Keep learning! The 90s were amazing!"
	}
	return t
}

// Results is the final summary screen.
type Results struct {
	Score      int          `json:"score"`
	Total      int          `json:"total"`
	Percentage string       `json:"percentage"`
	Tier       Tier         `json:"tier"`
	Items      []ResultItem `json:"items"`
	ShareText  string       `json:"shareText"`
}

// ResultItem is one row of the detailed breakdown.
type ResultItem struct {
	Number        int    `json:"number"`
	QuestionID    int    `json:"questionId"`
	Question      string `json:"question"`
	Correct       bool   `json:"correct"`
	Answered      bool   `json:"answered"`
	YourAnswer    string `json:"yourAnswer"`
	CorrectOption string `json:"correctOption,omitempty"`
	SuccessRate   string `json:"successRate"`
}

// NewResults renders backend results. Option text for the user's answer is
// resolved against the locally held questions since the backend only echoes
// the index.
func NewResults(results domain.FinalResults, questions []domain.Question) Results {
	byID := make(map[int]domain.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	items := make([]ResultItem, 0, len(results.Results))
	for i, r := range results.Results {
		item := ResultItem{
			Number:      i + 1,
			QuestionID:  r.QuestionID,
			Question:    r.Question,
			Correct:     r.IsCorrect,
			Answered:    r.UserAnswer != nil,
			YourAnswer:  noAnswer,
			SuccessRate: FormatPercent(r.SuccessRate),
		}
		if r.UserAnswer != nil {
			item.YourAnswer = invalidAnswer
			if q, ok := byID[r.QuestionID]; ok {
				item.YourAnswer = optionText(q, *r.UserAnswer)
			}
		}
		if !r.IsCorrect {
			item.CorrectOption = r.CorrectOption
		}
		items = append(items, item)
	}

	return Results{
		Score:      results.Score,
		Total:      results.Total,
		Percentage: FormatPercent(results.Percentage),
		Tier:       TierFor(results.Percentage),
		Items:      items,
		ShareText:  ShareText(results),
	}
}

// ShareText is the one-line summary offered by the share action.
func ShareText(results domain.FinalResults) string {
	return fmt.Sprintf("I just scored %d/%d (%s%%) on the 90s Fun Quiz! 🎉",
		results.Score, results.Total, FormatPercent(results.Percentage))
}

// FormatPercent prints a percentage without a trailing ".0".
func FormatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
