// Package view turns quiz snapshots into screen models and renders them.
package view

import (
	"errors"

	"quiz-client/internal/app"
	"quiz-client/internal/domain"
)

// Kind identifies which screen is showing.
type Kind string

const (
	KindLoading  Kind = "loading"
	KindError    Kind = "error"
	KindEmpty    Kind = "empty"
	KindQuestion Kind = "question"
	KindScoring  Kind = "scoring"
	KindResults  Kind = "results"
)

// Screen is everything a front-end needs to draw the current state.
type Screen struct {
	Kind     Kind          `json:"kind"`
	Mount    int           `json:"mount"`
	Version  int           `json:"version"`
	Error    string        `json:"error,omitempty"`
	Question *QuestionCard `json:"question,omitempty"`
	Feedback *Feedback     `json:"feedback,omitempty"`
	Results  *Results      `json:"results,omitempty"`
}

// AcceptsInput reports whether the user can act on this screen. Loading and
// scoring wait on the network.
func (s Screen) AcceptsInput() bool {
	return s.Kind != KindLoading && s.Kind != KindScoring
}

// QuestionCard is the current question with its options.
type QuestionCard struct {
	Number      int      `json:"number"`
	Total       int      `json:"total"`
	Progress    float64  `json:"progress"`
	Text        string   `json:"text"`
	Options     []string `json:"options"`
	Selected    *int     `json:"selected"`
	Year        int      `json:"year"`
	SubmitLabel string   `json:"submitLabel"`
	CanSubmit   bool     `json:"canSubmit"`
}

// Build maps a snapshot to its screen.
func Build(snap app.Snapshot) Screen {
	screen := Screen{Mount: snap.Mount, Version: snap.Version}

	switch s := snap.State.(type) {
	case app.Loading:
		screen.Kind = KindLoading
	case app.Failed:
		screen.Kind = KindError
		screen.Error = ErrorMessage(s.Err)
	case app.Empty:
		screen.Kind = KindEmpty
	case app.InProgress:
		screen.Kind = KindQuestion
		card := newQuestionCard(snap.Questions, s)
		screen.Question = &card
		if s.PopupOpen && snap.Popup != nil {
			fb := NewFeedback(*snap.Popup, snap.Stats)
			screen.Feedback = &fb
		}
	case app.Complete:
		if snap.Results == nil {
			screen.Kind = KindScoring
			break
		}
		screen.Kind = KindResults
		res := NewResults(*snap.Results, snap.Questions)
		screen.Results = &res
	default:
		screen.Kind = KindLoading
	}
	return screen
}

func newQuestionCard(questions []domain.Question, s app.InProgress) QuestionCard {
	q := questions[s.Index]
	total := len(questions)
	card := QuestionCard{
		Number:      s.Index + 1,
		Total:       total,
		Progress:    float64(s.Index+1) / float64(total) * 100,
		Text:        q.Question,
		Options:     q.Options,
		Year:        q.Year,
		SubmitLabel: "Submit Answer",
		CanSubmit:   s.Selection != app.NoSelection && !s.PopupOpen,
	}
	if s.Index == total-1 {
		card.SubmitLabel = "Finish Quiz"
	}
	if s.Selection != app.NoSelection {
		sel := s.Selection
		card.Selected = &sel
	}
	return card
}

// ErrorMessage is the text shown on the error screen.
func ErrorMessage(err error) string {
	switch {
	case err == nil:
		return "Something went wrong"
	case errors.Is(err, domain.ErrQuestionsUnavailable):
		return "Failed to fetch questions"
	case errors.Is(err, domain.ErrSubmitFailed):
		return "Failed to submit answers"
	default:
		return err.Error()
	}
}
