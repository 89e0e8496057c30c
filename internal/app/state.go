package app

import (
	"errors"
	"fmt"

	"quiz-client/internal/domain"
)

// NoSelection marks an InProgress state with no option picked yet.
const NoSelection = -1

// State is one of Loading, Failed, Empty, InProgress or Complete.
type State interface {
	isState()
}

// Loading waits for the question list.
type Loading struct{}

// Failed is terminal for the mount; the only way out is a remount.
type Failed struct {
	Err error
}

// Empty is reached when the provider returned no questions.
type Empty struct{}

// InProgress is the question loop.
type InProgress struct {
	Index     int
	Selection int
	PopupOpen bool
}

// Complete holds the index of the last question answered.
type Complete struct {
	Index int
}

func (Loading) isState()    {}
func (Failed) isState()     {}
func (Empty) isState()      {}
func (InProgress) isState() {}
func (Complete) isState()   {}

// Model is the full session state owned by a controller. Values are treated as
// immutable: Transition returns a fresh model and never mutates maps or slices
// of the one passed in.
type Model struct {
	Version   int
	State     State
	Questions []domain.Question
	Answers   domain.AnswerMap
	Popup     *domain.PopupData
	Stats     *domain.QuestionStats
	Results   *domain.FinalResults
}

// Current returns the question at the in-progress or completed index.
func (m Model) Current() (domain.Question, bool) {
	var idx int
	switch s := m.State.(type) {
	case InProgress:
		idx = s.Index
	case Complete:
		idx = s.Index
	default:
		return domain.Question{}, false
	}
	if idx < 0 || idx >= len(m.Questions) {
		return domain.Question{}, false
	}
	return m.Questions[idx], true
}

// Event is an input to Transition.
type Event interface {
	isEvent()
}

type QuestionsLoaded struct {
	Questions []domain.Question
}

type LoadFailed struct {
	Err error
}

type OptionSelected struct {
	Option int
}

type AnswerSubmitted struct{}

type PopupClosed struct{}

type StatsLoaded struct {
	QuestionID int
	Stats      domain.QuestionStats
}

type ResultsReceived struct {
	Results domain.FinalResults
}

type ScoringFailed struct {
	Err error
}

func (QuestionsLoaded) isEvent() {}
func (LoadFailed) isEvent()      {}
func (OptionSelected) isEvent()  {}
func (AnswerSubmitted) isEvent() {}
func (PopupClosed) isEvent()     {}
func (StatsLoaded) isEvent()     {}
func (ResultsReceived) isEvent() {}
func (ScoringFailed) isEvent()   {}

// Effect is a side effect requested by a transition.
type Effect interface {
	isEffect()
}

type FetchQuestions struct{}

type FetchStats struct {
	QuestionID int
}

type SubmitAnswers struct {
	Answers domain.AnswerMap
}

func (FetchQuestions) isEffect() {}
func (FetchStats) isEffect()     {}
func (SubmitAnswers) isEffect()  {}

// Init returns the model of a fresh mount and the effects that start it.
func Init() (Model, []Effect) {
	return Model{State: Loading{}, Answers: domain.AnswerMap{}}, []Effect{FetchQuestions{}}
}

// errIgnored marks events that are valid but have nothing left to update.
var errIgnored = errors.New("ignored")

// Transition applies ev to m. On error m is returned unchanged. Late network
// completions that no longer apply leave m untouched, including its Version.
func Transition(m Model, ev Event) (Model, []Effect, error) {
	next, effects, err := transition(m, ev)
	if errors.Is(err, errIgnored) {
		return m, nil, nil
	}
	if err != nil {
		return m, nil, err
	}
	next.Version = m.Version + 1
	return next, effects, nil
}

func transition(m Model, ev Event) (Model, []Effect, error) {
	switch e := ev.(type) {
	case QuestionsLoaded:
		if _, ok := m.State.(Loading); !ok {
			return m, nil, invalid(m, ev)
		}
		m.Questions = e.Questions
		if len(e.Questions) == 0 {
			m.State = Empty{}
			return m, nil, nil
		}
		m.State = InProgress{Index: 0, Selection: NoSelection}
		return m, nil, nil

	case LoadFailed:
		if _, ok := m.State.(Loading); !ok {
			return m, nil, invalid(m, ev)
		}
		m.State = Failed{Err: e.Err}
		return m, nil, nil

	case OptionSelected:
		s, ok := m.State.(InProgress)
		if !ok || s.PopupOpen {
			return m, nil, invalid(m, ev)
		}
		if _, ok := m.Questions[s.Index].Option(e.Option); !ok {
			return m, nil, fmt.Errorf("%w: %d", domain.ErrInvalidOption, e.Option)
		}
		s.Selection = e.Option
		m.State = s
		return m, nil, nil

	case AnswerSubmitted:
		s, ok := m.State.(InProgress)
		if !ok || s.PopupOpen {
			return m, nil, invalid(m, ev)
		}
		if s.Selection == NoSelection {
			return m, nil, domain.ErrNoSelection
		}
		q := m.Questions[s.Index]
		m.Answers = m.Answers.With(q.ID, s.Selection)
		m.Popup = &domain.PopupData{
			Question:      q,
			UserAnswer:    s.Selection,
			IsCorrect:     s.Selection == q.Correct,
			CorrectAnswer: q.Correct,
		}
		m.Stats = nil
		s.PopupOpen = true
		m.State = s

		effects := []Effect{FetchStats{QuestionID: q.ID}}
		if s.Index == len(m.Questions)-1 {
			effects = append(effects, SubmitAnswers{Answers: m.Answers})
		}
		return m, effects, nil

	case PopupClosed:
		s, ok := m.State.(InProgress)
		if !ok || !s.PopupOpen {
			return m, nil, invalid(m, ev)
		}
		m.Popup = nil
		m.Stats = nil
		if s.Index+1 < len(m.Questions) {
			m.State = InProgress{Index: s.Index + 1, Selection: NoSelection}
		} else {
			m.State = Complete{Index: s.Index}
		}
		return m, nil, nil

	case StatsLoaded:
		if m.Popup == nil || m.Popup.Question.ID != e.QuestionID {
			// stale: the popup this fetch was for is gone
			return m, nil, errIgnored
		}
		stats := e.Stats
		m.Stats = &stats
		return m, nil, nil

	case ResultsReceived:
		if !awaitingResults(m) {
			return m, nil, errIgnored
		}
		results := e.Results
		m.Results = &results
		return m, nil, nil

	case ScoringFailed:
		if !awaitingResults(m) {
			return m, nil, errIgnored
		}
		m.State = Failed{Err: e.Err}
		m.Popup = nil
		m.Stats = nil
		return m, nil, nil
	}
	return m, nil, invalid(m, ev)
}

// awaitingResults reports whether a scoring request may be in flight.
func awaitingResults(m Model) bool {
	if m.Results != nil {
		return false
	}
	switch s := m.State.(type) {
	case InProgress:
		return s.PopupOpen && s.Index == len(m.Questions)-1
	case Complete:
		return true
	}
	return false
}

func invalid(m Model, ev Event) error {
	return fmt.Errorf("%w: %T in %T", domain.ErrInvalidTransition, ev, m.State)
}
