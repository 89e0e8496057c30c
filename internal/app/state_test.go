package app

import (
	"errors"
	"fmt"
	"testing"

	"quiz-client/internal/domain"
)

func TestFlowCompletesAfterNCycles(t *testing.T) {
	for n := 1; n <= 5; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			m := loaded(t, makeQuestions(n))
			lastIndex := -1
			for i := 0; i < n; i++ {
				s, ok := m.State.(InProgress)
				if !ok {
					t.Fatalf("cycle %d: expected InProgress, got %T", i, m.State)
				}
				if s.Index <= lastIndex {
					t.Fatalf("index went from %d to %d", lastIndex, s.Index)
				}
				lastIndex = s.Index
				m = apply(t, m, OptionSelected{Option: 0})
				m = apply(t, m, AnswerSubmitted{})
				m = apply(t, m, PopupClosed{})
			}
			c, ok := m.State.(Complete)
			if !ok {
				t.Fatalf("expected Complete after %d cycles, got %T", n, m.State)
			}
			if c.Index != n-1 {
				t.Fatalf("expected index frozen at %d, got %d", n-1, c.Index)
			}
			if len(m.Answers) != n {
				t.Fatalf("expected %d answers, got %d", n, len(m.Answers))
			}
		})
	}
}

func TestEmptyQuestionSet(t *testing.T) {
	m := loaded(t, nil)
	if _, ok := m.State.(Empty); !ok {
		t.Fatalf("expected Empty, got %T", m.State)
	}
	if _, _, err := Transition(m, OptionSelected{Option: 0}); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition from Empty, got %v", err)
	}
}

func TestLoadFailed(t *testing.T) {
	m, _ := Init()
	m = apply(t, m, LoadFailed{Err: domain.ErrQuestionsUnavailable})
	f, ok := m.State.(Failed)
	if !ok || !errors.Is(f.Err, domain.ErrQuestionsUnavailable) {
		t.Fatalf("expected Failed with questions error, got %#v", m.State)
	}
	if _, ok := m.Current(); ok {
		t.Fatalf("no question should be current after a failed load")
	}
}

func TestSelectionOverwritesAndValidates(t *testing.T) {
	m := loaded(t, makeQuestions(2))
	m = apply(t, m, OptionSelected{Option: 2})
	m = apply(t, m, OptionSelected{Option: 1})
	if s := m.State.(InProgress); s.Selection != 1 {
		t.Fatalf("expected re-pick to overwrite, got %d", s.Selection)
	}

	before := m.Version
	if _, _, err := Transition(m, OptionSelected{Option: 4}); !errors.Is(err, domain.ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption, got %v", err)
	}
	if _, _, err := Transition(m, OptionSelected{Option: -1}); !errors.Is(err, domain.ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption for negative option, got %v", err)
	}
	if m.Version != before {
		t.Fatalf("rejected event changed version")
	}
}

func TestSubmitRequiresSelection(t *testing.T) {
	m := loaded(t, makeQuestions(2))
	if _, _, err := Transition(m, AnswerSubmitted{}); !errors.Is(err, domain.ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
	if _, _, err := Transition(m, PopupClosed{}); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected closing a closed popup to be invalid, got %v", err)
	}
}

func TestSubmitEffects(t *testing.T) {
	m := loaded(t, makeQuestions(2))
	m = apply(t, m, OptionSelected{Option: 1})

	m, effects, err := Transition(m, AnswerSubmitted{})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(effects) != 1 {
		t.Fatalf("expected only a stats fetch before the last question, got %#v", effects)
	}
	if fs, ok := effects[0].(FetchStats); !ok || fs.QuestionID != 100 {
		t.Fatalf("expected FetchStats for 100, got %#v", effects[0])
	}
	if m.Popup == nil || !m.Popup.IsCorrect || m.Popup.UserAnswer != 1 {
		t.Fatalf("unexpected popup %+v", m.Popup)
	}
	if _, _, err := Transition(m, OptionSelected{Option: 0}); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("selection while popup is open should be invalid, got %v", err)
	}

	m = apply(t, m, PopupClosed{})
	m = apply(t, m, OptionSelected{Option: 0})
	m, effects, err = Transition(m, AnswerSubmitted{})
	if err != nil {
		t.Fatalf("submit last: %v", err)
	}
	if len(effects) != 2 {
		t.Fatalf("expected stats + submit on last question, got %#v", effects)
	}
	sub, ok := effects[1].(SubmitAnswers)
	if !ok {
		t.Fatalf("expected SubmitAnswers, got %#v", effects[1])
	}
	if len(sub.Answers) != 2 || sub.Answers[100] != 1 || sub.Answers[101] != 0 {
		t.Fatalf("unexpected submitted answers %+v", sub.Answers)
	}
	if m.Popup.IsCorrect {
		t.Fatalf("option 0 is wrong for question 101")
	}
}

func TestAnswersAreCopyOnWrite(t *testing.T) {
	m := loaded(t, makeQuestions(2))
	m = apply(t, m, OptionSelected{Option: 1})
	first := apply(t, m, AnswerSubmitted{})
	second := apply(t, apply(t, apply(t, first, PopupClosed{}), OptionSelected{Option: 2}), AnswerSubmitted{})

	if len(first.Answers) != 1 {
		t.Fatalf("earlier model observed a later answer: %+v", first.Answers)
	}
	if len(second.Answers) != 2 {
		t.Fatalf("expected 2 answers, got %+v", second.Answers)
	}
}

func TestStaleStatsIgnored(t *testing.T) {
	m := loaded(t, makeQuestions(2))
	m = apply(t, m, OptionSelected{Option: 1})
	m = apply(t, m, AnswerSubmitted{})

	m = apply(t, m, StatsLoaded{QuestionID: 100, Stats: domain.QuestionStats{CorrectAnswers: 1, TotalAttempts: 2}})
	if m.Stats == nil || m.Stats.TotalAttempts != 2 {
		t.Fatalf("expected stats attached, got %+v", m.Stats)
	}

	m = apply(t, m, PopupClosed{})
	before := m.Version
	next, _, err := Transition(m, StatsLoaded{QuestionID: 100})
	if err != nil {
		t.Fatalf("stale stats should be ignored, got %v", err)
	}
	if next.Version != before || next.Stats != nil {
		t.Fatalf("stale stats mutated the model")
	}
}

func TestResultsAcceptedWhileLastPopupOpenOrComplete(t *testing.T) {
	results := domain.FinalResults{Score: 1, Total: 1, Percentage: 100}

	m := loaded(t, makeQuestions(1))
	m = apply(t, m, OptionSelected{Option: 0})
	m = apply(t, m, AnswerSubmitted{})
	open := apply(t, m, ResultsReceived{Results: results})
	if open.Results == nil {
		t.Fatalf("results should be stored while the last popup is open")
	}

	complete := apply(t, m, PopupClosed{})
	complete = apply(t, complete, ResultsReceived{Results: results})
	if complete.Results == nil || complete.Results.Percentage != 100 {
		t.Fatalf("results should be stored after completion")
	}

	early := loaded(t, makeQuestions(2))
	next, _, _ := Transition(early, ResultsReceived{Results: results})
	if next.Results != nil {
		t.Fatalf("results before the last submit should be ignored")
	}
}

func TestScoringFailureIsTerminal(t *testing.T) {
	m := loaded(t, makeQuestions(1))
	m = apply(t, m, OptionSelected{Option: 0})
	m = apply(t, m, AnswerSubmitted{})
	m = apply(t, m, PopupClosed{})
	m = apply(t, m, ScoringFailed{Err: domain.ErrSubmitFailed})

	if f, ok := m.State.(Failed); !ok || !errors.Is(f.Err, domain.ErrSubmitFailed) {
		t.Fatalf("expected Failed after scoring error, got %#v", m.State)
	}
	if _, _, err := Transition(m, PopupClosed{}); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("Failed should reject user events, got %v", err)
	}
}

func loaded(t *testing.T, questions []domain.Question) Model {
	t.Helper()
	m, effects := Init()
	if len(effects) != 1 {
		t.Fatalf("expected a single initial effect, got %#v", effects)
	}
	if _, ok := effects[0].(FetchQuestions); !ok {
		t.Fatalf("expected FetchQuestions, got %#v", effects[0])
	}
	return apply(t, m, QuestionsLoaded{Questions: questions})
}

func apply(t *testing.T, m Model, ev Event) Model {
	t.Helper()
	next, _, err := Transition(m, ev)
	if err != nil {
		t.Fatalf("%T: %v", ev, err)
	}
	return next
}

func makeQuestions(n int) []domain.Question {
	questions := make([]domain.Question, n)
	for i := range questions {
		questions[i] = domain.Question{
			ID:       100 + i,
			Question: fmt.Sprintf("Question %d?", i+1),
			Options:  []string{"A", "B", "C", "D"},
			Correct:  (i + 1) % 4,
			Year:     1990 + i,
		}
	}
	return questions
}
