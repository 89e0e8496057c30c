package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"quiz-client/internal/domain"
)

// QuestionProvider loads the ordered question list.
type QuestionProvider interface {
	FetchQuestions(ctx context.Context) ([]domain.Question, error)
}

// ScoringService grades a finished quiz.
type ScoringService interface {
	SubmitAnswers(ctx context.Context, submission domain.Submission) (domain.FinalResults, error)
}

// StatsService reports aggregate answer counts for a question.
type StatsService interface {
	QuestionStats(ctx context.Context, questionID int) (domain.QuestionStats, error)
}

// Deps are the collaborators a controller needs.
type Deps struct {
	Questions QuestionProvider
	Scoring   ScoringService
	Stats     StatsService
	Log       zerolog.Logger
	Now       func() time.Time // defaults to time.Now
}

// Snapshot is an immutable view of a controller's model.
type Snapshot struct {
	Mount int
	Model
}

// Controller owns one mount of the quiz flow. User events and network
// completions are serialized through dispatch; network calls run on goroutines
// bound to the mount's context and are discarded once the mount is closed.
type Controller struct {
	deps   Deps
	mount  int
	notify func(Snapshot)

	ctx    context.Context
	cancel context.CancelFunc
	tasks  sync.WaitGroup

	mu     sync.Mutex
	model  Model
	closed bool
}

// NewController creates an unstarted controller. notify is called with every
// new snapshot while the controller's lock is held, so it must not block.
func NewController(parent context.Context, deps Deps, mount int, notify func(Snapshot)) *Controller {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if notify == nil {
		notify = func(Snapshot) {}
	}
	ctx, cancel := context.WithCancel(parent)
	return &Controller{
		deps:   deps,
		mount:  mount,
		notify: notify,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start publishes the Loading snapshot and issues the question fetch.
func (c *Controller) Start() {
	model, effects := Init()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.model = model
	c.notify(c.snapshotLocked())
	c.mu.Unlock()

	c.run(effects)
}

// Select picks option for the current question.
func (c *Controller) Select(option int) error {
	return c.dispatch(OptionSelected{Option: option})
}

// Submit records the selected answer and opens the feedback popup.
func (c *Controller) Submit() error {
	return c.dispatch(AnswerSubmitted{})
}

// Continue closes the feedback popup and advances or completes the quiz.
func (c *Controller) Continue() error {
	return c.dispatch(PopupClosed{})
}

// Snapshot returns the current model.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Close cancels in-flight requests; later completions are dropped.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.cancel()
}

// Wait blocks until all issued network tasks have finished.
func (c *Controller) Wait() {
	c.tasks.Wait()
}

func (c *Controller) dispatch(ev Event) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.ErrUnmounted
	}
	next, effects, err := Transition(c.model, ev)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	changed := next.Version != c.model.Version
	c.model = next
	if changed {
		c.notify(c.snapshotLocked())
	}
	c.mu.Unlock()

	c.run(effects)
	return nil
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{Mount: c.mount, Model: c.model}
}

func (c *Controller) run(effects []Effect) {
	for _, eff := range effects {
		eff := eff
		c.tasks.Add(1)
		go func() {
			defer c.tasks.Done()
			ev := c.perform(eff)
			if ev == nil || c.ctx.Err() != nil {
				return
			}
			if err := c.dispatch(ev); err != nil && !errors.Is(err, domain.ErrUnmounted) {
				c.deps.Log.Warn().Err(err).Int("mount", c.mount).Msg("dropped network completion")
			}
		}()
	}
}

func (c *Controller) perform(eff Effect) Event {
	log := c.deps.Log.With().Int("mount", c.mount).Logger()

	switch e := eff.(type) {
	case FetchQuestions:
		questions, err := c.deps.Questions.FetchQuestions(c.ctx)
		if err != nil {
			log.Warn().Err(err).Msg("question fetch failed")
			return LoadFailed{Err: err}
		}
		log.Debug().Int("questions", len(questions)).Msg("questions loaded")
		return QuestionsLoaded{Questions: questions}

	case FetchStats:
		stats, err := c.deps.Stats.QuestionStats(c.ctx, e.QuestionID)
		if err != nil {
			log.Debug().Err(err).Int("question_id", e.QuestionID).Msg("stats unavailable")
			return nil
		}
		return StatsLoaded{QuestionID: e.QuestionID, Stats: stats}

	case SubmitAnswers:
		submission := domain.Submission{
			Answers:   e.Answers,
			SessionID: domain.NewSessionID(c.deps.Now()),
		}
		results, err := c.deps.Scoring.SubmitAnswers(c.ctx, submission)
		if err != nil {
			log.Warn().Err(err).Str("session_id", submission.SessionID).Msg("submission failed")
			return ScoringFailed{Err: err}
		}
		log.Info().
			Str("session_id", submission.SessionID).
			Int("score", results.Score).
			Int("total", results.Total).
			Msg("quiz scored")
		return ResultsReceived{Results: results}
	}
	return nil
}
