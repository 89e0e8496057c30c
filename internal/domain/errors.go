package domain

import "errors"

var (
	// ErrQuestionsUnavailable is returned when the question list cannot be fetched.
	ErrQuestionsUnavailable = errors.New("failed to fetch questions")
	// ErrSubmitFailed is returned when the scoring service rejects or fails a submission.
	ErrSubmitFailed = errors.New("failed to submit answers")
	// ErrStatsUnavailable indicates statistics for a question could not be obtained.
	ErrStatsUnavailable = errors.New("question stats unavailable")
	// ErrNoSelection is returned when submitting without a selected option.
	ErrNoSelection = errors.New("no answer selected")
	// ErrInvalidOption indicates a selected option index outside the question's options.
	ErrInvalidOption = errors.New("option not found")
	// ErrInvalidTransition is returned for events the current state does not accept.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrUnmounted is returned when an event reaches a controller that has been closed.
	ErrUnmounted = errors.New("quiz unmounted")
)
