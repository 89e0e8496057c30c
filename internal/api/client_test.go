package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quiz-client/internal/domain"
	"quiz-client/internal/quiztest"
)

func TestFetchQuestions(t *testing.T) {
	backend := quiztest.NewBackend(quiztest.SampleQuestions())
	srv := backend.Start(t)
	client := NewClient(srv.URL+"/", 0)

	questions, err := client.FetchQuestions(context.Background())
	if err != nil {
		t.Fatalf("fetch questions: %v", err)
	}
	if len(questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(questions))
	}
	if questions[0].Options[questions[0].Correct] != "PlayStation" {
		t.Fatalf("unexpected first question: %+v", questions[0])
	}
}

func TestFetchQuestionsServerError(t *testing.T) {
	backend := quiztest.NewBackend(quiztest.SampleQuestions())
	backend.FailQuestions(http.StatusInternalServerError)
	srv := backend.Start(t)

	_, err := NewClient(srv.URL, 0).FetchQuestions(context.Background())
	if !errors.Is(err, domain.ErrQuestionsUnavailable) {
		t.Fatalf("expected ErrQuestionsUnavailable, got %v", err)
	}
}

func TestFetchQuestionsMissingListIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"total":0}`))
	}))
	defer srv.Close()

	questions, err := NewClient(srv.URL, 0).FetchQuestions(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if questions == nil || len(questions) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", questions)
	}
}

func TestQuestionStats(t *testing.T) {
	backend := quiztest.NewBackend(quiztest.SampleQuestions())
	backend.SeedStats(2, domain.QuestionStats{CorrectAnswers: 3, TotalAttempts: 4})
	srv := backend.Start(t)
	client := NewClient(srv.URL, 0)

	stats, err := client.QuestionStats(context.Background(), 2)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.CorrectAnswers != 3 || stats.TotalAttempts != 4 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	if _, err := client.QuestionStats(context.Background(), 99); !errors.Is(err, domain.ErrStatsUnavailable) {
		t.Fatalf("expected ErrStatsUnavailable for unknown id, got %v", err)
	}

	backend.FailStats(http.StatusBadGateway)
	if _, err := client.QuestionStats(context.Background(), 2); !errors.Is(err, domain.ErrStatsUnavailable) {
		t.Fatalf("expected ErrStatsUnavailable on 502, got %v", err)
	}
}

func TestSubmitAnswers(t *testing.T) {
	backend := quiztest.NewBackend(quiztest.SampleQuestions())
	srv := backend.Start(t)
	client := NewClient(srv.URL, time.Second)

	sessionID := domain.NewSessionID(time.UnixMilli(1700000000123))
	results, err := client.SubmitAnswers(context.Background(), domain.Submission{
		Answers:   domain.AnswerMap{1: 1, 2: 0, 5: 2},
		SessionID: sessionID,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if results.Score != 2 || results.Total != 3 {
		t.Fatalf("expected 2/3, got %d/%d", results.Score, results.Total)
	}
	if results.Percentage != 66.7 {
		t.Fatalf("expected 66.7%%, got %v", results.Percentage)
	}

	subs := backend.Submissions()
	if len(subs) != 1 || subs[0].SessionID != "session_1700000000123" {
		t.Fatalf("unexpected submissions %+v", subs)
	}
	if subs[0].Answers[2] != 0 {
		t.Fatalf("expected answer 0 for question 2, got %+v", subs[0].Answers)
	}
}

func TestSubmitAnswersFailure(t *testing.T) {
	backend := quiztest.NewBackend(quiztest.SampleQuestions())
	backend.FailSubmit(http.StatusInternalServerError)
	srv := backend.Start(t)

	_, err := NewClient(srv.URL, 0).SubmitAnswers(context.Background(), domain.Submission{SessionID: "s"})
	if !errors.Is(err, domain.ErrSubmitFailed) {
		t.Fatalf("expected ErrSubmitFailed, got %v", err)
	}
}

func TestHealth(t *testing.T) {
	srv := quiztest.NewBackend(nil).Start(t)

	h, err := NewClient(srv.URL, 0).Health(context.Background())
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if h.Status != "healthy" {
		t.Fatalf("unexpected health %+v", h)
	}
}

func TestRequestHonoursContext(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewClient(srv.URL, 0).FetchQuestions(ctx); !errors.Is(err, domain.ErrQuestionsUnavailable) {
		t.Fatalf("expected canceled fetch to fail, got %v", err)
	}
}
