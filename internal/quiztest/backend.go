// Package quiztest provides an in-process quiz backend for tests and demos.
package quiztest

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"quiz-client/internal/domain"
)

// Backend fakes the question, scoring and statistics endpoints.
type Backend struct {
	mu            sync.Mutex
	questions     []domain.Question
	stats         map[string]domain.QuestionStats
	submissions   []domain.Submission
	questionsCode int
	statsCode     int
	submitCode    int
	submitHold    chan struct{}
	statsHits     int
	questionHits  int
}

func NewBackend(questions []domain.Question) *Backend {
	stats := make(map[string]domain.QuestionStats, len(questions))
	for _, q := range questions {
		stats[strconv.Itoa(q.ID)] = domain.QuestionStats{}
	}
	return &Backend{questions: questions, stats: stats}
}

// Start serves the backend on an httptest server closed at test cleanup.
func (b *Backend) Start(t testing.TB) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(b.Handler())
	t.Cleanup(srv.Close)
	return srv
}

// FailQuestions makes GET /api/questions answer with code.
func (b *Backend) FailQuestions(code int) {
	b.mu.Lock()
	b.questionsCode = code
	b.mu.Unlock()
}

// FailStats makes GET /api/stats answer with code.
func (b *Backend) FailStats(code int) {
	b.mu.Lock()
	b.statsCode = code
	b.mu.Unlock()
}

// FailSubmit makes POST /api/submit answer with code.
func (b *Backend) FailSubmit(code int) {
	b.mu.Lock()
	b.submitCode = code
	b.mu.Unlock()
}

// HoldSubmit blocks submissions until the returned release func is called.
func (b *Backend) HoldSubmit() (release func()) {
	ch := make(chan struct{})
	b.mu.Lock()
	b.submitHold = ch
	b.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

// SeedStats overrides the statistics for a question.
func (b *Backend) SeedStats(questionID int, stats domain.QuestionStats) {
	b.mu.Lock()
	b.stats[strconv.Itoa(questionID)] = stats
	b.mu.Unlock()
}

// Submissions returns the submissions received so far.
func (b *Backend) Submissions() []domain.Submission {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.Submission, len(b.submissions))
	copy(out, b.submissions)
	return out
}

// StatsHits reports how many times the stats endpoint was called.
func (b *Backend) StatsHits() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.statsHits
}

// QuestionHits reports how many times the question list was requested.
func (b *Backend) QuestionHits() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.questionHits
}

func (b *Backend) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/questions", b.handleQuestions)
	mux.HandleFunc("/api/stats", b.handleStats)
	mux.HandleFunc("/api/submit", b.handleSubmit)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "message": "Backend is running"})
	})
	return mux
}

func (b *Backend) handleQuestions(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.questionHits++
	code := b.questionsCode
	questions := b.questions
	b.mu.Unlock()
	if code != 0 {
		http.Error(w, "questions unavailable", code)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"questions": questions, "total": len(questions)})
}

func (b *Backend) handleStats(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.statsHits++
	code := b.statsCode
	snapshot := make(map[string]domain.QuestionStats, len(b.stats))
	for k, v := range b.stats {
		snapshot[k] = v
	}
	b.mu.Unlock()
	if code != 0 {
		http.Error(w, "stats unavailable", code)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (b *Backend) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var sub domain.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	hold := b.submitHold
	b.mu.Unlock()
	if hold != nil {
		select {
		case <-hold:
		case <-r.Context().Done():
			return
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.submissions = append(b.submissions, sub)
	if b.submitCode != 0 {
		http.Error(w, "submit failed", b.submitCode)
		return
	}
	writeJSON(w, http.StatusOK, b.scoreLocked(sub))
}

// scoreLocked grades a submission and folds it into the running statistics.
func (b *Backend) scoreLocked(sub domain.Submission) domain.FinalResults {
	results := make([]domain.QuestionResult, 0, len(b.questions))
	score := 0
	for _, q := range b.questions {
		key := strconv.Itoa(q.ID)
		st := b.stats[key]

		var userAnswer *int
		correct := false
		if ans, ok := sub.Answers[q.ID]; ok {
			a := ans
			userAnswer = &a
			correct = ans == q.Correct
			st.TotalAttempts++
			if correct {
				st.CorrectAnswers++
				score++
			}
			b.stats[key] = st
		}

		rate := 0.0
		if st.TotalAttempts > 0 {
			rate = round1(float64(st.CorrectAnswers) / float64(st.TotalAttempts) * 100)
		}
		correctOption, _ := q.Option(q.Correct)
		results = append(results, domain.QuestionResult{
			QuestionID:    q.ID,
			Question:      q.Question,
			UserAnswer:    userAnswer,
			CorrectAnswer: q.Correct,
			CorrectOption: correctOption,
			IsCorrect:     correct,
			SuccessRate:   rate,
		})
	}

	percentage := 0.0
	if len(b.questions) > 0 {
		percentage = round1(float64(score) / float64(len(b.questions)) * 100)
	}
	return domain.FinalResults{
		SessionID:  sub.SessionID,
		Score:      score,
		Total:      len(b.questions),
		Percentage: percentage,
		Results:    results,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// SampleQuestions returns a small 90s trivia set.
func SampleQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:       1,
			Question: "What gaming console launched in 1995 and revolutionized the gaming industry?",
			Options:  []string{"Nintendo 64", "PlayStation", "Sega Saturn", "Atari Jaguar"},
			Correct:  1,
			Year:     1995,
		},
		{
			ID:       2,
			Question: "Which phenomenon started in 1996 where people carried virtual pets that needed constant care?",
			Options:  []string{"Furby", "Tamagotchi", "Pokémon", "Beanie Babies"},
			Correct:  1,
			Year:     1996,
		},
		{
			ID:       5,
			Question: "What search engine was founded in 1998 and changed how we find information?",
			Options:  []string{"Yahoo", "AltaVista", "Google", "Ask Jeeves"},
			Correct:  2,
			Year:     1998,
		},
	}
}
