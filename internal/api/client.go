package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"quiz-client/internal/domain"
)

// Client talks to the quiz backend: question provider, scoring and statistics services.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for baseURL. A zero timeout leaves requests unbounded.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return NewClientWithHTTP(baseURL, &http.Client{Timeout: timeout})
}

// NewClientWithHTTP uses hc for all requests.
func NewClientWithHTTP(baseURL string, hc *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
	}
}

type questionsResponse struct {
	Questions []domain.Question `json:"questions"`
	Total     int               `json:"total"`
}

// Health mirrors the backend's /health payload.
type Health struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// FetchQuestions loads the ordered question list.
func (c *Client) FetchQuestions(ctx context.Context) ([]domain.Question, error) {
	var resp questionsResponse
	if err := c.getJSON(ctx, "/api/questions", &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrQuestionsUnavailable, err)
	}
	if resp.Questions == nil {
		return []domain.Question{}, nil
	}
	return resp.Questions, nil
}

// FetchStats loads aggregate statistics keyed by stringified question ID.
func (c *Client) FetchStats(ctx context.Context) (map[string]domain.QuestionStats, error) {
	stats := make(map[string]domain.QuestionStats)
	if err := c.getJSON(ctx, "/api/stats", &stats); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStatsUnavailable, err)
	}
	return stats, nil
}

// QuestionStats loads statistics for a single question.
func (c *Client) QuestionStats(ctx context.Context, questionID int) (domain.QuestionStats, error) {
	all, err := c.FetchStats(ctx)
	if err != nil {
		return domain.QuestionStats{}, err
	}
	stats, ok := all[strconv.Itoa(questionID)]
	if !ok {
		return domain.QuestionStats{}, fmt.Errorf("%w: no entry for question %d", domain.ErrStatsUnavailable, questionID)
	}
	return stats, nil
}

// SubmitAnswers posts the answers for scoring.
func (c *Client) SubmitAnswers(ctx context.Context, submission domain.Submission) (domain.FinalResults, error) {
	if submission.Answers == nil {
		submission.Answers = domain.AnswerMap{}
	}
	body, err := json.Marshal(submission)
	if err != nil {
		return domain.FinalResults{}, fmt.Errorf("%w: encode: %v", domain.ErrSubmitFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/submit", bytes.NewReader(body))
	if err != nil {
		return domain.FinalResults{}, fmt.Errorf("%w: %v", domain.ErrSubmitFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	var results domain.FinalResults
	if err := c.do(req, &results); err != nil {
		return domain.FinalResults{}, fmt.Errorf("%w: %v", domain.ErrSubmitFailed, err)
	}
	return results, nil
}

// Health checks the backend liveness endpoint.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	if err := c.getJSON(ctx, "/health", &h); err != nil {
		return Health{}, fmt.Errorf("health check: %w", err)
	}
	return h, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, dst)
}

func (c *Client) do(req *http.Request, dst any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%s %s: status %d", req.Method, req.URL.Path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", req.URL.Path, err)
	}
	return nil
}
