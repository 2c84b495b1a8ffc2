// Package client talks to the results API from the assessment side.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mind-engage/cognitrack/internal/attempt"
	"github.com/mind-engage/cognitrack/internal/directory"
	"github.com/mind-engage/cognitrack/internal/results"
	"github.com/mind-engage/cognitrack/internal/validation"
)

var (
	// ErrTransport covers network failures, timeouts and 5xx responses.
	ErrTransport = errors.New("transport error")
	ErrNotFound  = errors.New("not found")
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
	Issues     []validation.Issue
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode >= 500:
		return ErrTransport
	case e.StatusCode >= 400:
		return &validation.Error{Issues: e.Issues}
	default:
		return nil
	}
}

type Client struct {
	base    string
	hc      *http.Client
	timeout time.Duration
}

type Option func(*Client)

// WithHTTPClient uses a copy of hc; hc itself is never modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		cp := *hc
		if c.timeout > 0 {
			cp.Timeout = c.timeout
		}
		c.hc = &cp
	}
}

// WithTimeout bounds each request, whichever order it is given in.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
		cp := *c.hc
		cp.Timeout = d
		c.hc = &cp
	}
}

// New returns a client for the API rooted at baseURL (e.g. http://localhost:8080/api).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(baseURL, "/"),
		hc:   &http.Client{Timeout: attempt.DefaultSubmitTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type submitBody struct {
	AssessmentID   string `json:"assessmentId"`
	StudentID      string `json:"studentId"`
	Answers        string `json:"answers"`
	Score          int    `json:"score"`
	TotalQuestions int    `json:"totalQuestions"`
}

// Submit posts one assessment result. It satisfies attempt.Submitter.
func (c *Client) Submit(ctx context.Context, sub attempt.Submission) (results.Result, error) {
	answers, err := sub.Answers.Encode()
	if err != nil {
		return results.Result{}, err
	}
	var out results.Result
	err = c.do(ctx, http.MethodPost, "/assessment-results", submitBody{
		AssessmentID:   sub.AssessmentID,
		StudentID:      sub.StudentID,
		Answers:        answers,
		Score:          sub.Score.Score,
		TotalQuestions: sub.Score.TotalQuestions,
	}, &out)
	return out, err
}

func (c *Client) Latest(ctx context.Context, assessmentID, studentID string) (results.Result, error) {
	var out results.Result
	err := c.do(ctx, http.MethodGet,
		"/assessment-results/"+url.PathEscape(assessmentID)+"/"+url.PathEscape(studentID), nil, &out)
	return out, err
}

func (c *Client) StudentResults(ctx context.Context, studentID string) ([]results.Result, error) {
	var out []results.Result
	err := c.do(ctx, http.MethodGet, "/students/"+url.PathEscape(studentID)+"/results", nil, &out)
	return out, err
}

// Assessment fetches an assessment including its answer keys.
func (c *Client) Assessment(ctx context.Context, id string) (directory.Assessment, error) {
	var out directory.Assessment
	err := c.do(ctx, http.MethodGet, "/assessments/"+url.PathEscape(id)+"?include=answers", nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body, dst any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env struct {
			Message string             `json:"message"`
			Errors  []validation.Issue `json:"errors"`
		}
		_ = json.Unmarshal(raw, &env)
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message, Issues: env.Errors}
	}
	if dst == nil {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrTransport, err)
	}
	return nil
}
