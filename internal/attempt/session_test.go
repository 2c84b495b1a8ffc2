package attempt

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/cognitrack/internal/quiz"
	"github.com/mind-engage/cognitrack/internal/results"
)

type submitFunc func(ctx context.Context, sub Submission) (results.Result, error)

func (f submitFunc) Submit(ctx context.Context, sub Submission) (results.Result, error) {
	return f(ctx, sub)
}

func newSession(t *testing.T, sub Submitter, opts ...Option) *Session {
	t.Helper()
	b, err := quiz.DemoBankFile().Bank()
	require.NoError(t, err)
	return New(b, "stu-001", sub, opts...)
}

func toLast(s *Session) {
	for s.Next() {
	}
}

func TestSession_SubmitSuccess(t *testing.T) {
	var got Submission
	s := newSession(t, submitFunc(func(_ context.Context, sub Submission) (results.Result, error) {
		got = sub
		enc, _ := sub.Answers.Encode()
		return results.Result{ID: "r-1", AssessmentID: sub.AssessmentID, StudentID: sub.StudentID,
			Answers: enc, Score: sub.Score.Score, TotalQuestions: sub.Score.TotalQuestions}, nil
	}))

	require.NoError(t, s.Select("a"))
	s.Next()
	require.NoError(t, s.Select("b"))
	assert.False(t, s.CanSubmit())
	s.Next()
	assert.True(t, s.CanSubmit())

	res, err := s.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "r-1", res.ID)
	assert.Equal(t, StateSubmitted, s.State())

	assert.Equal(t, quiz.DemoAssessmentID, got.AssessmentID)
	assert.Equal(t, "stu-001", got.StudentID)
	assert.Equal(t, quiz.AnswerSet{1: "a", 2: "b"}, got.Answers)
	assert.Equal(t, 1, got.Score.Score)
	assert.Equal(t, 3, got.Score.TotalQuestions)

	stored, ok := s.Result()
	require.True(t, ok)
	assert.Equal(t, "r-1", stored.ID)

	// submitted is terminal
	assert.ErrorIs(t, s.Select("a"), ErrSessionClosed)
	assert.False(t, s.Previous())
	_, err = s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestSession_FailureKeepsAnswers(t *testing.T) {
	boom := errors.New("connection refused")
	calls := 0
	s := newSession(t, submitFunc(func(context.Context, Submission) (results.Result, error) {
		calls++
		if calls == 1 {
			return results.Result{}, boom
		}
		return results.Result{ID: "r-2"}, nil
	}))
	toLast(s)
	require.NoError(t, s.SetAnswer(1, "a"))
	require.NoError(t, s.SetAnswer(3, "a"))

	_, err := s.Submit(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, StateAnswering, s.State())
	assert.ErrorIs(t, s.LastError(), boom)
	_, ok := s.Result()
	assert.False(t, ok)

	answered, total := s.Progress()
	assert.Equal(t, 2, answered)
	assert.Equal(t, 3, total)
	opt, ok := s.Answer(3)
	require.True(t, ok)
	assert.Equal(t, "a", opt)

	// retry succeeds
	res, err := s.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "r-2", res.ID)
	assert.Nil(t, s.LastError())
}

func TestSession_NotOnLastQuestion(t *testing.T) {
	var calls atomic.Int32
	s := newSession(t, submitFunc(func(context.Context, Submission) (results.Result, error) {
		calls.Add(1)
		return results.Result{}, nil
	}))
	_, err := s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrNotLastQuestion)
	assert.Equal(t, int32(0), calls.Load())
	assert.Equal(t, StateAnswering, s.State())
}

func TestSession_SecondSubmitWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	var calls atomic.Int32
	s := newSession(t, submitFunc(func(context.Context, Submission) (results.Result, error) {
		calls.Add(1)
		close(entered)
		<-release
		return results.Result{ID: "r-3"}, nil
	}))
	toLast(s)

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background())
		done <- err
	}()
	<-entered

	assert.Equal(t, StateSubmitting, s.State())
	_, err := s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmissionInFlight)
	assert.ErrorIs(t, s.Select("b"), ErrSubmissionInFlight)
	assert.False(t, s.Previous())

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, StateSubmitted, s.State())
}

func TestSession_SubmitTimeout(t *testing.T) {
	s := newSession(t, submitFunc(func(ctx context.Context, _ Submission) (results.Result, error) {
		<-ctx.Done()
		return results.Result{}, ctx.Err()
	}), WithSubmitTimeout(20*time.Millisecond))
	toLast(s)

	_, err := s.Submit(context.Background())
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, StateAnswering, s.State())
}

func TestSession_ScoreAndReview(t *testing.T) {
	s := newSession(t, nil)
	require.NoError(t, s.SetAnswer(1, "a"))
	require.NoError(t, s.SetAnswer(2, "a"))

	sc := s.Score()
	assert.Equal(t, 2, sc.Score)
	assert.Equal(t, 67, sc.Percentage)

	items := s.Review()
	require.Len(t, items, 3)
	assert.Equal(t, "Not answered", items[2].Label)
}

func TestSession_RejectsUndeclaredOption(t *testing.T) {
	s := newSession(t, nil)
	assert.ErrorIs(t, s.Select("z"), quiz.ErrInvalidOption)
	answered, _ := s.Progress()
	assert.Equal(t, 0, answered)
}
