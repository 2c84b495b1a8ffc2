package attempt

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mind-engage/cognitrack/internal/quiz"
	"github.com/mind-engage/cognitrack/internal/results"
	"github.com/mind-engage/cognitrack/internal/scoring"
)

type State int

const (
	StateAnswering State = iota
	StateSubmitting
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateAnswering:
		return "answering"
	case StateSubmitting:
		return "submitting"
	case StateSubmitted:
		return "submitted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	ErrSubmissionInFlight = errors.New("a submission is already in flight")
	ErrSessionClosed      = errors.New("session already submitted")
	ErrNotLastQuestion    = errors.New("submit is only offered on the last question")
)

// Submission is what the session hands to the persistence boundary.
type Submission struct {
	AssessmentID string
	StudentID    string
	Answers      quiz.AnswerSet
	Score        scoring.Result
}

// Submitter sends one submission and returns the stored record.
type Submitter interface {
	Submit(ctx context.Context, sub Submission) (results.Result, error)
}

const DefaultSubmitTimeout = 10 * time.Second

// Session is one student's pass through an assessment:
// Answering -> Submitting -> Submitted, or back to Answering on failure.
// Submitted is terminal; start a new Session to answer again.
type Session struct {
	assessmentID string
	studentID    string
	bank         *quiz.Bank
	submitter    Submitter
	timeout      time.Duration

	mu      sync.Mutex
	nav     *quiz.Navigator
	answers *quiz.AnswerStore
	state   State
	result  results.Result
	lastErr error
}

type Option func(*Session)

// WithSubmitTimeout bounds each submission call. Zero disables the bound.
func WithSubmitTimeout(d time.Duration) Option { return func(s *Session) { s.timeout = d } }

func New(bank *quiz.Bank, studentID string, submitter Submitter, opts ...Option) *Session {
	s := &Session{
		assessmentID: bank.AssessmentID(),
		studentID:    studentID,
		bank:         bank,
		submitter:    submitter,
		timeout:      DefaultSubmitTimeout,
		nav:          quiz.NewNavigator(bank.Len()),
		answers:      quiz.NewAnswerStore(bank),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current returns the question under the cursor and its position.
func (s *Session) Current() (quiz.Question, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.nav.Index()
	return s.bank.At(i), i
}

func (s *Session) Len() int { return s.bank.Len() }

// Next and Previous move only while answering.
func (s *Session) Next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateAnswering && s.nav.Next()
}

func (s *Session) Previous() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateAnswering && s.nav.Previous()
}

func (s *Session) IsFirst() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.IsFirst()
}

func (s *Session) IsLast() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.IsLast()
}

// CanSubmit reports whether the Submit action should be offered.
func (s *Session) CanSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateAnswering && s.nav.IsLast()
}

// Select records optionID for the current question.
func (s *Session) Select(optionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writable(); err != nil {
		return err
	}
	return s.answers.SetAnswer(s.bank.At(s.nav.Index()).ID, optionID)
}

// SetAnswer records optionID for any question in the bank.
func (s *Session) SetAnswer(questionID int, optionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writable(); err != nil {
		return err
	}
	return s.answers.SetAnswer(questionID, optionID)
}

func (s *Session) Answer(questionID int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answers.Answer(questionID)
}

// Progress returns answered and total question counts.
func (s *Session) Progress() (answered, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answers.AnsweredCount(), s.bank.Len()
}

func (s *Session) writable() error {
	switch s.state {
	case StateSubmitting:
		return ErrSubmissionInFlight
	case StateSubmitted:
		return ErrSessionClosed
	}
	return nil
}

// Submit scores the answers and sends them once. On failure the session
// returns to Answering with answers intact so the caller may retry.
func (s *Session) Submit(ctx context.Context) (results.Result, error) {
	s.mu.Lock()
	if err := s.writable(); err != nil {
		s.mu.Unlock()
		return results.Result{}, err
	}
	if !s.nav.IsLast() {
		s.mu.Unlock()
		return results.Result{}, ErrNotLastQuestion
	}
	answers := s.answers.Snapshot()
	sub := Submission{
		AssessmentID: s.assessmentID,
		StudentID:    s.studentID,
		Answers:      answers,
		Score:        scoring.Score(s.bank, answers),
	}
	s.state = StateSubmitting
	s.lastErr = nil
	s.mu.Unlock()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	r, err := s.submitter.Submit(ctx, sub)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateAnswering
		s.lastErr = err
		return results.Result{}, fmt.Errorf("submit assessment: %w", err)
	}
	s.state = StateSubmitted
	s.result = r
	return r, nil
}

// Result returns the stored record once the session is Submitted.
func (s *Session) Result() (results.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.state == StateSubmitted
}

// LastError is the error of the most recent failed submission, if any.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Score is the local score of the current answers.
func (s *Session) Score() scoring.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return scoring.Score(s.bank, s.answers.Snapshot())
}

// Review is the per-question breakdown of the current answers.
func (s *Session) Review() []scoring.ReviewItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return scoring.Review(s.bank, s.answers.Snapshot())
}
