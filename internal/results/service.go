package results

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mind-engage/cognitrack/internal/eventlog"
	"github.com/mind-engage/cognitrack/internal/metrics"
	"github.com/mind-engage/cognitrack/internal/quiz"
	"github.com/mind-engage/cognitrack/internal/scoring"
	"github.com/mind-engage/cognitrack/internal/validation"
)

var ErrBankUnknown = errors.New("question bank not found")

// MaxQuestions bounds totalQuestions on a submission.
const MaxQuestions = 1000

// Banks resolves the question bank of an assessment. ok is false when the
// assessment is unknown or carries no questions.
type Banks interface {
	Bank(ctx context.Context, assessmentID string) (bank *quiz.Bank, ok bool, err error)
}

// Service is the persistence boundary for submissions: it checks the
// submitted shape, optionally re-scores against the bank, stores the record
// and announces it on the event log.
type Service struct {
	store   Store
	banks   Banks
	verify  bool
	events  eventlog.Log
	metrics *metrics.Recorder
	log     *slog.Logger
}

type ServiceOption func(*Service)

func WithBanks(b Banks) ServiceOption               { return func(s *Service) { s.banks = b } }
func WithEvents(l eventlog.Log) ServiceOption       { return func(s *Service) { s.events = l } }
func WithMetrics(m *metrics.Recorder) ServiceOption { return func(s *Service) { s.metrics = m } }
func WithLogger(l *slog.Logger) ServiceOption       { return func(s *Service) { s.log = l } }

// WithScoreVerification makes Submit recompute the score from the answers
// whenever the bank is known and reject mismatches.
func WithScoreVerification(on bool) ServiceOption { return func(s *Service) { s.verify = on } }

func NewService(store Store, opts ...ServiceOption) *Service {
	s := &Service{store: store, log: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) Store() Store { return s.store }

// Submit stores one result. Every call creates a new record; there is no
// idempotency key, so retries after a lost response produce duplicates.
func (s *Service) Submit(ctx context.Context, in Input) (Result, error) {
	in.AssessmentID = strings.TrimSpace(in.AssessmentID)
	in.StudentID = strings.TrimSpace(in.StudentID)

	if err := s.check(ctx, in); err != nil {
		if errors.Is(err, validation.ErrInvalid) {
			s.metrics.ResultRejected()
		} else {
			s.metrics.ResultFailed()
		}
		return Result{}, err
	}

	r, err := s.store.Create(ctx, in)
	if err != nil {
		s.metrics.ResultFailed()
		return Result{}, fmt.Errorf("create result: %w", err)
	}
	s.metrics.ResultCreated(scoring.Percentage(r.Score, r.TotalQuestions))

	if s.events != nil {
		data, _ := json.Marshal(r)
		if err := s.events.Append(ctx, eventlog.Event{
			Type: eventlog.TypeResultSubmitted,
			Key:  r.ID,
			Data: string(data),
		}); err != nil {
			// the record is stored; a missing event is reported, not fatal
			s.log.Warn("event append failed", "result_id", r.ID, "err", err)
		}
	}
	s.log.Info("assessment result stored",
		"result_id", r.ID,
		"assessment_id", r.AssessmentID,
		"student_id", r.StudentID,
		"score", r.Score,
		"total", r.TotalQuestions)
	return r, nil
}

func (s *Service) check(ctx context.Context, in Input) error {
	var issues []validation.Issue
	add := func(field, rule, msg string) {
		issues = append(issues, validation.Issue{Field: field, Rule: rule, Message: msg})
	}
	if in.AssessmentID == "" {
		add("assessmentId", "required", "is required")
	}
	if in.StudentID == "" {
		add("studentId", "required", "is required")
	}
	if in.TotalQuestions < 1 {
		add("totalQuestions", "gte", "must be greater than or equal to 1")
	}
	if in.TotalQuestions > MaxQuestions {
		add("totalQuestions", "lte", "must be less than or equal to "+strconv.Itoa(MaxQuestions))
	}
	if in.Score < 0 || (in.TotalQuestions >= 1 && in.Score > in.TotalQuestions) {
		add("score", "range", "must be between 0 and totalQuestions")
	}
	answers, err := quiz.ParseAnswerSet(in.Answers)
	if err != nil {
		add("answers", "answerset", "must be a JSON object of question id to option id")
	}
	if len(issues) > 0 || !s.verify || s.banks == nil {
		return validation.New(issues...)
	}

	bank, ok, err := s.banks.Bank(ctx, in.AssessmentID)
	if err != nil {
		return fmt.Errorf("load bank %s: %w", in.AssessmentID, err)
	}
	if !ok {
		return nil
	}
	if in.TotalQuestions != bank.Len() {
		add("totalQuestions", "mismatch", "must equal the number of questions ("+strconv.Itoa(bank.Len())+")")
	}
	for qid, opt := range answers {
		q, found := bank.ByID(qid)
		if !found || !q.HasOption(opt) {
			add("answers", "option", (&quiz.InvalidOptionError{QuestionID: qid, OptionID: opt, UnknownQ: !found}).Error())
		}
	}
	if got := scoring.Score(bank, answers); got.Score != in.Score {
		add("score", "mismatch", "does not match the answers (expected "+strconv.Itoa(got.Score)+")")
	}
	return validation.New(issues...)
}

// Latest returns the most recent result for the pair or ErrNotFound.
func (s *Service) Latest(ctx context.Context, assessmentID, studentID string) (Result, error) {
	return s.store.FindByAssessmentAndStudent(ctx, assessmentID, studentID)
}

func (s *Service) ForStudent(ctx context.Context, studentID string) ([]Result, error) {
	return s.store.FindByStudent(ctx, studentID)
}

// Review scores the latest result for the pair question by question.
func (s *Service) Review(ctx context.Context, assessmentID, studentID string) (Result, []scoring.ReviewItem, error) {
	r, err := s.Latest(ctx, assessmentID, studentID)
	if err != nil {
		return Result{}, nil, err
	}
	if s.banks == nil {
		return Result{}, nil, ErrBankUnknown
	}
	bank, ok, err := s.banks.Bank(ctx, assessmentID)
	if err != nil {
		return Result{}, nil, err
	}
	if !ok {
		return Result{}, nil, ErrBankUnknown
	}
	answers, err := quiz.ParseAnswerSet(r.Answers)
	if err != nil {
		return Result{}, nil, fmt.Errorf("stored answers for %s: %w", r.ID, err)
	}
	return r, scoring.Review(bank, answers), nil
}
