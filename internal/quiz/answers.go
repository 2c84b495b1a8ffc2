package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// AnswerSet maps question id to the selected option id.
type AnswerSet map[int]string

// Encode serializes the set as a JSON object keyed by decimal question id.
func (a AnswerSet) Encode() (string, error) {
	if a == nil {
		return "{}", nil
	}
	buf, err := json.Marshal(map[int]string(a))
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// ParseAnswerSet is the inverse of Encode. Keys must be integers and values strings.
func ParseAnswerSet(s string) (AnswerSet, error) {
	var raw map[string]string
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, fmt.Errorf("answers: %w", err)
	}
	out := make(AnswerSet, len(raw))
	for k, v := range raw {
		id, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("answers: question id %q is not an integer", k)
		}
		out[id] = v
	}
	return out, nil
}

var ErrInvalidOption = errors.New("invalid option")

// InvalidOptionError reports a selection the bank does not declare.
type InvalidOptionError struct {
	QuestionID int
	OptionID   string
	UnknownQ   bool
}

func (e *InvalidOptionError) Error() string {
	if e.UnknownQ {
		return fmt.Sprintf("question %d is not in the bank", e.QuestionID)
	}
	return fmt.Sprintf("option %q is not declared for question %d", e.OptionID, e.QuestionID)
}

func (e *InvalidOptionError) Unwrap() error { return ErrInvalidOption }

// AnswerStore holds the in-progress selections for one attempt.
// It is not safe for concurrent use; the owning session serializes access.
type AnswerStore struct {
	bank    *Bank
	answers AnswerSet
}

func NewAnswerStore(bank *Bank) *AnswerStore {
	return &AnswerStore{bank: bank, answers: AnswerSet{}}
}

// SetAnswer upserts the selection for a question. Last write wins.
func (s *AnswerStore) SetAnswer(questionID int, optionID string) error {
	q, ok := s.bank.ByID(questionID)
	if !ok {
		return &InvalidOptionError{QuestionID: questionID, OptionID: optionID, UnknownQ: true}
	}
	if !q.HasOption(optionID) {
		return &InvalidOptionError{QuestionID: questionID, OptionID: optionID}
	}
	s.answers[questionID] = optionID
	return nil
}

// Answer returns the selected option id; ok is false while unanswered.
func (s *AnswerStore) Answer(questionID int) (optionID string, ok bool) {
	optionID, ok = s.answers[questionID]
	return optionID, ok
}

func (s *AnswerStore) AnsweredCount() int { return len(s.answers) }

// Snapshot returns a copy safe to hand to scoring or submission.
func (s *AnswerStore) Snapshot() AnswerSet {
	out := make(AnswerSet, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

func (s *AnswerStore) Reset() { s.answers = AnswerSet{} }
