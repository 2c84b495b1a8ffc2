package quiz

import (
	"errors"
	"fmt"
	"strings"
)

type Option struct {
	ID   string `json:"id" yaml:"id" validate:"required"`
	Text string `json:"text" yaml:"text" validate:"required"`
}

type Question struct {
	ID            int      `json:"id" yaml:"id" validate:"gte=1"`
	Text          string   `json:"text" yaml:"text" validate:"required"`
	Options       []Option `json:"options" yaml:"options" validate:"required,min=2,dive"`
	CorrectAnswer string   `json:"correctAnswer,omitempty" yaml:"correctAnswer"` // option id; stripped when served to students
}

// HasOption reports whether id is one of the question's declared option ids.
func (q Question) HasOption(id string) bool {
	for _, o := range q.Options {
		if o.ID == id {
			return true
		}
	}
	return false
}

// OptionText returns the label for an option id, or "" when the id is unknown.
func (q Question) OptionText(id string) string {
	for _, o := range q.Options {
		if o.ID == id {
			return o.Text
		}
	}
	return ""
}

var ErrInvalidBank = errors.New("invalid question bank")

// Bank is an ordered, immutable set of questions for one assessment.
type Bank struct {
	assessmentID string
	questions    []Question
	index        map[int]int
}

// NewBank copies questions and checks that ids are unique, option ids are
// unique per question and every correct answer names a declared option.
func NewBank(assessmentID string, questions []Question) (*Bank, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no questions", ErrInvalidBank)
	}
	b := &Bank{
		assessmentID: strings.TrimSpace(assessmentID),
		questions:    make([]Question, 0, len(questions)),
		index:        make(map[int]int, len(questions)),
	}
	for i, q := range questions {
		if _, dup := b.index[q.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate question id %d", ErrInvalidBank, q.ID)
		}
		seen := make(map[string]struct{}, len(q.Options))
		opts := make([]Option, 0, len(q.Options))
		for _, o := range q.Options {
			if o.ID == "" {
				return nil, fmt.Errorf("%w: question %d has an option without id", ErrInvalidBank, q.ID)
			}
			if _, dup := seen[o.ID]; dup {
				return nil, fmt.Errorf("%w: question %d repeats option %q", ErrInvalidBank, q.ID, o.ID)
			}
			seen[o.ID] = struct{}{}
			opts = append(opts, o)
		}
		if _, ok := seen[q.CorrectAnswer]; !ok {
			return nil, fmt.Errorf("%w: question %d correct answer %q is not an option", ErrInvalidBank, q.ID, q.CorrectAnswer)
		}
		q.Options = opts
		b.index[q.ID] = i
		b.questions = append(b.questions, q)
	}
	return b, nil
}

func (b *Bank) AssessmentID() string { return b.assessmentID }
func (b *Bank) Len() int             { return len(b.questions) }

// At returns the question at position i in bank order.
func (b *Bank) At(i int) Question { return b.questions[i] }

func (b *Bank) ByID(id int) (Question, bool) {
	i, ok := b.index[id]
	if !ok {
		return Question{}, false
	}
	return b.questions[i], true
}

// Questions returns a copy of the questions in bank order.
func (b *Bank) Questions() []Question {
	out := make([]Question, len(b.questions))
	for i, q := range b.questions {
		q.Options = append([]Option(nil), q.Options...)
		out[i] = q
	}
	return out
}

// StudentView returns the questions with correct answers removed.
func (b *Bank) StudentView() []Question {
	out := b.Questions()
	for i := range out {
		out[i].CorrectAnswer = ""
	}
	return out
}
