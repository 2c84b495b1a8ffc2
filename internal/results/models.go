package results

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("result not found")

// Result is one persisted assessment submission. It is never updated.
type Result struct {
	ID             string    `json:"id"`
	AssessmentID   string    `json:"assessmentId"`
	StudentID      string    `json:"studentId"`
	Answers        string    `json:"answers"` // serialized quiz.AnswerSet
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	SubmittedAt    time.Time `json:"submittedAt"`
}

// Input is a submission before the store assigns id and submittedAt.
type Input struct {
	AssessmentID   string `json:"assessmentId"`
	StudentID      string `json:"studentId"`
	Answers        string `json:"answers"`
	Score          int    `json:"score"`
	TotalQuestions int    `json:"totalQuestions"`
}

// newer reports whether a should win over b in "latest result" lookups:
// the later submittedAt wins, and on equal timestamps the later insertion.
func newer(a, b Result, aSeq, bSeq int64) bool {
	if !a.SubmittedAt.Equal(b.SubmittedAt) {
		return a.SubmittedAt.After(b.SubmittedAt)
	}
	return aSeq > bSeq
}
