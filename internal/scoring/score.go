package scoring

import (
	"math"
	"math/big"

	"github.com/mind-engage/cognitrack/internal/quiz"
)

// Result is the outcome of scoring one answer set against a bank.
type Result struct {
	Score          int `json:"score"`
	TotalQuestions int `json:"totalQuestions"`
	Percentage     int `json:"percentage"`
}

// Score counts the questions whose selected option equals the correct one.
// Unanswered questions count as incorrect.
func Score(bank *quiz.Bank, answers quiz.AnswerSet) Result {
	total := bank.Len()
	score := 0
	for i := 0; i < total; i++ {
		q := bank.At(i)
		if sel, ok := answers[q.ID]; ok && sel == q.CorrectAnswer {
			score++
		}
	}
	return Result{Score: score, TotalQuestions: total, Percentage: Percentage(score, total)}
}

// Percentage is round(100*score/total), halves rounded up. A zero total yields 0.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	if score >= 0 && score <= math.MaxInt32 && total <= math.MaxInt32 {
		return int((200*int64(score) + int64(total)) / (2 * int64(total)))
	}
	n := new(big.Int).Mul(big.NewInt(200), big.NewInt(int64(score)))
	n.Add(n, big.NewInt(int64(total)))
	n.Quo(n, new(big.Int).Mul(big.NewInt(2), big.NewInt(int64(total))))
	return int(n.Int64())
}

type Status string

const (
	StatusCorrect    Status = "correct"
	StatusIncorrect  Status = "incorrect"
	StatusUnanswered Status = "unanswered"
)

// Label is the text shown in the review for a status.
func (s Status) Label() string {
	switch s {
	case StatusCorrect:
		return "Correct"
	case StatusIncorrect:
		return "Incorrect"
	default:
		return "Not answered"
	}
}

// ReviewItem is one row of the post-submission review.
type ReviewItem struct {
	QuestionID    int    `json:"questionId"`
	Text          string `json:"text"`
	Selected      string `json:"selected,omitempty"`
	SelectedText  string `json:"selectedText,omitempty"`
	CorrectAnswer string `json:"correctAnswer"`
	CorrectText   string `json:"correctText"`
	Status        Status `json:"status"`
	Label         string `json:"label"`
}

// Review lists every question in bank order with the correct answer revealed.
func Review(bank *quiz.Bank, answers quiz.AnswerSet) []ReviewItem {
	out := make([]ReviewItem, 0, bank.Len())
	for i := 0; i < bank.Len(); i++ {
		q := bank.At(i)
		it := ReviewItem{
			QuestionID:    q.ID,
			Text:          q.Text,
			CorrectAnswer: q.CorrectAnswer,
			CorrectText:   q.OptionText(q.CorrectAnswer),
			Status:        StatusUnanswered,
		}
		if sel, ok := answers[q.ID]; ok {
			it.Selected = sel
			it.SelectedText = q.OptionText(sel)
			it.Status = StatusIncorrect
			if sel == q.CorrectAnswer {
				it.Status = StatusCorrect
			}
		}
		it.Label = it.Status.Label()
		out = append(out, it)
	}
	return out
}
