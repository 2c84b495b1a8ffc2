package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/cognitrack/internal/quiz"
)

func bank(t *testing.T) *quiz.Bank {
	t.Helper()
	b, err := quiz.DemoBankFile().Bank()
	require.NoError(t, err)
	return b
}

func TestScore_Scenarios(t *testing.T) {
	b := bank(t)
	tests := []struct {
		name    string
		answers quiz.AnswerSet
		want    Result
	}{
		{"all correct", quiz.AnswerSet{1: "a", 2: "a", 3: "a"}, Result{Score: 3, TotalQuestions: 3, Percentage: 100}},
		{"partial", quiz.AnswerSet{1: "a", 2: "b"}, Result{Score: 1, TotalQuestions: 3, Percentage: 33}},
		{"two of three", quiz.AnswerSet{1: "a", 2: "a", 3: "c"}, Result{Score: 2, TotalQuestions: 3, Percentage: 67}},
		{"empty", quiz.AnswerSet{}, Result{Score: 0, TotalQuestions: 3, Percentage: 0}},
		{"nil", nil, Result{Score: 0, TotalQuestions: 3, Percentage: 0}},
		{"unknown ids ignored", quiz.AnswerSet{7: "a", 1: "a"}, Result{Score: 1, TotalQuestions: 3, Percentage: 33}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(b, tt.answers))
		})
	}
}

func TestScore_BoundedAndOrderIndependent(t *testing.T) {
	b := bank(t)
	opts := []string{"a", "b", "c", "d", ""}
	for _, o1 := range opts {
		for _, o2 := range opts {
			for _, o3 := range opts {
				ans := quiz.AnswerSet{}
				for qid, o := range map[int]string{1: o1, 2: o2, 3: o3} {
					if o != "" {
						ans[qid] = o
					}
				}
				got := Score(b, ans)
				assert.GreaterOrEqual(t, got.Score, 0)
				assert.LessOrEqual(t, got.Score, got.TotalQuestions)

				// same selections, reversed bank order
				rev, err := quiz.NewBank("rev", []quiz.Question{b.At(2), b.At(1), b.At(0)})
				require.NoError(t, err)
				assert.Equal(t, got.Score, Score(rev, ans).Score)
			}
		}
	}
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0, Percentage(0, 0))
	assert.Equal(t, 0, Percentage(3, -1))
	assert.Equal(t, 50, Percentage(1, 2))
	assert.Equal(t, 33, Percentage(1, 3))
	assert.Equal(t, 67, Percentage(2, 3))
	assert.Equal(t, 13, Percentage(1, 8)) // 12.5 rounds up
	assert.Equal(t, 100, Percentage(5, 5))
	assert.Equal(t, 100, Percentage(1e17, 1e17))
	assert.Equal(t, 50, Percentage(1e17, 2e17))
	assert.Equal(t, 33, Percentage(math.MaxInt64/3, math.MaxInt64))
}

func TestReview(t *testing.T) {
	items := Review(bank(t), quiz.AnswerSet{1: "a", 2: "b"})
	require.Len(t, items, 3)

	assert.Equal(t, StatusCorrect, items[0].Status)
	assert.Equal(t, "Correct", items[0].Label)
	assert.Equal(t, "2x + 3", items[0].SelectedText)

	assert.Equal(t, StatusIncorrect, items[1].Status)
	assert.Equal(t, "b", items[1].Selected)
	assert.Equal(t, "a", items[1].CorrectAnswer)
	assert.Equal(t, "x = 5", items[1].CorrectText)

	assert.Equal(t, StatusUnanswered, items[2].Status)
	assert.Equal(t, "Not answered", items[2].Label)
	assert.Empty(t, items[2].Selected)
}
