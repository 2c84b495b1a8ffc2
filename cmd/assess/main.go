// Command assess runs one assessment in the terminal and submits it to a
// cognitrack server.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	flag "github.com/spf13/pflag"

	"github.com/mind-engage/cognitrack/internal/attempt"
	"github.com/mind-engage/cognitrack/internal/client"
	"github.com/mind-engage/cognitrack/internal/quiz"
	"github.com/mind-engage/cognitrack/internal/scoring"
	"github.com/mind-engage/cognitrack/internal/validation"
)

var (
	bold   = color.New(color.Bold)
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	faint  = color.New(color.Faint)
)

func main() {
	server := flag.StringP("server", "s", "http://localhost:8080/api", "API base URL")
	assessmentID := flag.StringP("assessment", "a", quiz.DemoAssessmentID, "assessment id")
	studentID := flag.StringP("student", "u", "stu-001", "student id")
	bankFile := flag.String("bank", "", "load questions from a local YAML bank instead of the server")
	timeout := flag.Duration("timeout", attempt.DefaultSubmitTimeout, "submission timeout")
	flag.Parse()

	cl := client.New(*server, client.WithTimeout(*timeout))
	ctx := context.Background()

	bank, err := loadBank(ctx, cl, *bankFile, *assessmentID)
	if err != nil {
		red.Fprintln(os.Stderr, "load assessment:", err)
		os.Exit(1)
	}

	sess := attempt.New(bank, *studentID, cl, attempt.WithSubmitTimeout(*timeout))
	if err := loop(ctx, sess, os.Stdin, os.Stdout); err != nil && !errors.Is(err, io.EOF) {
		red.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadBank(ctx context.Context, cl *client.Client, path, id string) (*quiz.Bank, error) {
	if path != "" {
		f, err := quiz.LoadBankFile(path)
		if err != nil {
			return nil, err
		}
		return f.Bank()
	}
	a, err := cl.Assessment(ctx, id)
	if err != nil {
		return nil, err
	}
	return quiz.NewBank(a.ID, a.Questions)
}

func loop(ctx context.Context, sess *attempt.Session, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	for {
		showQuestion(out, sess)
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return err
			}
			return io.EOF
		}
		cmd := strings.TrimSpace(sc.Text())
		switch strings.ToLower(cmd) {
		case "":
		case "q", "quit":
			return nil
		case "n", "next":
			sess.Next()
		case "p", "prev", "previous":
			sess.Previous()
		case "s", "submit":
			if !sess.CanSubmit() {
				yellow.Fprintln(out, "Submit is available on the last question.")
				continue
			}
			yellow.Fprintln(out, "Submitting...")
			res, err := sess.Submit(ctx)
			if err != nil {
				showSubmitError(out, err)
				continue
			}
			showResults(out, sess, res.ID)
			return nil
		default:
			if err := sess.Select(cmd); err != nil {
				red.Fprintln(out, err)
			}
		}
	}
}

func showQuestion(out io.Writer, sess *attempt.Session) {
	q, i := sess.Current()
	answered, total := sess.Progress()
	fmt.Fprintln(out)
	faint.Fprintf(out, "Question %d of %d  (%d answered)\n", i+1, total, answered)
	bold.Fprintln(out, q.Text)
	sel, _ := sess.Answer(q.ID)
	for _, o := range q.Options {
		mark := " "
		if o.ID == sel {
			mark = "*"
		}
		fmt.Fprintf(out, " %s %s) %s\n", mark, o.ID, o.Text)
	}
	hint := []string{}
	if !sess.IsFirst() {
		hint = append(hint, "p=previous")
	}
	if sess.IsLast() {
		hint = append(hint, "s=submit")
	} else {
		hint = append(hint, "n=next")
	}
	hint = append(hint, "q=quit")
	faint.Fprintln(out, "option id to answer, "+strings.Join(hint, ", "))
}

func showSubmitError(out io.Writer, err error) {
	switch {
	case errors.Is(err, validation.ErrInvalid):
		red.Fprintln(out, "Submission rejected:")
		for _, is := range validation.Issues(err) {
			red.Fprintf(out, "  %s: %s\n", is.Field, is.Message)
		}
	case errors.Is(err, client.ErrTransport):
		red.Fprintln(out, "Could not reach the server. Your answers are kept; try again.")
	default:
		red.Fprintln(out, err)
	}
}

func showResults(out io.Writer, sess *attempt.Session, id string) {
	sc := sess.Score()
	fmt.Fprintln(out)
	bold.Fprintf(out, "Score: %d / %d (%d%%)\n", sc.Score, sc.TotalQuestions, sc.Percentage)
	faint.Fprintln(out, "result id:", id)
	for _, it := range sess.Review() {
		c := green
		switch it.Status {
		case scoring.StatusIncorrect:
			c = red
		case scoring.StatusUnanswered:
			c = yellow
		}
		fmt.Fprintf(out, "%d. %s\n", it.QuestionID, it.Text)
		c.Fprintf(out, "   %s", it.Label)
		if it.Status != scoring.StatusCorrect {
			fmt.Fprintf(out, " (correct: %s) %s", it.CorrectAnswer, it.CorrectText)
		}
		fmt.Fprintln(out)
	}
}
