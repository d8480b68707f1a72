package main

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"quizzy/internal/dto"
)

// renderer draws quiz views and notices on a terminal. Views arrive from the
// session loop and notices from the input loop, so writes are serialized.
type renderer struct {
	mu   sync.Mutex
	out  io.Writer
	last *dto.QuizView
	// inTicker is set while the cursor sits at the end of a countdown line.
	inTicker bool
}

func newRenderer(out io.Writer) *renderer {
	return &renderer{out: out}
}

// Render draws view. A view that differs from the previous one only by the
// seconds left rewrites the countdown line in place.
func (r *renderer) Render(view dto.QuizView) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.last != nil && view.Question != nil && onlyTimeChanged(*r.last, view) {
		fmt.Fprintf(r.out, "\r%s", timeLine(view.Question))
		r.inTicker = true
		r.last = &view
		return
	}
	r.breakTicker()
	r.last = &view
	io.WriteString(r.out, formatView(view))
	if view.Question != nil {
		io.WriteString(r.out, timeLine(view.Question))
		r.inTicker = true
	}
}

// Notice prints a line outside the quiz screen.
func (r *renderer) Notice(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.breakTicker()
	fmt.Fprintf(r.out, format+"\n", args...)
}

func (r *renderer) breakTicker() {
	if r.inTicker {
		io.WriteString(r.out, "\n")
		r.inTicker = false
	}
}

func onlyTimeChanged(prev, next dto.QuizView) bool {
	if prev.Question == nil || next.Question == nil {
		return false
	}
	a, b := *prev.Question, *next.Question
	if a.TimeLeft == b.TimeLeft {
		return false
	}
	a.TimeLeft, b.TimeLeft = 0, 0
	prev.Question, next.Question = &a, &b
	return reflect.DeepEqual(prev, next)
}

func timeLine(q *dto.QuestionView) string {
	return fmt.Sprintf("Time left: %2ds ", q.TimeLeft)
}

func formatView(v dto.QuizView) string {
	var b strings.Builder
	b.WriteString("\n")

	switch {
	case v.Question != nil:
		q := v.Question
		fmt.Fprintf(&b, "== Quiz: %s ==\n", v.Context)
		fmt.Fprintf(&b, "Question %d of %d", q.Number, q.Total)
		if q.Level != "" {
			fmt.Fprintf(&b, "  [%s]", q.Level)
		}
		fmt.Fprintf(&b, "\n%s\n", q.Text)
		for i, opt := range q.Options {
			mark := " "
			if opt == q.Selected {
				mark = "*"
			}
			fmt.Fprintf(&b, " %s %d) %s\n", mark, i+1, opt)
		}
		if v.Pending {
			b.WriteString("Submitting...\n")
		} else {
			fmt.Fprintf(&b, "Type 1-%d to choose, `next` for %s.\n", len(q.Options), q.NextLabel)
		}
	case v.Phase == "completed":
		fmt.Fprintf(&b, "== Results for %s: %s ==\n", v.Context, v.Summary)
		for i, res := range v.Results {
			fmt.Fprintf(&b, "%d. %s\n", i+1, res.Verdict)
			fmt.Fprintf(&b, "   Your answer: %s\n", res.YourAnswer)
			fmt.Fprintf(&b, "   Correct answer: %s\n", res.CorrectAnswer)
			if res.Explanation != "" {
				fmt.Fprintf(&b, "   %s\n", res.Explanation)
			}
		}
		b.WriteString("Type `new` to start another quiz.\n")
	case v.Pending:
		b.WriteString("Generating quiz...\n")
	default:
		b.WriteString("No quiz running. Type `quiz <topic or text>` to start.\n")
	}

	if v.Error != "" {
		fmt.Fprintf(&b, "! %s (type `dismiss` to clear)\n", v.Error)
	}
	return b.String()
}
