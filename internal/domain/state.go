package domain

import "fmt"

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAnswering
	PhaseCompleted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAnswering:
		return "answering"
	case PhaseCompleted:
		return "completed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// QuizState is one of Idle, *Answering or *Completed.
type QuizState interface {
	Phase() Phase
	quizState()
}

// Idle means no questions are loaded.
type Idle struct{}

func (Idle) Phase() Phase { return PhaseIdle }
func (Idle) quizState()   {}

// Answering holds a loaded question set and the progress through it.
type Answering struct {
	Context         string
	Questions       []Question
	Index           int
	Selected        AnswerSelection
	TimePerQuestion int
	TimeLeft        int
}

func (*Answering) Phase() Phase { return PhaseAnswering }
func (*Answering) quizState()   {}

func (a *Answering) Current() Question {
	return a.Questions[a.Index]
}

func (a *Answering) IsLast() bool {
	return a.Index == len(a.Questions)-1
}

// Find resolves a caller-supplied id to the canonical id from the question set.
func (a *Answering) Find(id QuestionID) (Question, bool) {
	for _, q := range a.Questions {
		if q.ID.Matches(id) {
			return q, true
		}
	}
	return Question{}, false
}

// Completed holds the graded outcome.
type Completed struct {
	Context   string
	Questions []Question
	Selected  AnswerSelection
	Score     int
	Results   []GradedResult
}

func (*Completed) Phase() Phase { return PhaseCompleted }
func (*Completed) quizState()   {}

// Summary renders the score as "score / number of graded results".
func (c *Completed) Summary() string {
	return fmt.Sprintf("%d / %d", c.Score, len(c.Results))
}
