package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// QuestionID is the backend's opaque question identifier. The backend may send
// it as a JSON number or a JSON string; the original form is kept on the way back.
type QuestionID struct {
	value   string
	numeric bool
}

func NumericQuestionID(n int64) QuestionID {
	return QuestionID{value: strconv.FormatInt(n, 10), numeric: true}
}

func StringQuestionID(s string) QuestionID {
	return QuestionID{value: s}
}

func (id QuestionID) String() string {
	return id.value
}

func (id QuestionID) IsZero() bool {
	return id.value == ""
}

// Matches compares ids by their textual form, so a client sending "1" finds question 1.
func (id QuestionID) Matches(other QuestionID) bool {
	return id.value == other.value
}

func (id QuestionID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

func (id *QuestionID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("invalid question id: %w", err)
		}
		if s == "" {
			return errors.New("question id is empty")
		}
		*id = QuestionID{value: s}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("question id must be a string or a number: %w", err)
	}
	if n == "" {
		return errors.New("question id is empty")
	}
	*id = QuestionID{value: n.String(), numeric: true}
	return nil
}

// Question is one generated multiple-choice question. It is never modified after it is received.
type Question struct {
	ID       QuestionID
	Level    string
	Question string
	Options  []string
}

// HasOption reports whether option is one of q's answer choices.
func (q Question) HasOption(option string) bool {
	for _, o := range q.Options {
		if o == option {
			return true
		}
	}
	return false
}

func (q Question) Validate() error {
	if q.ID.IsZero() {
		return NewValidationError("question id is required")
	}
	if strings.TrimSpace(q.Question) == "" {
		return NewValidationError(fmt.Sprintf("question %s has no text", q.ID))
	}
	if len(q.Options) == 0 {
		return NewValidationError(fmt.Sprintf("question %s has no options", q.ID))
	}
	return nil
}

// QuestionSet is what the backend returns when a quiz starts.
type QuestionSet struct {
	Questions []Question
	// TimePerQuestion is in seconds; zero means the backend did not supply one.
	TimePerQuestion int
}

// AnswerSelection maps question ids to the chosen option text. Entries are only ever added or overwritten.
type AnswerSelection map[QuestionID]string

func (s AnswerSelection) Select(id QuestionID, option string) {
	s[id] = option
}

func (s AnswerSelection) Selected(id QuestionID) (string, bool) {
	opt, ok := s[id]
	return opt, ok
}

// Clone copies the selection so a finished attempt keeps its own answers.
func (s AnswerSelection) Clone() AnswerSelection {
	out := make(AnswerSelection, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// AnswerSubmission is one entry of the graded payload. SelectedOption is nil for unanswered questions.
type AnswerSubmission struct {
	QuestionID     QuestionID
	SelectedOption *string
}

// BuildSubmissions returns one entry per question, in question order.
func BuildSubmissions(questions []Question, selected AnswerSelection) []AnswerSubmission {
	out := make([]AnswerSubmission, 0, len(questions))
	for _, q := range questions {
		sub := AnswerSubmission{QuestionID: q.ID}
		if opt, ok := selected.Selected(q.ID); ok && opt != "" {
			o := opt
			sub.SelectedOption = &o
		}
		out = append(out, sub)
	}
	return out
}

// GradedResult is the backend's verdict on one submitted answer.
type GradedResult struct {
	QuestionID     QuestionID
	IsCorrect      bool
	SelectedOption *string
	CorrectAnswer  string
	Explanation    string
}

// GradeReport is what the backend returns for a submission.
type GradeReport struct {
	Score   int
	Results []GradedResult
}
