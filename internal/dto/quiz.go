package dto

import "quizzy/internal/domain"

// StartQuizRequest asks the backend for a fresh question set.
// The gateway accepts the same body on POST /api/quiz/start.
type StartQuizRequest struct {
	Context string `json:"context"`
}

// SubmitQuizRequest carries the collected answers; the backend tells it apart
// from StartQuizRequest by the presence of Answers.
type SubmitQuizRequest struct {
	Context string          `json:"context"`
	Answers []AnswerPayload `json:"answers"`
}

type AnswerPayload struct {
	QuestionID     domain.QuestionID `json:"question_id"`
	SelectedOption *string           `json:"selected_option"`
}

type QuestionPayload struct {
	ID       domain.QuestionID `json:"id"`
	Level    string            `json:"level"`
	Question string            `json:"question"`
	Options  []string          `json:"options"`
}

type StartQuizResponse struct {
	Questions       []QuestionPayload `json:"questions"`
	TimePerQuestion int               `json:"time_per_question"`
}

type GradedResultPayload struct {
	QuestionID     domain.QuestionID `json:"question_id"`
	IsCorrect      bool              `json:"is_correct"`
	SelectedOption *string           `json:"selected_option"`
	CorrectAnswer  string            `json:"correct_answer"`
	Explanation    string            `json:"explanation"`
}

type SubmitQuizResponse struct {
	Score   int                   `json:"score"`
	Results []GradedResultPayload `json:"results"`
}

// SelectAnswerRequest is the gateway body for POST /api/quiz/answer.
type SelectAnswerRequest struct {
	QuestionID domain.QuestionID `json:"question_id"`
	Option     string            `json:"option"`
}

// ErrorResponse is the backend's error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (r StartQuizResponse) ToDomain() *domain.QuestionSet {
	set := &domain.QuestionSet{
		Questions:       make([]domain.Question, 0, len(r.Questions)),
		TimePerQuestion: r.TimePerQuestion,
	}
	for _, q := range r.Questions {
		set.Questions = append(set.Questions, domain.Question{
			ID:       q.ID,
			Level:    q.Level,
			Question: q.Question,
			Options:  append([]string(nil), q.Options...),
		})
	}
	return set
}

func (r SubmitQuizResponse) ToDomain() *domain.GradeReport {
	report := &domain.GradeReport{
		Score:   r.Score,
		Results: make([]domain.GradedResult, 0, len(r.Results)),
	}
	for _, res := range r.Results {
		report.Results = append(report.Results, domain.GradedResult{
			QuestionID:     res.QuestionID,
			IsCorrect:      res.IsCorrect,
			SelectedOption: res.SelectedOption,
			CorrectAnswer:  res.CorrectAnswer,
			Explanation:    res.Explanation,
		})
	}
	return report
}

func NewSubmitQuizRequest(quizContext string, answers []domain.AnswerSubmission) SubmitQuizRequest {
	req := SubmitQuizRequest{
		Context: quizContext,
		Answers: make([]AnswerPayload, 0, len(answers)),
	}
	for _, a := range answers {
		req.Answers = append(req.Answers, AnswerPayload{
			QuestionID:     a.QuestionID,
			SelectedOption: a.SelectedOption,
		})
	}
	return req
}
