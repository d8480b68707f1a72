package backend

import (
	"context"
	"fmt"
	"net/http"

	"quizzy/internal/domain"
	"quizzy/internal/dto"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const quizPath = "/quiz"

// StartQuiz requests a question set for quizContext.
func (c *Client) StartQuiz(ctx context.Context, creds oauth2.TokenSource, quizContext string) (*domain.QuestionSet, error) {
	var resp dto.StartQuizResponse
	if err := c.postJSON(ctx, creds, quizPath, dto.StartQuizRequest{Context: quizContext}, &resp, "Failed to start quiz"); err != nil {
		return nil, err
	}

	set := resp.ToDomain()
	for _, q := range set.Questions {
		if err := q.Validate(); err != nil {
			return nil, domain.NewServerError(http.StatusOK, fmt.Sprintf("Invalid question from server: %s", err.Error()), "")
		}
	}
	c.logger.Info("Quiz question set received",
		zap.Int("questions", len(set.Questions)),
		zap.Int("time_per_question", set.TimePerQuestion),
	)
	return set, nil
}

// SubmitQuiz sends the answers, with the same context, for grading.
func (c *Client) SubmitQuiz(ctx context.Context, creds oauth2.TokenSource, quizContext string, answers []domain.AnswerSubmission) (*domain.GradeReport, error) {
	var resp dto.SubmitQuizResponse
	req := dto.NewSubmitQuizRequest(quizContext, answers)
	if err := c.postJSON(ctx, creds, quizPath, req, &resp, "Failed to submit quiz"); err != nil {
		return nil, err
	}
	report := resp.ToDomain()
	c.logger.Info("Quiz graded", zap.Int("score", report.Score), zap.Int("results", len(report.Results)))
	return report, nil
}

var _ domain.QuizBackend = (*Client)(nil)
