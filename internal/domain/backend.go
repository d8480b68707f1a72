package domain

import (
	"context"
	"io"

	"golang.org/x/oauth2"
)

// QuizBackend is the remote service that generates and grades quizzes.
// Every call is authorized with the bearer token drawn from creds.
type QuizBackend interface {
	StartQuiz(ctx context.Context, creds oauth2.TokenSource, quizContext string) (*QuestionSet, error)
	SubmitQuiz(ctx context.Context, creds oauth2.TokenSource, quizContext string, answers []AnswerSubmission) (*GradeReport, error)
}

// Extraction is the text pulled out of an uploaded document plus its summary.
type Extraction struct {
	Text    string
	Summary string
}

// StudyBackend answers free-form questions and extracts text from documents.
type StudyBackend interface {
	Ask(ctx context.Context, creds oauth2.TokenSource, question string) (string, error)
	ExtractText(ctx context.Context, creds oauth2.TokenSource, filename string, file io.Reader) (*Extraction, error)
}

// AuthBackend exchanges user credentials for a bearer token.
type AuthBackend interface {
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, username, password string) (string, error)
}

// Navigator is the collaborator that takes the user back to the login page.
type Navigator interface {
	RedirectToLogin()
}

// NavigatorFunc adapts a plain function to Navigator.
type NavigatorFunc func()

func (f NavigatorFunc) RedirectToLogin() { f() }
