package service

import (
	"context"
	"io"
	"sync"

	"quizzy/internal/domain"
	"quizzy/internal/logger"
	"quizzy/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const uploadFailurePrefix = "Failed to process file: "

// StudyService answers free-form questions and extracts text from uploaded documents.
type StudyService struct {
	backend   domain.StudyBackend
	navigator domain.Navigator
	validator *validation.Validator

	// uploading holds the access tokens that have an upload in flight.
	uploading sync.Map
}

func NewStudyService(backend domain.StudyBackend, navigator domain.Navigator) *StudyService {
	return &StudyService{
		backend:   backend,
		navigator: navigator,
		validator: validation.NewValidator(),
	}
}

// Ask returns the backend's answer to question.
func (s *StudyService) Ask(ctx context.Context, creds oauth2.TokenSource, question string) (string, error) {
	if err := s.validator.ValidateQuestion(question); err != nil {
		return "", err
	}
	answer, err := s.backend.Ask(ctx, creds, question)
	if err != nil {
		return "", s.failed("ask", err)
	}
	return answer, nil
}

// ExtractText uploads one document. Each credential may have only one upload in flight.
func (s *StudyService) ExtractText(ctx context.Context, creds oauth2.TokenSource, filename string, r io.Reader) (*domain.Extraction, error) {
	if err := s.validator.ValidateUploadName(filename); err != nil {
		return nil, err
	}
	key := uploadKey(creds)
	if _, busy := s.uploading.LoadOrStore(key, struct{}{}); busy {
		return nil, domain.NewValidationError("Upload in progress, please wait")
	}
	defer s.uploading.Delete(key)

	out, err := s.backend.ExtractText(ctx, creds, filename, r)
	if err != nil {
		if domain.IsUnauthorized(err) {
			return nil, s.failed("upload", err)
		}
		wrapped := domain.NewError(domain.CodeOf(err), uploadFailurePrefix+domain.MessageOf(err), err)
		return nil, s.failed("upload", wrapped)
	}
	logger.Get().Debug("Text extracted", zap.String("file", filename), zap.Int("chars", len(out.Text)))
	return out, nil
}

func (s *StudyService) failed(action string, err error) error {
	if domain.IsUnauthorized(err) {
		logger.Get().Warn("Study credential rejected, redirecting to login", zap.String("action", action))
		if s.navigator != nil {
			s.navigator.RedirectToLogin()
		}
		return err
	}
	logger.Get().Error("Study backend call failed", zap.String("action", action), zap.Error(err))
	return err
}

func uploadKey(creds oauth2.TokenSource) string {
	if creds == nil {
		return ""
	}
	tok, err := creds.Token()
	if err != nil || tok == nil {
		return ""
	}
	return tok.AccessToken
}
