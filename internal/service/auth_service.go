package service

import (
	"context"

	"quizzy/internal/auth"
	"quizzy/internal/domain"
	"quizzy/internal/logger"
	"quizzy/internal/validation"

	"go.uber.org/zap"
)

// AuthService defines the interface for account operations against the backend.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*auth.Credential, error)
	Register(ctx context.Context, username, password string) (string, error)
}

type authServiceImpl struct {
	backend   domain.AuthBackend
	validator *validation.Validator
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(backend domain.AuthBackend) AuthService {
	return &authServiceImpl{
		backend:   backend,
		validator: validation.NewValidator(),
	}
}

func (s *authServiceImpl) Login(ctx context.Context, username, password string) (*auth.Credential, error) {
	if err := s.validator.ValidateCredentials(username, password); err != nil {
		return nil, err
	}
	token, err := s.backend.Login(ctx, username, password)
	if err != nil {
		logger.Get().Warn("Login failed", zap.String("username", username), zap.Error(err))
		return nil, err
	}
	cred, err := auth.NewCredential(token)
	if err != nil {
		return nil, domain.NewServerError(0, "", "Login response carried no token")
	}
	logger.Get().Info("User logged in", zap.String("user", cred.Describe()))
	return cred, nil
}

func (s *authServiceImpl) Register(ctx context.Context, username, password string) (string, error) {
	if err := s.validator.ValidateCredentials(username, password); err != nil {
		return "", err
	}
	msg, err := s.backend.Register(ctx, username, password)
	if err != nil {
		logger.Get().Warn("Registration failed", zap.String("username", username), zap.Error(err))
		return "", err
	}
	logger.Get().Info("User registered", zap.String("username", username))
	return msg, nil
}
