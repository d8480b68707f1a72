package handler

import (
	"quizzy/internal/domain"
	"quizzy/internal/dto"
	"quizzy/internal/logger"
	"quizzy/internal/middleware"
	"quizzy/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login proxies the backend login.
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.CredentialsRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse "Rejected by the backend"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("Invalid request body")
	}
	cred, err := h.authService.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.LoginResponse{Token: cred.Token()})
}

// Register proxies the backend registration.
// @Summary Register
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.CredentialsRequest true "Credentials"
// @Success 201 {object} dto.RegisterResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("Invalid request body")
	}
	msg, err := h.authService.Register(c.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	logger.Get().Debug("Registration proxied", zap.String("username", req.Username))
	return c.Status(fiber.StatusCreated).JSON(dto.RegisterResponse{Message: msg})
}

// Me describes the caller from the unverified claims of their bearer token.
// @Summary Current user
// @Tags auth
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.SessionUser
// @Failure 401 {object} middleware.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	cred, ok := middleware.CredentialFrom(c)
	if !ok {
		return domain.NewUnauthorizedError()
	}
	return c.JSON(cred.User())
}
