package middleware

import (
	"strings"

	"quizzy/internal/auth"
	"quizzy/internal/logger"
	"quizzy/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	CredentialKey       = "credential" // Key for storing the *auth.Credential in fiber.Ctx locals
)

// Protected requires a bearer token and stores it in the context. The token is
// not verified here; the backend does that on every forwarded call.
func Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:       "MISSING_AUTH_HEADER",
				Message:    "Authorization header is missing",
				Status:     fiber.StatusUnauthorized,
				RedirectTo: service.LoginPath,
			})
		}

		if !strings.HasPrefix(authHeader, BearerSchema) {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:       "INVALID_AUTH_SCHEME",
				Message:    "Authorization scheme is not Bearer",
				Status:     fiber.StatusUnauthorized,
				RedirectTo: service.LoginPath,
			})
		}

		cred, err := auth.NewCredential(strings.TrimPrefix(authHeader, BearerSchema))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:       "EMPTY_TOKEN",
				Message:    "Token is empty",
				Status:     fiber.StatusUnauthorized,
				RedirectTo: service.LoginPath,
			})
		}

		logger.Get().Debug("Bearer credential attached", zap.String("user", cred.Describe()))
		c.Locals(CredentialKey, cred)
		return c.Next()
	}
}

// CredentialFrom returns the credential stored by Protected.
func CredentialFrom(c *fiber.Ctx) (*auth.Credential, bool) {
	cred, ok := c.Locals(CredentialKey).(*auth.Credential)
	return cred, ok && cred != nil
}
