package middleware

import (
	"quizzy/internal/domain"
	"quizzy/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// UploadField is the multipart field carrying the document.
const UploadField = "file"

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateUpload rejects requests without a file or with an unsupported extension.
func (vm *ValidationMiddleware) ValidateUpload() fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile(UploadField)
		if err != nil || fh == nil {
			return domain.NewValidationError(validation.MsgNoFile)
		}
		if err := vm.validator.ValidateUploadName(fh.Filename); err != nil {
			return err // This will be handled by ErrorHandler
		}

		c.Locals("validated_upload", fh)
		return c.Next()
	}
}
