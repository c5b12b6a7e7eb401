package middleware

import (
	"lingua-bot/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const ValidatedUserIDKey = "validated_user_id"

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

// ValidateUserIDParam validates the :id path parameter and stores the parsed
// value under ValidatedUserIDKey.
func (vm *ValidationMiddleware) ValidateUserIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := vm.validator.ValidateUserID(c.Params("id"))
		if err != nil {
			return err // This will be handled by ErrorHandler middleware
		}

		c.Locals(ValidatedUserIDKey, id)
		return c.Next()
	}
}
