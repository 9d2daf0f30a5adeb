package middleware

import (
	"heavysync/internal/apperror"
	"heavysync/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

const localBody = "validated_body"

// ValidateBody parses the JSON body into a T, trims its strings and runs the
// validate tags. Handlers behind it read the value with Body.
func ValidateBody[T any]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := new(T)
		if err := c.BodyParser(body); err != nil {
			return apperror.Validation("Invalid request body")
		}

		validator.TrimStrings(body)
		if errs := validator.ValidateStruct(body); len(errs) > 0 {
			return apperror.Validation("Validation failed", errs...)
		}

		c.Locals(localBody, body)
		return c.Next()
	}
}

// Body returns the value stored by ValidateBody[T]. It panics when the route
// was registered without the matching middleware.
func Body[T any](c *fiber.Ctx) *T {
	body, ok := c.Locals(localBody).(*T)
	if !ok {
		panic("middleware: Body called without ValidateBody for this type")
	}
	return body
}
