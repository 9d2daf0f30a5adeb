package middleware

import (
	"errors"
	"log/slog"
	"runtime/debug"

	"heavysync/internal/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const localPanicStack = "panic_stack"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string                `json:"message"`
	Errors  []apperror.FieldError `json:"errors,omitempty"`
	Error   string                `json:"error,omitempty"`
	Stack   string                `json:"stack,omitempty"`
}

// ErrorHandler renders service, fiber and unexpected errors in one shape.
// Outside production, 500s also carry the underlying error and a stack.
func ErrorHandler(log *slog.Logger, production bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		resp := ErrorResponse{Message: "Server error"}

		var appErr *apperror.Error
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &appErr):
			status = appErr.Status()
			resp.Message = appErr.Message
			resp.Errors = appErr.Fields
		case errors.As(err, &fiberErr):
			status = fiberErr.Code
			resp.Message = fiberErr.Message
		}

		if status >= fiber.StatusInternalServerError {
			log.ErrorContext(c.UserContext(), "request failed",
				"method", c.Method(),
				"path", c.Path(),
				"error", err,
			)
			if !production {
				resp.Error = err.Error()
				resp.Stack = stackOf(c)
			}
		}

		return c.Status(status).JSON(resp)
	}
}

// Recover converts panics into errors for ErrorHandler and keeps the panic
// stack for the development error body.
func Recover() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, _ interface{}) {
			c.Locals(localPanicStack, string(debug.Stack()))
		},
	})
}

func stackOf(c *fiber.Ctx) string {
	if stack, ok := c.Locals(localPanicStack).(string); ok {
		return stack
	}
	return string(debug.Stack())
}
