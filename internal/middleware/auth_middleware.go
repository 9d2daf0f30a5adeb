package middleware

import (
	"slices"
	"strings"

	"heavysync/internal/apperror"
	"heavysync/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Locals keys set by RequireAuth.
const (
	LocalUserID   = "user_id"
	LocalUsername = "username"
	LocalRole     = "role"
)

// RequireAuth is middleware that validates the bearer token and sets the
// caller's identity in the request locals.
func RequireAuth(tokens *jwt.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Extract token from "Bearer <token>"
		scheme, token, found := strings.Cut(c.Get(fiber.HeaderAuthorization), " ")
		if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
			return apperror.Unauthorized("No token provided")
		}

		claims, err := tokens.Verify(strings.TrimSpace(token))
		if err != nil {
			return apperror.Unauthorized("Invalid token")
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUsername, claims.Username)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

// RequireRole lets the request through only when RequireAuth stored one of
// the given roles.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := Role(c)
		if role == "" {
			return apperror.Unauthorized("No token provided")
		}
		if !slices.Contains(roles, role) {
			return apperror.Forbidden("Forbidden: requires role " + strings.Join(roles, " or "))
		}
		return c.Next()
	}
}

// UserID returns the authenticated user's id, or uuid.Nil outside RequireAuth.
func UserID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(LocalUserID).(uuid.UUID)
	return id
}

// Username returns the authenticated username; handlers use it as the actor
// recorded in createdBy/updatedBy.
func Username(c *fiber.Ctx) string {
	name, _ := c.Locals(LocalUsername).(string)
	return name
}

// Role returns the authenticated user's role, or "" outside RequireAuth.
func Role(c *fiber.Ctx) string {
	role, _ := c.Locals(LocalRole).(string)
	return role
}
