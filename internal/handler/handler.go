package handler

import (
	"heavysync/internal/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// MessageResponse is the body of endpoints that only confirm an action.
type MessageResponse struct {
	Message string `json:"message"`
}

// parseID reads a UUID route parameter.
func parseID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperror.Validation("Invalid ID format")
	}
	return id, nil
}

func message(c *fiber.Ctx, msg string) error {
	return c.JSON(MessageResponse{Message: msg})
}
