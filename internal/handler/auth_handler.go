package handler

import (
	"heavysync/internal/middleware"
	"heavysync/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates an account
// POST /api/users/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	req := middleware.Body[service.RegisterRequest](c)
	if _, err := h.authService.Register(c.UserContext(), req); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(MessageResponse{Message: "User registered successfully"})
}

// Login handles user authentication
// POST /api/users/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	req := middleware.Body[service.LoginRequest](c)
	resp, err := h.authService.Login(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ChangePassword handles password change for the caller
// POST /api/users/change-password
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	req := middleware.Body[service.ChangePasswordRequest](c)
	if err := h.authService.ChangePassword(c.UserContext(), middleware.UserID(c), req); err != nil {
		return err
	}
	return message(c, "Password updated successfully")
}
