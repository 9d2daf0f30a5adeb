package handler

import (
	"heavysync/internal/middleware"
	"heavysync/internal/model"
	"heavysync/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type ProfileResponse struct {
	Message string              `json:"message"`
	User    *model.UserResponse `json:"user"`
}

// Me returns the caller's profile
// GET /api/users/me
func (h *UserHandler) Me(c *fiber.Ctx) error {
	user, err := h.userService.Me(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// UpdateProfile merges fullName and phone
// PUT /api/users/me
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	req := middleware.Body[service.UpdateProfileRequest](c)
	user, err := h.userService.UpdateProfile(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(ProfileResponse{Message: "Profile updated successfully", User: user})
}

// CheckUsername reports whether a username is taken
// POST /api/users/check-username
func (h *UserHandler) CheckUsername(c *fiber.Ctx) error {
	req := middleware.Body[service.CheckUsernameRequest](c)
	exists, err := h.userService.UsernameExists(c.UserContext(), req.Username)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"exists": exists})
}
