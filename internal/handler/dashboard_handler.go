package handler

import (
	"heavysync/internal/middleware"
	"heavysync/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// Summary greets the caller and returns overview statistics
// GET /api/dashboard
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	dashboard, err := h.service.Summary(c.UserContext(), middleware.Username(c))
	if err != nil {
		return err
	}
	return c.JSON(dashboard)
}
