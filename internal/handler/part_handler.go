package handler

import (
	"heavysync/internal/middleware"
	"heavysync/internal/service"

	"github.com/gofiber/fiber/v2"
)

type PartHandler struct {
	partService service.PartService
}

func NewPartHandler(partService service.PartService) *PartHandler {
	return &PartHandler{partService: partService}
}

// POST /api/parts
func (h *PartHandler) Create(c *fiber.Ctx) error {
	req := middleware.Body[service.CreatePartRequest](c)
	part, err := h.partService.Create(c.UserContext(), req, middleware.Username(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(part)
}

// GET /api/parts
func (h *PartHandler) List(c *fiber.Ctx) error {
	parts, err := h.partService.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(parts)
}

// LowStock lists parts at or below their minimum stock
// GET /api/parts/low-stock
func (h *PartHandler) LowStock(c *fiber.Ctx) error {
	parts, err := h.partService.LowStock(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(parts)
}

// GET /api/parts/category/:categoryId
func (h *PartHandler) ByCategory(c *fiber.Ctx) error {
	parts, err := h.partService.ByCategory(c.UserContext(), c.Params("categoryId"))
	if err != nil {
		return err
	}
	return c.JSON(parts)
}

// GET /api/parts/:id
func (h *PartHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	part, err := h.partService.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(part)
}

// PUT /api/parts/:id
func (h *PartHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	req := middleware.Body[service.UpdatePartRequest](c)
	part, err := h.partService.Update(c.UserContext(), id, req, middleware.Username(c))
	if err != nil {
		return err
	}
	return c.JSON(part)
}

// UpdateQuantity sets the stock level
// PATCH /api/parts/:id/quantity
func (h *PartHandler) UpdateQuantity(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	req := middleware.Body[service.UpdateQuantityRequest](c)
	part, err := h.partService.UpdateQuantity(c.UserContext(), id, req, middleware.Username(c))
	if err != nil {
		return err
	}
	return c.JSON(part)
}

// DELETE /api/parts/:id
func (h *PartHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.partService.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return message(c, "Part deleted successfully")
}
