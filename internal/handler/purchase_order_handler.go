package handler

import (
	"heavysync/internal/middleware"
	"heavysync/internal/service"

	"github.com/gofiber/fiber/v2"
)

type PurchaseOrderHandler struct {
	orderService service.PurchaseOrderService
}

func NewPurchaseOrderHandler(orderService service.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{orderService: orderService}
}

// POST /api/purchase-orders
func (h *PurchaseOrderHandler) Create(c *fiber.Ctx) error {
	req := middleware.Body[service.CreatePurchaseOrderRequest](c)
	po, err := h.orderService.Create(c.UserContext(), req, middleware.Username(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(po)
}

// GET /api/purchase-orders
func (h *PurchaseOrderHandler) List(c *fiber.Ctx) error {
	orders, err := h.orderService.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(orders)
}

// GET /api/purchase-orders/:id
func (h *PurchaseOrderHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	po, err := h.orderService.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(po)
}

// PUT /api/purchase-orders/:id
func (h *PurchaseOrderHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	req := middleware.Body[service.UpdatePurchaseOrderRequest](c)
	po, err := h.orderService.Update(c.UserContext(), id, req, middleware.Username(c))
	if err != nil {
		return err
	}
	return c.JSON(po)
}

// DELETE /api/purchase-orders/:id
func (h *PurchaseOrderHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.orderService.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return message(c, "Purchase order deleted successfully")
}
