package handler

import (
	"heavysync/internal/middleware"
	"heavysync/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SupplierHandler struct {
	supplierService service.SupplierService
}

func NewSupplierHandler(supplierService service.SupplierService) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService}
}

// POST /api/suppliers
func (h *SupplierHandler) Create(c *fiber.Ctx) error {
	req := middleware.Body[service.CreateSupplierRequest](c)
	supplier, err := h.supplierService.Create(c.UserContext(), req, middleware.Username(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(supplier)
}

// GET /api/suppliers
func (h *SupplierHandler) List(c *fiber.Ctx) error {
	suppliers, err := h.supplierService.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(suppliers)
}

// GET /api/suppliers/:id
func (h *SupplierHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	supplier, err := h.supplierService.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(supplier)
}

// PUT /api/suppliers/:id
func (h *SupplierHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	req := middleware.Body[service.UpdateSupplierRequest](c)
	supplier, err := h.supplierService.Update(c.UserContext(), id, req, middleware.Username(c))
	if err != nil {
		return err
	}
	return c.JSON(supplier)
}

// DELETE /api/suppliers/:id
func (h *SupplierHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.supplierService.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return message(c, "Supplier deleted successfully")
}
