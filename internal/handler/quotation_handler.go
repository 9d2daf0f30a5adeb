package handler

import (
	"heavysync/internal/middleware"
	"heavysync/internal/service"

	"github.com/gofiber/fiber/v2"
)

type QuotationHandler struct {
	quotationService service.QuotationService
}

func NewQuotationHandler(quotationService service.QuotationService) *QuotationHandler {
	return &QuotationHandler{quotationService: quotationService}
}

// POST /api/quotations
func (h *QuotationHandler) Create(c *fiber.Ctx) error {
	req := middleware.Body[service.CreateQuotationRequest](c)
	q, err := h.quotationService.Create(c.UserContext(), req, middleware.Username(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(q)
}

// GET /api/quotations
func (h *QuotationHandler) List(c *fiber.Ctx) error {
	quotations, err := h.quotationService.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(quotations)
}

// GET /api/quotations/:id
func (h *QuotationHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	q, err := h.quotationService.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(q)
}

// PUT /api/quotations/:id/status
func (h *QuotationHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	req := middleware.Body[service.UpdateQuotationStatusRequest](c)
	q, err := h.quotationService.UpdateStatus(c.UserContext(), id, req, middleware.Username(c))
	if err != nil {
		return err
	}
	return c.JSON(q)
}

// UpdateQuote records one supplier's answer
// PUT /api/quotations/:id/supplier/:supplierId
func (h *QuotationHandler) UpdateQuote(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	supplierID, err := parseID(c, "supplierId")
	if err != nil {
		return err
	}
	req := middleware.Body[service.UpdateQuoteRequest](c)
	q, err := h.quotationService.UpdateQuote(c.UserContext(), id, supplierID, req, middleware.Username(c))
	if err != nil {
		return err
	}
	return c.JSON(q)
}

// Compare ranks the quotes of a quotation
// GET /api/quotations/:id/comparison
func (h *QuotationHandler) Compare(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	cmp, err := h.quotationService.Compare(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(cmp)
}

// DELETE /api/quotations/:id
func (h *QuotationHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.quotationService.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return message(c, "Quotation deleted successfully")
}
