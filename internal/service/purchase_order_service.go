package service

import (
	"context"
	"errors"
	"log/slog"

	"heavysync/internal/apperror"
	"heavysync/internal/model"
	"heavysync/internal/repository"

	"github.com/google/uuid"
)

const msgPurchaseOrderNotFound = "Purchase order not found"

type PurchaseOrderService interface {
	Create(ctx context.Context, req *CreatePurchaseOrderRequest, actor string) (*model.PurchaseOrderResponse, error)
	List(ctx context.Context) ([]model.PurchaseOrderResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*model.PurchaseOrderResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdatePurchaseOrderRequest, actor string) (*model.PurchaseOrderResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PurchaseOrderItemRequest struct {
	Name       string   `json:"name" validate:"required,max=255"`
	Quantity   *int     `json:"quantity" validate:"required,min=1"`
	UnitPrice  *float64 `json:"unitPrice" validate:"required,min=0"`
	TotalPrice *float64 `json:"totalPrice,omitempty" validate:"omitnil,min=0"`
}

// CreatePurchaseOrderRequest has no totalAmount: the server always derives it.
type CreatePurchaseOrderRequest struct {
	Supplier string                     `json:"supplier" validate:"required,uuid"`
	Items    []PurchaseOrderItemRequest `json:"items" validate:"required,min=1,dive"`
	Status   *string                    `json:"status,omitempty" validate:"omitnil,oneof=Pending Approved Received Cancelled"`
	Notes    *string                    `json:"notes,omitempty" validate:"omitnil,max=500"`
}

// UpdatePurchaseOrderRequest replaces the items only when they are sent.
type UpdatePurchaseOrderRequest struct {
	Supplier *string                    `json:"supplier,omitempty" validate:"omitnil,uuid"`
	Items    []PurchaseOrderItemRequest `json:"items,omitempty" validate:"omitnil,min=1,dive"`
	Status   *string                    `json:"status,omitempty" validate:"omitnil,oneof=Pending Approved Received Cancelled"`
	Notes    *string                    `json:"notes,omitempty" validate:"omitnil,max=500"`
}

type purchaseOrderService struct {
	orderRepo    repository.PurchaseOrderRepository
	supplierRepo repository.SupplierRepository
	events       EventPublisher
	log          *slog.Logger
}

func NewPurchaseOrderService(orderRepo repository.PurchaseOrderRepository, supplierRepo repository.SupplierRepository, events EventPublisher, log *slog.Logger) PurchaseOrderService {
	return &purchaseOrderService{
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
		events:       events,
		log:          log,
	}
}

func (s *purchaseOrderService) Create(ctx context.Context, req *CreatePurchaseOrderRequest, actor string) (*model.PurchaseOrderResponse, error) {
	// 1. The supplier must exist
	supplierID, err := s.requireSupplier(ctx, req.Supplier)
	if err != nil {
		return nil, err
	}

	// 2. Build the order; totals are derived from the items
	po := &model.PurchaseOrder{
		SupplierID: supplierID,
		Status:     model.POStatusPending,
		Notes:      deref(req.Notes),
	}
	if req.Status != nil {
		if po.Status, err = parseEnum[model.PurchaseOrderStatus]("status", *req.Status); err != nil {
			return nil, err
		}
	}
	po.CreatedBy = actor
	po.UpdatedBy = actor
	po.Items = buildItems(req.Items)

	// 3. Persist order and items together
	if err := s.orderRepo.Create(ctx, po); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return nil, apperror.Validation(msgSupplierNotFound)
		}
		return nil, unexpected(ctx, s.log, "create purchase order", err, "supplier_id", supplierID)
	}

	return s.reloadAndPublish(ctx, po.ID, EventPurchaseOrderCreated)
}

func (s *purchaseOrderService) List(ctx context.Context) ([]model.PurchaseOrderResponse, error) {
	orders, err := s.orderRepo.FindAll(ctx)
	if err != nil {
		return nil, unexpected(ctx, s.log, "list purchase orders", err)
	}
	out := make([]model.PurchaseOrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, orders[i].ToResponse())
	}
	return out, nil
}

func (s *purchaseOrderService) Get(ctx context.Context, id uuid.UUID) (*model.PurchaseOrderResponse, error) {
	po, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(ctx, s.log, "find purchase order", msgPurchaseOrderNotFound, err, "purchase_order_id", id)
	}
	resp := po.ToResponse()
	return &resp, nil
}

func (s *purchaseOrderService) Update(ctx context.Context, id uuid.UUID, req *UpdatePurchaseOrderRequest, actor string) (*model.PurchaseOrderResponse, error) {
	po, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(ctx, s.log, "find purchase order", msgPurchaseOrderNotFound, err, "purchase_order_id", id)
	}

	if req.Supplier != nil {
		supplierID, err := s.requireSupplier(ctx, *req.Supplier)
		if err != nil {
			return nil, err
		}
		po.SupplierID = supplierID
		po.Supplier = nil
	}
	if req.Status != nil {
		if po.Status, err = parseEnum[model.PurchaseOrderStatus]("status", *req.Status); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		po.Notes = *req.Notes
	}
	replaceItems := req.Items != nil
	if replaceItems {
		po.Items = buildItems(req.Items)
	}
	po.UpdatedBy = actor

	if err := s.orderRepo.Update(ctx, po, replaceItems); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return nil, apperror.Validation(msgSupplierNotFound)
		}
		return nil, lookupError(ctx, s.log, "update purchase order", msgPurchaseOrderNotFound, err, "purchase_order_id", id)
	}

	return s.reloadAndPublish(ctx, id, EventPurchaseOrderUpdated)
}

func (s *purchaseOrderService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.orderRepo.Delete(ctx, id); err != nil {
		return lookupError(ctx, s.log, "delete purchase order", msgPurchaseOrderNotFound, err, "purchase_order_id", id)
	}
	s.events.Publish(EventPurchaseOrderDeleted, map[string]uuid.UUID{"id": id})
	return nil
}

func (s *purchaseOrderService) requireSupplier(ctx context.Context, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.Validation(msgSupplierNotFound)
	}
	if _, err := s.supplierRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return uuid.Nil, apperror.Validation(msgSupplierNotFound)
		}
		return uuid.Nil, unexpected(ctx, s.log, "find supplier", err, "supplier_id", id)
	}
	return id, nil
}

func (s *purchaseOrderService) reloadAndPublish(ctx context.Context, id uuid.UUID, event string) (*model.PurchaseOrderResponse, error) {
	po, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(ctx, s.log, "reload purchase order", msgPurchaseOrderNotFound, err, "purchase_order_id", id)
	}
	resp := po.ToResponse()
	s.events.Publish(event, resp)
	return &resp, nil
}

func buildItems(reqs []PurchaseOrderItemRequest) []model.PurchaseOrderItem {
	items := make([]model.PurchaseOrderItem, 0, len(reqs))
	for _, r := range reqs {
		items = append(items, model.NewPurchaseOrderItem(r.Name, *r.Quantity, *r.UnitPrice, r.TotalPrice))
	}
	return items
}
