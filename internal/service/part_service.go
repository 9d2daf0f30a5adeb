package service

import (
	"context"
	"errors"
	"log/slog"

	"heavysync/internal/apperror"
	"heavysync/internal/model"
	"heavysync/internal/report"
	"heavysync/internal/repository"

	"github.com/google/uuid"
)

const (
	msgPartNotFound   = "Part not found"
	msgPartExists     = "Part ID already exists"
	msgPartReferenced = "Part is referenced by quotations"
)

type PartService interface {
	Create(ctx context.Context, req *CreatePartRequest, actor string) (*model.Part, error)
	List(ctx context.Context) ([]model.Part, error)
	LowStock(ctx context.Context) ([]model.Part, error)
	ByCategory(ctx context.Context, categoryID string) ([]model.Part, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Part, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdatePartRequest, actor string) (*model.Part, error)
	UpdateQuantity(ctx context.Context, id uuid.UUID, req *UpdateQuantityRequest, actor string) (*model.Part, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CreatePartRequest struct {
	PartID       string   `json:"partId" validate:"required,max=50"`
	Name         string   `json:"name" validate:"required,min=2,max=100"`
	Description  string   `json:"description" validate:"required,min=5,max=1000"`
	PartNumber   string   `json:"partNumber" validate:"required,max=100"`
	Quantity     *int     `json:"quantity" validate:"required,min=0"`
	MinimumStock *int     `json:"minimumStock" validate:"required,min=0"`
	UnitPrice    *float64 `json:"unitPrice" validate:"required,min=0"`
	Location     string   `json:"location" validate:"required,max=255"`
	CategoryID   string   `json:"categoryId" validate:"required,max=100"`
	Supplier     *string  `json:"supplier,omitempty" validate:"omitzero,uuid"`
}

type UpdatePartRequest struct {
	PartID       *string  `json:"partId,omitempty" validate:"omitnil,notblank,max=50"`
	Name         *string  `json:"name,omitempty" validate:"omitnil,min=2,max=100"`
	Description  *string  `json:"description,omitempty" validate:"omitnil,min=5,max=1000"`
	PartNumber   *string  `json:"partNumber,omitempty" validate:"omitnil,notblank,max=100"`
	Quantity     *int     `json:"quantity,omitempty" validate:"omitnil,min=0"`
	MinimumStock *int     `json:"minimumStock,omitempty" validate:"omitnil,min=0"`
	UnitPrice    *float64 `json:"unitPrice,omitempty" validate:"omitnil,min=0"`
	Location     *string  `json:"location,omitempty" validate:"omitnil,notblank,max=255"`
	CategoryID   *string  `json:"categoryId,omitempty" validate:"omitnil,notblank,max=100"`
	// An empty string detaches the supplier.
	Supplier *string `json:"supplier,omitempty" validate:"omitzero,uuid"`
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,min=0"`
}

type partService struct {
	partRepo     repository.PartRepository
	supplierRepo repository.SupplierRepository
	events       EventPublisher
	log          *slog.Logger
}

func NewPartService(partRepo repository.PartRepository, supplierRepo repository.SupplierRepository, events EventPublisher, log *slog.Logger) PartService {
	return &partService{
		partRepo:     partRepo,
		supplierRepo: supplierRepo,
		events:       events,
		log:          log,
	}
}

func (s *partService) Create(ctx context.Context, req *CreatePartRequest, actor string) (*model.Part, error) {
	taken, err := s.partRepo.ExistsByCode(ctx, req.PartID, uuid.Nil)
	if err != nil {
		return nil, unexpected(ctx, s.log, "check part code", err)
	}
	if taken {
		return nil, apperror.Conflict(msgPartExists)
	}

	supplierID, err := s.resolveSupplier(ctx, req.Supplier)
	if err != nil {
		return nil, err
	}

	part := &model.Part{
		Code:         req.PartID,
		Name:         req.Name,
		Description:  req.Description,
		PartNumber:   req.PartNumber,
		Quantity:     *req.Quantity,
		MinimumStock: *req.MinimumStock,
		UnitPrice:    *req.UnitPrice,
		Location:     req.Location,
		CategoryID:   req.CategoryID,
		SupplierID:   supplierID,
	}
	part.CreatedBy = actor
	part.UpdatedBy = actor

	if err := s.partRepo.Create(ctx, part); err != nil {
		return nil, s.writeError(ctx, "create part", err, part.ID)
	}
	return s.reloadAndPublish(ctx, part.ID, EventPartCreated)
}

func (s *partService) List(ctx context.Context) ([]model.Part, error) {
	parts, err := s.partRepo.FindAll(ctx)
	if err != nil {
		return nil, unexpected(ctx, s.log, "list parts", err)
	}
	return nonNil(parts), nil
}

func (s *partService) LowStock(ctx context.Context) ([]model.Part, error) {
	parts, err := s.partRepo.FindAll(ctx)
	if err != nil {
		return nil, unexpected(ctx, s.log, "list parts", err)
	}
	return nonNil(report.LowStockParts(parts)), nil
}

func (s *partService) ByCategory(ctx context.Context, categoryID string) ([]model.Part, error) {
	parts, err := s.partRepo.FindByCategory(ctx, categoryID)
	if err != nil {
		return nil, unexpected(ctx, s.log, "list parts by category", err, "category_id", categoryID)
	}
	return nonNil(parts), nil
}

func (s *partService) Get(ctx context.Context, id uuid.UUID) (*model.Part, error) {
	part, err := s.partRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(ctx, s.log, "find part", msgPartNotFound, err, "part_id", id)
	}
	return part, nil
}

func (s *partService) Update(ctx context.Context, id uuid.UUID, req *UpdatePartRequest, actor string) (*model.Part, error) {
	part, err := s.partRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(ctx, s.log, "find part", msgPartNotFound, err, "part_id", id)
	}

	if req.PartID != nil && *req.PartID != part.Code {
		taken, err := s.partRepo.ExistsByCode(ctx, *req.PartID, id)
		if err != nil {
			return nil, unexpected(ctx, s.log, "check part code", err, "part_id", id)
		}
		if taken {
			return nil, apperror.Conflict(msgPartExists)
		}
		part.Code = *req.PartID
	}
	if req.Supplier != nil {
		supplierID, err := s.resolveSupplier(ctx, req.Supplier)
		if err != nil {
			return nil, err
		}
		part.SupplierID = supplierID
		part.Supplier = nil
	}
	applyString(&part.Name, req.Name)
	applyString(&part.Description, req.Description)
	applyString(&part.PartNumber, req.PartNumber)
	applyString(&part.Location, req.Location)
	applyString(&part.CategoryID, req.CategoryID)
	if req.Quantity != nil {
		part.Quantity = *req.Quantity
	}
	if req.MinimumStock != nil {
		part.MinimumStock = *req.MinimumStock
	}
	if req.UnitPrice != nil {
		part.UnitPrice = *req.UnitPrice
	}
	part.UpdatedBy = actor

	if err := s.partRepo.Update(ctx, part); err != nil {
		return nil, s.writeError(ctx, "update part", err, id)
	}
	return s.reloadAndPublish(ctx, id, EventPartUpdated)
}

func (s *partService) UpdateQuantity(ctx context.Context, id uuid.UUID, req *UpdateQuantityRequest, actor string) (*model.Part, error) {
	if err := s.partRepo.UpdateQuantity(ctx, id, *req.Quantity, actor); err != nil {
		return nil, lookupError(ctx, s.log, "update part quantity", msgPartNotFound, err, "part_id", id)
	}
	return s.reloadAndPublish(ctx, id, EventPartUpdated)
}

func (s *partService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.partRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return apperror.Conflict(msgPartReferenced)
		}
		return lookupError(ctx, s.log, "delete part", msgPartNotFound, err, "part_id", id)
	}
	s.events.Publish(EventPartDeleted, map[string]uuid.UUID{"id": id})
	return nil
}

// resolveSupplier checks an optional supplier reference. An empty value
// clears the reference.
func (s *partService) resolveSupplier(ctx context.Context, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, apperror.Validation(msgSupplierNotFound)
	}
	if _, err := s.supplierRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Validation(msgSupplierNotFound)
		}
		return nil, unexpected(ctx, s.log, "find supplier", err, "supplier_id", id)
	}
	return &id, nil
}

func (s *partService) writeError(ctx context.Context, op string, err error, id uuid.UUID) error {
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return apperror.Conflict(msgPartExists)
	case errors.Is(err, repository.ErrReferenced):
		return apperror.Validation(msgSupplierNotFound)
	}
	return lookupError(ctx, s.log, op, msgPartNotFound, err, "part_id", id)
}

func (s *partService) reloadAndPublish(ctx context.Context, id uuid.UUID, event string) (*model.Part, error) {
	part, err := s.partRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(ctx, s.log, "reload part", msgPartNotFound, err, "part_id", id)
	}
	s.events.Publish(event, part)
	return part, nil
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
