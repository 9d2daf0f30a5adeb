package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"heavysync/internal/apperror"
	"heavysync/internal/model"
	"heavysync/internal/repository"

	"github.com/google/uuid"
)

const (
	msgSupplierNotFound   = "Supplier not found"
	msgSupplierExists     = "Supplier already exists"
	msgSupplierReferenced = "Supplier is referenced by other records"
)

type SupplierService interface {
	Create(ctx context.Context, req *CreateSupplierRequest, actor string) (*model.Supplier, error)
	List(ctx context.Context) ([]model.Supplier, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Supplier, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdateSupplierRequest, actor string) (*model.Supplier, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CreateSupplierRequest struct {
	SupplierID   *string `json:"supplierId,omitempty" validate:"omitempty,max=50"`
	Name         string  `json:"name" validate:"required,min=2,max=100"`
	ContactEmail string  `json:"contactEmail" validate:"required,email"`
	ContactPhone string  `json:"contactPhone" validate:"required,phone"`
	Address      string  `json:"address" validate:"required,min=5,max=500"`
}

// UpdateSupplierRequest merges only the fields that are present.
type UpdateSupplierRequest struct {
	SupplierID   *string `json:"supplierId,omitempty" validate:"omitempty,max=50"`
	Name         *string `json:"name,omitempty" validate:"omitnil,min=2,max=100"`
	ContactEmail *string `json:"contactEmail,omitempty" validate:"omitnil,email"`
	ContactPhone *string `json:"contactPhone,omitempty" validate:"omitnil,phone"`
	Address      *string `json:"address,omitempty" validate:"omitnil,min=5,max=500"`
}

type supplierService struct {
	supplierRepo repository.SupplierRepository
	events       EventPublisher
	log          *slog.Logger
}

func NewSupplierService(supplierRepo repository.SupplierRepository, events EventPublisher, log *slog.Logger) SupplierService {
	return &supplierService{supplierRepo: supplierRepo, events: events, log: log}
}

func (s *supplierService) Create(ctx context.Context, req *CreateSupplierRequest, actor string) (*model.Supplier, error) {
	email := strings.ToLower(req.ContactEmail)

	taken, err := s.supplierRepo.ExistsByEmail(ctx, email, uuid.Nil)
	if err != nil {
		return nil, unexpected(ctx, s.log, "check supplier email", err)
	}
	if taken {
		return nil, apperror.Conflict(msgSupplierExists)
	}

	supplier := &model.Supplier{
		Code:         deref(req.SupplierID),
		Name:         req.Name,
		ContactEmail: email,
		ContactPhone: req.ContactPhone,
		Address:      req.Address,
	}
	supplier.CreatedBy = actor
	supplier.UpdatedBy = actor

	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict(msgSupplierExists)
		}
		return nil, unexpected(ctx, s.log, "create supplier", err)
	}

	s.events.Publish(EventSupplierCreated, supplier)
	return supplier, nil
}

func (s *supplierService) List(ctx context.Context) ([]model.Supplier, error) {
	suppliers, err := s.supplierRepo.FindAll(ctx)
	if err != nil {
		return nil, unexpected(ctx, s.log, "list suppliers", err)
	}
	if suppliers == nil {
		suppliers = []model.Supplier{}
	}
	return suppliers, nil
}

func (s *supplierService) Get(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(ctx, s.log, "find supplier", msgSupplierNotFound, err, "supplier_id", id)
	}
	return supplier, nil
}

func (s *supplierService) Update(ctx context.Context, id uuid.UUID, req *UpdateSupplierRequest, actor string) (*model.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(ctx, s.log, "find supplier", msgSupplierNotFound, err, "supplier_id", id)
	}

	if req.ContactEmail != nil {
		email := strings.ToLower(*req.ContactEmail)
		taken, err := s.supplierRepo.ExistsByEmail(ctx, email, id)
		if err != nil {
			return nil, unexpected(ctx, s.log, "check supplier email", err, "supplier_id", id)
		}
		if taken {
			return nil, apperror.Conflict(msgSupplierExists)
		}
		supplier.ContactEmail = email
	}
	if req.SupplierID != nil {
		supplier.Code = *req.SupplierID
	}
	if req.Name != nil {
		supplier.Name = *req.Name
	}
	if req.ContactPhone != nil {
		supplier.ContactPhone = *req.ContactPhone
	}
	if req.Address != nil {
		supplier.Address = *req.Address
	}
	supplier.UpdatedBy = actor

	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict(msgSupplierExists)
		}
		return nil, lookupError(ctx, s.log, "update supplier", msgSupplierNotFound, err, "supplier_id", id)
	}

	s.events.Publish(EventSupplierUpdated, supplier)
	return supplier, nil
}

func (s *supplierService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.supplierRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return apperror.Conflict(msgSupplierReferenced)
		}
		return lookupError(ctx, s.log, "delete supplier", msgSupplierNotFound, err, "supplier_id", id)
	}

	s.events.Publish(EventSupplierDeleted, map[string]uuid.UUID{"id": id})
	return nil
}
