package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"heavysync/internal/apperror"
	"heavysync/internal/model"
	"heavysync/internal/report"
	"heavysync/internal/repository"

	"github.com/google/uuid"
)

const (
	msgQuotationNotFound = "Quotation not found"
	msgQuoteNotFound     = "Supplier is not part of this quotation"
)

// validUntilLayouts are the accepted date formats for validUntil.
var validUntilLayouts = []string{time.RFC3339, "2006-01-02"}

type QuotationService interface {
	Create(ctx context.Context, req *CreateQuotationRequest, actor string) (*model.Quotation, error)
	List(ctx context.Context) ([]model.Quotation, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Quotation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req *UpdateQuotationStatusRequest, actor string) (*model.Quotation, error)
	UpdateQuote(ctx context.Context, id, supplierID uuid.UUID, req *UpdateQuoteRequest, actor string) (*model.Quotation, error)
	Compare(ctx context.Context, id uuid.UUID) (*report.Comparison, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CreateQuotationRequest struct {
	Part        string   `json:"part" validate:"required,uuid"`
	Quantity    *int     `json:"quantity" validate:"required,min=1"`
	SupplierIDs []string `json:"supplierIds" validate:"required,min=1,dive,uuid"`
	ValidUntil  *string  `json:"validUntil,omitempty"`
	Notes       *string  `json:"notes,omitempty" validate:"omitnil,max=500"`
}

type UpdateQuotationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Open Closed Cancelled"`
}

type UpdateQuoteRequest struct {
	QuotedPrice  *float64 `json:"quotedPrice,omitempty" validate:"omitnil,min=0"`
	DeliveryDays *int     `json:"deliveryTime,omitempty" validate:"omitnil,min=0"`
	Status       *string  `json:"status,omitempty" validate:"omitnil,oneof=Pending Quoted Accepted Rejected"`
	Notes        *string  `json:"notes,omitempty" validate:"omitnil,max=500"`
}

type quotationService struct {
	quotationRepo repository.QuotationRepository
	partRepo      repository.PartRepository
	supplierRepo  repository.SupplierRepository
	events        EventPublisher
	log           *slog.Logger
}

func NewQuotationService(quotationRepo repository.QuotationRepository, partRepo repository.PartRepository, supplierRepo repository.SupplierRepository, events EventPublisher, log *slog.Logger) QuotationService {
	return &quotationService{
		quotationRepo: quotationRepo,
		partRepo:      partRepo,
		supplierRepo:  supplierRepo,
		events:        events,
		log:           log,
	}
}

func (s *quotationService) Create(ctx context.Context, req *CreateQuotationRequest, actor string) (*model.Quotation, error) {
	validUntil, err := parseValidUntil(req.ValidUntil)
	if err != nil {
		return nil, err
	}

	// 1. Resolve the part and copy its identifying fields
	partID, _ := uuid.Parse(req.Part)
	part, err := s.partRepo.FindByID(ctx, partID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Validation(msgPartNotFound)
		}
		return nil, unexpected(ctx, s.log, "find part", err, "part_id", partID)
	}

	// 2. Every supplier must exist; repeats are collapsed
	q := &model.Quotation{
		PartID:     part.ID,
		PartNumber: part.PartNumber,
		PartName:   part.Name,
		Quantity:   *req.Quantity,
		Status:     model.QuotationOpen,
		ValidUntil: validUntil,
		Notes:      deref(req.Notes),
	}
	seen := make(map[uuid.UUID]bool, len(req.SupplierIDs))
	for _, raw := range req.SupplierIDs {
		id, _ := uuid.Parse(raw)
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, err := s.supplierRepo.FindByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperror.Validation(msgSupplierNotFound)
			}
			return nil, unexpected(ctx, s.log, "find supplier", err, "supplier_id", id)
		}
		q.Suppliers = append(q.Suppliers, model.QuotationSupplier{SupplierID: id, Status: model.QuotePending})
	}
	q.CreatedBy = actor
	q.UpdatedBy = actor

	// 3. Persist
	if err := s.quotationRepo.Create(ctx, q); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return nil, apperror.Validation("Part or supplier not found")
		}
		return nil, unexpected(ctx, s.log, "create quotation", err, "part_id", partID)
	}
	return s.reloadAndPublish(ctx, q.ID, EventQuotationCreated)
}

func (s *quotationService) List(ctx context.Context) ([]model.Quotation, error) {
	quotations, err := s.quotationRepo.FindAll(ctx)
	if err != nil {
		return nil, unexpected(ctx, s.log, "list quotations", err)
	}
	return nonNil(quotations), nil
}

func (s *quotationService) Get(ctx context.Context, id uuid.UUID) (*model.Quotation, error) {
	q, err := s.quotationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(ctx, s.log, "find quotation", msgQuotationNotFound, err, "quotation_id", id)
	}
	return q, nil
}

func (s *quotationService) UpdateStatus(ctx context.Context, id uuid.UUID, req *UpdateQuotationStatusRequest, actor string) (*model.Quotation, error) {
	status, err := parseEnum[model.QuotationStatus]("status", req.Status)
	if err != nil {
		return nil, err
	}
	if err := s.quotationRepo.UpdateStatus(ctx, id, status, actor); err != nil {
		return nil, lookupError(ctx, s.log, "update quotation status", msgQuotationNotFound, err, "quotation_id", id)
	}
	return s.reloadAndPublish(ctx, id, EventQuotationUpdated)
}

func (s *quotationService) UpdateQuote(ctx context.Context, id, supplierID uuid.UUID, req *UpdateQuoteRequest, actor string) (*model.Quotation, error) {
	q, err := s.quotationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(ctx, s.log, "find quotation", msgQuotationNotFound, err, "quotation_id", id)
	}
	quote, ok := q.Quote(supplierID)
	if !ok {
		return nil, apperror.NotFound(msgQuoteNotFound)
	}

	if req.QuotedPrice != nil {
		quote.QuotedPrice = req.QuotedPrice
		if quote.Status == model.QuotePending {
			quote.Status = model.QuoteQuoted
		}
	}
	if req.DeliveryDays != nil {
		quote.DeliveryDays = req.DeliveryDays
	}
	if req.Status != nil {
		if quote.Status, err = parseEnum[model.QuoteStatus]("status", *req.Status); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		quote.Notes = *req.Notes
	}

	if err := s.quotationRepo.UpdateQuote(ctx, quote); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound(msgQuoteNotFound)
		}
		return nil, unexpected(ctx, s.log, "update quote", err, "quotation_id", id, "supplier_id", supplierID)
	}
	s.log.InfoContext(ctx, "quote updated", "quotation_id", id, "supplier_id", supplierID, "by", actor)
	return s.reloadAndPublish(ctx, id, EventQuotationUpdated)
}

func (s *quotationService) Compare(ctx context.Context, id uuid.UUID) (*report.Comparison, error) {
	q, err := s.quotationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(ctx, s.log, "find quotation", msgQuotationNotFound, err, "quotation_id", id)
	}
	cmp := report.CompareQuotes(q)
	return &cmp, nil
}

func (s *quotationService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.quotationRepo.Delete(ctx, id); err != nil {
		return lookupError(ctx, s.log, "delete quotation", msgQuotationNotFound, err, "quotation_id", id)
	}
	s.events.Publish(EventQuotationDeleted, map[string]uuid.UUID{"id": id})
	return nil
}

func (s *quotationService) reloadAndPublish(ctx context.Context, id uuid.UUID, event string) (*model.Quotation, error) {
	q, err := s.quotationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(ctx, s.log, "reload quotation", msgQuotationNotFound, err, "quotation_id", id)
	}
	s.events.Publish(event, q)
	return q, nil
}

func parseValidUntil(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	for _, layout := range validUntilLayouts {
		if t, err := time.Parse(layout, *raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, apperror.Validation("Validation failed", apperror.FieldError{
		Field:   "validUntil",
		Message: "Valid until must be a valid date",
	})
}
