package service

import (
	"context"
	"errors"
	"log/slog"

	"heavysync/internal/apperror"
	"heavysync/internal/repository"
	"heavysync/pkg/jwt"
)

// Event types broadcast after successful mutations.
const (
	EventSupplierCreated      = "supplier.created"
	EventSupplierUpdated      = "supplier.updated"
	EventSupplierDeleted      = "supplier.deleted"
	EventPartCreated          = "part.created"
	EventPartUpdated          = "part.updated"
	EventPartDeleted          = "part.deleted"
	EventPurchaseOrderCreated = "purchase_order.created"
	EventPurchaseOrderUpdated = "purchase_order.updated"
	EventPurchaseOrderDeleted = "purchase_order.deleted"
	EventQuotationCreated     = "quotation.created"
	EventQuotationUpdated     = "quotation.updated"
	EventQuotationDeleted     = "quotation.deleted"
)

// EventPublisher receives change notifications. Publish must not block.
type EventPublisher interface {
	Publish(eventType string, data interface{})
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, interface{}) {}

// Services is the full set of use cases exposed over HTTP.
type Services struct {
	Auth           AuthService
	Users          UserService
	Suppliers      SupplierService
	Parts          PartService
	PurchaseOrders PurchaseOrderService
	Quotations     QuotationService
	Dashboard      DashboardService
}

// New wires every service against one store. A nil events publisher drops
// notifications.
func New(store *repository.Store, tokens *jwt.Manager, events EventPublisher, log *slog.Logger) *Services {
	if events == nil {
		events = nopPublisher{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Services{
		Auth:           NewAuthService(store.Users, tokens, log),
		Users:          NewUserService(store.Users, log),
		Suppliers:      NewSupplierService(store.Suppliers, events, log),
		Parts:          NewPartService(store.Parts, store.Suppliers, events, log),
		PurchaseOrders: NewPurchaseOrderService(store.PurchaseOrders, store.Suppliers, events, log),
		Quotations:     NewQuotationService(store.Quotations, store.Parts, store.Suppliers, events, log),
		Dashboard:      NewDashboardService(store, log),
	}
}

// unexpected logs a store failure and hides it behind a generic 500.
func unexpected(ctx context.Context, log *slog.Logger, op string, err error, args ...any) error {
	log.ErrorContext(ctx, op+" failed", append(args, "err", err)...)
	return apperror.Internal(err)
}

// lookupError maps ErrNotFound to a 404 with message and anything else to a 500.
func lookupError(ctx context.Context, log *slog.Logger, op, message string, err error, args ...any) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound(message)
	}
	return unexpected(ctx, log, op, err, args...)
}

type enum interface {
	~string
	Valid() bool
}

// parseEnum converts a wire value into one of the model's enums.
func parseEnum[T enum](field, raw string) (T, error) {
	v := T(raw)
	if !v.Valid() {
		return v, apperror.Validation("Validation failed", apperror.FieldError{Field: field, Message: "Invalid " + field})
	}
	return v, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
