package service

import (
	"context"
	"fmt"
	"log/slog"

	"heavysync/internal/model"
	"heavysync/internal/report"
	"heavysync/internal/repository"
)

type DashboardService interface {
	Summary(ctx context.Context, username string) (*Dashboard, error)
}

type Dashboard struct {
	Message string         `json:"message"`
	Stats   DashboardStats `json:"stats"`
}

type DashboardStats struct {
	Suppliers              int                               `json:"suppliers"`
	Parts                  int                               `json:"parts"`
	LowStockParts          int                               `json:"lowStockParts"`
	PurchaseOrders         int                               `json:"purchaseOrders"`
	PurchaseOrdersByStatus map[model.PurchaseOrderStatus]int `json:"purchaseOrdersByStatus"`
	OpenPurchaseOrderValue float64                           `json:"openPurchaseOrderValue"`
	DuplicateSupplierIDs   []string                          `json:"duplicateSupplierIds"`
}

type dashboardService struct {
	store *repository.Store
	log   *slog.Logger
}

func NewDashboardService(store *repository.Store, log *slog.Logger) DashboardService {
	return &dashboardService{store: store, log: log}
}

func (s *dashboardService) Summary(ctx context.Context, username string) (*Dashboard, error) {
	suppliers, err := s.store.Suppliers.FindAll(ctx)
	if err != nil {
		return nil, unexpected(ctx, s.log, "list suppliers", err)
	}
	parts, err := s.store.Parts.FindAll(ctx)
	if err != nil {
		return nil, unexpected(ctx, s.log, "list parts", err)
	}
	orders, err := s.store.PurchaseOrders.FindAll(ctx)
	if err != nil {
		return nil, unexpected(ctx, s.log, "list purchase orders", err)
	}

	return &Dashboard{
		Message: fmt.Sprintf("Welcome %s! This is your dashboard.", username),
		Stats: DashboardStats{
			Suppliers:              len(suppliers),
			Parts:                  len(parts),
			LowStockParts:          len(report.LowStockParts(parts)),
			PurchaseOrders:         len(orders),
			PurchaseOrdersByStatus: report.PurchaseOrderStatusCounts(orders),
			OpenPurchaseOrderValue: report.OpenPurchaseOrderValue(orders),
			DuplicateSupplierIDs:   report.DuplicateSupplierCodes(suppliers),
		},
	}, nil
}
