package repository

import (
	"context"

	"heavysync/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type quotationRepo struct {
	db *gorm.DB
}

func NewQuotationRepo(db *gorm.DB) QuotationRepository {
	return &quotationRepo{db}
}

func (r *quotationRepo) preload(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Suppliers.Supplier")
}

func (r *quotationRepo) Create(ctx context.Context, q *model.Quotation) error {
	q.EnsureID()
	for i := range q.Suppliers {
		q.Suppliers[i].QuotationID = q.ID
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Part", "Suppliers").Create(q).Error; err != nil {
			return err
		}
		if len(q.Suppliers) > 0 {
			return tx.Omit("Supplier").Create(&q.Suppliers).Error
		}
		return nil
	})
	return translate(err)
}

func (r *quotationRepo) FindAll(ctx context.Context) ([]model.Quotation, error) {
	var quotations []model.Quotation
	if err := r.preload(ctx).Order("created_at").Find(&quotations).Error; err != nil {
		return nil, translate(err)
	}
	for i := range quotations {
		fillSupplierNames(&quotations[i])
	}
	return quotations, nil
}

func (r *quotationRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Quotation, error) {
	var q model.Quotation
	if err := r.preload(ctx).First(&q, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	fillSupplierNames(&q)
	return &q, nil
}

func (r *quotationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.QuotationStatus, updatedBy string) error {
	res := r.db.WithContext(ctx).Model(&model.Quotation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_by": updatedBy,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *quotationRepo) UpdateQuote(ctx context.Context, quote *model.QuotationSupplier) error {
	res := r.db.WithContext(ctx).Model(&model.QuotationSupplier{}).
		Where("quotation_id = ? AND supplier_id = ?", quote.QuotationID, quote.SupplierID).
		Updates(map[string]interface{}{
			"quoted_price":  quote.QuotedPrice,
			"delivery_days": quote.DeliveryDays,
			"status":        quote.Status,
			"notes":         quote.Notes,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return translate(r.db.WithContext(ctx).Model(&model.Quotation{}).
		Where("id = ?", quote.QuotationID).
		Update("updated_at", gorm.Expr("NOW()")).Error)
}

func (r *quotationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &model.Quotation{}, id)
}

func fillSupplierNames(q *model.Quotation) {
	for i := range q.Suppliers {
		q.Suppliers[i].FillName()
	}
}
