package repository

import (
	"context"

	"heavysync/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type purchaseOrderRepo struct {
	db *gorm.DB
}

func NewPurchaseOrderRepo(db *gorm.DB) PurchaseOrderRepository {
	return &purchaseOrderRepo{db}
}

// withRelations loads the reduced supplier view and the items in order.
func withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Supplier", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "contact_email", "contact_phone")
		}).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position")
		})
}

func (r *purchaseOrderRepo) Create(ctx context.Context, po *model.PurchaseOrder) error {
	po.EnsureID()
	po.SetItems(po.Items)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Supplier", "Items").Create(po).Error; err != nil {
			return err
		}
		if len(po.Items) > 0 {
			return tx.Create(&po.Items).Error
		}
		return nil
	})
	return translate(err)
}

func (r *purchaseOrderRepo) FindAll(ctx context.Context) ([]model.PurchaseOrder, error) {
	var orders []model.PurchaseOrder
	err := withRelations(r.db.WithContext(ctx)).Order("created_at").Find(&orders).Error
	return orders, translate(err)
}

func (r *purchaseOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	if err := withRelations(r.db.WithContext(ctx)).First(&po, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &po, nil
}

func (r *purchaseOrderRepo) Update(ctx context.Context, po *model.PurchaseOrder, replaceItems bool) error {
	if replaceItems {
		po.SetItems(po.Items)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Supplier", "Items").Save(po).Error; err != nil {
			return err
		}
		if !replaceItems {
			return nil
		}
		if err := tx.Where("purchase_order_id = ?", po.ID).Delete(&model.PurchaseOrderItem{}).Error; err != nil {
			return err
		}
		if len(po.Items) > 0 {
			for i := range po.Items {
				po.Items[i].ID = uuid.Nil
			}
			return tx.Create(&po.Items).Error
		}
		return nil
	})
	return translate(err)
}

func (r *purchaseOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &model.PurchaseOrder{}, id)
}
