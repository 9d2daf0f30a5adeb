package repository

import (
	"context"

	"heavysync/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type partRepo struct {
	db *gorm.DB
}

func NewPartRepo(db *gorm.DB) PartRepository {
	return &partRepo{db}
}

func (r *partRepo) Create(ctx context.Context, part *model.Part) error {
	return translate(r.db.WithContext(ctx).Omit("Supplier").Create(part).Error)
}

func (r *partRepo) FindAll(ctx context.Context) ([]model.Part, error) {
	var parts []model.Part
	err := r.db.WithContext(ctx).Preload("Supplier").Order("created_at").Find(&parts).Error
	return parts, translate(err)
}

func (r *partRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Part, error) {
	var part model.Part
	if err := r.db.WithContext(ctx).Preload("Supplier").First(&part, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &part, nil
}

func (r *partRepo) FindByCategory(ctx context.Context, categoryID string) ([]model.Part, error) {
	var parts []model.Part
	err := r.db.WithContext(ctx).Preload("Supplier").
		Where("category_id = ?", categoryID).
		Order("created_at").
		Find(&parts).Error
	return parts, translate(err)
}

func (r *partRepo) ExistsByCode(ctx context.Context, code string, excludeID uuid.UUID) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.Part{}).Where("part_code = ?", code)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (r *partRepo) Update(ctx context.Context, part *model.Part) error {
	return translate(r.db.WithContext(ctx).Omit("Supplier").Save(part).Error)
}

func (r *partRepo) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int, updatedBy string) error {
	res := r.db.WithContext(ctx).Model(&model.Part{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"quantity":   quantity,
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

func (r *partRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &model.Part{}, id)
}
