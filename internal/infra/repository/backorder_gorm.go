package repository

import (
	"context"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type BackorderGormRepository struct {
	db *gorm.DB
}

// DI
func NewBackorderGormRepository(db *gorm.DB) *BackorderGormRepository {
	return &BackorderGormRepository{db: db}
}

// オープンな入荷待ちを古い順（id昇順）で返す
func (r *BackorderGormRepository) ListOpenFIFO(ctx context.Context, variantID, locationID int64) ([]model.Backorder, error) {
	var backorders []model.Backorder
	err := r.db.WithContext(ctx).
		Where("variant_id = ? AND location_id = ? AND remaining > 0", variantID, locationID).
		Order("id asc").
		Find(&backorders).Error
	if err != nil {
		return nil, err
	}
	return backorders, nil
}

func (r *BackorderGormRepository) Create(ctx context.Context, b model.Backorder) (model.Backorder, error) {
	if err := r.db.WithContext(ctx).Create(&b).Error; err != nil {
		return model.Backorder{}, err
	}
	return b, nil
}

func (r *BackorderGormRepository) Save(ctx context.Context, b model.Backorder) error {
	res := r.db.WithContext(ctx).
		Model(&model.Backorder{}).
		Where("id = ?", b.ID).
		Update("remaining", b.Remaining)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
