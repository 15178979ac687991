package repository

import (
	"context"

	"app/internal/domain/model"

	"gorm.io/gorm"
)

type StockMovementGormRepository struct {
	db *gorm.DB
}

// DI
func NewStockMovementGormRepository(db *gorm.DB) *StockMovementGormRepository {
	return &StockMovementGormRepository{db: db}
}

func (r *StockMovementGormRepository) Create(ctx context.Context, m model.StockMovement) error {
	return r.db.WithContext(ctx).Create(&m).Error
}

// 新しい順で履歴を返す
func (r *StockMovementGormRepository) ListByVariantLocation(ctx context.Context, variantID, locationID int64, limit int) ([]model.StockMovement, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var movements []model.StockMovement
	err := r.db.WithContext(ctx).
		Where("variant_id = ? AND location_id = ?", variantID, locationID).
		Order("id desc").
		Limit(limit).
		Find(&movements).Error
	if err != nil {
		return nil, err
	}
	return movements, nil
}
