package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type LocationGormRepository struct {
	db *gorm.DB
}

// DI
func NewLocationGormRepository(db *gorm.DB) *LocationGormRepository {
	return &LocationGormRepository{db: db}
}

func (r *LocationGormRepository) FindByID(ctx context.Context, id int64) (model.Location, error) {
	var l model.Location
	err := r.db.WithContext(ctx).First(&l, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Location{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Location{}, err
	}
	return l, nil
}

// 優先度順（同値はid順）で拠点を返す
func (r *LocationGormRepository) List(ctx context.Context, activeOnly bool) ([]model.Location, error) {
	tx := r.db.WithContext(ctx).Model(&model.Location{})
	if activeOnly {
		tx = tx.Where("active = ?", true)
	}

	var locations []model.Location
	if err := tx.Order("priority asc").Order("id asc").Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

func (r *LocationGormRepository) ListByIDs(ctx context.Context, ids []int64) ([]model.Location, error) {
	if len(ids) == 0 {
		return []model.Location{}, nil
	}

	var locations []model.Location
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("priority asc").Order("id asc").
		Find(&locations).Error
	if err != nil {
		return nil, err
	}
	return locations, nil
}

func (r *LocationGormRepository) Create(ctx context.Context, l model.Location) (model.Location, error) {
	if err := r.db.WithContext(ctx).Create(&l).Error; err != nil {
		return model.Location{}, err
	}
	return l, nil
}

func (r *LocationGormRepository) Save(ctx context.Context, l model.Location) error {
	res := r.db.WithContext(ctx).
		Model(&model.Location{}).
		Where("id = ?", l.ID).
		Updates(map[string]any{
			"name":           l.Name,
			"type":           l.Type,
			"ship_enabled":   l.ShipEnabled,
			"pickup_enabled": l.PickupEnabled,
			"latitude":       l.Latitude,
			"longitude":      l.Longitude,
			"priority":       l.Priority,
			"active":         l.Active,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
