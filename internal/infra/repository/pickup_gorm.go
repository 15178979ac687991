package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PickupGormRepository struct {
	db *gorm.DB
}

// DI
func NewPickupGormRepository(db *gorm.DB) *PickupGormRepository {
	return &PickupGormRepository{db: db}
}

func (r *PickupGormRepository) FindByID(ctx context.Context, id int64) (model.StorePickup, error) {
	var p model.StorePickup
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.StorePickup{}, repo.ErrNotFound
	}
	if err != nil {
		return model.StorePickup{}, err
	}
	return p, nil
}

// 状態遷移とコード発行を直列化するための行ロック取得
func (r *PickupGormRepository) FindForUpdate(ctx context.Context, id int64) (model.StorePickup, error) {
	var p model.StorePickup
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "NOWAIT"}).
		First(&p, id).Error
	if err != nil {
		return model.StorePickup{}, mapLockError(err)
	}
	return p, nil
}

func (r *PickupGormRepository) Create(ctx context.Context, p model.StorePickup) (model.StorePickup, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.StorePickup{}, err
	}
	return p, nil
}

func (r *PickupGormRepository) Save(ctx context.Context, p model.StorePickup) error {
	res := r.db.WithContext(ctx).
		Model(&model.StorePickup{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"code":         p.Code,
			"state":        p.State,
			"ready_at":     p.ReadyAt,
			"picked_up_at": p.PickedUpAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *PickupGormRepository) ListItems(ctx context.Context, pickupID int64) ([]model.PickupItem, error) {
	var items []model.PickupItem
	err := r.db.WithContext(ctx).
		Where("pickup_id = ?", pickupID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PickupGormRepository) CreateItems(ctx context.Context, pickupID int64, items []model.PickupItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].PickupID = pickupID
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// 同一拠点の未完了（PENDING/READY）受け取りでコードが使用中か
func (r *PickupGormRepository) CodeInUse(ctx context.Context, locationID int64, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.StorePickup{}).
		Where("location_id = ? AND code = ? AND state IN ?",
			locationID, code,
			[]model.PickupState{model.PickupStatePending, model.PickupStateReady}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
