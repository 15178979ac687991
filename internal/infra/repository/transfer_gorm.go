package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TransferGormRepository struct {
	db *gorm.DB
}

// DI
func NewTransferGormRepository(db *gorm.DB) *TransferGormRepository {
	return &TransferGormRepository{db: db}
}

func (r *TransferGormRepository) FindByID(ctx context.Context, id int64) (model.StockTransfer, error) {
	var t model.StockTransfer
	err := r.db.WithContext(ctx).First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.StockTransfer{}, repo.ErrNotFound
	}
	if err != nil {
		return model.StockTransfer{}, err
	}
	return t, nil
}

// 状態遷移を直列化するための行ロック取得
func (r *TransferGormRepository) FindForUpdate(ctx context.Context, id int64) (model.StockTransfer, error) {
	var t model.StockTransfer
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "NOWAIT"}).
		First(&t, id).Error
	if err != nil {
		return model.StockTransfer{}, mapLockError(err)
	}
	return t, nil
}

func (r *TransferGormRepository) Create(ctx context.Context, t model.StockTransfer) (model.StockTransfer, error) {
	if err := r.db.WithContext(ctx).Create(&t).Error; err != nil {
		return model.StockTransfer{}, err
	}
	return t, nil
}

func (r *TransferGormRepository) Save(ctx context.Context, t model.StockTransfer) error {
	res := r.db.WithContext(ctx).
		Model(&model.StockTransfer{}).
		Where("id = ?", t.ID).
		Updates(map[string]any{
			"received_quantity": t.ReceivedQuantity,
			"state":             t.State,
			"tracking_number":   t.TrackingNumber,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
