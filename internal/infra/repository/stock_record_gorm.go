package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StockRecordGormRepository struct {
	db *gorm.DB
}

// DI
func NewStockRecordGormRepository(db *gorm.DB) *StockRecordGormRepository {
	return &StockRecordGormRepository{db: db}
}

// NOWAIT付き行ロックで取得。ロック待ちになったら即エラーにして
// ErrContention として呼び出し側にリトライさせる。
func (r *StockRecordGormRepository) FindForUpdate(ctx context.Context, variantID, locationID int64) (model.StockRecord, error) {
	var s model.StockRecord
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "NOWAIT"}).
		Where("variant_id = ? AND location_id = ?", variantID, locationID).
		First(&s).Error
	if err != nil {
		return model.StockRecord{}, mapLockError(err)
	}
	return s, nil
}

func (r *StockRecordGormRepository) FindByVariantLocation(ctx context.Context, variantID, locationID int64) (model.StockRecord, error) {
	var s model.StockRecord
	err := r.db.WithContext(ctx).
		Where("variant_id = ? AND location_id = ?", variantID, locationID).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.StockRecord{}, repo.ErrNotFound
	}
	if err != nil {
		return model.StockRecord{}, err
	}
	return s, nil
}

func (r *StockRecordGormRepository) ListByVariant(ctx context.Context, variantID int64) ([]model.StockRecord, error) {
	var records []model.StockRecord
	err := r.db.WithContext(ctx).
		Where("variant_id = ?", variantID).
		Order("location_id asc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *StockRecordGormRepository) Create(ctx context.Context, s model.StockRecord) (model.StockRecord, error) {
	if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
		return model.StockRecord{}, err
	}
	return s, nil
}

func (r *StockRecordGormRepository) Save(ctx context.Context, s model.StockRecord) error {
	res := r.db.WithContext(ctx).
		Model(&model.StockRecord{}).
		Where("id = ?", s.ID).
		Updates(map[string]any{
			"quantity_on_hand":     s.QuantityOnHand,
			"quantity_reserved":    s.QuantityReserved,
			"quantity_backordered": s.QuantityBackordered,
			"backorderable":        s.Backorderable,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// Postgresの lock_not_available(55P03) / serialization_failure(40001) を
// ErrContention に寄せる
func mapLockError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repo.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "55P03" || pgErr.Code == "40001" {
			return repo.ErrContention
		}
	}
	return err
}
