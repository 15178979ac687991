package repository

import (
	"context"

	repo "app/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	stock      repo.StockRecordRepository
	backorders repo.BackorderRepository
	movements  repo.StockMovementRepository
	locations  repo.LocationRepository
	pickups    repo.PickupRepository
	transfers  repo.TransferRepository
}

func (r *txReposGorm) Stock() repo.StockRecordRepository       { return r.stock }
func (r *txReposGorm) Backorders() repo.BackorderRepository    { return r.backorders }
func (r *txReposGorm) Movements() repo.StockMovementRepository { return r.movements }
func (r *txReposGorm) Locations() repo.LocationRepository      { return r.locations }
func (r *txReposGorm) Pickups() repo.PickupRepository          { return r.pickups }
func (r *txReposGorm) Transfers() repo.TransferRepository      { return r.transfers }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			stock:      NewStockRecordGormRepository(tx),
			backorders: NewBackorderGormRepository(tx),
			movements:  NewStockMovementGormRepository(tx),
			locations:  NewLocationGormRepository(tx),
			pickups:    NewPickupGormRepository(tx),
			transfers:  NewTransferGormRepository(tx),
		}
		return fn(r)
	})
}
