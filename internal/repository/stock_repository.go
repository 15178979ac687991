package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// 行ロックが取れない（他の操作と競合）。呼び出し側でリトライする。
var ErrContention = errors.New("contention")

// 在庫カウンタの永続化。同一(variant, location)行の更新は
// FindForUpdate で直列化してから行う。
type StockRecordRepository interface {
	// NOWAIT付き行ロックで取得。ロック不可は ErrContention。
	FindForUpdate(ctx context.Context, variantID, locationID int64) (model.StockRecord, error)

	FindByVariantLocation(ctx context.Context, variantID, locationID int64) (model.StockRecord, error)
	ListByVariant(ctx context.Context, variantID int64) ([]model.StockRecord, error)

	Create(ctx context.Context, s model.StockRecord) (model.StockRecord, error)
	Save(ctx context.Context, s model.StockRecord) error
}

// 入荷待ちキューの永続化
type BackorderRepository interface {
	// オープンな入荷待ちを古い順で返す
	ListOpenFIFO(ctx context.Context, variantID, locationID int64) ([]model.Backorder, error)

	Create(ctx context.Context, b model.Backorder) (model.Backorder, error)
	Save(ctx context.Context, b model.Backorder) error
}

// 在庫操作履歴の保存
type StockMovementRepository interface {
	Create(ctx context.Context, m model.StockMovement) error
	ListByVariantLocation(ctx context.Context, variantID, locationID int64, limit int) ([]model.StockMovement, error)
}
