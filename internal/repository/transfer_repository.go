package repository

import (
	"app/internal/domain/model"
	"context"
)

// 拠点間転送の永続化
type TransferRepository interface {
	FindByID(ctx context.Context, id int64) (model.StockTransfer, error)

	// 状態遷移用。NOWAIT付き行ロックで取得。ロック不可は ErrContention。
	FindForUpdate(ctx context.Context, id int64) (model.StockTransfer, error)

	Create(ctx context.Context, t model.StockTransfer) (model.StockTransfer, error)
	Save(ctx context.Context, t model.StockTransfer) error
}
