package repository

import (
	"app/internal/domain/model"
	"context"
)

// 店舗受け取りの永続化
type PickupRepository interface {
	FindByID(ctx context.Context, id int64) (model.StorePickup, error)

	// 状態遷移用。NOWAIT付き行ロックで取得。ロック不可は ErrContention。
	FindForUpdate(ctx context.Context, id int64) (model.StorePickup, error)

	Create(ctx context.Context, p model.StorePickup) (model.StorePickup, error)
	Save(ctx context.Context, p model.StorePickup) error

	ListItems(ctx context.Context, pickupID int64) ([]model.PickupItem, error)
	CreateItems(ctx context.Context, pickupID int64, items []model.PickupItem) error

	// 同一拠点の未完了受け取りでコードが使用中か
	CodeInUse(ctx context.Context, locationID int64, code string) (bool, error)
}
