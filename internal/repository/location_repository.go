package repository

import (
	"app/internal/domain/model"
	"context"
)

// 拠点レジストリの永続化（削除はせず無効化のみ）
type LocationRepository interface {
	FindByID(ctx context.Context, id int64) (model.Location, error)
	List(ctx context.Context, activeOnly bool) ([]model.Location, error)
	ListByIDs(ctx context.Context, ids []int64) ([]model.Location, error)

	Create(ctx context.Context, l model.Location) (model.Location, error)
	Save(ctx context.Context, l model.Location) error
}
