package notification

import (
	"context"
	"log"

	"app/internal/domain/model"
)

// 受け取り準備完了の通知先（SMS/メールなどの実装は外部）。
// 呼び出しはfire-and-forgetで、本体の処理をブロックしない。
type Notifier interface {
	PickupReady(ctx context.Context, pickup model.StorePickup) error
}

// ログに出すだけの既定実装
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) PickupReady(ctx context.Context, pickup model.StorePickup) error {
	log.Printf("pickup ready: id=%d order_ref=%s location_id=%d", pickup.ID, pickup.OrderRef, pickup.LocationID)
	return nil
}
