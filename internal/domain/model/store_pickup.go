package model

import "time"

type PickupState string

const (
	PickupStatePending   PickupState = "PENDING"
	PickupStateReady     PickupState = "READY"
	PickupStatePickedUp  PickupState = "PICKED_UP"
	PickupStateCancelled PickupState = "CANCELLED"
)

// 店舗受け取り。Pending → Ready → PickedUp。
// PickedUp / Cancelled からの遷移はない。
type StorePickup struct {
	ID         int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderRef   string      `gorm:"type:varchar(255);not null;index" json:"order_ref"`
	LocationID int64       `gorm:"not null;index" json:"location_id"`
	Code       string      `gorm:"type:varchar(6)" json:"-"` // 受け取りコードはAPIに出さない
	State      PickupState `gorm:"type:varchar(20);not null;index" json:"state"`
	ReadyAt    *time.Time  `json:"ready_at,omitempty"`
	PickedUpAt *time.Time  `json:"picked_up_at,omitempty"`
	CreatedAt  time.Time   `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time   `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 受け取りが保持する引当の明細
type PickupItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PickupID  int64     `gorm:"not null;index" json:"pickup_id"`
	VariantID int64     `gorm:"not null" json:"variant_id"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (p StorePickup) Terminal() bool {
	return p.State == PickupStatePickedUp || p.State == PickupStateCancelled
}

// キャンセル可能か（Pending / Ready のみ）
func (p StorePickup) CanCancel() bool {
	return !p.Terminal()
}
