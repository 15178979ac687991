package model

import "time"

// 入荷待ちの需要。remaining > 0 の間はオープン。
// 補充時は created_at（= id）の古い順に充当する。
type Backorder struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	VariantID  int64     `gorm:"not null;index:idx_backorder_variant_location" json:"variant_id"`
	LocationID int64     `gorm:"not null;index:idx_backorder_variant_location" json:"location_id"`
	OrderRef   string    `gorm:"type:varchar(255);not null" json:"order_ref"`
	Quantity   int64     `gorm:"not null" json:"quantity"`
	Remaining  int64     `gorm:"not null" json:"remaining"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
