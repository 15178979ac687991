package model

import "time"

// (variant, location) ごとの在庫カウンタ。
// on_hand / reserved / backordered はすべて0以上を保つ。
type StockRecord struct {
	ID                  int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	VariantID           int64     `gorm:"not null;uniqueIndex:idx_stock_variant_location" json:"variant_id"`
	LocationID          int64     `gorm:"not null;uniqueIndex:idx_stock_variant_location" json:"location_id"`
	QuantityOnHand      int64     `gorm:"not null;default:0" json:"quantity_on_hand"`
	QuantityReserved    int64     `gorm:"not null;default:0" json:"quantity_reserved"`
	QuantityBackordered int64     `gorm:"not null;default:0" json:"quantity_backordered"`
	Backorderable       bool      `gorm:"not null;default:false" json:"backorderable"`
	CreatedAt           time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 引当可能数（on_hand - reserved）
func (s StockRecord) CountAvailable() int64 {
	return s.QuantityOnHand - s.QuantityReserved
}
