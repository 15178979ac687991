package model

import (
	"math"
	"time"
)

type LocationType string

const (
	LocationTypeWarehouse         LocationType = "WAREHOUSE"
	LocationTypeRetailStore       LocationType = "RETAIL_STORE"
	LocationTypeFulfillmentCenter LocationType = "FULFILLMENT_CENTER"
	LocationTypeDropShip          LocationType = "DROP_SHIP"
	LocationTypeCrossDock         LocationType = "CROSS_DOCK"
)

// 拠点（倉庫・店舗など）。削除せず active=false で無効化する。
type Location struct {
	ID            int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string       `gorm:"type:varchar(255);not null" json:"name"`
	Type          LocationType `gorm:"type:varchar(30);not null;index" json:"type"`
	ShipEnabled   bool         `gorm:"not null;default:false" json:"ship_enabled"`
	PickupEnabled bool         `gorm:"not null;default:false" json:"pickup_enabled"`
	Latitude      float64      `gorm:"not null" json:"latitude"`
	Longitude     float64      `gorm:"not null" json:"longitude"`
	Priority      int          `gorm:"not null;default:100" json:"priority"` // 小さいほど優先
	Active        bool         `gorm:"not null;default:true;index" json:"active"`
	CreatedAt     time.Time    `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// ドロップシップ拠点は転送を受け取れない
func (l Location) CanReceiveTransfer() bool {
	return l.Type != LocationTypeDropShip
}

const earthRadiusKm = 6371.0

// 顧客座標との大円距離（ハーバサイン）をkmで返す
func (l Location) DistanceKm(lat, lng float64) float64 {
	dLat := radians(lat - l.Latitude)
	dLng := radians(lng - l.Longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(l.Latitude))*math.Cos(radians(lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func IsValidLocationType(t LocationType) bool {
	switch t {
	case LocationTypeWarehouse, LocationTypeRetailStore, LocationTypeFulfillmentCenter,
		LocationTypeDropShip, LocationTypeCrossDock:
		return true
	}
	return false
}
