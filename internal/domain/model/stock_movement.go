package model

import "time"

type MovementType string

const (
	MovementTypeReserve       MovementType = "RESERVE"
	MovementTypeRelease       MovementType = "RELEASE"
	MovementTypeConfirm       MovementType = "CONFIRM"
	MovementTypeAdjust        MovementType = "ADJUST"
	MovementTypeTransferOut   MovementType = "TRANSFER_OUT"
	MovementTypeTransferIn    MovementType = "TRANSFER_IN"
	MovementTypeBackorderFill MovementType = "BACKORDER_FILL"
)

// 在庫操作の履歴（before/afterはon_hand基準）
type StockMovement struct {
	ID             int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	VariantID      int64        `gorm:"not null;index" json:"variant_id"`
	LocationID     int64        `gorm:"not null;index" json:"location_id"`
	Type           MovementType `gorm:"type:varchar(30);not null" json:"type"`
	Quantity       int64        `gorm:"not null" json:"quantity"`
	OnHandBefore   int64        `gorm:"not null" json:"on_hand_before"`
	OnHandAfter    int64        `gorm:"not null" json:"on_hand_after"`
	ReferenceType  string       `gorm:"type:varchar(50)" json:"reference_type,omitempty"`
	ReferenceID    string       `gorm:"type:varchar(255)" json:"reference_id,omitempty"`
	OriginatorName string       `gorm:"type:varchar(255)" json:"originator,omitempty"`
	CreatedAt      time.Time    `gorm:"not null;autoCreateTime" json:"created_at"`
}
