package model

import "time"

type TransferState string

const (
	TransferStatePending   TransferState = "PENDING"
	TransferStateInTransit TransferState = "IN_TRANSIT"
	TransferStateReceived  TransferState = "RECEIVED"
	TransferStateCancelled TransferState = "CANCELLED"
)

// 拠点間の在庫転送。Pending → InTransit → Received。
// 出庫はInTransit遷移時、入庫はReceived遷移時にだけ在庫へ反映する。
type StockTransfer struct {
	ID                    int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	SourceLocationID      int64         `gorm:"not null;index" json:"source_location_id"`
	DestinationLocationID int64         `gorm:"not null;index" json:"destination_location_id"`
	VariantID             int64         `gorm:"not null;index" json:"variant_id"`
	ExpectedQuantity      int64         `gorm:"not null" json:"expected_quantity"`
	ReceivedQuantity      *int64        `json:"received_quantity,omitempty"`
	State                 TransferState `gorm:"type:varchar(20);not null;index" json:"state"`
	TrackingNumber        string        `gorm:"type:varchar(64)" json:"tracking_number,omitempty"`
	CreatedAt             time.Time     `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time     `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 検品差異（received - expected）。未入庫なら0。
func (t StockTransfer) Discrepancy() int64 {
	if t.ReceivedQuantity == nil {
		return 0
	}
	return *t.ReceivedQuantity - t.ExpectedQuantity
}
