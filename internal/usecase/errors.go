package usecase

import (
	"errors"
	"fmt"
)

// 在庫エンジンと状態機械が返すエラー種別。
// 例外ではなく値として呼び出し側（オーケストレータ）へそのまま返す。
var (
	// 引当可能数が不足（backorder不可）
	ErrInsufficientStock = errors.New("insufficient stock")

	// 解放数量が不正（qty <= 0）
	ErrInvalidReleaseQuantity = errors.New("invalid release quantity")

	// 予約数を超える確定
	ErrReservationMismatch = errors.New("reservation mismatch")

	// 調整の結果on_hand（非backorderableでは引当可能数も）が負になる
	ErrNegativeOnHand = errors.New("negative on hand")

	// どの拠点でも引当できない
	ErrNoFulfillableLocation = errors.New("no fulfillable location")

	// 受け取りコード不一致
	ErrCodeMismatch = errors.New("code mismatch")

	// 転送元の在庫不足
	ErrInsufficientSourceStock = errors.New("insufficient source stock")

	// 状態機械の不正遷移
	ErrInvalidState = errors.New("invalid state transition")
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}
