package validator

import (
	"errors"
	"strings"

	"app/internal/domain/model"
	"app/internal/usecase"
)

var (
	// 入力が不正
	ErrInvalidInput = errors.New("invalid input")

	// 出荷も受け取りもできない拠点は登録できない
	ErrNoCapability = errors.New("location must ship or allow pickup")
)

type locationValidator struct{}

// Usecaseは interface を依存注入
func NewLocationValidator() usecase.LocationValidator {
	return &locationValidator{}
}

// 拠点登録の入力を検証
func (v *locationValidator) ValidateCreate(in usecase.CreateLocationInput) error {
	// 必須チェック
	if strings.TrimSpace(in.Name) == "" || len(in.Name) > 255 {
		return ErrInvalidInput
	}

	if !model.IsValidLocationType(in.Type) {
		return ErrInvalidInput
	}

	// 座標の範囲
	if in.Latitude < -90 || in.Latitude > 90 {
		return ErrInvalidInput
	}
	if in.Longitude < -180 || in.Longitude > 180 {
		return ErrInvalidInput
	}

	if in.Priority < 0 {
		return ErrInvalidInput
	}

	// 出荷不可の拠点は受け取り必須（どちらも無い拠点は意味がない）
	if !in.ShipEnabled && !in.PickupEnabled {
		return ErrNoCapability
	}

	return nil
}
