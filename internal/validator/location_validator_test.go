package validator_test

import (
	"testing"

	"app/internal/domain/model"
	"app/internal/usecase"
	"app/internal/validator"

	"github.com/stretchr/testify/assert"
)

func validInput() usecase.CreateLocationInput {
	return usecase.CreateLocationInput{
		Name:          "District1",
		Type:          model.LocationTypeRetailStore,
		ShipEnabled:   true,
		PickupEnabled: true,
		Latitude:      10.7936,
		Longitude:     106.7019,
		Priority:      100,
	}
}

func TestLocationValidator_Valid(t *testing.T) {
	v := validator.NewLocationValidator()
	assert.NoError(t, v.ValidateCreate(validInput()))
}

func TestLocationValidator_EmptyName(t *testing.T) {
	v := validator.NewLocationValidator()

	in := validInput()
	in.Name = "   "

	assert.ErrorIs(t, v.ValidateCreate(in), validator.ErrInvalidInput)
}

func TestLocationValidator_UnknownType(t *testing.T) {
	v := validator.NewLocationValidator()

	in := validInput()
	in.Type = model.LocationType("SPACE_STATION")

	assert.ErrorIs(t, v.ValidateCreate(in), validator.ErrInvalidInput)
}

// 座標の範囲外
func TestLocationValidator_CoordinatesOutOfRange(t *testing.T) {
	v := validator.NewLocationValidator()

	in := validInput()
	in.Latitude = 91
	assert.ErrorIs(t, v.ValidateCreate(in), validator.ErrInvalidInput)

	in = validInput()
	in.Longitude = -181
	assert.ErrorIs(t, v.ValidateCreate(in), validator.ErrInvalidInput)
}

func TestLocationValidator_NegativePriority(t *testing.T) {
	v := validator.NewLocationValidator()

	in := validInput()
	in.Priority = -1

	assert.ErrorIs(t, v.ValidateCreate(in), validator.ErrInvalidInput)
}

// 出荷も受け取りもできない拠点は不可
func TestLocationValidator_NoCapability(t *testing.T) {
	v := validator.NewLocationValidator()

	in := validInput()
	in.ShipEnabled = false
	in.PickupEnabled = false

	assert.ErrorIs(t, v.ValidateCreate(in), validator.ErrNoCapability)
}
