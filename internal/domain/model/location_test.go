package model_test

import (
	"testing"

	"app/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

func TestLocation_DistanceKm(t *testing.T) {
	l := model.Location{Latitude: 10.7936, Longitude: 106.7019}

	// 自分自身との距離は0
	assert.Zero(t, l.DistanceKm(10.7936, 106.7019))

	// 赤道上の経度1度 ≒ 111.19km
	equator := model.Location{Latitude: 0, Longitude: 0}
	assert.InDelta(t, 111.19, equator.DistanceKm(0, 1), 0.1)
}

func TestLocation_CanReceiveTransfer(t *testing.T) {
	assert.True(t, model.Location{Type: model.LocationTypeWarehouse}.CanReceiveTransfer())
	assert.True(t, model.Location{Type: model.LocationTypeRetailStore}.CanReceiveTransfer())
	assert.False(t, model.Location{Type: model.LocationTypeDropShip}.CanReceiveTransfer())
}

func TestIsValidLocationType(t *testing.T) {
	assert.True(t, model.IsValidLocationType(model.LocationTypeCrossDock))
	assert.False(t, model.IsValidLocationType(model.LocationType("SPACE_STATION")))
	assert.False(t, model.IsValidLocationType(model.LocationType("")))
}
