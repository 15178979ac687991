package usecase

import (
	"context"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type CreateLocationInput struct {
	Name          string
	Type          model.LocationType
	ShipEnabled   bool
	PickupEnabled bool
	Latitude      float64
	Longitude     float64
	Priority      int
}

// Usecaseは interface を依存注入
type LocationValidator interface {
	ValidateCreate(in CreateLocationInput) error
}

type LocationUsecase struct {
	locations repo.LocationRepository
	validator LocationValidator
}

// DI
func NewLocationUsecase(locations repo.LocationRepository, validator LocationValidator) *LocationUsecase {
	return &LocationUsecase{locations: locations, validator: validator}
}

func (u *LocationUsecase) Create(ctx context.Context, in CreateLocationInput) (model.Location, error) {
	if err := u.validator.ValidateCreate(in); err != nil {
		return model.Location{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	priority := in.Priority
	if priority == 0 {
		priority = 100
	}

	return u.locations.Create(ctx, model.Location{
		Name:          in.Name,
		Type:          in.Type,
		ShipEnabled:   in.ShipEnabled,
		PickupEnabled: in.PickupEnabled,
		Latitude:      in.Latitude,
		Longitude:     in.Longitude,
		Priority:      priority,
		Active:        true,
	})
}

func (u *LocationUsecase) List(ctx context.Context, activeOnly bool) ([]model.Location, error) {
	return u.locations.List(ctx, activeOnly)
}

func (u *LocationUsecase) Get(ctx context.Context, id int64) (model.Location, error) {
	if id <= 0 {
		return model.Location{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return u.locations.FindByID(ctx, id)
}

// 削除はしない。履歴参照を保つため無効化のみ。
func (u *LocationUsecase) Deactivate(ctx context.Context, id int64) (model.Location, error) {
	if id <= 0 {
		return model.Location{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	l, err := u.locations.FindByID(ctx, id)
	if err != nil {
		return model.Location{}, err
	}
	if !l.Active {
		return l, nil
	}

	l.Active = false
	if err := u.locations.Save(ctx, l); err != nil {
		return model.Location{}, err
	}
	return l, nil
}
