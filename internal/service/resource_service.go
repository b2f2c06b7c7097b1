package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/dispatch-service/internal/domain"
	"github.com/spec-kit/dispatch-service/internal/repository"
	apperrors "github.com/spec-kit/dispatch-service/pkg/util"
)

// ResourceService is the resource directory: it owns allocation and release
// of units and vehicles. Allocation is a compare-and-set, so of two operators
// racing for the same unit exactly one wins.
type ResourceService struct {
	units    repository.UnitRepository
	vehicles repository.VehicleRepository
}

// NewResourceService creates the service.
func NewResourceService(units repository.UnitRepository, vehicles repository.VehicleRepository) *ResourceService {
	return &ResourceService{units: units, vehicles: vehicles}
}

// ListAvailableUnits returns units currently free to dispatch, optionally
// filtered by unit type.
func (s *ResourceService) ListAvailableUnits(ctx context.Context, unitType string) ([]domain.Unit, error) {
	units, err := s.units.ListAvailable(ctx, unitType)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return units, nil
}

// GetUnit fetches a unit by id.
func (s *ResourceService) GetUnit(ctx context.Context, unitID string) (*domain.Unit, error) {
	if err := requireID("unit_id", unitID); err != nil {
		return nil, err
	}
	unit, err := s.units.GetByID(ctx, unitID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("unit", map[string]any{"unit_id": unitID})
		}
		return nil, apperrors.MapError(err)
	}
	return unit, nil
}

// AllocateUnit reserves a unit for a dispatch. The unit must be available at
// the moment of the write; otherwise ResourceUnavailable is returned and
// nothing changes.
func (s *ResourceService) AllocateUnit(ctx context.Context, unitID, dispatchID string) error {
	ok, err := s.units.Allocate(ctx, unitID, dispatchID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if ok {
		return nil
	}
	// Distinguish a busy unit from an unknown one.
	if _, err := s.units.GetByID(ctx, unitID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("unit", map[string]any{"unit_id": unitID})
		}
		return apperrors.MapError(err)
	}
	return apperrors.NewResourceUnavailable(
		fmt.Sprintf("unit %s is already dispatched", unitID),
		map[string]any{"unit_id": unitID},
	)
}

// FreeUnit returns a unit to the available pool.
func (s *ResourceService) FreeUnit(ctx context.Context, unitID string) error {
	if err := s.units.Free(ctx, unitID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("unit", map[string]any{"unit_id": unitID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// AllocateVehicles reserves the given vehicles for a dispatch. Every
// requested vehicle must belong to the assigned unit and be available; a
// partial match fails the whole allocation.
func (s *ResourceService) AllocateVehicles(ctx context.Context, vehicleIDs []string, dispatchID, unitID string) error {
	if len(vehicleIDs) == 0 {
		return nil
	}
	flipped, err := s.vehicles.AllocateForDispatch(ctx, vehicleIDs, dispatchID, unitID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if flipped != int64(len(vehicleIDs)) {
		return apperrors.NewResourceUnavailable(
			"one or more vehicles are not available to the assigned unit",
			map[string]any{"requested": len(vehicleIDs), "allocated": flipped, "unit_id": unitID},
		)
	}
	return nil
}

// FreeVehicles releases every vehicle held by a dispatch.
func (s *ResourceService) FreeVehicles(ctx context.Context, dispatchID string) error {
	if err := s.vehicles.FreeByDispatch(ctx, dispatchID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// VehiclesForDispatch lists the vehicles currently assigned to a dispatch.
func (s *ResourceService) VehiclesForDispatch(ctx context.Context, dispatchID string) ([]domain.Vehicle, error) {
	vehicles, err := s.vehicles.ListByDispatch(ctx, dispatchID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return vehicles, nil
}
