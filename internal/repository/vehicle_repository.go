package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/dispatch-service/internal/domain"
)

// VehicleRepository tracks vehicle availability alongside units.
type VehicleRepository interface {
	ListByDispatch(ctx context.Context, dispatchID string) ([]domain.Vehicle, error)
	// AllocateForDispatch marks the given vehicles dispatched and returns how
	// many rows actually flipped; fewer than requested means at least one
	// vehicle was unavailable or belongs to a different unit.
	AllocateForDispatch(ctx context.Context, vehicleIDs []string, dispatchID, unitID string) (int64, error)
	FreeByDispatch(ctx context.Context, dispatchID string) error
}

type vehicleRepository struct {
	pool *pgxpool.Pool
}

// NewVehicleRepository instantiates repository.
func NewVehicleRepository(pool *pgxpool.Pool) VehicleRepository {
	return &vehicleRepository{pool: pool}
}

func (r *vehicleRepository) ListByDispatch(ctx context.Context, dispatchID string) ([]domain.Vehicle, error) {
	const query = `
        SELECT id, unit_id, name, vehicle_type, status, dispatch_id, last_updated
        FROM vehicles WHERE dispatch_id=$1 ORDER BY name`
	rows, err := querier(ctx, r.pool).Query(ctx, query, dispatchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVehicles(rows)
}

func (r *vehicleRepository) AllocateForDispatch(ctx context.Context, vehicleIDs []string, dispatchID, unitID string) (int64, error) {
	if len(vehicleIDs) == 0 {
		return 0, nil
	}
	const query = `
        UPDATE vehicles
        SET status=$1, dispatch_id=$2, last_updated=NOW()
        WHERE id = ANY($3) AND status=$4 AND unit_id=$5`
	cmd, err := querier(ctx, r.pool).Exec(ctx, query,
		domain.ResourceStatusDispatched, dispatchID, vehicleIDs, domain.ResourceStatusAvailable, unitID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *vehicleRepository) FreeByDispatch(ctx context.Context, dispatchID string) error {
	const query = `
        UPDATE vehicles
        SET status=$1, dispatch_id=NULL, last_updated=NOW()
        WHERE dispatch_id=$2`
	_, err := querier(ctx, r.pool).Exec(ctx, query, domain.ResourceStatusAvailable, dispatchID)
	return err
}

func scanVehicles(rows pgx.Rows) ([]domain.Vehicle, error) {
	var result []domain.Vehicle
	for rows.Next() {
		var vehicle domain.Vehicle
		if err := rows.Scan(
			&vehicle.ID,
			&vehicle.UnitID,
			&vehicle.Name,
			&vehicle.VehicleType,
			&vehicle.Status,
			&vehicle.DispatchID,
			&vehicle.LastUpdated,
		); err != nil {
			return nil, err
		}
		result = append(result, vehicle)
	}
	return result, rows.Err()
}
