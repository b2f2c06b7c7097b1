package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/dispatch-service/internal/domain"
)

// UnitRepository owns unit allocation state.
type UnitRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Unit, error)
	ListAvailable(ctx context.Context, unitType string) ([]domain.Unit, error)
	// Allocate flips an available unit to dispatched in a single
	// compare-and-set. It returns false when the unit was not available at
	// that moment, so only one concurrent caller can win a given unit.
	Allocate(ctx context.Context, unitID, dispatchID string) (bool, error)
	Free(ctx context.Context, unitID string) error
}

type unitRepository struct {
	pool *pgxpool.Pool
}

// NewUnitRepository instantiates repository.
func NewUnitRepository(pool *pgxpool.Pool) UnitRepository {
	return &unitRepository{pool: pool}
}

const unitColumns = `id, name, unit_type, capacity, current_count, current_status,
               current_dispatch_id, last_status_change`

func (r *unitRepository) GetByID(ctx context.Context, id string) (*domain.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units WHERE id=$1`
	var unit domain.Unit
	if err := querier(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&unit.ID,
		&unit.Name,
		&unit.UnitType,
		&unit.Capacity,
		&unit.CurrentCount,
		&unit.CurrentStatus,
		&unit.CurrentDispatchID,
		&unit.LastStatusChange,
	); err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *unitRepository) ListAvailable(ctx context.Context, unitType string) ([]domain.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units WHERE current_status=$1`
	args := []any{domain.ResourceStatusAvailable}
	if unitType != "" {
		query += ` AND unit_type=$2`
		args = append(args, unitType)
	}
	query += ` ORDER BY unit_type, name`

	rows, err := querier(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Unit
	for rows.Next() {
		var unit domain.Unit
		if err := rows.Scan(
			&unit.ID,
			&unit.Name,
			&unit.UnitType,
			&unit.Capacity,
			&unit.CurrentCount,
			&unit.CurrentStatus,
			&unit.CurrentDispatchID,
			&unit.LastStatusChange,
		); err != nil {
			return nil, err
		}
		result = append(result, unit)
	}
	return result, rows.Err()
}

func (r *unitRepository) Allocate(ctx context.Context, unitID, dispatchID string) (bool, error) {
	const query = `
        UPDATE units
        SET current_status=$1, current_dispatch_id=$2, last_status_change=NOW()
        WHERE id=$3 AND current_status=$4`
	cmd, err := querier(ctx, r.pool).Exec(ctx, query,
		domain.ResourceStatusDispatched, dispatchID, unitID, domain.ResourceStatusAvailable)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *unitRepository) Free(ctx context.Context, unitID string) error {
	const query = `
        UPDATE units
        SET current_status=$1, current_dispatch_id=NULL, last_status_change=NOW()
        WHERE id=$2`
	cmd, err := querier(ctx, r.pool).Exec(ctx, query, domain.ResourceStatusAvailable, unitID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
