package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/dispatch-service/internal/domain"
)

// DispatchFilter captures listing parameters for the review queue.
type DispatchFilter struct {
	Statuses   []domain.DispatchStatus
	IncidentID *string
	Limit      int
	Offset     int
}

// DispatchRepository encapsulates dispatch record persistence. Records are
// created by the ingestion pipeline and never deleted here.
type DispatchRepository interface {
	GetByID(ctx context.Context, id string) (*domain.DispatchRecord, error)
	List(ctx context.Context, filter DispatchFilter) ([]domain.DispatchRecord, error)
	// Update persists status, unit and vehicle assignments using the record's
	// version as an optimistic guard. ErrVersionConflict signals a lost race.
	Update(ctx context.Context, record *domain.DispatchRecord) error
}

type dispatchRepository struct {
	pool *pgxpool.Pool
}

// NewDispatchRepository instantiates repository.
func NewDispatchRepository(pool *pgxpool.Pool) DispatchRepository {
	return &dispatchRepository{pool: pool}
}

const dispatchColumns = `id, incident_id, status, unit_id, vehicle_ids, dispatched_by,
               dispatched_at, status_updated_at, version, created_at`

func (r *dispatchRepository) GetByID(ctx context.Context, id string) (*domain.DispatchRecord, error) {
	query := `SELECT ` + dispatchColumns + ` FROM dispatch_records WHERE id=$1`
	var record domain.DispatchRecord
	if err := querier(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&record.ID,
		&record.IncidentID,
		&record.Status,
		&record.UnitID,
		&record.VehicleIDs,
		&record.DispatchedBy,
		&record.DispatchedAt,
		&record.StatusUpdatedAt,
		&record.Version,
		&record.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *dispatchRepository) List(ctx context.Context, filter DispatchFilter) ([]domain.DispatchRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.IncidentID != nil {
		args = append(args, *filter.IncidentID)
		clauses = append(clauses, fmt.Sprintf("incident_id=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM dispatch_records WHERE %s ORDER BY status_updated_at DESC LIMIT %d OFFSET %d`,
		dispatchColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := querier(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDispatches(rows)
}

func (r *dispatchRepository) Update(ctx context.Context, record *domain.DispatchRecord) error {
	const query = `
        UPDATE dispatch_records
        SET status=$1, unit_id=$2, vehicle_ids=$3, dispatched_by=$4, dispatched_at=$5,
            status_updated_at=NOW(), version=version+1
        WHERE id=$6 AND version=$7
        RETURNING status_updated_at, version`
	err := querier(ctx, r.pool).QueryRow(ctx, query,
		record.Status,
		record.UnitID,
		record.VehicleIDs,
		record.DispatchedBy,
		record.DispatchedAt,
		record.ID,
		record.Version,
	).Scan(&record.StatusUpdatedAt, &record.Version)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrVersionConflict
	}
	return err
}

func scanDispatches(rows pgx.Rows) ([]domain.DispatchRecord, error) {
	var result []domain.DispatchRecord
	for rows.Next() {
		var record domain.DispatchRecord
		if err := rows.Scan(
			&record.ID,
			&record.IncidentID,
			&record.Status,
			&record.UnitID,
			&record.VehicleIDs,
			&record.DispatchedBy,
			&record.DispatchedAt,
			&record.StatusUpdatedAt,
			&record.Version,
			&record.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}
