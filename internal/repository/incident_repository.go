package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/dispatch-service/internal/domain"
)

// IncidentRepository reads and updates the incident mirror. Incidents are
// owned by the ingestion pipeline; only the status fields and the active
// dispatch back-reference are writable here.
type IncidentRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Incident, error)
	// ApplyDispatchOutcome writes the incident-side effect of a dispatch
	// transition. Empty status values leave the corresponding column alone.
	ApplyDispatchOutcome(ctx context.Context, id string, status domain.IncidentStatus, dispatchStatus domain.IncidentDispatchStatus, clearDispatchRef bool) error
}

type incidentRepository struct {
	pool *pgxpool.Pool
}

// NewIncidentRepository instantiates repository.
func NewIncidentRepository(pool *pgxpool.Pool) IncidentRepository {
	return &incidentRepository{pool: pool}
}

func (r *incidentRepository) GetByID(ctx context.Context, id string) (*domain.Incident, error) {
	const query = `
        SELECT id, title, emergency_type, severity, location, description,
               caller_name, caller_phone, status, dispatch_status, dispatch_id,
               created_at, updated_at
        FROM incidents WHERE id=$1`
	var incident domain.Incident
	if err := querier(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&incident.ID,
		&incident.Title,
		&incident.EmergencyType,
		&incident.Severity,
		&incident.Location,
		&incident.Description,
		&incident.CallerName,
		&incident.CallerPhone,
		&incident.Status,
		&incident.DispatchState,
		&incident.DispatchID,
		&incident.CreatedAt,
		&incident.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &incident, nil
}

func (r *incidentRepository) ApplyDispatchOutcome(ctx context.Context, id string, status domain.IncidentStatus, dispatchStatus domain.IncidentDispatchStatus, clearDispatchRef bool) error {
	const query = `
        UPDATE incidents
        SET status = COALESCE(NULLIF($1, ''), status),
            dispatch_status = COALESCE(NULLIF($2, ''), dispatch_status),
            dispatch_id = CASE WHEN $3 THEN NULL ELSE dispatch_id END,
            updated_at = NOW()
        WHERE id=$4`
	cmd, err := querier(ctx, r.pool).Exec(ctx, query, string(status), string(dispatchStatus), clearDispatchRef, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
