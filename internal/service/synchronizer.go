package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/dispatch-service/internal/domain"
	apperrors "github.com/spec-kit/dispatch-service/pkg/util"
)

// The synchronizer half of the dispatch service: given the effect of an
// accepted ledger transition, it applies the incident mirror update and the
// resource release inside the surrounding transaction. Incident fields are
// derived from the transition table and nowhere else.

func (s *DispatchService) syncIncident(ctx context.Context, incidentID string, effect domain.TransitionEffect) error {
	if effect.IncidentStatus == "" && effect.IncidentDispatch == "" && !effect.ClearIncidentRef {
		return nil
	}
	err := s.incidents.ApplyDispatchOutcome(ctx, incidentID, effect.IncidentStatus, effect.IncidentDispatch, effect.ClearIncidentRef)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("incident", map[string]any{"incident_id": incidentID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *DispatchService) releaseResources(ctx context.Context, record *domain.DispatchRecord) error {
	if record.UnitID != nil {
		if err := s.resources.FreeUnit(ctx, *record.UnitID); err != nil {
			return err
		}
	}
	return s.resources.FreeVehicles(ctx, record.ID)
}
