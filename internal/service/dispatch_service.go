package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/dispatch-service/internal/domain"
	"github.com/spec-kit/dispatch-service/internal/events"
	"github.com/spec-kit/dispatch-service/internal/observability"
	"github.com/spec-kit/dispatch-service/internal/repository"
	apperrors "github.com/spec-kit/dispatch-service/pkg/util"
)

// Review decisions accepted by the command API.
const (
	DecisionApprove = "approve"
	DecisionModify  = "modify"
	DecisionReject  = "reject"
)

// maxTransitionAttempts bounds automatic retries after a lost optimistic
// race, so two colliding operators cannot live-lock each other.
const maxTransitionAttempts = 3

// DispatchService is the command API over the dispatch ledger. Every
// operation loads the record, checks the transition against the table,
// and applies the ledger write, the audit note, the incident mirror update
// and the resource operation inside one transaction.
type DispatchService struct {
	dispatches repository.DispatchRepository
	incidents  repository.IncidentRepository
	notes      repository.NoteRepository
	resources  *ResourceService
	tx         repository.TxManager
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
}

// DispatchDependencies bundles collaborators for the dispatch service.
type DispatchDependencies struct {
	DispatchRepo repository.DispatchRepository
	IncidentRepo repository.IncidentRepository
	NoteRepo     repository.NoteRepository
	Resources    *ResourceService
	TxManager    repository.TxManager
	Dispatcher   events.Dispatcher
	Metrics      *observability.Metrics
}

// NewDispatchService constructs the service.
func NewDispatchService(deps DispatchDependencies) *DispatchService {
	return &DispatchService{
		dispatches: deps.DispatchRepo,
		incidents:  deps.IncidentRepo,
		notes:      deps.NoteRepo,
		resources:  deps.Resources,
		tx:         deps.TxManager,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
	}
}

// ListFilter describes review queue listing parameters.
type ListFilter struct {
	Status   string
	Page     int
	PageSize int
}

// transitionRequest carries everything applyOnce needs for one transition.
type transitionRequest struct {
	target      domain.DispatchStatus
	noteBody    string
	unitID      string
	vehicleIDs  []string
	advanceOnly bool
}

// requireID rejects malformed ids before they reach the uuid columns, so a
// garbled id surfaces as a validation failure rather than a database error.
func requireID(field, value string) error {
	if _, err := uuid.Parse(value); err != nil {
		return apperrors.NewValidationError(
			fmt.Sprintf("malformed %s", field),
			map[string]any{field: value},
		)
	}
	return nil
}

// Review applies an approve / modify / reject decision to a dispatch in
// pending_review. Notes are mandatory: they are the only durable
// justification for the decision.
func (s *DispatchService) Review(ctx context.Context, operator, dispatchID, decision, notes string) (*domain.DispatchRecord, error) {
	if err := requireID("dispatch_id", dispatchID); err != nil {
		return nil, err
	}
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return nil, apperrors.NewValidationError("review notes are required", nil)
	}

	var target domain.DispatchStatus
	var prefix string
	switch decision {
	case DecisionApprove:
		target, prefix = domain.DispatchStatusApproved, "Approved"
	case DecisionModify:
		target, prefix = domain.DispatchStatusModificationRequired, "Modifications Required"
	case DecisionReject:
		target, prefix = domain.DispatchStatusRejected, "Rejected"
	default:
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("unknown review decision %q", decision),
			map[string]any{"decision": decision},
		)
	}

	record, oldStatus, err := s.applyTransition(ctx, operator, dispatchID, transitionRequest{
		target:   target,
		noteBody: prefix + ": " + notes,
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, operator, events.Event{
		Type:       events.EventDispatchReviewed,
		DispatchID: record.ID,
		IncidentID: record.IncidentID,
		Payload: events.DispatchReviewedPayload{
			Decision:  decision,
			OldStatus: oldStatus,
			NewStatus: record.Status,
		},
	})
	return record, nil
}

// AssignUnit moves an approved dispatch to dispatched, reserving the unit and
// the requested vehicles. Allocation happens before the ledger write; if the
// unit is not available the whole operation aborts with no state change.
func (s *DispatchService) AssignUnit(ctx context.Context, operator, dispatchID, unitID string, vehicleIDs []string, notes string) (*domain.DispatchRecord, error) {
	if err := requireID("dispatch_id", dispatchID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(unitID) == "" {
		return nil, apperrors.NewValidationError("unit_id is required", nil)
	}
	if err := requireID("unit_id", unitID); err != nil {
		return nil, err
	}
	for _, vehicleID := range vehicleIDs {
		if err := requireID("vehicle_id", vehicleID); err != nil {
			return nil, err
		}
	}

	noteBody := "Unit Assigned"
	if trimmed := strings.TrimSpace(notes); trimmed != "" {
		noteBody += ": " + trimmed
	}

	record, _, err := s.applyTransition(ctx, operator, dispatchID, transitionRequest{
		target:     domain.DispatchStatusDispatched,
		noteBody:   noteBody,
		unitID:     unitID,
		vehicleIDs: vehicleIDs,
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, operator, events.Event{
		Type:       events.EventUnitAssigned,
		DispatchID: record.ID,
		IncidentID: record.IncidentID,
		Payload: events.UnitAssignedPayload{
			UnitID:     unitID,
			VehicleIDs: vehicleIDs,
		},
	})
	return record, nil
}

// AdvanceStatus moves an active dispatch along en_route → arrived →
// completed, or cancels it. Notes are mandatory.
func (s *DispatchService) AdvanceStatus(ctx context.Context, operator, dispatchID string, status domain.DispatchStatus, notes string) (*domain.DispatchRecord, error) {
	if err := requireID("dispatch_id", dispatchID); err != nil {
		return nil, err
	}
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return nil, apperrors.NewValidationError("status update notes are required", nil)
	}
	if !status.Valid() {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("unknown dispatch status %q", status),
			map[string]any{"status": status},
		)
	}

	record, oldStatus, err := s.applyTransition(ctx, operator, dispatchID, transitionRequest{
		target:      status,
		noteBody:    fmt.Sprintf("%s - %s", status, notes),
		advanceOnly: true,
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, operator, events.Event{
		Type:       events.EventDispatchStatusChanged,
		DispatchID: record.ID,
		IncidentID: record.IncidentID,
		Payload: events.StatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: record.Status,
			Comment:   notes,
		},
	})
	return record, nil
}

// SendNotification appends a "Notification Sent" audit note to an active
// dispatch and emits the matching event. It never changes the status.
func (s *DispatchService) SendNotification(ctx context.Context, operator, dispatchID, notificationType, message string) (*domain.DispatchNote, error) {
	if err := requireID("dispatch_id", dispatchID); err != nil {
		return nil, err
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.NewValidationError("notification message is required", nil)
	}

	note := &domain.DispatchNote{
		DispatchID: dispatchID,
		Category:   domain.NoteCategoryNotification,
		Author:     operator,
		Body:       fmt.Sprintf("%s: %s", notificationType, message),
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		record, err := s.loadDispatch(ctx, dispatchID)
		if err != nil {
			return err
		}
		if record.Status.Terminal() {
			return apperrors.NewDomainError(
				apperrors.CodeInvalidTransition,
				fmt.Sprintf("dispatch is %s and accepts no further notes", record.Status),
				http.StatusConflict,
				map[string]any{"status": record.Status},
			)
		}
		return apperrors.MapError(s.notes.Append(ctx, note))
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, operator, events.Event{
		Type:       events.EventNotificationSent,
		DispatchID: dispatchID,
		Payload: events.NotificationSentPayload{
			NotificationType: notificationType,
			Message:          message,
		},
	})
	return note, nil
}

// DispatchDetail aggregates a record with its incident context, the vehicles
// it currently holds and the full audit log.
type DispatchDetail struct {
	Record   *domain.DispatchRecord
	Incident *domain.Incident
	Vehicles []domain.Vehicle
	Notes    []domain.DispatchNote
}

// GetDispatch returns a record, its linked incident, held vehicles and the
// audit log.
func (s *DispatchService) GetDispatch(ctx context.Context, dispatchID string) (*DispatchDetail, error) {
	if err := requireID("dispatch_id", dispatchID); err != nil {
		return nil, err
	}
	record, err := s.loadDispatch(ctx, dispatchID)
	if err != nil {
		return nil, err
	}
	incident, err := s.incidents.GetByID(ctx, record.IncidentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("incident", map[string]any{"incident_id": record.IncidentID})
		}
		return nil, apperrors.MapError(err)
	}
	vehicles, err := s.resources.VehiclesForDispatch(ctx, dispatchID)
	if err != nil {
		return nil, err
	}
	notes, err := s.notes.ListByDispatch(ctx, dispatchID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &DispatchDetail{Record: record, Incident: incident, Vehicles: vehicles, Notes: notes}, nil
}

// ListDispatches returns the review queue, optionally filtered by status.
func (s *DispatchService) ListDispatches(ctx context.Context, filter ListFilter) ([]domain.DispatchRecord, error) {
	repoFilter := repository.DispatchFilter{}
	if filter.Status != "" {
		status := domain.DispatchStatus(filter.Status)
		if !status.Valid() {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("unknown dispatch status %q", filter.Status),
				map[string]any{"status": filter.Status},
			)
		}
		repoFilter.Statuses = []domain.DispatchStatus{status}
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	repoFilter.Limit = pageSize
	repoFilter.Offset = (page - 1) * pageSize

	records, err := s.dispatches.List(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return records, nil
}

// applyTransition runs one transition with bounded retries on lost
// optimistic races; each retry starts over against freshly loaded state.
func (s *DispatchService) applyTransition(ctx context.Context, operator, dispatchID string, req transitionRequest) (*domain.DispatchRecord, domain.DispatchStatus, error) {
	var record *domain.DispatchRecord
	var oldStatus domain.DispatchStatus
	var err error
	for attempt := 1; ; attempt++ {
		record, oldStatus, err = s.applyOnce(ctx, operator, dispatchID, req)
		if err == nil || !apperrors.IsCode(err, apperrors.CodeConcurrentModification) || attempt == maxTransitionAttempts {
			return record, oldStatus, err
		}
	}
}

// applyOnce performs a single transition attempt as one atomic unit of work.
func (s *DispatchService) applyOnce(ctx context.Context, operator, dispatchID string, req transitionRequest) (*domain.DispatchRecord, domain.DispatchStatus, error) {
	var updated *domain.DispatchRecord
	var oldStatus domain.DispatchStatus

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		record, err := s.loadDispatch(ctx, dispatchID)
		if err != nil {
			return err
		}
		oldStatus = record.Status

		if req.advanceOnly && !domain.AdvanceTargets[req.target] {
			return apperrors.NewInvalidTransition(string(record.Status), string(req.target))
		}
		effect, ok := record.Status.EffectFor(req.target)
		if !ok {
			return apperrors.NewInvalidTransition(string(record.Status), string(req.target))
		}

		if effect.AllocateResources {
			if err := s.resources.AllocateUnit(ctx, req.unitID, record.ID); err != nil {
				return err
			}
			if err := s.resources.AllocateVehicles(ctx, req.vehicleIDs, record.ID, req.unitID); err != nil {
				return err
			}
			now := time.Now()
			record.UnitID = &req.unitID
			record.VehicleIDs = req.vehicleIDs
			record.DispatchedBy = operator
			record.DispatchedAt = &now
		}
		if effect.FreeResources {
			if err := s.releaseResources(ctx, record); err != nil {
				return err
			}
		}

		record.Status = req.target
		if err := s.dispatches.Update(ctx, record); err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				return apperrors.NewConcurrentModification("dispatch")
			}
			return apperrors.MapError(err)
		}

		note := &domain.DispatchNote{
			DispatchID: record.ID,
			Category:   effect.NoteCategory,
			Author:     operator,
			Body:       req.noteBody,
		}
		if err := s.notes.Append(ctx, note); err != nil {
			return apperrors.MapError(err)
		}

		if err := s.syncIncident(ctx, record.IncidentID, effect); err != nil {
			return err
		}

		updated = record
		return nil
	})
	if err != nil {
		return nil, oldStatus, err
	}
	s.metrics.RecordTransition(string(oldStatus), string(updated.Status))
	return updated, oldStatus, nil
}

func (s *DispatchService) loadDispatch(ctx context.Context, dispatchID string) (*domain.DispatchRecord, error) {
	record, err := s.dispatches.GetByID(ctx, dispatchID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("dispatch", map[string]any{"dispatch_id": dispatchID})
		}
		return nil, apperrors.MapError(err)
	}
	return record, nil
}

func (s *DispatchService) publish(ctx context.Context, operator string, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Actor = events.Actor{OperatorID: operator}
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
