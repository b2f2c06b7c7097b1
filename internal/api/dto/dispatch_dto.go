package dto

import (
	"time"

	"github.com/spec-kit/dispatch-service/internal/domain"
)

// ReviewRequest carries a review decision for a pending dispatch.
type ReviewRequest struct {
	Action string `json:"action"`
	Notes  string `json:"notes"`
}

// AssignRequest reserves a unit (and optionally vehicles) for a dispatch.
type AssignRequest struct {
	UnitID     string   `json:"unit_id"`
	VehicleIDs []string `json:"vehicle_ids"`
	Notes      string   `json:"notes"`
}

// StatusRequest advances an active dispatch.
type StatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// NotifyRequest records an out-of-band notification on a dispatch.
type NotifyRequest struct {
	NotificationType string `json:"notification_type"`
	Message          string `json:"message"`
}

// NoteResponse is one audit log entry.
type NoteResponse struct {
	ID        string    `json:"id"`
	Category  string    `json:"category"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	Line      string    `json:"line"`
	CreatedAt time.Time `json:"created_at"`
}

// DispatchSummary is the list-view projection of a dispatch record.
type DispatchSummary struct {
	ID              string                `json:"id"`
	IncidentID      string                `json:"incident_id"`
	Status          domain.DispatchStatus `json:"status"`
	UnitID          *string               `json:"unit_id,omitempty"`
	VehicleIDs      []string              `json:"vehicle_ids,omitempty"`
	DispatchedBy    string                `json:"dispatched_by,omitempty"`
	DispatchedAt    *time.Time            `json:"dispatched_at,omitempty"`
	StatusUpdatedAt time.Time             `json:"status_updated_at"`
	CreatedAt       time.Time             `json:"created_at"`
}

// IncidentSummary is the incident context shown alongside a dispatch.
type IncidentSummary struct {
	ID            string                        `json:"id"`
	Title         string                        `json:"title"`
	EmergencyType string                        `json:"emergency_type"`
	Severity      domain.IncidentSeverity       `json:"severity"`
	Location      string                        `json:"location"`
	Status        domain.IncidentStatus         `json:"status"`
	DispatchState domain.IncidentDispatchStatus `json:"dispatch_status"`
}

// VehicleResponse describes apparatus held by a dispatch.
type VehicleResponse struct {
	ID          string                `json:"id"`
	UnitID      string                `json:"unit_id"`
	Name        string                `json:"name"`
	VehicleType string                `json:"vehicle_type"`
	Status      domain.ResourceStatus `json:"status"`
}

// DispatchDetailResponse includes the incident context, held vehicles and the
// full audit log.
type DispatchDetailResponse struct {
	DispatchSummary
	Incident IncidentSummary   `json:"incident"`
	Vehicles []VehicleResponse `json:"vehicles"`
	Notes    []NoteResponse    `json:"notes"`
}

// UnitResponse describes a response unit.
type UnitResponse struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	UnitType      string                `json:"unit_type"`
	Capacity      int                   `json:"capacity"`
	CurrentCount  int                   `json:"current_count"`
	CurrentStatus domain.ResourceStatus `json:"current_status"`
}
