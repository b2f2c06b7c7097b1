package events

import (
	"time"

	"github.com/spec-kit/dispatch-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventDispatchReviewed      EventType = "dispatch_reviewed"
	EventUnitAssigned          EventType = "unit_assigned"
	EventDispatchStatusChanged EventType = "dispatch_status_changed"
	EventNotificationSent      EventType = "notification_sent"
)

// Actor identifies the operator behind an event.
type Actor struct {
	OperatorID string `json:"operator_id"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	DispatchID string    `json:"dispatch_id"`
	IncidentID string    `json:"incident_id,omitempty"`
	Actor      Actor     `json:"actor"`
	Timestamp  time.Time `json:"timestamp"`
	Payload    any       `json:"payload"`
}

// DispatchReviewedPayload payload.
type DispatchReviewedPayload struct {
	Decision  string                `json:"decision"`
	OldStatus domain.DispatchStatus `json:"old_status"`
	NewStatus domain.DispatchStatus `json:"new_status"`
}

// UnitAssignedPayload payload.
type UnitAssignedPayload struct {
	UnitID     string   `json:"unit_id"`
	VehicleIDs []string `json:"vehicle_ids,omitempty"`
}

// StatusChangedPayload payload.
type StatusChangedPayload struct {
	OldStatus domain.DispatchStatus `json:"old_status"`
	NewStatus domain.DispatchStatus `json:"new_status"`
	Comment   string                `json:"comment,omitempty"`
}

// NotificationSentPayload payload.
type NotificationSentPayload struct {
	NotificationType string `json:"notification_type"`
	Message          string `json:"message"`
}
