package domain

import "time"

// IncidentStatus is the externally visible state of an incident.
type IncidentStatus string

const (
	IncidentStatusPending    IncidentStatus = "pending"
	IncidentStatusProcessing IncidentStatus = "processing"
	IncidentStatusResponded  IncidentStatus = "responded"
)

// IncidentDispatchStatus tracks where an incident sits in the dispatch queue.
type IncidentDispatchStatus string

const (
	DispatchQueueForDispatch IncidentDispatchStatus = "for_dispatch"
	DispatchQueueDispatched  IncidentDispatchStatus = "dispatched"
	DispatchQueueProcessing  IncidentDispatchStatus = "processing"
	DispatchQueueResponded   IncidentDispatchStatus = "responded"
)

// IncidentSeverity grades the reported emergency.
type IncidentSeverity string

const (
	SeverityLow      IncidentSeverity = "low"
	SeverityMedium   IncidentSeverity = "medium"
	SeverityHigh     IncidentSeverity = "high"
	SeverityCritical IncidentSeverity = "critical"
)

// Incident mirrors the record created by the ingestion pipeline. This service
// never creates or deletes incidents; it only keeps the status fields and the
// active dispatch back-reference in step with the dispatch ledger.
type Incident struct {
	ID            string
	Title         string
	EmergencyType string
	Severity      IncidentSeverity
	Location      string
	Description   string
	CallerName    string
	CallerPhone   string
	Status        IncidentStatus
	DispatchState IncidentDispatchStatus
	DispatchID    *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
