package domain

import "time"

// DispatchStatus enumerates lifecycle states for a dispatch record.
type DispatchStatus string

const (
	DispatchStatusPendingReview        DispatchStatus = "pending_review"
	DispatchStatusApproved             DispatchStatus = "approved"
	DispatchStatusModificationRequired DispatchStatus = "modification_required"
	DispatchStatusRejected             DispatchStatus = "rejected"
	DispatchStatusDispatched           DispatchStatus = "dispatched"
	DispatchStatusEnRoute              DispatchStatus = "en_route"
	DispatchStatusArrived              DispatchStatus = "arrived"
	DispatchStatusCompleted            DispatchStatus = "completed"
	DispatchStatusCancelled            DispatchStatus = "cancelled"
)

// Valid reports whether s is a known dispatch status.
func (s DispatchStatus) Valid() bool {
	switch s {
	case DispatchStatusPendingReview, DispatchStatusApproved, DispatchStatusModificationRequired,
		DispatchStatusRejected, DispatchStatusDispatched, DispatchStatusEnRoute,
		DispatchStatusArrived, DispatchStatusCompleted, DispatchStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether a record in this state accepts no further writes.
func (s DispatchStatus) Terminal() bool {
	switch s {
	case DispatchStatusRejected, DispatchStatusCompleted, DispatchStatusCancelled:
		return true
	}
	return false
}

// Active reports whether the dispatch currently holds a unit in the field.
func (s DispatchStatus) Active() bool {
	switch s {
	case DispatchStatusDispatched, DispatchStatusEnRoute, DispatchStatusArrived:
		return true
	}
	return false
}

// DispatchRecord is the aggregate driving a call-for-service response. It is
// created by the ingestion pipeline in pending_review and afterwards mutated
// only through the command API; every change is a status transition plus an
// appended audit note. Version backs the optimistic concurrency check.
type DispatchRecord struct {
	ID              string
	IncidentID      string
	Status          DispatchStatus
	UnitID          *string
	VehicleIDs      []string
	DispatchedBy    string
	DispatchedAt    *time.Time
	StatusUpdatedAt time.Time
	Version         int64
	CreatedAt       time.Time
}
