package domain

import "time"

// ResourceStatus is shared by units and vehicles.
type ResourceStatus string

const (
	ResourceStatusAvailable  ResourceStatus = "available"
	ResourceStatusDispatched ResourceStatus = "dispatched"
)

// Unit is a deployable response team. A unit serves at most one active
// dispatch at a time: CurrentDispatchID is non-nil iff CurrentStatus is
// dispatched.
type Unit struct {
	ID                string
	Name              string
	UnitType          string
	Capacity          int
	CurrentCount      int
	CurrentStatus     ResourceStatus
	CurrentDispatchID *string
	LastStatusChange  time.Time
}

// Vehicle is physical apparatus attached to a unit. While assigned to a
// dispatch it inherits the dispatched status.
type Vehicle struct {
	ID          string
	UnitID      string
	Name        string
	VehicleType string
	Status      ResourceStatus
	DispatchID  *string
	LastUpdated time.Time
}
