package domain

// TransitionEffect captures everything a single accepted transition does
// beyond moving the dispatch record itself: the incident mirror update and
// the resource directory operation. Empty status fields mean "leave as is".
type TransitionEffect struct {
	IncidentStatus    IncidentStatus
	IncidentDispatch  IncidentDispatchStatus
	ClearIncidentRef  bool
	AllocateResources bool
	FreeResources     bool
	NoteCategory      NoteCategory
}

// transitions is the single source of truth for the dispatch state machine.
// Any from→to pair absent here is an invalid transition and must leave every
// entity unmodified.
var transitions = map[DispatchStatus]map[DispatchStatus]TransitionEffect{
	DispatchStatusPendingReview: {
		DispatchStatusApproved: {
			NoteCategory: NoteCategoryReview,
		},
		DispatchStatusModificationRequired: {
			NoteCategory: NoteCategoryReview,
		},
		DispatchStatusRejected: {
			IncidentStatus:   IncidentStatusPending,
			IncidentDispatch: DispatchQueueForDispatch,
			ClearIncidentRef: true,
			NoteCategory:     NoteCategoryReview,
		},
	},
	DispatchStatusApproved: {
		DispatchStatusDispatched: {
			IncidentStatus:    IncidentStatusProcessing,
			IncidentDispatch:  DispatchQueueDispatched,
			AllocateResources: true,
			NoteCategory:      NoteCategoryDispatched,
		},
	},
	DispatchStatusDispatched: {
		DispatchStatusEnRoute:   enRouteEffect(),
		DispatchStatusCancelled: cancelEffect(),
	},
	DispatchStatusEnRoute: {
		DispatchStatusArrived:   enRouteEffect(),
		DispatchStatusCancelled: cancelEffect(),
	},
	DispatchStatusArrived: {
		DispatchStatusCompleted: {
			IncidentStatus:   IncidentStatusResponded,
			IncidentDispatch: DispatchQueueResponded,
			FreeResources:    true,
			NoteCategory:     NoteCategoryStatusUpdate,
		},
		DispatchStatusCancelled: cancelEffect(),
	},
}

func enRouteEffect() TransitionEffect {
	return TransitionEffect{
		IncidentStatus:   IncidentStatusProcessing,
		IncidentDispatch: DispatchQueueProcessing,
		NoteCategory:     NoteCategoryStatusUpdate,
	}
}

func cancelEffect() TransitionEffect {
	return TransitionEffect{
		IncidentStatus:   IncidentStatusPending,
		IncidentDispatch: DispatchQueueForDispatch,
		ClearIncidentRef: true,
		FreeResources:    true,
		NoteCategory:     NoteCategoryStatusUpdate,
	}
}

// EffectFor returns the effect of transitioning from one status to another,
// or false when the pair is not in the table.
func (s DispatchStatus) EffectFor(to DispatchStatus) (TransitionEffect, bool) {
	effect, ok := transitions[s][to]
	return effect, ok
}

// CanTransition reports whether the from→to pair is legal.
func (s DispatchStatus) CanTransition(to DispatchStatus) bool {
	_, ok := transitions[s][to]
	return ok
}

// AdvanceTargets are the statuses reachable through the advance-status
// operation. Reaching dispatched requires unit assignment and the review
// states are only reachable through the review operation.
var AdvanceTargets = map[DispatchStatus]bool{
	DispatchStatusEnRoute:   true,
	DispatchStatusArrived:   true,
	DispatchStatusCompleted: true,
	DispatchStatusCancelled: true,
}
