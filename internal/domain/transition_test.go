package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewTransitions(t *testing.T) {
	effect, ok := DispatchStatusPendingReview.EffectFor(DispatchStatusApproved)
	require.True(t, ok)
	assert.Empty(t, effect.IncidentStatus)
	assert.Empty(t, effect.IncidentDispatch)
	assert.False(t, effect.ClearIncidentRef)
	assert.Equal(t, NoteCategoryReview, effect.NoteCategory)

	effect, ok = DispatchStatusPendingReview.EffectFor(DispatchStatusRejected)
	require.True(t, ok)
	assert.Equal(t, IncidentStatusPending, effect.IncidentStatus)
	assert.Equal(t, DispatchQueueForDispatch, effect.IncidentDispatch)
	assert.True(t, effect.ClearIncidentRef)
	assert.False(t, effect.FreeResources)
}

func TestAssignTransitionAllocates(t *testing.T) {
	effect, ok := DispatchStatusApproved.EffectFor(DispatchStatusDispatched)
	require.True(t, ok)
	assert.True(t, effect.AllocateResources)
	assert.Equal(t, IncidentStatusProcessing, effect.IncidentStatus)
	assert.Equal(t, DispatchQueueDispatched, effect.IncidentDispatch)
	assert.Equal(t, NoteCategoryDispatched, effect.NoteCategory)
}

func TestCompletionFreesResources(t *testing.T) {
	effect, ok := DispatchStatusArrived.EffectFor(DispatchStatusCompleted)
	require.True(t, ok)
	assert.True(t, effect.FreeResources)
	assert.False(t, effect.ClearIncidentRef)
	assert.Equal(t, IncidentStatusResponded, effect.IncidentStatus)
	assert.Equal(t, DispatchQueueResponded, effect.IncidentDispatch)
}

func TestCancellationFromEveryActiveState(t *testing.T) {
	for _, from := range []DispatchStatus{DispatchStatusDispatched, DispatchStatusEnRoute, DispatchStatusArrived} {
		effect, ok := from.EffectFor(DispatchStatusCancelled)
		require.True(t, ok, "cancel from %s", from)
		assert.True(t, effect.FreeResources)
		assert.True(t, effect.ClearIncidentRef)
		assert.Equal(t, IncidentStatusPending, effect.IncidentStatus)
		assert.Equal(t, DispatchQueueForDispatch, effect.IncidentDispatch)
	}
}

func TestTerminalStatesHaveNoOutgoingTransitions(t *testing.T) {
	all := []DispatchStatus{
		DispatchStatusPendingReview, DispatchStatusApproved, DispatchStatusModificationRequired,
		DispatchStatusRejected, DispatchStatusDispatched, DispatchStatusEnRoute,
		DispatchStatusArrived, DispatchStatusCompleted, DispatchStatusCancelled,
	}
	for _, from := range []DispatchStatus{DispatchStatusRejected, DispatchStatusCompleted, DispatchStatusCancelled} {
		require.True(t, from.Terminal())
		for _, to := range all {
			assert.False(t, from.CanTransition(to), "%s -> %s must be illegal", from, to)
		}
	}
}

func TestIllegalJumps(t *testing.T) {
	assert.False(t, DispatchStatusPendingReview.CanTransition(DispatchStatusDispatched))
	assert.False(t, DispatchStatusApproved.CanTransition(DispatchStatusEnRoute))
	assert.False(t, DispatchStatusDispatched.CanTransition(DispatchStatusCompleted))
	assert.False(t, DispatchStatusEnRoute.CanTransition(DispatchStatusDispatched))
	assert.False(t, DispatchStatusModificationRequired.CanTransition(DispatchStatusApproved))
}

func TestAdvanceTargets(t *testing.T) {
	assert.True(t, AdvanceTargets[DispatchStatusEnRoute])
	assert.True(t, AdvanceTargets[DispatchStatusCancelled])
	assert.False(t, AdvanceTargets[DispatchStatusDispatched])
	assert.False(t, AdvanceTargets[DispatchStatusApproved])
}

func TestStatusHelpers(t *testing.T) {
	assert.True(t, DispatchStatusEnRoute.Valid())
	assert.False(t, DispatchStatus("warp_speed").Valid())
	assert.True(t, DispatchStatusArrived.Active())
	assert.False(t, DispatchStatusCompleted.Active())
}

func TestNoteLine(t *testing.T) {
	note := DispatchNote{Category: NoteCategoryReview, Body: "Approved: looks good"}
	assert.Equal(t, "[Admin Review] Approved: looks good", note.Line())
}
