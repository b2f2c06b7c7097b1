package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var got []Event
	dispatcher.Subscribe(EventUnitAssigned, func(_ context.Context, event Event) error {
		got = append(got, event)
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventUnitAssigned, DispatchID: "disp-1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "disp-1", got[0].DispatchID)

	// Unsubscribed types are dropped silently.
	err = dispatcher.Publish(context.Background(), Event{Type: EventDispatchReviewed})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestDispatcherHandlerErrorDoesNotStopDelivery(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var delivered int
	dispatcher.Subscribe(EventNotificationSent, func(context.Context, Event) error {
		return errors.New("boom")
	})
	dispatcher.Subscribe(EventNotificationSent, func(context.Context, Event) error {
		delivered++
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventNotificationSent})
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)
}
