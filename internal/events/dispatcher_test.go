package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDispatcher_DeliversToSubscribersOfType(t *testing.T) {
	d := NewInMemoryDispatcher()
	var got []EventType
	d.Subscribe(EventApplicationCreated, func(_ context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})
	d.Subscribe(EventApplicationDeleted, func(_ context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventApplicationCreated}))
	require.NoError(t, d.Publish(context.Background(), Event{Type: EventApplicationUpdated}))
	require.Equal(t, []EventType{EventApplicationCreated}, got)
}

func TestDispatcher_RunsAllHandlersAndJoinsErrors(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("boom")
	calls := 0
	d.Subscribe(EventPasswordResetRequested, func(context.Context, Event) error {
		calls++
		return boom
	})
	d.Subscribe(EventPasswordResetRequested, func(context.Context, Event) error {
		calls++
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventPasswordResetRequested})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 2, calls)
}
