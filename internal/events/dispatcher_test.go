package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var got []Event
	d.Subscribe(EventEmployeeCreated, func(_ context.Context, e Event) error {
		got = append(got, e)
		return nil
	})
	d.Subscribe(EventEmployeeDeleted, func(_ context.Context, e Event) error {
		t.Fatalf("unexpected delivery of %s", e.Type)
		return nil
	})

	event := NewEvent(EventEmployeeCreated, 1, Actor{Subject: "admin@example.com"}, nil)
	require.NoError(t, d.Publish(context.Background(), event))
	require.Len(t, got, 1)
	assert.Equal(t, event.ID, got[0].ID)
	assert.Equal(t, int64(1), got[0].EmployeeID)
	assert.NotEmpty(t, got[0].ID)
	assert.False(t, got[0].Timestamp.IsZero())
}

func TestDispatcherContinuesAfterHandlerError(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("boom")
	calls := 0
	d.Subscribe(EventEmployeeUpdated, func(context.Context, Event) error {
		calls++
		return boom
	})
	d.Subscribe(EventEmployeeUpdated, func(context.Context, Event) error {
		calls++
		return nil
	})

	err := d.Publish(context.Background(), NewEvent(EventEmployeeUpdated, 2, Actor{}, nil))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), NewEvent(EventEmployeeDeleted, 3, Actor{}, nil)))
}
