package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherInvokesSubscribedHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []Event
	d.Subscribe(EventSubscriberConfirmed, func(_ context.Context, e Event) error {
		got = append(got, e)
		return nil
	})

	event := Event{ID: "e-1", Type: EventSubscriberConfirmed, SubscriberID: "s-1", Timestamp: time.Now()}
	require.NoError(t, d.Publish(context.Background(), event))

	require.Len(t, got, 1)
	assert.Equal(t, "s-1", got[0].SubscriberID)
}

func TestDispatcherIgnoresOtherEventTypes(t *testing.T) {
	d := NewInMemoryDispatcher()

	called := false
	d.Subscribe(EventNewsletterPublished, func(context.Context, Event) error {
		called = true
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventSubscriberRegistered}))
	assert.False(t, called)
}

func TestDispatcherContinuesPastHandlerErrors(t *testing.T) {
	d := NewInMemoryDispatcher()

	var secondCalled bool
	d.Subscribe(EventSubscriberRegistered, func(context.Context, Event) error {
		return errors.New("handler broke")
	})
	d.Subscribe(EventSubscriberRegistered, func(context.Context, Event) error {
		secondCalled = true
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventSubscriberRegistered}))
	assert.True(t, secondCalled)
}
