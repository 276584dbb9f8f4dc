package worker

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lettersmith/newsletter-service/internal/config"
	"github.com/lettersmith/newsletter-service/internal/events"
	"github.com/lettersmith/newsletter-service/internal/service"
)

func TestNotificationWorkerDeliversWebhook(t *testing.T) {
	received := make(chan []byte, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		received <- body
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatcher := events.NewInMemoryDispatcher()
	notifications := service.NewNotificationService(dispatcher, zap.NewNop(), config.NotificationConfig{
		WebhookURL: server.URL,
	})
	StartNotificationWorker(ctx, notifications, zap.NewNop())

	err := dispatcher.Publish(ctx, events.Event{
		ID:           "event-1",
		Type:         events.EventSubscriberConfirmed,
		SubscriberID: "subscriber-1",
		Timestamp:    time.Now(),
	})
	require.NoError(t, err)

	select {
	case body := <-received:
		var delivered events.Event
		require.NoError(t, json.Unmarshal(body, &delivered))
		assert.Equal(t, events.EventSubscriberConfirmed, delivered.Type)
		assert.Equal(t, "subscriber-1", delivered.SubscriberID)
	case <-time.After(2 * time.Second):
		t.Fatal("webhook was not delivered")
	}
}

func TestNotificationWorkerSkipsWithoutWebhookURL(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatcher := events.NewInMemoryDispatcher()
	notifications := service.NewNotificationService(dispatcher, zap.NewNop(), config.NotificationConfig{})
	StartNotificationWorker(ctx, notifications, zap.NewNop())

	err := dispatcher.Publish(ctx, events.Event{
		ID:   "event-1",
		Type: events.EventSubscriberRegistered,
	})
	require.NoError(t, err)

	select {
	case <-notifications.Webhooks():
		t.Fatal("no webhook should be queued without a configured URL")
	case <-time.After(50 * time.Millisecond):
	}
}
