package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/lettersmith/newsletter-service/internal/config"
	"github.com/lettersmith/newsletter-service/internal/events"
)

const webhookQueueSize = 64

// WebhookNotification is one lifecycle event queued for webhook delivery.
type WebhookNotification struct {
	URL   string
	Event events.Event
}

// NotificationService emits operational notifications for lifecycle events.
// It observes; it never participates in the workflows themselves. Webhook
// deliveries are queued here and performed by the notification worker so a
// slow endpoint never stalls an event handler.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	webhooks   chan WebhookNotification
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		webhooks:   make(chan WebhookNotification, webhookQueueSize),
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventSubscriberRegistered, n.handleSubscriberRegistered)
	n.dispatcher.Subscribe(events.EventSubscriberConfirmed, n.handleSubscriberConfirmed)
	n.dispatcher.Subscribe(events.EventNewsletterPublished, n.handleNewsletterPublished)
}

// Webhooks exposes the delivery queue consumed by the notification worker.
func (n *NotificationService) Webhooks() <-chan WebhookNotification {
	return n.webhooks
}

func (n *NotificationService) handleSubscriberRegistered(_ context.Context, event events.Event) error {
	n.logger.Info("SubscriberRegistered", zap.String("subscriber_id", event.SubscriberID))
	n.enqueueWebhook(event)
	return nil
}

func (n *NotificationService) handleSubscriberConfirmed(_ context.Context, event events.Event) error {
	n.logger.Info("SubscriberConfirmed", zap.String("subscriber_id", event.SubscriberID))
	n.enqueueWebhook(event)
	return nil
}

func (n *NotificationService) handleNewsletterPublished(_ context.Context, event events.Event) error {
	n.logger.Info("NewsletterPublished", zap.Any("payload", event.Payload))
	n.enqueueWebhook(event)
	return nil
}

func (n *NotificationService) enqueueWebhook(event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	select {
	case n.webhooks <- WebhookNotification{URL: n.cfg.WebhookURL, Event: event}:
	default:
		n.logger.Warn("webhook queue full; dropping notification",
			zap.String("event_type", string(event.Type)))
	}
}
