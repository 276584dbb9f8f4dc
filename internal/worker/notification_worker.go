package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/lettersmith/newsletter-service/internal/service"
)

const webhookTimeout = 5 * time.Second

// StartNotificationWorker subscribes the notification service to lifecycle
// events and drains its webhook queue in the background until ctx is done.
func StartNotificationWorker(ctx context.Context, notifications *service.NotificationService, logger *zap.Logger) {
	if notifications == nil {
		return
	}
	notifications.RegisterHandlers()

	client := &http.Client{Timeout: webhookTimeout}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case notification := <-notifications.Webhooks():
				deliverWebhook(ctx, client, notification, logger)
			}
		}
	}()
}

func deliverWebhook(ctx context.Context, client *http.Client, notification service.WebhookNotification, logger *zap.Logger) {
	body, err := json.Marshal(notification.Event)
	if err != nil {
		logger.Warn("failed to encode webhook payload", zap.Error(err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, notification.URL, bytes.NewReader(body))
	if err != nil {
		logger.Warn("failed to build webhook request", zap.String("url", notification.URL), zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		logger.Warn("webhook delivery failed", zap.String("url", notification.URL), zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		logger.Warn("webhook endpoint rejected notification",
			zap.String("url", notification.URL),
			zap.Int("status", resp.StatusCode))
	}
}
