package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lettersmith/newsletter-service/internal/domain"
	"github.com/lettersmith/newsletter-service/internal/events"
	"github.com/lettersmith/newsletter-service/internal/repository"
	"github.com/lettersmith/newsletter-service/internal/token"
)

// Mailer is the outbound email capability consumed by the workflows.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) error
}

// SubscriptionService coordinates registration and confirmation flows. The
// service holds no per-call state; the repository is the only shared mutable
// resource.
type SubscriptionService struct {
	subs       repository.SubscriptionRepository
	mailer     Mailer
	dispatcher events.Dispatcher
	logger     *zap.Logger
	baseURL    string
}

// SubscriptionDependencies encapsulates collaborator requirements.
type SubscriptionDependencies struct {
	Subscriptions repository.SubscriptionRepository
	Mailer        Mailer
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
}

// NewSubscriptionService builds the service. baseURL is the public address
// confirmation links point back to.
func NewSubscriptionService(baseURL string, deps SubscriptionDependencies) *SubscriptionService {
	return &SubscriptionService{
		subs:       deps.Subscriptions,
		mailer:     deps.Mailer,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		baseURL:    baseURL,
	}
}

// Register validates the inputs, persists a pending subscriber together with
// a fresh confirmation token in one transaction, and then emails the
// confirmation link. The email is sent strictly after commit so a slow mail
// server never holds a database transaction open. A delivery failure after
// commit leaves a pending subscriber with an undelivered token; there is no
// compensating rollback.
func (s *SubscriptionService) Register(ctx context.Context, rawName, rawEmail string) (string, error) {
	sub, err := domain.ParseNewSubscriber(rawName, rawEmail)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}

	confirmationToken := token.Generate()
	subscriberID, err := s.subs.CreatePending(ctx, sub, confirmationToken)
	if err != nil {
		return "", fmt.Errorf("%w: persist pending subscriber: %v", ErrStore, err)
	}

	s.publish(ctx, events.Event{
		ID:           uuid.NewString(),
		Type:         events.EventSubscriberRegistered,
		SubscriberID: subscriberID,
		Timestamp:    time.Now(),
		Payload: events.SubscriberRegisteredPayload{
			Email: sub.Email.String(),
			Name:  sub.Name.String(),
		},
	})

	if err := s.sendConfirmationEmail(ctx, sub.Email.String(), confirmationToken); err != nil {
		s.logger.Error("confirmation email not delivered; subscriber stays pending",
			zap.String("subscriber_id", subscriberID),
			zap.Error(err))
		return subscriberID, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return subscriberID, nil
}

// Confirm resolves the token and advances the subscriber to confirmed.
// Confirming an already-confirmed subscriber succeeds again.
func (s *SubscriptionService) Confirm(ctx context.Context, confirmationToken string) error {
	subscriberID, ok, err := s.subs.ResolveToken(ctx, confirmationToken)
	if err != nil {
		return fmt.Errorf("%w: resolve token: %v", ErrStore, err)
	}
	if !ok {
		return ErrUnknownToken
	}

	if err := s.subs.MarkConfirmed(ctx, subscriberID); err != nil {
		return fmt.Errorf("%w: mark confirmed: %v", ErrStore, err)
	}

	s.publish(ctx, events.Event{
		ID:           uuid.NewString(),
		Type:         events.EventSubscriberConfirmed,
		SubscriberID: subscriberID,
		Timestamp:    time.Now(),
		Payload:      events.SubscriberConfirmedPayload{Token: confirmationToken},
	})
	return nil
}

func (s *SubscriptionService) sendConfirmationEmail(ctx context.Context, to, confirmationToken string) error {
	link := fmt.Sprintf("%s/subscriptions/confirm?token=%s", s.baseURL, confirmationToken)
	textBody := fmt.Sprintf("Welcome to our newsletter!\nVisit %s to confirm your subscription.", link)
	htmlBody := fmt.Sprintf(
		`Welcome to our newsletter!<br/>Click <a href="%s">here</a> to confirm your subscription.`, link)
	return s.mailer.Send(ctx, to, "Confirm your subscription", htmlBody, textBody)
}

func (s *SubscriptionService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
