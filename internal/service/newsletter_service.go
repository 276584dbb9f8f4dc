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
)

// IdempotencyStore records publish idempotency keys.
type IdempotencyStore interface {
	// MarkOnce records the key and reports whether this call was the first
	// to do so.
	MarkOnce(ctx context.Context, key string) (bool, error)
	// Forget removes a previously marked key.
	Forget(ctx context.Context, key string) error
}

const idempotencyKeyPrefix = "newsletter:publish:"

// PublishResult summarizes one publish call.
type PublishResult struct {
	Sent      int
	Skipped   int
	Duplicate bool
}

// NewsletterService fans an issue out to every confirmed subscriber.
type NewsletterService struct {
	subs        repository.SubscriptionRepository
	gate        CredentialGate
	mailer      Mailer
	idempotency IdempotencyStore
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// NewsletterDependencies encapsulates collaborator requirements.
type NewsletterDependencies struct {
	Subscriptions repository.SubscriptionRepository
	Gate          CredentialGate
	Mailer        Mailer
	Idempotency   IdempotencyStore
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
}

// NewNewsletterService builds the service. Idempotency may be nil, in which
// case every request dispatches.
func NewNewsletterService(deps NewsletterDependencies) *NewsletterService {
	return &NewsletterService{
		subs:        deps.Subscriptions,
		gate:        deps.Gate,
		mailer:      deps.Mailer,
		idempotency: deps.Idempotency,
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger,
	}
}

// Publish authenticates the operator and sends the issue to all confirmed
// subscribers in store order. A stored email that no longer validates is
// skipped with a warning; a transport failure aborts the remaining batch.
// The asymmetry is deliberate: one corrupt row must not block every other
// subscriber, while operational failures must surface loudly.
func (s *NewsletterService) Publish(ctx context.Context, authorizationHeader, idempotencyKey, title, htmlBody, textBody string) (PublishResult, error) {
	operatorID, err := s.gate.Authenticate(ctx, authorizationHeader)
	if err != nil {
		return PublishResult{}, err
	}

	claimed, duplicate := s.claimIdempotencyKey(ctx, idempotencyKey)
	if duplicate {
		s.logger.Info("skipping duplicate publish request",
			zap.String("operator_id", operatorID),
			zap.String("idempotency_key", idempotencyKey))
		return PublishResult{Duplicate: true}, nil
	}

	emails, err := s.subs.ListConfirmedEmails(ctx)
	if err != nil {
		s.releaseIdempotencyKey(ctx, idempotencyKey, claimed)
		return PublishResult{}, fmt.Errorf("%w: list confirmed subscribers: %v", ErrStore, err)
	}

	var result PublishResult
	for _, stored := range emails {
		recipient, err := domain.NewSubscriberEmail(stored)
		if err != nil {
			// written by an earlier, looser code path; skip the row
			s.logger.Warn("skipping confirmed subscriber with invalid stored email",
				zap.String("email", stored),
				zap.Error(err))
			result.Skipped++
			continue
		}
		if err := s.mailer.Send(ctx, recipient.String(), title, htmlBody, textBody); err != nil {
			// the key must not survive a failed dispatch or the retry
			// would be swallowed as a duplicate
			s.releaseIdempotencyKey(ctx, idempotencyKey, claimed)
			return result, fmt.Errorf("%w: send newsletter to %s: %v", ErrTransport, recipient.String(), err)
		}
		result.Sent++
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventNewsletterPublished,
			Timestamp: time.Now(),
			Payload: events.NewsletterPublishedPayload{
				Title:   title,
				Sent:    result.Sent,
				Skipped: result.Skipped,
			},
		})
	}
	return result, nil
}

// claimIdempotencyKey marks the key, failing open: if the store is
// unavailable the publish proceeds rather than blocking the operator.
// claimed reports whether this call took ownership of the key and must give
// it back should the dispatch fail.
func (s *NewsletterService) claimIdempotencyKey(ctx context.Context, key string) (claimed, duplicate bool) {
	if s.idempotency == nil || key == "" {
		return false, false
	}
	first, err := s.idempotency.MarkOnce(ctx, idempotencyKeyPrefix+key)
	if err != nil {
		s.logger.Warn("idempotency store unavailable; dispatching anyway", zap.Error(err))
		return false, false
	}
	return first, !first
}

// releaseIdempotencyKey frees a claimed key after a failed dispatch so the
// operator's retry is not treated as a duplicate.
func (s *NewsletterService) releaseIdempotencyKey(ctx context.Context, key string, claimed bool) {
	if !claimed {
		return
	}
	if err := s.idempotency.Forget(ctx, idempotencyKeyPrefix+key); err != nil {
		s.logger.Warn("failed to release idempotency key after failed publish",
			zap.String("idempotency_key", key),
			zap.Error(err))
	}
}
