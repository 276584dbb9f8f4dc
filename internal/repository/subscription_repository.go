package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lettersmith/newsletter-service/internal/domain"
)

// ErrNotFound is returned when a referenced record does not exist. Token
// resolution reports absence through its ok result instead, since an unknown
// token is an expected outcome rather than a failure.
var ErrNotFound = errors.New("record not found")

// SubscriptionRepository defines persistence access for subscribers and
// their confirmation tokens.
type SubscriptionRepository interface {
	// CreatePending stores a new pending subscriber together with its
	// confirmation token as one all-or-nothing transaction and returns the
	// generated subscriber id. A pending subscriber without a retrievable
	// token must never be persisted.
	CreatePending(ctx context.Context, sub domain.NewSubscriber, token string) (string, error)
	// ResolveToken returns the subscriber owning the token, or ok=false when
	// the token is unknown.
	ResolveToken(ctx context.Context, token string) (subscriberID string, ok bool, err error)
	// MarkConfirmed transitions the subscriber to confirmed. The transition
	// is idempotent; confirming twice leaves the status confirmed.
	MarkConfirmed(ctx context.Context, subscriberID string) error
	// ListConfirmedEmails returns the stored email of every confirmed
	// subscriber, unvalidated, in store iteration order.
	ListConfirmedEmails(ctx context.Context) ([]string, error)
}

type subscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepository returns a Postgres-backed implementation.
func NewSubscriptionRepository(pool *pgxpool.Pool) SubscriptionRepository {
	return &subscriptionRepository{pool: pool}
}

func (r *subscriptionRepository) CreatePending(ctx context.Context, sub domain.NewSubscriber, token string) (string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	id := uuid.NewString()

	const insertSubscriber = `
        INSERT INTO subscriptions (id, email, name, subscribed_at, status)
        VALUES ($1, $2, $3, NOW(), $4)`
	if _, err := tx.Exec(ctx, insertSubscriber,
		id,
		sub.Email.String(),
		sub.Name.String(),
		domain.SubscriberStatusPending,
	); err != nil {
		return "", err
	}

	const insertToken = `
        INSERT INTO subscription_tokens (subscription_token, subscriber_id)
        VALUES ($1, $2)`
	if _, err := tx.Exec(ctx, insertToken, token, id); err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return id, nil
}

func (r *subscriptionRepository) ResolveToken(ctx context.Context, token string) (string, bool, error) {
	const query = `
        SELECT subscriber_id FROM subscription_tokens WHERE subscription_token=$1`

	var subscriberID string
	if err := r.pool.QueryRow(ctx, query, token).Scan(&subscriberID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return subscriberID, true, nil
}

func (r *subscriptionRepository) MarkConfirmed(ctx context.Context, subscriberID string) error {
	const query = `
        UPDATE subscriptions SET status=$1 WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, domain.SubscriberStatusConfirmed, subscriberID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *subscriptionRepository) ListConfirmedEmails(ctx context.Context) ([]string, error) {
	const query = `
        SELECT email FROM subscriptions WHERE status=$1`

	rows, err := r.pool.Query(ctx, query, domain.SubscriberStatusConfirmed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}
