package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lettersmith/newsletter-service/internal/domain"
)

// MemorySubscriptionRepository is a mutex-guarded in-memory implementation.
// It backs tests and DSN-less runs, and mirrors the Postgres constraints:
// registration is all-or-nothing and subscriber emails are unique.
type MemorySubscriptionRepository struct {
	mu          sync.Mutex
	subscribers map[string]*domain.Subscriber
	tokens      map[string]string // token -> subscriber id
}

// NewMemorySubscriptionRepository builds an empty store.
func NewMemorySubscriptionRepository() *MemorySubscriptionRepository {
	return &MemorySubscriptionRepository{
		subscribers: make(map[string]*domain.Subscriber),
		tokens:      make(map[string]string),
	}
}

func (r *MemorySubscriptionRepository) CreatePending(_ context.Context, sub domain.NewSubscriber, token string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.subscribers {
		if existing.Email == sub.Email.String() {
			return "", fmt.Errorf("duplicate email %q", existing.Email)
		}
	}

	id := uuid.NewString()
	r.subscribers[id] = &domain.Subscriber{
		ID:           id,
		Email:        sub.Email.String(),
		Name:         sub.Name.String(),
		Status:       domain.SubscriberStatusPending,
		SubscribedAt: time.Now(),
	}
	r.tokens[token] = id
	return id, nil
}

func (r *MemorySubscriptionRepository) ResolveToken(_ context.Context, token string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.tokens[token]
	return id, ok, nil
}

func (r *MemorySubscriptionRepository) MarkConfirmed(_ context.Context, subscriberID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.subscribers[subscriberID]
	if !ok {
		return ErrNotFound
	}
	sub.Status = domain.SubscriberStatusConfirmed
	return nil
}

func (r *MemorySubscriptionRepository) ListConfirmedEmails(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var emails []string
	for _, sub := range r.subscribers {
		if sub.Status == domain.SubscriberStatusConfirmed {
			emails = append(emails, sub.Email)
		}
	}
	return emails, nil
}

// GetSubscriber returns a copy of the stored record.
func (r *MemorySubscriptionRepository) GetSubscriber(id string) (domain.Subscriber, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.subscribers[id]
	if !ok {
		return domain.Subscriber{}, false
	}
	return *sub, true
}

// TokenCount reports how many tokens map to the subscriber.
func (r *MemorySubscriptionRepository) TokenCount(subscriberID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, id := range r.tokens {
		if id == subscriberID {
			count++
		}
	}
	return count
}

// Seed inserts a subscriber directly, bypassing validation, so tests and
// local runs can place records in any status, including malformed emails
// written by an earlier, looser code path.
func (r *MemorySubscriptionRepository) Seed(email, name string, status domain.SubscriberStatus) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	r.subscribers[id] = &domain.Subscriber{
		ID:           id,
		Email:        email,
		Name:         name,
		Status:       status,
		SubscribedAt: time.Now(),
	}
	return id
}

// MemoryOperatorRepository is an in-memory credential table.
type MemoryOperatorRepository struct {
	mu        sync.Mutex
	operators map[string]memoryOperator // keyed by username
}

type memoryOperator struct {
	id             string
	passwordDigest string
}

// NewMemoryOperatorRepository builds an empty store.
func NewMemoryOperatorRepository() *MemoryOperatorRepository {
	return &MemoryOperatorRepository{operators: make(map[string]memoryOperator)}
}

// Seed registers an operator credential and returns its id.
func (r *MemoryOperatorRepository) Seed(username, passwordDigest string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	r.operators[username] = memoryOperator{id: id, passwordDigest: passwordDigest}
	return id
}

func (r *MemoryOperatorRepository) GetByCredentials(_ context.Context, username, passwordDigest string) (*Operator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	op, ok := r.operators[username]
	if !ok || op.passwordDigest != passwordDigest {
		return nil, ErrNotFound
	}
	return &Operator{ID: op.id, Username: username}, nil
}
