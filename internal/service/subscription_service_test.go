package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lettersmith/newsletter-service/internal/domain"
	"github.com/lettersmith/newsletter-service/internal/repository"
	"github.com/lettersmith/newsletter-service/internal/token"
)

type sentEmail struct {
	to       string
	subject  string
	htmlBody string
	textBody string
}

type fakeMailer struct {
	sent []sentEmail
	// failOnCall fails the nth Send (1-based); 0 never fails
	failOnCall int
}

func (m *fakeMailer) Send(_ context.Context, to, subject, htmlBody, textBody string) error {
	if m.failOnCall == len(m.sent)+1 {
		return errors.New("email server unreachable")
	}
	m.sent = append(m.sent, sentEmail{to: to, subject: subject, htmlBody: htmlBody, textBody: textBody})
	return nil
}

type failingSubscriptionRepo struct {
	err error
}

func (r *failingSubscriptionRepo) CreatePending(context.Context, domain.NewSubscriber, string) (string, error) {
	return "", r.err
}

func (r *failingSubscriptionRepo) ResolveToken(context.Context, string) (string, bool, error) {
	return "", false, r.err
}

func (r *failingSubscriptionRepo) MarkConfirmed(context.Context, string) error {
	return r.err
}

func (r *failingSubscriptionRepo) ListConfirmedEmails(context.Context) ([]string, error) {
	return nil, r.err
}

func newSubscriptionService(repo repository.SubscriptionRepository, m Mailer) *SubscriptionService {
	return NewSubscriptionService("https://news.example.com", SubscriptionDependencies{
		Subscriptions: repo,
		Mailer:        m,
		Logger:        zap.NewNop(),
	})
}

func TestRegisterStoresPendingSubscriberWithOneToken(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemorySubscriptionRepository()
	m := &fakeMailer{}
	svc := newSubscriptionService(repo, m)

	id, err := svc.Register(ctx, "pog dog", "pogolius@gmail.com")
	require.NoError(t, err)

	sub, ok := repo.GetSubscriber(id)
	require.True(t, ok)
	assert.Equal(t, domain.SubscriberStatusPending, sub.Status)
	assert.Equal(t, "pogolius@gmail.com", sub.Email)
	assert.Equal(t, 1, repo.TokenCount(id))
}

func TestRegisterSendsConfirmationLink(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemorySubscriptionRepository()
	m := &fakeMailer{}
	svc := newSubscriptionService(repo, m)

	_, err := svc.Register(ctx, "pog dog", "pogolius@gmail.com")
	require.NoError(t, err)

	require.Len(t, m.sent, 1)
	email := m.sent[0]
	assert.Equal(t, "pogolius@gmail.com", email.to)

	const linkPrefix = "https://news.example.com/subscriptions/confirm?token="
	assert.Contains(t, email.textBody, linkPrefix)
	assert.Contains(t, email.htmlBody, linkPrefix)

	// the linked token resolves back to the stored subscriber
	_, after, found := strings.Cut(email.textBody, "token=")
	require.True(t, found)
	issued := after[:token.Length]
	_, ok, err := repo.ResolveToken(ctx, issued)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemorySubscriptionRepository()
	m := &fakeMailer{}
	svc := newSubscriptionService(repo, m)

	_, err := svc.Register(ctx, "", "pogolius@gmail.com")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(ctx, "pog dog", "some_mail_address")
	assert.ErrorIs(t, err, ErrValidation)

	assert.Empty(t, m.sent)
}

func TestRegisterStoreFailure(t *testing.T) {
	ctx := context.Background()
	m := &fakeMailer{}
	svc := newSubscriptionService(&failingSubscriptionRepo{err: errors.New("connection refused")}, m)

	_, err := svc.Register(ctx, "pog dog", "pogolius@gmail.com")
	assert.ErrorIs(t, err, ErrStore)
	assert.Empty(t, m.sent, "no email without a committed registration")
}

func TestRegisterMailerFailureKeepsPendingSubscriber(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemorySubscriptionRepository()
	m := &fakeMailer{failOnCall: 1}
	svc := newSubscriptionService(repo, m)

	id, err := svc.Register(ctx, "pog dog", "pogolius@gmail.com")
	assert.ErrorIs(t, err, ErrTransport)

	// persistence committed before the send; no compensating rollback
	sub, ok := repo.GetSubscriber(id)
	require.True(t, ok)
	assert.Equal(t, domain.SubscriberStatusPending, sub.Status)
	assert.Equal(t, 1, repo.TokenCount(id))
}

func TestConfirmTransitionsToConfirmed(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemorySubscriptionRepository()
	m := &fakeMailer{}
	svc := newSubscriptionService(repo, m)

	id, err := svc.Register(ctx, "pog dog", "pogolius@gmail.com")
	require.NoError(t, err)

	_, after, _ := strings.Cut(m.sent[0].textBody, "token=")
	issued := after[:token.Length]

	require.NoError(t, svc.Confirm(ctx, issued))

	sub, _ := repo.GetSubscriber(id)
	assert.Equal(t, domain.SubscriberStatusConfirmed, sub.Status)
}

func TestConfirmIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemorySubscriptionRepository()
	m := &fakeMailer{}
	svc := newSubscriptionService(repo, m)

	id, err := svc.Register(ctx, "pog dog", "pogolius@gmail.com")
	require.NoError(t, err)

	_, after, _ := strings.Cut(m.sent[0].textBody, "token=")
	issued := after[:token.Length]

	require.NoError(t, svc.Confirm(ctx, issued))
	require.NoError(t, svc.Confirm(ctx, issued))

	sub, _ := repo.GetSubscriber(id)
	assert.Equal(t, domain.SubscriberStatusConfirmed, sub.Status)
}

func TestConfirmUnknownTokenLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemorySubscriptionRepository()
	m := &fakeMailer{}
	svc := newSubscriptionService(repo, m)

	id, err := svc.Register(ctx, "pog dog", "pogolius@gmail.com")
	require.NoError(t, err)

	err = svc.Confirm(ctx, "nobody-issued-this-token!")
	assert.ErrorIs(t, err, ErrUnknownToken)

	sub, _ := repo.GetSubscriber(id)
	assert.Equal(t, domain.SubscriberStatusPending, sub.Status)
}

func TestConfirmStoreFailure(t *testing.T) {
	svc := newSubscriptionService(&failingSubscriptionRepo{err: errors.New("connection refused")}, &fakeMailer{})

	err := svc.Confirm(context.Background(), "sometoken")
	assert.ErrorIs(t, err, ErrStore)
	assert.NotErrorIs(t, err, ErrUnknownToken)
}
