package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lettersmith/newsletter-service/internal/auth"
	"github.com/lettersmith/newsletter-service/internal/repository"
)

// CredentialGate verifies operator identity from an Authorization header.
type CredentialGate interface {
	Authenticate(ctx context.Context, authorizationHeader string) (operatorID string, err error)
}

// OperatorService is the credential gate. It verifies Basic credentials
// against the stored digest table and can exchange them for a short-lived
// Bearer session token.
type OperatorService struct {
	operators repository.OperatorRepository
	tokens    *auth.TokenManager
}

// NewOperatorService builds the service.
func NewOperatorService(operators repository.OperatorRepository, tokens *auth.TokenManager) *OperatorService {
	return &OperatorService{operators: operators, tokens: tokens}
}

// Authenticate accepts either a Basic header carrying username:password or a
// Bearer header carrying a previously issued session token. Every failure is
// ErrUnauthorized; the wrapped detail is for logs, never for responses.
func (s *OperatorService) Authenticate(ctx context.Context, authorizationHeader string) (string, error) {
	if sessionToken, ok := strings.CutPrefix(authorizationHeader, "Bearer "); ok {
		claims, err := s.tokens.ParseToken(sessionToken)
		if err != nil {
			return "", fmt.Errorf("%w: invalid session token: %v", ErrUnauthorized, err)
		}
		return claims.OperatorID, nil
	}

	op, err := s.verifyBasic(ctx, authorizationHeader)
	if err != nil {
		return "", err
	}
	return op.ID, nil
}

// Login verifies Basic credentials and issues a session token.
func (s *OperatorService) Login(ctx context.Context, authorizationHeader string) (string, time.Time, error) {
	op, err := s.verifyBasic(ctx, authorizationHeader)
	if err != nil {
		return "", time.Time{}, err
	}

	sessionToken, expiresAt, err := s.tokens.GenerateToken(op.ID, op.Username)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: issue session token: %v", ErrUnauthorized, err)
	}
	return sessionToken, expiresAt, nil
}

func (s *OperatorService) verifyBasic(ctx context.Context, authorizationHeader string) (*repository.Operator, error) {
	creds, err := auth.ParseBasic(authorizationHeader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	op, err := s.operators.GetByCredentials(ctx, creds.Username, auth.PasswordDigest(creds.Password))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid username or password", ErrUnauthorized)
		}
		return nil, fmt.Errorf("%w: validate credentials: %v", ErrUnauthorized, err)
	}
	return op, nil
}
