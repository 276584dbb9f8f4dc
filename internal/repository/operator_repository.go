package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Operator is a newsletter operator allowed to publish issues. Credentials
// are provisioned out-of-band; the service only reads them.
type Operator struct {
	ID       string
	Username string
}

// OperatorRepository defines read access to operator credentials.
type OperatorRepository interface {
	// GetByCredentials returns the operator matching both username and
	// password digest exactly, or ErrNotFound.
	GetByCredentials(ctx context.Context, username, passwordDigest string) (*Operator, error)
}

type operatorRepository struct {
	pool *pgxpool.Pool
}

// NewOperatorRepository returns a Postgres-backed implementation.
func NewOperatorRepository(pool *pgxpool.Pool) OperatorRepository {
	return &operatorRepository{pool: pool}
}

func (r *operatorRepository) GetByCredentials(ctx context.Context, username, passwordDigest string) (*Operator, error) {
	const query = `
        SELECT user_id FROM users WHERE username=$1 AND password_hash=$2`

	op := Operator{Username: username}
	if err := r.pool.QueryRow(ctx, query, username, passwordDigest).Scan(&op.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &op, nil
}
