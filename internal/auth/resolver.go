package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/event-service/internal/domain"
)

// ErrPrincipalNotFound indicates the token subject has no matching account.
var ErrPrincipalNotFound = errors.New("principal not found")

// UserStore is the subset of user persistence the resolver needs.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Resolver maps a token subject to a full identity record. Lookup tries
// username first and falls back to email; both are unique keys.
type Resolver struct {
	users UserStore
}

// NewResolver constructs a resolver over the given store.
func NewResolver(users UserStore) *Resolver {
	return &Resolver{users: users}
}

// Resolve returns the identity for the subject or ErrPrincipalNotFound.
func (r *Resolver) Resolve(ctx context.Context, subject string) (*domain.User, error) {
	user, err := r.users.GetByUsername(ctx, subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	user, err = r.users.GetByEmail(ctx, subject)
	if err == nil {
		return user, nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPrincipalNotFound
	}
	return nil, err
}
