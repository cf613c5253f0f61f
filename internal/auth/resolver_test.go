package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/event-service/internal/domain"
)

type fakeUserStore struct {
	byUsername map[string]*domain.User
	byEmail    map[string]*domain.User
	storeErr   error
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	if f.storeErr != nil {
		return nil, f.storeErr
	}
	if user, ok := f.byUsername[username]; ok {
		return user, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if f.storeErr != nil {
		return nil, f.storeErr
	}
	if user, ok := f.byEmail[email]; ok {
		return user, nil
	}
	return nil, pgx.ErrNoRows
}

func TestResolveByUsername(t *testing.T) {
	alice := &domain.User{ID: "u1", Username: "alice", Email: "alice@example.com"}
	resolver := NewResolver(&fakeUserStore{
		byUsername: map[string]*domain.User{"alice": alice},
	})

	user, err := resolver.Resolve(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, alice, user)
}

func TestResolveFallsBackToEmail(t *testing.T) {
	alice := &domain.User{ID: "u1", Username: "alice", Email: "alice@example.com"}
	resolver := NewResolver(&fakeUserStore{
		byEmail: map[string]*domain.User{"alice@example.com": alice},
	})

	user, err := resolver.Resolve(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice, user)
}

func TestResolveUnknownSubject(t *testing.T) {
	resolver := NewResolver(&fakeUserStore{})

	_, err := resolver.Resolve(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrPrincipalNotFound)
}

func TestResolvePropagatesStoreError(t *testing.T) {
	storeErr := errors.New("connection reset")
	resolver := NewResolver(&fakeUserStore{storeErr: storeErr})

	_, err := resolver.Resolve(context.Background(), "alice")
	assert.ErrorIs(t, err, storeErr)
}
