package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/event-service/internal/auth"
	"github.com/spec-kit/event-service/internal/config"
	"github.com/spec-kit/event-service/internal/domain"
	"github.com/spec-kit/event-service/internal/events"
	"github.com/spec-kit/event-service/internal/repository"
	apperrors "github.com/spec-kit/event-service/pkg/util"
)

// AuthService coordinates registration, login and profile flows.
type AuthService struct {
	users      repository.UserRepository
	eventsRepo repository.EventRepository
	resolver   *auth.Resolver
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	bcryptCost int
	logger     *zap.Logger
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	EventRepo  repository.EventRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		eventsRepo: deps.EventRepo,
		resolver:   auth.NewResolver(deps.UserRepo),
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLHours),
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
		logger:     deps.Logger,
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Resolver exposes the principal resolver for middleware wiring.
func (s *AuthService) Resolver() *auth.Resolver {
	return s.resolver
}

// Register creates a new account with the default USER role and returns a
// freshly issued token. Fullname defaults to the username when empty.
func (s *AuthService) Register(ctx context.Context, username, fullname, email, password string) (*domain.User, string, time.Time, error) {
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, "", time.Time{}, apperrors.NewValidationError("username already taken", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, err
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewValidationError("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, err
	}

	if fullname == "" {
		fullname = username
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user := &domain.User{
		Username:     username,
		Fullname:     fullname,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.Issue(user.Username)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.publish(ctx, events.EventUserRegistered, events.UserRegisteredPayload{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Fullname: user.Fullname,
	})

	return user, token, exp, nil
}

// Login authenticates by username or email and issues a token.
func (s *AuthService) Login(ctx context.Context, login, password string) (*domain.User, string, time.Time, error) {
	user, err := s.resolver.Resolve(ctx, login)
	if err != nil {
		if errors.Is(err, auth.ErrPrincipalNotFound) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, exp, err := s.tokenMgr.Issue(user.Username)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// ProfilePatch lists exactly which profile fields may be overwritten.
// Nil fields are left untouched.
type ProfilePatch struct {
	Username      *string
	Fullname      *string
	Email         *string
	ProfilePicURL *string
}

// Apply merges the patch into the user and reports whether the username,
// the token subject, changed.
func (p ProfilePatch) Apply(user *domain.User) bool {
	usernameChanged := false
	if p.Username != nil && *p.Username != user.Username {
		user.Username = *p.Username
		usernameChanged = true
	}
	if p.Fullname != nil {
		user.Fullname = *p.Fullname
	}
	if p.Email != nil {
		user.Email = *p.Email
	}
	if p.ProfilePicURL != nil {
		user.ProfilePicURL = p.ProfilePicURL
	}
	return usernameChanged
}

// UpdateProfile applies the patch and, when the username changed, re-issues
// a token for the new subject. Tokens issued before the change remain valid
// until their natural expiry.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewNotFound("user", nil)
		}
		return nil, "", time.Time{}, err
	}

	if patch.Username != nil && *patch.Username != user.Username {
		if _, err := s.users.GetByUsername(ctx, *patch.Username); err == nil {
			return nil, "", time.Time{}, apperrors.NewValidationError("username already taken", nil)
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, err
		}
	}
	if patch.Email != nil && *patch.Email != user.Email {
		if _, err := s.users.GetByEmail(ctx, *patch.Email); err == nil {
			return nil, "", time.Time{}, apperrors.NewValidationError("email already registered", nil)
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, err
		}
	}

	usernameChanged := patch.Apply(user)
	if err := s.users.Update(ctx, user); err != nil {
		return nil, "", time.Time{}, err
	}

	if !usernameChanged {
		return user, "", time.Time{}, nil
	}

	token, exp, err := s.tokenMgr.Refresh(user.Username)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// LikeEvent records the event in the user's liked set.
func (s *AuthService) LikeEvent(ctx context.Context, userID, eventID string) (*domain.Event, error) {
	event, err := s.eventsRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("event", map[string]any{"id": eventID})
		}
		return nil, err
	}
	if err := s.users.AddLikedEvent(ctx, userID, eventID); err != nil {
		return nil, err
	}
	return event, nil
}

// UnlikeEvent removes the event from the user's liked set.
func (s *AuthService) UnlikeEvent(ctx context.Context, userID, eventID string) (*domain.Event, error) {
	event, err := s.eventsRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("event", map[string]any{"id": eventID})
		}
		return nil, err
	}
	if err := s.users.RemoveLikedEvent(ctx, userID, eventID); err != nil {
		return nil, err
	}
	return event, nil
}

// LikedEvents returns the user's liked events.
func (s *AuthService) LikedEvents(ctx context.Context, userID string) ([]domain.Event, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	return s.eventsRepo.ListByIDs(ctx, user.LikedEventIDs)
}

// ListUsers returns registered accounts, admin only at the HTTP boundary.
func (s *AuthService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	return s.users.List(ctx, limit, offset)
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	err := s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	})
	if err != nil {
		s.logger.Warn("event publish failed", zap.String("event_type", string(eventType)), zap.Error(err))
	}
}
