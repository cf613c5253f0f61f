package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/event-service/internal/config"
	"github.com/spec-kit/event-service/internal/domain"
	"github.com/spec-kit/event-service/internal/events"
	apperrors "github.com/spec-kit/event-service/pkg/util"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo, *fakeEventRepo, *recordingDispatcher) {
	t.Helper()
	userRepo := newFakeUserRepo()
	eventRepo := newFakeEventRepo()
	dispatcher := &recordingDispatcher{}
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:           "test-secret",
			AccessTokenTTLHours: 24,
			BcryptCost:          bcrypt.MinCost,
		},
	}
	svc := NewAuthService(cfg, AuthDependencies{
		UserRepo:   userRepo,
		EventRepo:  eventRepo,
		Dispatcher: dispatcher,
	})
	return svc, userRepo, eventRepo, dispatcher
}

func TestRegister(t *testing.T) {
	svc, _, _, dispatcher := newAuthFixture(t)

	user, token, _, err := svc.Register(context.Background(), "alice", "", "alice@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.Equal(t, "alice", user.Fullname, "fullname defaults to the username")
	assert.NotEmpty(t, token)
	assert.Equal(t, []events.EventType{events.EventUserRegistered}, dispatcher.types())

	subject, err := svc.TokenManager().Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, _, _, err := svc.Register(context.Background(), "alice", "", "alice@example.com", "s3cret")
	require.NoError(t, err)

	_, _, _, err = svc.Register(context.Background(), "alice", "", "other@example.com", "s3cret")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, _, _, err := svc.Register(context.Background(), "alice", "", "alice@example.com", "s3cret")
	require.NoError(t, err)

	_, _, _, err = svc.Register(context.Background(), "bob", "", "alice@example.com", "s3cret")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestLoginByUsernameAndEmail(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, _, _, err := svc.Register(context.Background(), "alice", "Alice A", "alice@example.com", "s3cret")
	require.NoError(t, err)

	for _, login := range []string{"alice", "alice@example.com"} {
		user, token, _, err := svc.Login(context.Background(), login, "s3cret")
		require.NoError(t, err, "login %q", login)
		assert.Equal(t, "alice", user.Username)
		assert.NotEmpty(t, token)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, _, _, err := svc.Register(context.Background(), "alice", "", "alice@example.com", "s3cret")
	require.NoError(t, err)

	_, _, _, err = svc.Login(context.Background(), "alice", "wrong")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
}

func TestLoginUnknownAccount(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, _, _, err := svc.Login(context.Background(), "ghost", "whatever")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
}

func TestUpdateProfileWithoutUsernameChange(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	user, _, _, err := svc.Register(context.Background(), "alice", "", "alice@example.com", "s3cret")
	require.NoError(t, err)

	fullname := "Alice Anderson"
	updated, token, _, err := svc.UpdateProfile(context.Background(), user.ID, ProfilePatch{Fullname: &fullname})
	require.NoError(t, err)
	assert.Equal(t, "Alice Anderson", updated.Fullname)
	assert.Empty(t, token, "token only re-issued on username change")
}

func TestUpdateProfileUsernameChangeReissuesToken(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	user, oldToken, _, err := svc.Register(context.Background(), "alice", "", "alice@example.com", "s3cret")
	require.NoError(t, err)

	username := "alice2"
	_, token, _, err := svc.UpdateProfile(context.Background(), user.ID, ProfilePatch{Username: &username})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := svc.TokenManager().Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice2", subject)

	// older tokens keep working until expiry; the old subject simply no
	// longer resolves to an account
	subject, err = svc.TokenManager().Verify(oldToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestUpdateProfileUsernameTaken(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, _, _, err := svc.Register(context.Background(), "alice", "", "alice@example.com", "s3cret")
	require.NoError(t, err)
	bob, _, _, err := svc.Register(context.Background(), "bob", "", "bob@example.com", "s3cret")
	require.NoError(t, err)

	username := "alice"
	_, _, _, err = svc.UpdateProfile(context.Background(), bob.ID, ProfilePatch{Username: &username})
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestLikeAndUnlikeEvent(t *testing.T) {
	svc, userRepo, eventRepo, _ := newAuthFixture(t)

	user, _, _, err := svc.Register(context.Background(), "alice", "", "alice@example.com", "s3cret")
	require.NoError(t, err)

	event := &domain.Event{Title: "Jazz Night", VenueID: "venue-1",
		StartTime: hours(19), EndTime: hours(22)}
	require.NoError(t, eventRepo.Create(context.Background(), event))

	_, err = svc.LikeEvent(context.Background(), user.ID, event.ID)
	require.NoError(t, err)

	liked, err := svc.LikedEvents(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, liked, 1)
	assert.Equal(t, "Jazz Night", liked[0].Title)

	_, err = svc.UnlikeEvent(context.Background(), user.ID, event.ID)
	require.NoError(t, err)

	liked, err = svc.LikedEvents(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, liked)

	stored, err := userRepo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.LikedEventIDs)
}

func TestLikeUnknownEvent(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	user, _, _, err := svc.Register(context.Background(), "alice", "", "alice@example.com", "s3cret")
	require.NoError(t, err)

	_, err = svc.LikeEvent(context.Background(), user.ID, "event-missing")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}
