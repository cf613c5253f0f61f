package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/event-service/internal/domain"
	"github.com/spec-kit/event-service/internal/events"
	apperrors "github.com/spec-kit/event-service/pkg/util"
)

func newBookingFixture(t *testing.T) (*BookingService, *fakeEventRepo, *recordingDispatcher) {
	t.Helper()
	eventRepo := newFakeEventRepo()
	dispatcher := &recordingDispatcher{}
	svc := NewBookingService(BookingDependencies{
		BookingRepo: newFakeBookingRepo(),
		EventRepo:   eventRepo,
		Dispatcher:  dispatcher,
	})
	return svc, eventRepo, dispatcher
}

func seedEvent(t *testing.T, repo *fakeEventRepo, price float64) *domain.Event {
	t.Helper()
	event := &domain.Event{Title: "Jazz Night", VenueID: "venue-1",
		Price: price, StartTime: hours(19), EndTime: hours(22)}
	require.NoError(t, repo.Create(context.Background(), event))
	return event
}

var alice = &domain.User{ID: "user-1", Username: "alice", Email: "alice@example.com", Role: domain.RoleUser}
var bob = &domain.User{ID: "user-2", Username: "bob", Email: "bob@example.com", Role: domain.RoleUser}
var admin = &domain.User{ID: "user-3", Username: "root", Email: "root@example.com", Role: domain.RoleAdmin}

func TestCreateBooking(t *testing.T) {
	svc, eventRepo, dispatcher := newBookingFixture(t)
	event := seedEvent(t, eventRepo, 40)

	booking, err := svc.Create(context.Background(), alice, event.ID, []string{"A1", "A2"})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, booking.Status)
	assert.Len(t, booking.Tickets, 2)
	assert.Equal(t, 80.0, booking.TotalPrice(), "tickets priced off the event")
	assert.Equal(t, []events.EventType{events.EventBookingConfirmed}, dispatcher.types())
}

func TestCreateBookingSeatTaken(t *testing.T) {
	svc, eventRepo, _ := newBookingFixture(t)
	event := seedEvent(t, eventRepo, 40)

	_, err := svc.Create(context.Background(), alice, event.ID, []string{"A1"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), bob, event.ID, []string{"A1", "B1"})
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CONFLICT", domainErr.Code)
}

func TestCreateBookingValidation(t *testing.T) {
	svc, eventRepo, _ := newBookingFixture(t)
	event := seedEvent(t, eventRepo, 40)

	for _, seats := range [][]string{nil, {}, {""}, {"A1", "A1"}} {
		_, err := svc.Create(context.Background(), alice, event.ID, seats)
		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr, "seats %v", seats)
		assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	}
}

func TestCreateBookingUnknownEvent(t *testing.T) {
	svc, _, _ := newBookingFixture(t)

	_, err := svc.Create(context.Background(), alice, "event-missing", []string{"A1"})
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestGetBookingOwnership(t *testing.T) {
	svc, eventRepo, _ := newBookingFixture(t)
	event := seedEvent(t, eventRepo, 40)

	booking, err := svc.Create(context.Background(), alice, event.ID, []string{"A1"})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), alice, booking.ID)
	assert.NoError(t, err, "owner can read")

	_, err = svc.Get(context.Background(), bob, booking.ID)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FORBIDDEN", domainErr.Code)

	_, err = svc.Get(context.Background(), admin, booking.ID)
	assert.NoError(t, err, "admin can read anyone's booking")
}

func TestCancelBooking(t *testing.T) {
	svc, eventRepo, dispatcher := newBookingFixture(t)
	event := seedEvent(t, eventRepo, 40)

	booking, err := svc.Create(context.Background(), alice, event.ID, []string{"A1"})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(context.Background(), alice, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, cancelled.Status)
	assert.Equal(t,
		[]events.EventType{events.EventBookingConfirmed, events.EventBookingCancelled},
		dispatcher.types())

	// cancelling twice is a no-op, not an error
	again, err := svc.Cancel(context.Background(), alice, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, again.Status)
	assert.Len(t, dispatcher.types(), 2, "no duplicate cancellation event")
}

func TestCancelBookingForbiddenForOtherUser(t *testing.T) {
	svc, eventRepo, _ := newBookingFixture(t)
	event := seedEvent(t, eventRepo, 40)

	booking, err := svc.Create(context.Background(), alice, event.ID, []string{"A1"})
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), bob, booking.ID)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
}
