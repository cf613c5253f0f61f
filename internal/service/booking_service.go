package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/event-service/internal/domain"
	"github.com/spec-kit/event-service/internal/events"
	"github.com/spec-kit/event-service/internal/repository"
	apperrors "github.com/spec-kit/event-service/pkg/util"
)

// BookingService handles seat reservations for events.
type BookingService struct {
	bookings   repository.BookingRepository
	eventsRepo repository.EventRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// BookingDependencies bundles requirements for the booking service.
type BookingDependencies struct {
	BookingRepo repository.BookingRepository
	EventRepo   repository.EventRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewBookingService constructs the service.
func NewBookingService(deps BookingDependencies) *BookingService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &BookingService{
		bookings:   deps.BookingRepo,
		eventsRepo: deps.EventRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// Create books the requested seats for the user. Each seat can be sold at
// most once per event; taken seats fail the whole booking.
func (s *BookingService) Create(ctx context.Context, user *domain.User, eventID string, seats []string) (*domain.Booking, error) {
	if len(seats) == 0 {
		return nil, apperrors.NewValidationError("at least one seat required", nil)
	}
	seen := make(map[string]struct{}, len(seats))
	for _, seat := range seats {
		if seat == "" {
			return nil, apperrors.NewValidationError("seat number cannot be empty", nil)
		}
		if _, dup := seen[seat]; dup {
			return nil, apperrors.NewValidationError("duplicate seat in request",
				map[string]any{"seat": seat})
		}
		seen[seat] = struct{}{}
	}

	event, err := s.eventsRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("event", map[string]any{"id": eventID})
		}
		return nil, err
	}

	booking := &domain.Booking{
		UserID:      user.ID,
		EventID:     event.ID,
		BookingDate: time.Now(),
		Status:      domain.BookingStatusConfirmed,
	}
	for _, seat := range seats {
		booking.Tickets = append(booking.Tickets, domain.Ticket{
			EventID:    event.ID,
			SeatNumber: seat,
			Price:      event.Price,
		})
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrSeatTaken) {
			return nil, apperrors.NewConflict("one or more seats already booked",
				map[string]any{"event_id": event.ID, "seats": seats})
		}
		return nil, err
	}

	s.publish(ctx, events.EventBookingConfirmed, events.BookingConfirmedPayload{
		BookingID:  booking.ID,
		UserID:     user.ID,
		UserEmail:  user.Email,
		EventID:    event.ID,
		EventTitle: event.Title,
		Seats:      seats,
		TotalPrice: booking.TotalPrice(),
	})

	return booking, nil
}

// Get returns a booking visible to the caller. Users see only their own
// bookings; admins see all.
func (s *BookingService) Get(ctx context.Context, user *domain.User, id string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("booking", map[string]any{"id": id})
		}
		return nil, err
	}
	if booking.UserID != user.ID && !user.Role.Satisfies(domain.RoleAdmin) {
		return nil, apperrors.NewForbidden("booking belongs to another user")
	}
	return booking, nil
}

// ListForUser returns the caller's bookings.
func (s *BookingService) ListForUser(ctx context.Context, userID string, limit, offset int) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID, limit, offset)
}

// Cancel marks a booking cancelled and releases nothing else: tickets stay
// recorded against the booking for audit.
func (s *BookingService) Cancel(ctx context.Context, user *domain.User, id string) (*domain.Booking, error) {
	booking, err := s.Get(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if booking.Status == domain.BookingStatusCancelled {
		return booking, nil
	}

	if err := s.bookings.UpdateStatus(ctx, booking.ID, domain.BookingStatusCancelled); err != nil {
		return nil, err
	}
	booking.Status = domain.BookingStatusCancelled

	var title string
	if event, err := s.eventsRepo.GetByID(ctx, booking.EventID); err == nil {
		title = event.Title
	}
	s.publish(ctx, events.EventBookingCancelled, events.BookingCancelledPayload{
		BookingID:  booking.ID,
		UserID:     booking.UserID,
		UserEmail:  user.Email,
		EventID:    booking.EventID,
		EventTitle: title,
	})

	return booking, nil
}

func (s *BookingService) publish(ctx context.Context, eventType events.EventType, payload interface{}) {
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
