package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/event-service/internal/events"
	"github.com/spec-kit/event-service/internal/mailer"
)

// NotificationService sends email notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	mailer     mailer.Mailer
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, m mailer.Mailer, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		mailer:     m,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
	n.dispatcher.Subscribe(events.EventBookingConfirmed, n.handleBookingConfirmed)
	n.dispatcher.Subscribe(events.EventBookingCancelled, n.handleBookingCancelled)
}

func (n *NotificationService) handleUserRegistered(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.UserRegisteredPayload)
	if !ok {
		n.logger.Warn("unexpected payload", zap.String("event_type", string(event.Type)))
		return nil
	}
	n.logger.Info("UserRegistered", zap.String("user_id", payload.UserID))

	name := payload.Fullname
	if name == "" {
		name = payload.Username
	}
	body := fmt.Sprintf("Hi %s,\n\nWelcome aboard! Your account is ready.\n", name)
	return n.send(ctx, payload.Email, "Welcome", body)
}

func (n *NotificationService) handleBookingConfirmed(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.BookingConfirmedPayload)
	if !ok {
		n.logger.Warn("unexpected payload", zap.String("event_type", string(event.Type)))
		return nil
	}
	n.logger.Info("BookingConfirmed",
		zap.String("booking_id", payload.BookingID),
		zap.String("event_id", payload.EventID))

	body := fmt.Sprintf("Your booking for %q is confirmed.\nSeats: %s\nTotal: %.2f\n",
		payload.EventTitle, strings.Join(payload.Seats, ", "), payload.TotalPrice)
	return n.send(ctx, payload.UserEmail, "Booking confirmed", body)
}

func (n *NotificationService) handleBookingCancelled(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.BookingCancelledPayload)
	if !ok {
		n.logger.Warn("unexpected payload", zap.String("event_type", string(event.Type)))
		return nil
	}
	n.logger.Info("BookingCancelled", zap.String("booking_id", payload.BookingID))

	body := fmt.Sprintf("Your booking for %q has been cancelled.\n", payload.EventTitle)
	return n.send(ctx, payload.UserEmail, "Booking cancelled", body)
}

func (n *NotificationService) send(ctx context.Context, to, subject, body string) error {
	if n.mailer == nil || to == "" {
		return nil
	}
	if err := n.mailer.Send(ctx, to, subject, body); err != nil {
		n.logger.Error("notification send failed", zap.String("to", to), zap.Error(err))
	}
	return nil
}
