package events

import (
	"time"

	"github.com/spec-kit/event-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered   EventType = "user_registered"
	EventEventCreated     EventType = "event_created"
	EventEventUpdated     EventType = "event_updated"
	EventBookingConfirmed EventType = "booking_confirmed"
	EventBookingCancelled EventType = "booking_cancelled"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Fullname string `json:"fullname"`
}

// EventCreatedPayload payload.
type EventCreatedPayload struct {
	EventID   string               `json:"event_id"`
	Title     string               `json:"title"`
	VenueID   string               `json:"venue_id"`
	StartTime time.Time            `json:"start_time"`
	EndTime   time.Time            `json:"end_time"`
	Category  domain.EventCategory `json:"category"`
}

// BookingConfirmedPayload payload.
type BookingConfirmedPayload struct {
	BookingID  string   `json:"booking_id"`
	UserID     string   `json:"user_id"`
	UserEmail  string   `json:"user_email"`
	EventID    string   `json:"event_id"`
	EventTitle string   `json:"event_title"`
	Seats      []string `json:"seats"`
	TotalPrice float64  `json:"total_price"`
}

// BookingCancelledPayload payload.
type BookingCancelledPayload struct {
	BookingID  string `json:"booking_id"`
	UserID     string `json:"user_id"`
	UserEmail  string `json:"user_email"`
	EventID    string `json:"event_id"`
	EventTitle string `json:"event_title"`
}
