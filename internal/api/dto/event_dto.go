package dto

import (
	"time"

	"github.com/spec-kit/event-service/internal/domain"
	"github.com/spec-kit/event-service/internal/service"
)

// EventRequest payload for create and update.
type EventRequest struct {
	Title       string               `json:"title"       validate:"required,max=200"`
	Description string               `json:"description" validate:"max=2000"`
	Price       float64              `json:"price"       validate:"gte=0"`
	StartTime   time.Time            `json:"start_time"  validate:"required"`
	EndTime     time.Time            `json:"end_time"    validate:"required"`
	VenueID     string               `json:"venue_id"    validate:"required,uuid4"`
	Category    domain.EventCategory `json:"category"`
}

// Input converts the request into a service-level input.
func (r EventRequest) Input() service.EventInput {
	return service.EventInput{
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		VenueID:     r.VenueID,
		Category:    r.Category,
	}
}

// EventResponse represents an event in API responses.
type EventResponse struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Price       float64              `json:"price"`
	StartTime   time.Time            `json:"start_time"`
	EndTime     time.Time            `json:"end_time"`
	VenueID     string               `json:"venue_id"`
	Category    domain.EventCategory `json:"category"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// FromEvent maps a domain event.
func FromEvent(event *domain.Event) EventResponse {
	return EventResponse{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		Price:       event.Price,
		StartTime:   event.StartTime,
		EndTime:     event.EndTime,
		VenueID:     event.VenueID,
		Category:    event.Category,
		CreatedAt:   event.CreatedAt,
		UpdatedAt:   event.UpdatedAt,
	}
}

// FromEvents maps a slice of domain events.
func FromEvents(events []domain.Event) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for i := range events {
		out = append(out, FromEvent(&events[i]))
	}
	return out
}
