package dto

import (
	"time"

	"github.com/spec-kit/event-service/internal/domain"
)

// CreateBookingRequest payload.
type CreateBookingRequest struct {
	EventID string   `json:"event_id" validate:"required,uuid4"`
	Seats   []string `json:"seats"    validate:"required,min=1,dive,required"`
}

// TicketResponse represents a single seat in a booking.
type TicketResponse struct {
	ID         string  `json:"id"`
	SeatNumber string  `json:"seat_number"`
	Price      float64 `json:"price"`
}

// BookingResponse represents a booking in API responses.
type BookingResponse struct {
	ID          string               `json:"id"`
	UserID      string               `json:"user_id"`
	EventID     string               `json:"event_id"`
	BookingDate time.Time            `json:"booking_date"`
	Status      domain.BookingStatus `json:"status"`
	Tickets     []TicketResponse     `json:"tickets"`
	TotalPrice  float64              `json:"total_price"`
	CreatedAt   time.Time            `json:"created_at"`
}

// FromBooking maps a domain booking.
func FromBooking(booking *domain.Booking) BookingResponse {
	tickets := make([]TicketResponse, 0, len(booking.Tickets))
	for _, t := range booking.Tickets {
		tickets = append(tickets, TicketResponse{
			ID:         t.ID,
			SeatNumber: t.SeatNumber,
			Price:      t.Price,
		})
	}
	return BookingResponse{
		ID:          booking.ID,
		UserID:      booking.UserID,
		EventID:     booking.EventID,
		BookingDate: booking.BookingDate,
		Status:      booking.Status,
		Tickets:     tickets,
		TotalPrice:  booking.TotalPrice(),
		CreatedAt:   booking.CreatedAt,
	}
}

// FromBookings maps a slice of domain bookings.
func FromBookings(bookings []domain.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, FromBooking(&bookings[i]))
	}
	return out
}
