package domain

import "time"

// BookingStatus represents the lifecycle state of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// Booking reserves seats for a user at an event.
type Booking struct {
	ID          string
	UserID      string
	EventID     string
	BookingDate time.Time
	Status      BookingStatus
	Tickets     []Ticket
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Ticket is a single seat within a booking. Seat numbers are unique per event.
type Ticket struct {
	ID         string
	BookingID  string
	EventID    string
	SeatNumber string
	Price      float64
}

// TotalPrice sums the ticket prices of the booking.
func (b *Booking) TotalPrice() float64 {
	var total float64
	for _, t := range b.Tickets {
		total += t.Price
	}
	return total
}
