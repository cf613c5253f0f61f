package domain

import "time"

// Venue is a bookable location hosting events.
type Venue struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
