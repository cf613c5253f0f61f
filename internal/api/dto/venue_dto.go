package dto

import (
	"github.com/spec-kit/event-service/internal/domain"
	"github.com/spec-kit/event-service/internal/service"
)

// VenueRequest payload for create and update.
type VenueRequest struct {
	Name    string `json:"name"    validate:"required,max=200"`
	Address string `json:"address" validate:"required,max=300"`
}

// Input converts the request into a service-level input.
func (r VenueRequest) Input() service.VenueInput {
	return service.VenueInput{Name: r.Name, Address: r.Address}
}

// VenueResponse represents a venue in API responses.
type VenueResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// FromVenue maps a domain venue.
func FromVenue(venue *domain.Venue) VenueResponse {
	return VenueResponse{ID: venue.ID, Name: venue.Name, Address: venue.Address}
}

// FromVenues maps a slice of domain venues.
func FromVenues(venues []domain.Venue) []VenueResponse {
	out := make([]VenueResponse, 0, len(venues))
	for i := range venues {
		out = append(out, FromVenue(&venues[i]))
	}
	return out
}
