package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/event-service/internal/domain"
	"github.com/spec-kit/event-service/internal/repository"
	apperrors "github.com/spec-kit/event-service/pkg/util"
)

// VenueService manages the venue catalog.
type VenueService struct {
	venues repository.VenueRepository
}

// VenueInput describes venue creation and update payloads.
type VenueInput struct {
	Name    string
	Address string
}

// NewVenueService constructs the service.
func NewVenueService(venues repository.VenueRepository) *VenueService {
	return &VenueService{venues: venues}
}

func (s *VenueService) normalize(input VenueInput) (VenueInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Address = strings.TrimSpace(input.Address)
	if input.Name == "" {
		return input, apperrors.NewValidationError("venue name required", nil)
	}
	if input.Address == "" {
		return input, apperrors.NewValidationError("venue address required", nil)
	}
	return input, nil
}

// Create registers a new venue. Name and address pairs are unique,
// compared case-insensitively.
func (s *VenueService) Create(ctx context.Context, input VenueInput) (*domain.Venue, error) {
	input, err := s.normalize(input)
	if err != nil {
		return nil, err
	}

	existing, err := s.venues.GetByNameAndAddress(ctx, input.Name, input.Address)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewValidationError("venue already exists",
			map[string]any{"name": input.Name, "address": input.Address})
	}

	venue := &domain.Venue{Name: input.Name, Address: input.Address}
	if err := s.venues.Create(ctx, venue); err != nil {
		return nil, err
	}
	return venue, nil
}

// Update modifies a venue.
func (s *VenueService) Update(ctx context.Context, id string, input VenueInput) (*domain.Venue, error) {
	input, err := s.normalize(input)
	if err != nil {
		return nil, err
	}

	venue, err := s.venues.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("venue", map[string]any{"id": id})
		}
		return nil, err
	}

	existing, err := s.venues.GetByNameAndAddress(ctx, input.Name, input.Address)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if existing != nil && existing.ID != venue.ID {
		return nil, apperrors.NewValidationError("venue already exists",
			map[string]any{"name": input.Name, "address": input.Address})
	}

	venue.Name = input.Name
	venue.Address = input.Address
	if err := s.venues.Update(ctx, venue); err != nil {
		return nil, err
	}
	return venue, nil
}

// Get returns a single venue.
func (s *VenueService) Get(ctx context.Context, id string) (*domain.Venue, error) {
	venue, err := s.venues.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("venue", map[string]any{"id": id})
		}
		return nil, err
	}
	return venue, nil
}

// List returns a page of venues.
func (s *VenueService) List(ctx context.Context, limit, offset int) ([]domain.Venue, error) {
	return s.venues.List(ctx, limit, offset)
}

// Delete removes a venue.
func (s *VenueService) Delete(ctx context.Context, id string) error {
	if err := s.venues.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("venue", map[string]any{"id": id})
		}
		return err
	}
	return nil
}
