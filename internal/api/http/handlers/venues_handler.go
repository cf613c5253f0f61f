package handlers

import (
	"net/http"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-service/internal/api/dto"
	"github.com/spec-kit/event-service/internal/service"
)

// VenuesHandler exposes venue catalog endpoints.
type VenuesHandler struct {
	venues   *service.VenueService
	validate *validator.Validate
}

// NewVenuesHandler constructs handler.
func NewVenuesHandler(venueService *service.VenueService) *VenuesHandler {
	return &VenuesHandler{venues: venueService, validate: validator.New()}
}

// List handles GET /api/venues.
func (h *VenuesHandler) List(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	venues, err := h.venues.List(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromVenues(venues))
}

// Get handles GET /api/venues/:id.
func (h *VenuesHandler) Get(c *fiber.Ctx) error {
	venue, err := h.venues.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromVenue(venue))
}

// Create handles POST /api/venues (admin only).
func (h *VenuesHandler) Create(c *fiber.Ctx) error {
	var req dto.VenueRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return err
	}

	venue, err := h.venues.Create(c.UserContext(), req.Input())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.FromVenue(venue))
}

// Update handles PUT /api/venues/:id (admin only).
func (h *VenuesHandler) Update(c *fiber.Ctx) error {
	var req dto.VenueRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return err
	}

	venue, err := h.venues.Update(c.UserContext(), c.Params("id"), req.Input())
	if err != nil {
		return err
	}
	return c.JSON(dto.FromVenue(venue))
}

// Delete handles DELETE /api/venues/:id (admin only).
func (h *VenuesHandler) Delete(c *fiber.Ctx) error {
	if err := h.venues.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
