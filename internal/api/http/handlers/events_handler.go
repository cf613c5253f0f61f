package handlers

import (
	"net/http"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-service/internal/api/dto"
	"github.com/spec-kit/event-service/internal/service"
)

// EventsHandler exposes event catalog endpoints.
type EventsHandler struct {
	events   *service.EventService
	validate *validator.Validate
}

// NewEventsHandler constructs handler.
func NewEventsHandler(eventService *service.EventService) *EventsHandler {
	return &EventsHandler{events: eventService, validate: validator.New()}
}

// List handles GET /api/events.
func (h *EventsHandler) List(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	events, err := h.events.List(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromEvents(events))
}

// Get handles GET /api/events/:id.
func (h *EventsHandler) Get(c *fiber.Ctx) error {
	event, err := h.events.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromEvent(event))
}

// Create handles POST /api/events (admin only).
func (h *EventsHandler) Create(c *fiber.Ctx) error {
	var req dto.EventRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return err
	}

	event, err := h.events.Create(c.UserContext(), req.Input())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.FromEvent(event))
}

// Update handles PUT /api/events/:id (admin only).
func (h *EventsHandler) Update(c *fiber.Ctx) error {
	var req dto.EventRequest
	if err := parseBody(c, h.validate, &req); err != nil {
		return err
	}

	event, err := h.events.Update(c.UserContext(), c.Params("id"), req.Input())
	if err != nil {
		return err
	}
	return c.JSON(dto.FromEvent(event))
}

// Delete handles DELETE /api/events/:id (admin only).
func (h *EventsHandler) Delete(c *fiber.Ctx) error {
	if err := h.events.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
