package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/event-service/internal/cache"
	"github.com/spec-kit/event-service/internal/domain"
	"github.com/spec-kit/event-service/internal/events"
	"github.com/spec-kit/event-service/internal/repository"
	apperrors "github.com/spec-kit/event-service/pkg/util"
)

// EventService coordinates event workflows and enforces the venue
// scheduling invariant: no two events may occupy overlapping time on the
// same venue.
type EventService struct {
	eventsRepo repository.EventRepository
	venues     repository.VenueRepository
	cache      *cache.EventCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// EventDependencies bundles requirements for the event service.
type EventDependencies struct {
	EventRepo  repository.EventRepository
	VenueRepo  repository.VenueRepository
	Cache      *cache.EventCache
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// EventInput describes event creation and update payloads.
type EventInput struct {
	Title       string
	Description string
	Price       float64
	StartTime   time.Time
	EndTime     time.Time
	VenueID     string
	Category    domain.EventCategory
}

// NewEventService constructs the service.
func NewEventService(deps EventDependencies) *EventService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &EventService{
		eventsRepo: deps.EventRepo,
		venues:     deps.VenueRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

func (s *EventService) validate(input EventInput) (EventInput, error) {
	if input.Title == "" {
		return input, apperrors.NewValidationError("title required", nil)
	}
	if !input.EndTime.After(input.StartTime) {
		return input, apperrors.NewValidationError("end time must be after start time", nil)
	}
	if input.Category == "" {
		input.Category = domain.CategoryGeneral
	}
	if !input.Category.Valid() {
		return input, apperrors.NewValidationError("unknown event category",
			map[string]any{"category": string(input.Category)})
	}
	return input, nil
}

// Create persists a new event. The schedule check and the insert run
// inside one transaction; concurrent conflicting creates are resolved by
// the storage exclusion constraint and surface as the same conflict error.
func (s *EventService) Create(ctx context.Context, input EventInput) (*domain.Event, error) {
	input, err := s.validate(input)
	if err != nil {
		return nil, err
	}

	if _, err := s.venues.GetByID(ctx, input.VenueID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("venue", map[string]any{"id": input.VenueID})
		}
		return nil, err
	}

	event := &domain.Event{
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		VenueID:     input.VenueID,
		Category:    input.Category,
	}
	if err := s.eventsRepo.Create(ctx, event); err != nil {
		return nil, s.mapScheduleError(err, input)
	}

	s.publish(ctx, events.EventEventCreated, events.EventCreatedPayload{
		EventID:   event.ID,
		Title:     event.Title,
		VenueID:   event.VenueID,
		StartTime: event.StartTime,
		EndTime:   event.EndTime,
		Category:  event.Category,
	})

	return event, nil
}

// Update modifies an event under the same transactional schedule check,
// excluding the event's own interval from the overlap test.
func (s *EventService) Update(ctx context.Context, id string, input EventInput) (*domain.Event, error) {
	input, err := s.validate(input)
	if err != nil {
		return nil, err
	}

	event, err := s.eventsRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("event", map[string]any{"id": id})
		}
		return nil, err
	}

	if _, err := s.venues.GetByID(ctx, input.VenueID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("venue", map[string]any{"id": input.VenueID})
		}
		return nil, err
	}

	event.Title = input.Title
	event.Description = input.Description
	event.Price = input.Price
	event.StartTime = input.StartTime
	event.EndTime = input.EndTime
	event.VenueID = input.VenueID
	event.Category = input.Category

	if err := s.eventsRepo.Update(ctx, event); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("event", map[string]any{"id": id})
		}
		return nil, s.mapScheduleError(err, input)
	}

	s.cache.Invalidate(ctx, event.ID)
	s.publish(ctx, events.EventEventUpdated, events.EventCreatedPayload{
		EventID:   event.ID,
		Title:     event.Title,
		VenueID:   event.VenueID,
		StartTime: event.StartTime,
		EndTime:   event.EndTime,
		Category:  event.Category,
	})

	return event, nil
}

// HasConflict reports whether the candidate interval overlaps any existing
// event on the venue. excludeID lets an update check against all other
// intervals: an event never conflicts with itself.
func (s *EventService) HasConflict(ctx context.Context, venueID string, start, end time.Time, excludeID *string) (bool, error) {
	overlapping, err := s.eventsRepo.FindOverlapping(ctx, venueID, start, end)
	if err != nil {
		return false, err
	}
	for _, event := range overlapping {
		if excludeID != nil && event.ID == *excludeID {
			continue
		}
		return true, nil
	}
	return false, nil
}

// Get returns a single event, serving from cache when possible.
func (s *EventService) Get(ctx context.Context, id string) (*domain.Event, error) {
	if cached := s.cache.GetEvent(ctx, id); cached != nil {
		return cached, nil
	}

	event, err := s.eventsRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("event", map[string]any{"id": id})
		}
		return nil, err
	}

	s.cache.SetEvent(ctx, event)
	return event, nil
}

// List returns a page of events ordered by start time.
func (s *EventService) List(ctx context.Context, limit, offset int) ([]domain.Event, error) {
	if cached := s.cache.GetList(ctx, limit, offset); cached != nil {
		return cached, nil
	}

	list, err := s.eventsRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	s.cache.SetList(ctx, limit, offset, list)
	return list, nil
}

// ListByIDs returns the events matching the given ids.
func (s *EventService) ListByIDs(ctx context.Context, ids []string) ([]domain.Event, error) {
	return s.eventsRepo.ListByIDs(ctx, ids)
}

// Delete removes an event.
func (s *EventService) Delete(ctx context.Context, id string) error {
	if err := s.eventsRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("event", map[string]any{"id": id})
		}
		return err
	}
	s.cache.Invalidate(ctx, id)
	return nil
}

func (s *EventService) mapScheduleError(err error, input EventInput) error {
	if errors.Is(err, repository.ErrScheduleConflict) {
		return apperrors.NewSchedulingConflict(map[string]any{
			"venue_id": input.VenueID,
			"start":    input.StartTime,
			"end":      input.EndTime,
		})
	}
	return err
}

func (s *EventService) publish(ctx context.Context, eventType events.EventType, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	err := s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	})
	if err != nil {
		s.logger.Warn("event publish failed", zap.String("event_type", string(eventType)), zap.Error(err))
	}
}
