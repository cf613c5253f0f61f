package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/event-service/internal/domain"
	"github.com/spec-kit/event-service/internal/events"
	"github.com/spec-kit/event-service/internal/repository"
)

// In-memory repository fakes mirroring the persistence contracts,
// including the transactional overlap check and the seat uniqueness rule.

type fakeEventRepo struct {
	mu     sync.Mutex
	seq    int
	events map[string]*domain.Event

	// writeErr, when set, is returned by Create/Update after the overlap
	// check passes, mimicking a storage constraint firing at write time.
	writeErr error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[string]*domain.Event)}
}

func (r *fakeEventRepo) nextID() string {
	r.seq++
	return fmt.Sprintf("event-%d", r.seq)
}

func (r *fakeEventRepo) hasOverlap(venueID string, start, end time.Time, excludeID string) bool {
	for _, existing := range r.events {
		if existing.VenueID != venueID || existing.ID == excludeID {
			continue
		}
		if existing.Overlaps(start, end) {
			return true
		}
	}
	return false
}

func (r *fakeEventRepo) Create(_ context.Context, event *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hasOverlap(event.VenueID, event.StartTime, event.EndTime, "") {
		return repository.ErrScheduleConflict
	}
	if r.writeErr != nil {
		return r.writeErr
	}
	event.ID = r.nextID()
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt
	clone := *event
	r.events[event.ID] = &clone
	return nil
}

func (r *fakeEventRepo) Update(_ context.Context, event *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[event.ID]; !ok {
		return pgx.ErrNoRows
	}
	if r.hasOverlap(event.VenueID, event.StartTime, event.EndTime, event.ID) {
		return repository.ErrScheduleConflict
	}
	if r.writeErr != nil {
		return r.writeErr
	}
	event.UpdatedAt = time.Now()
	clone := *event
	r.events[event.ID] = &clone
	return nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *event
	return &clone, nil
}

func (r *fakeEventRepo) List(_ context.Context, limit, offset int) ([]domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Event, 0, len(r.events))
	for _, event := range r.events {
		out = append(out, *event)
	}
	return out, nil
}

func (r *fakeEventRepo) ListByIDs(_ context.Context, ids []string) ([]domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Event, 0, len(ids))
	for _, id := range ids {
		if event, ok := r.events[id]; ok {
			out = append(out, *event)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.events, id)
	return nil
}

func (r *fakeEventRepo) FindOverlapping(_ context.Context, venueID string, start, end time.Time) ([]domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Event
	for _, event := range r.events {
		if event.VenueID == venueID && event.Overlaps(start, end) {
			out = append(out, *event)
		}
	}
	return out, nil
}

type fakeVenueRepo struct {
	mu     sync.Mutex
	seq    int
	venues map[string]*domain.Venue
}

func newFakeVenueRepo() *fakeVenueRepo {
	return &fakeVenueRepo{venues: make(map[string]*domain.Venue)}
}

func (r *fakeVenueRepo) add(name, address string) *domain.Venue {
	r.seq++
	venue := &domain.Venue{ID: fmt.Sprintf("venue-%d", r.seq), Name: name, Address: address}
	r.venues[venue.ID] = venue
	return venue
}

func (r *fakeVenueRepo) Create(_ context.Context, venue *domain.Venue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	venue.ID = fmt.Sprintf("venue-%d", r.seq)
	clone := *venue
	r.venues[venue.ID] = &clone
	return nil
}

func (r *fakeVenueRepo) Update(_ context.Context, venue *domain.Venue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.venues[venue.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *venue
	r.venues[venue.ID] = &clone
	return nil
}

func (r *fakeVenueRepo) GetByID(_ context.Context, id string) (*domain.Venue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	venue, ok := r.venues[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *venue
	return &clone, nil
}

func (r *fakeVenueRepo) GetByNameAndAddress(_ context.Context, name, address string) (*domain.Venue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, venue := range r.venues {
		if venue.Name == name && venue.Address == address {
			clone := *venue
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeVenueRepo) List(_ context.Context, limit, offset int) ([]domain.Venue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Venue, 0, len(r.venues))
	for _, venue := range r.venues {
		out = append(out, *venue)
	}
	return out, nil
}

func (r *fakeVenueRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.venues[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.venues, id)
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(_ context.Context, limit, offset int) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, *user)
	}
	return out, nil
}

func (r *fakeUserRepo) AddLikedEvent(_ context.Context, userID, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	for _, id := range user.LikedEventIDs {
		if id == eventID {
			return nil
		}
	}
	user.LikedEventIDs = append(user.LikedEventIDs, eventID)
	return nil
}

func (r *fakeUserRepo) RemoveLikedEvent(_ context.Context, userID, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	kept := user.LikedEventIDs[:0]
	for _, id := range user.LikedEventIDs {
		if id != eventID {
			kept = append(kept, id)
		}
	}
	user.LikedEventIDs = kept
	return nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	seq      int
	bookings map[string]*domain.Booking
	seats    map[string]map[string]bool // eventID -> seat -> taken
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings: make(map[string]*domain.Booking),
		seats:    make(map[string]map[string]bool),
	}
}

func (r *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	taken := r.seats[booking.EventID]
	for _, ticket := range booking.Tickets {
		if taken[ticket.SeatNumber] {
			return repository.ErrSeatTaken
		}
	}
	if taken == nil {
		taken = make(map[string]bool)
		r.seats[booking.EventID] = taken
	}
	r.seq++
	booking.ID = fmt.Sprintf("booking-%d", r.seq)
	for i := range booking.Tickets {
		booking.Tickets[i].ID = fmt.Sprintf("ticket-%d-%d", r.seq, i)
		booking.Tickets[i].BookingID = booking.ID
		taken[booking.Tickets[i].SeatNumber] = true
	}
	clone := *booking
	clone.Tickets = append([]domain.Ticket(nil), booking.Tickets...)
	r.bookings[booking.ID] = &clone
	return nil
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *booking
	clone.Tickets = append([]domain.Ticket(nil), booking.Tickets...)
	return &clone, nil
}

func (r *fakeBookingRepo) ListByUser(_ context.Context, userID string, limit, offset int) ([]domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Booking
	for _, booking := range r.bookings {
		if booking.UserID == userID {
			out = append(out, *booking)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, id string, status domain.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return pgx.ErrNoRows
	}
	booking.Status = status
	return nil
}

// recordingDispatcher captures published events for assertions.
type recordingDispatcher struct {
	mu        sync.Mutex
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

// failingDispatcher simulates handlers erroring on every publish.
type failingDispatcher struct{}

func (failingDispatcher) Publish(context.Context, events.Event) error {
	return errors.New("handler failed")
}

func (failingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.EventType, 0, len(d.published))
	for _, event := range d.published {
		out = append(out, event.Type)
	}
	return out
}
