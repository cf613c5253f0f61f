package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/event-service/internal/domain"
)

// ErrSeatTaken indicates one of the requested seats is already booked for
// the event. Enforced by the unique (event_id, seat_number) constraint.
var ErrSeatTaken = errors.New("seat already booked")

// BookingRepository encapsulates booking and ticket persistence.
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error
}

type bookingRepository struct {
	pool *pgxpool.Pool
}

// NewBookingRepository instantiates repository.
func NewBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &bookingRepository{pool: pool}
}

// Create inserts the booking and all its tickets in one transaction so a
// partially booked seat set never persists.
func (r *bookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const bookingQuery = `
        INSERT INTO bookings (user_id, event_id, booking_date, status)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, bookingQuery,
		booking.UserID,
		booking.EventID,
		booking.BookingDate,
		booking.Status,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return err
	}

	const ticketQuery = `
        INSERT INTO tickets (booking_id, event_id, seat_number, price)
        VALUES ($1,$2,$3,$4)
        RETURNING id`
	for i := range booking.Tickets {
		ticket := &booking.Tickets[i]
		ticket.BookingID = booking.ID
		ticket.EventID = booking.EventID
		if err := tx.QueryRow(ctx, ticketQuery,
			ticket.BookingID,
			ticket.EventID,
			ticket.SeatNumber,
			ticket.Price,
		).Scan(&ticket.ID); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				return ErrSeatTaken
			}
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	const query = `
        SELECT id, user_id, event_id, booking_date, status, created_at, updated_at
        FROM bookings WHERE id=$1`

	var booking domain.Booking
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.UserID,
		&booking.EventID,
		&booking.BookingDate,
		&booking.Status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := r.loadTickets(ctx, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) loadTickets(ctx context.Context, booking *domain.Booking) error {
	const query = `
        SELECT id, booking_id, event_id, seat_number, price
        FROM tickets WHERE booking_id=$1 ORDER BY seat_number`

	rows, err := r.pool.Query(ctx, query, booking.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.BookingID,
			&ticket.EventID,
			&ticket.SeatNumber,
			&ticket.Price,
		); err != nil {
			return err
		}
		booking.Tickets = append(booking.Tickets, ticket)
	}
	return rows.Err()
}

func (r *bookingRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Booking, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	const query = `
        SELECT id, user_id, event_id, booking_date, status, created_at, updated_at
        FROM bookings WHERE user_id=$1 ORDER BY booking_date DESC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var booking domain.Booking
		if err := rows.Scan(
			&booking.ID,
			&booking.UserID,
			&booking.EventID,
			&booking.BookingDate,
			&booking.Status,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		); err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range bookings {
		if err := r.loadTickets(ctx, &bookings[i]); err != nil {
			return nil, err
		}
	}
	return bookings, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	const query = `UPDATE bookings SET status=$1, updated_at=NOW() WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
