package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/event-service/internal/domain"
)

// ErrScheduleConflict indicates the candidate interval overlaps an existing
// event on the same venue. Returned both by the in-transaction check and by
// the storage exclusion constraint backstop.
var ErrScheduleConflict = errors.New("venue schedule conflict")

// EventRepository encapsulates event persistence. Create and Update run the
// overlap check and the write inside a single transaction; the database
// exclusion constraint on (venue_id, interval) is the authoritative
// backstop for concurrent writers.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	Update(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context, limit, offset int) ([]domain.Event, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.Event, error)
	Delete(ctx context.Context, id string) error
	FindOverlapping(ctx context.Context, venueID string, start, end time.Time) ([]domain.Event, error)
}

type eventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository instantiates repository.
func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &eventRepository{pool: pool}
}

const eventColumns = `id, title, description, price, start_time, end_time, venue_id, category, created_at, updated_at`

const overlapQuery = `
        SELECT ` + eventColumns + `
        FROM events
        WHERE venue_id=$1 AND start_time < $3 AND end_time > $2
          AND ($4::uuid IS NULL OR id <> $4::uuid)`

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	conflict, err := hasOverlapTx(ctx, tx, event.VenueID, event.StartTime, event.EndTime, nil)
	if err != nil {
		return err
	}
	if conflict {
		return ErrScheduleConflict
	}

	const query = `
        INSERT INTO events (title, description, price, start_time, end_time, venue_id, category)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, query,
		event.Title,
		event.Description,
		event.Price,
		event.StartTime,
		event.EndTime,
		event.VenueID,
		event.Category,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt); err != nil {
		return translateExclusion(err)
	}

	return tx.Commit(ctx)
}

func (r *eventRepository) Update(ctx context.Context, event *domain.Event) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	conflict, err := hasOverlapTx(ctx, tx, event.VenueID, event.StartTime, event.EndTime, &event.ID)
	if err != nil {
		return err
	}
	if conflict {
		return ErrScheduleConflict
	}

	const query = `
        UPDATE events SET title=$1, description=$2, price=$3, start_time=$4, end_time=$5,
            venue_id=$6, category=$7, updated_at=NOW()
        WHERE id=$8`
	cmd, err := tx.Exec(ctx, query,
		event.Title,
		event.Description,
		event.Price,
		event.StartTime,
		event.EndTime,
		event.VenueID,
		event.Category,
		event.ID,
	)
	if err != nil {
		return translateExclusion(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return tx.Commit(ctx)
}

// hasOverlapTx runs the half-open overlap test inside the caller's
// transaction: existing.start < candidate.end AND candidate.start <
// existing.end. excludeID lets an update check against all other intervals.
func hasOverlapTx(ctx context.Context, tx pgx.Tx, venueID string, start, end time.Time, excludeID *string) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM events
            WHERE venue_id=$1 AND start_time < $3 AND end_time > $2
              AND ($4::uuid IS NULL OR id <> $4::uuid)
        )`
	var exists bool
	if err := tx.QueryRow(ctx, query, venueID, start, end, excludeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func translateExclusion(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ExclusionViolation {
		return ErrScheduleConflict
	}
	return err
}

func (r *eventRepository) FindOverlapping(ctx context.Context, venueID string, start, end time.Time) ([]domain.Event, error) {
	rows, err := r.pool.Query(ctx, overlapQuery, venueID, start, end, nil)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	const query = `SELECT ` + eventColumns + ` FROM events WHERE id=$1`

	var event domain.Event
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Price,
		&event.StartTime,
		&event.EndTime,
		&event.VenueID,
		&event.Category,
		&event.CreatedAt,
		&event.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) List(ctx context.Context, limit, offset int) ([]domain.Event, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	const query = `
        SELECT ` + eventColumns + `
        FROM events ORDER BY start_time ASC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *eventRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Event, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	const query = `SELECT ` + eventColumns + ` FROM events WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanEvents(rows pgx.Rows) ([]domain.Event, error) {
	var events []domain.Event
	for rows.Next() {
		var event domain.Event
		if err := rows.Scan(
			&event.ID,
			&event.Title,
			&event.Description,
			&event.Price,
			&event.StartTime,
			&event.EndTime,
			&event.VenueID,
			&event.Category,
			&event.CreatedAt,
			&event.UpdatedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
