package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"codeclub/internal/common"
	"codeclub/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	FindByID(ctx context.Context, id int64) (*model.Event, error)
	List(ctx context.Context) ([]model.Event, error)
	Update(ctx context.Context, event *model.Event) error

	// Delete drops the event together with its registrations, but refuses
	// (common.ErrConflict) when contest results reference it, so recorded
	// scores never go orphaned.
	Delete(ctx context.Context, id int64) error

	// Register enforces at most one registration per (event, user); a
	// duplicate yields common.ErrConflict.
	Register(ctx context.Context, eventID, userID int64) (*model.EventRegistration, error)
	Unregister(ctx context.Context, eventID, userID int64) error
	ListRegistrations(ctx context.Context, eventID int64) ([]model.EventRegistration, error)
}

type pgEventRepository struct {
	db *sql.DB
}

func NewPgEventRepository(db *sql.DB) EventRepository {
	return &pgEventRepository{db: db}
}

const eventColumns = `id, title, description, event_type, date, duration_minutes, location, created_by, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (*model.Event, error) {
	event := &model.Event{}
	err := row.Scan(
		&event.ID, &event.Title, &event.Description, &event.EventType, &event.Date,
		&event.DurationMinutes, &event.Location, &event.CreatedBy, &event.CreatedAt, &event.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return event, nil
}

func (r *pgEventRepository) Create(ctx context.Context, event *model.Event) error {
	query := `INSERT INTO events (title, description, event_type, date, duration_minutes, location, created_by)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		event.Title, event.Description, event.EventType, event.Date,
		event.DurationMinutes, event.Location, event.CreatedBy,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pgEventRepository.Create: %w", err)
	}
	return nil
}

func (r *pgEventRepository) FindByID(ctx context.Context, id int64) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	event, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("pgEventRepository.FindByID: %w", err)
	}
	return event, err
}

func (r *pgEventRepository) List(ctx context.Context) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY date, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgEventRepository.List: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("pgEventRepository.List: %w", err)
		}
		events = append(events, *event)
	}
	return events, rows.Err()
}

func (r *pgEventRepository) Update(ctx context.Context, event *model.Event) error {
	query := `UPDATE events
	          SET title = $2, description = $3, event_type = $4, date = $5, duration_minutes = $6, location = $7, updated_at = now()
	          WHERE id = $1
	          RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query,
		event.ID, event.Title, event.Description, event.EventType, event.Date,
		event.DurationMinutes, event.Location,
	).Scan(&event.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		return fmt.Errorf("pgEventRepository.Update: %w", err)
	}
	return nil
}

func (r *pgEventRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // contest results reference the event
			return fmt.Errorf("event %d has recorded results: %w", id, common.ErrConflict)
		}
		return fmt.Errorf("pgEventRepository.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgEventRepository) Register(ctx context.Context, eventID, userID int64) (*model.EventRegistration, error) {
	reg := &model.EventRegistration{EventID: eventID, UserID: userID}
	query := `INSERT INTO event_registrations (event_id, user_id)
	          VALUES ($1, $2)
	          RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, eventID, userID).Scan(&reg.ID, &reg.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505": // already registered
				return nil, fmt.Errorf("user %d already registered for event %d: %w", userID, eventID, common.ErrConflict)
			case "23503": // event or user gone
				return nil, common.ErrNotFound
			}
		}
		return nil, fmt.Errorf("pgEventRepository.Register: %w", err)
	}
	return reg, nil
}

func (r *pgEventRepository) Unregister(ctx context.Context, eventID, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM event_registrations WHERE event_id = $1 AND user_id = $2`, eventID, userID)
	if err != nil {
		return fmt.Errorf("pgEventRepository.Unregister: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgEventRepository) ListRegistrations(ctx context.Context, eventID int64) ([]model.EventRegistration, error) {
	query := `SELECT id, event_id, user_id, created_at
	          FROM event_registrations WHERE event_id = $1 ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("pgEventRepository.ListRegistrations: %w", err)
	}
	defer rows.Close()

	var regs []model.EventRegistration
	for rows.Next() {
		var reg model.EventRegistration
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.UserID, &reg.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgEventRepository.ListRegistrations: %w", err)
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}
