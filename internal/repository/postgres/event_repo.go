package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"eventhub/internal/domain"
)

const eventColumns = `id, title, description, date, time, location, category, capacity, image, host_id, created_at, updated_at`

// attendeeCountExpr is the correlated count used both in the select list and
// in ORDER BY. Postgres resolves names inside an ORDER BY expression against
// input columns only, so the select-list alias cannot be reused there.
const attendeeCountExpr = `(SELECT COUNT(*) FROM event_attendees a WHERE a.event_id = events.id)`

type eventRepository struct {
	DB *sql.DB
}

// NewEventRepository returns an EventRepository backed by Postgres. All
// aggregate mutations run in a transaction that locks the event row
// (SELECT ... FOR UPDATE) before validating, so concurrent joins on the
// last free slot serialize and exactly one succeeds.
func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	query := `
		INSERT INTO events (id, title, description, date, time, location, category, capacity, image, host_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.DB.ExecContext(ctx, query,
		e.ID, e.Title, e.Description, e.Date, e.Time, e.Location,
		string(e.Category), e.Capacity, e.Image, e.HostID, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1
	`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	attendees, err := r.listAttendees(ctx, []string{e.ID})
	if err != nil {
		return nil, err
	}
	e.Attendees = attendees[e.ID]
	if e.Attendees == nil {
		e.Attendees = []*domain.Attendee{}
	}
	return e, nil
}

// List narrows by filter and orders by the requested sort in one query.
// The date sort is plain string ordering over the TEXT date column.
func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, error) {
	where := []string{}
	args := []interface{}{}
	n := 1
	if filter.Category != "" && filter.Category != domain.AllCategories {
		where = append(where, fmt.Sprintf("category = $%d", n))
		args = append(args, filter.Category)
		n++
	}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d OR location ILIKE $%d)", n, n, n))
		args = append(args, "%"+filter.Search+"%")
		n++
	}

	var orderBy string
	switch filter.Sort {
	case domain.SortDate:
		orderBy = "date ASC"
	case domain.SortPopularity:
		orderBy = "attendee_count DESC"
	case domain.SortRemainingCapacity:
		orderBy = "capacity - " + attendeeCountExpr + " DESC"
	default:
		orderBy = "created_at DESC"
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}
	query := fmt.Sprintf(`
		SELECT %s, %s AS attendee_count
		FROM events
		%s
		ORDER BY %s
	`, eventColumns, attendeeCountExpr, whereClause, orderBy)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e := &domain.Event{}
		var imageNull sql.NullString
		var attendeeCount int
		if err := rows.Scan(
			&e.ID, &e.Title, &e.Description, &e.Date, &e.Time, &e.Location,
			&e.Category, &e.Capacity, &imageNull, &e.HostID, &e.CreatedAt, &e.UpdatedAt,
			&attendeeCount,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if imageNull.Valid {
			e.Image = imageNull.String
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return r.attachAttendees(ctx, events)
}

func (r *eventRepository) ListByHostID(ctx context.Context, hostID string) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE host_id = $1
		ORDER BY created_at DESC
	`
	return r.queryEvents(ctx, query, hostID)
}

func (r *eventRepository) ListByAttendeeID(ctx context.Context, userID string) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE EXISTS (SELECT 1 FROM event_attendees a WHERE a.event_id = events.id AND a.user_id = $1)
		ORDER BY created_at DESC
	`
	return r.queryEvents(ctx, query, userID)
}

func (r *eventRepository) AddAttendee(ctx context.Context, eventID string, att *domain.Attendee) (_ *domain.Event, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Row lock serializes concurrent joins on this event.
	var capacity int
	err = tx.QueryRowContext(ctx, `SELECT capacity FROM events WHERE id = $1 FOR UPDATE`, eventID).Scan(&capacity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("lock event row: %w", err)
	}

	existing, err := scanAttendeeRows(tx.QueryContext(ctx,
		`SELECT user_id, name, mail, serial_number, joined_at FROM event_attendees WHERE event_id = $1`, eventID))
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}

	// Membership check before the capacity check: a duplicate join must
	// report ErrAlreadyJoined even when the event is full.
	for _, a := range existing {
		if a.UserID == att.UserID {
			return nil, domain.ErrAlreadyJoined
		}
	}
	if domain.IsFull(len(existing), capacity) {
		return nil, domain.ErrEventFull
	}

	att.SerialNumber = domain.NextSerialNumber(existing)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO event_attendees (event_id, user_id, name, mail, serial_number, joined_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		eventID, att.UserID, att.Name, att.Mail, att.SerialNumber, att.JoinedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert attendee: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit join: %w", err)
	}
	return r.GetByID(ctx, eventID)
}

func (r *eventRepository) RemoveAttendee(ctx context.Context, eventID, userID string) (_ *domain.Event, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	err = tx.QueryRowContext(ctx, `SELECT id FROM events WHERE id = $1 FOR UPDATE`, eventID).Scan(&eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("lock event row: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM event_attendees WHERE event_id = $1 AND user_id = $2`, eventID, userID)
	if err != nil {
		return nil, fmt.Errorf("delete attendee: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, domain.ErrNotJoined
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit leave: %w", err)
	}
	return r.GetByID(ctx, eventID)
}

func (r *eventRepository) Update(ctx context.Context, eventID string, upd domain.EventUpdate) (_ *domain.Event, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var capacity int
	err = tx.QueryRowContext(ctx, `SELECT capacity FROM events WHERE id = $1 FOR UPDATE`, eventID).Scan(&capacity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("lock event row: %w", err)
	}

	// Validate the capacity change against the current occupancy before
	// any field is written, so a rejection aborts the whole update.
	if upd.Capacity != nil {
		var attendeeCount int
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM event_attendees WHERE event_id = $1`, eventID).Scan(&attendeeCount)
		if err != nil {
			return nil, fmt.Errorf("count attendees: %w", err)
		}
		if err = domain.ValidateCapacityChange(attendeeCount, *upd.Capacity); err != nil {
			return nil, err
		}
	}

	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	add := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}
	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.Date != nil {
		add("date", *upd.Date)
	}
	if upd.Time != nil {
		add("time", *upd.Time)
	}
	if upd.Location != nil {
		add("location", *upd.Location)
	}
	if upd.Category != nil {
		add("category", string(*upd.Category))
	}
	if upd.Capacity != nil {
		add("capacity", *upd.Capacity)
	}
	if upd.Image != nil {
		add("image", *upd.Image)
	}

	args = append(args, eventID)
	query := fmt.Sprintf(`
		UPDATE events SET %s
		WHERE id = $%d
		RETURNING `+eventColumns+`
	`, strings.Join(setClauses, ", "), n)
	e, err := scanEvent(tx.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, err
	}
	e.Attendees, err = scanAttendeeRows(tx.QueryContext(ctx,
		`SELECT user_id, name, mail, serial_number, joined_at FROM event_attendees WHERE event_id = $1 ORDER BY joined_at, serial_number`, eventID))
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}
	return e, nil
}

// queryEvents runs a query returning plain event rows and attaches their
// attendee lists.
func (r *eventRepository) queryEvents(ctx context.Context, query string, args ...interface{}) ([]*domain.Event, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e := &domain.Event{}
		var imageNull sql.NullString
		if err := rows.Scan(
			&e.ID, &e.Title, &e.Description, &e.Date, &e.Time, &e.Location,
			&e.Category, &e.Capacity, &imageNull, &e.HostID, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if imageNull.Valid {
			e.Image = imageNull.String
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return r.attachAttendees(ctx, events)
}

func (r *eventRepository) attachAttendees(ctx context.Context, events []*domain.Event) ([]*domain.Event, error) {
	if len(events) == 0 {
		return events, nil
	}
	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	byEvent, err := r.listAttendees(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, e := range events {
		e.Attendees = byEvent[e.ID]
		if e.Attendees == nil {
			e.Attendees = []*domain.Attendee{}
		}
	}
	return events, nil
}

func (r *eventRepository) listAttendees(ctx context.Context, eventIDs []string) (map[string][]*domain.Attendee, error) {
	query := `
		SELECT event_id, user_id, name, mail, serial_number, joined_at
		FROM event_attendees
		WHERE event_id = ANY($1)
		ORDER BY joined_at, serial_number
	`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(eventIDs))
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	defer rows.Close()

	byEvent := make(map[string][]*domain.Attendee)
	for rows.Next() {
		var eventID string
		a := &domain.Attendee{}
		if err := rows.Scan(&eventID, &a.UserID, &a.Name, &a.Mail, &a.SerialNumber, &a.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan attendee: %w", err)
		}
		byEvent[eventID] = append(byEvent[eventID], a)
	}
	return byEvent, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var imageNull sql.NullString
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Date, &e.Time, &e.Location,
		&e.Category, &e.Capacity, &imageNull, &e.HostID, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if imageNull.Valid {
		e.Image = imageNull.String
	}
	return e, nil
}

func scanAttendeeRows(rows *sql.Rows, err error) ([]*domain.Attendee, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	attendees := make([]*domain.Attendee, 0)
	for rows.Next() {
		a := &domain.Attendee{}
		if err := rows.Scan(&a.UserID, &a.Name, &a.Mail, &a.SerialNumber, &a.JoinedAt); err != nil {
			return nil, err
		}
		attendees = append(attendees, a)
	}
	return attendees, rows.Err()
}
