package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	leadsrepo "tripdesk_backend/internal/leads/repository"
	"tripdesk_backend/platform/apperr"
)

const bookingNotFoundMessage = "booking not found"

const bookingColumns = `id, reference, lead_id, package_id, package_name, customer_name, customer_email, customer_phone, travelers_count, departure_date, notes, status, assigned_to, assigned_agent_name, assignment_mode, assigned_by, created_at, updated_at`

const bookingHistoryColumns = `id, booking_id, status, changed_by, note, created_at`

// leadCreator is the slice of the leads repository needed to create the
// companion lead inside the booking transaction.
type leadCreator interface {
	CreateTx(ctx context.Context, tx pgx.Tx, params leadsrepo.CreateParams) (leadsrepo.Lead, error)
}

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool  *pgxpool.Pool
	leads leadCreator
}

// New creates a new bookings repository.
func New(pool *pgxpool.Pool, leads leadCreator) *Repo {
	return &Repo{pool: pool, leads: leads}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// CreateWithLead inserts the companion lead, the booking, and both seed
// history entries in a single transaction.
func (r *Repo) CreateWithLead(ctx context.Context, params CreateParams, leadParams leadsrepo.CreateParams) (Booking, leadsrepo.Lead, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Booking{}, leadsrepo.Lead{}, fmt.Errorf("begin create booking: %w", err)
	}
	defer tx.Rollback(ctx)

	lead, err := r.leads.CreateTx(ctx, tx, leadParams)
	if err != nil {
		return Booking{}, leadsrepo.Lead{}, err
	}

	query := fmt.Sprintf(`
		INSERT INTO bookings (
			reference, lead_id, package_id, package_name, customer_name, customer_email,
			customer_phone, travelers_count, departure_date, notes, status,
			assigned_to, assigned_agent_name, assignment_mode, assigned_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING %s`, bookingColumns)

	booking, err := scanBooking(tx.QueryRow(ctx, query,
		params.Reference, lead.ID, params.PackageID, params.PackageName,
		params.CustomerName, params.CustomerEmail, params.CustomerPhone,
		params.TravelersCount, params.DepartureDate, params.Notes, params.Status,
		params.AssignedTo, params.AssignedAgentName, params.AssignmentMode, params.AssignedBy,
	))
	if err != nil {
		return Booking{}, leadsrepo.Lead{}, fmt.Errorf("insert booking: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO booking_status_history (booking_id, status, changed_by, note) VALUES ($1, $2, $3, $4)`,
		booking.ID, booking.Status, params.AssignedBy, nil,
	)
	if err != nil {
		return Booking{}, leadsrepo.Lead{}, fmt.Errorf("insert booking seed history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Booking{}, leadsrepo.Lead{}, fmt.Errorf("commit create booking: %w", err)
	}
	return booking, lead, nil
}

// GetByID retrieves a booking by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE id = $1`, bookingColumns)

	booking, err := scanBooking(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Booking{}, apperr.NotFound(bookingNotFoundMessage)
		}
		return Booking{}, fmt.Errorf("get booking by id: %w", err)
	}
	return booking, nil
}

// GetByReference retrieves a booking by its human-readable reference.
func (r *Repo) GetByReference(ctx context.Context, reference string) (Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE reference = $1`, bookingColumns)

	booking, err := scanBooking(r.pool.QueryRow(ctx, query, reference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Booking{}, apperr.NotFound(bookingNotFoundMessage)
		}
		return Booking{}, fmt.Errorf("get booking by reference: %w", err)
	}
	return booking, nil
}

// List retrieves bookings matching the filter, newest first.
func (r *Repo) List(ctx context.Context, filter ListFilter) ([]Booking, error) {
	whereClauses := []string{}
	args := []interface{}{}

	addWhere := func(condition string, value interface{}) {
		args = append(args, value)
		whereClauses = append(whereClauses, fmt.Sprintf(condition, len(args)))
	}

	if filter.Status != nil {
		addWhere("status = $%d", *filter.Status)
	}
	if filter.AssignedTo != nil {
		addWhere("assigned_to = $%d", *filter.AssignedTo)
	}

	query := fmt.Sprintf(`SELECT %s FROM bookings`, bookingColumns)
	if len(whereClauses) > 0 {
		query += " WHERE " + strings.Join(whereClauses, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	return bookings, nil
}

// UpdateStatus moves a booking to a new status and appends the history
// entry in the same transaction.
func (r *Repo) UpdateStatus(ctx context.Context, params UpdateStatusParams) (Booking, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Booking{}, fmt.Errorf("begin update booking status: %w", err)
	}
	defer tx.Rollback(ctx)

	query := fmt.Sprintf(
		`UPDATE bookings SET status = $1, updated_at = now() WHERE id = $2 RETURNING %s`,
		bookingColumns,
	)

	booking, err := scanBooking(tx.QueryRow(ctx, query, params.Status, params.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Booking{}, apperr.NotFound(bookingNotFoundMessage)
		}
		return Booking{}, fmt.Errorf("update booking status: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO booking_status_history (booking_id, status, changed_by, note) VALUES ($1, $2, $3, $4)`,
		booking.ID, params.Status, params.ChangedBy, params.Note,
	)
	if err != nil {
		return Booking{}, fmt.Errorf("insert booking status history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Booking{}, fmt.Errorf("commit update booking status: %w", err)
	}
	return booking, nil
}

// UpdateAssignment changes a booking's owner and records the change as a
// history entry under the booking's current status.
func (r *Repo) UpdateAssignment(ctx context.Context, params UpdateAssignmentParams) (Booking, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Booking{}, fmt.Errorf("begin update booking assignment: %w", err)
	}
	defer tx.Rollback(ctx)

	query := fmt.Sprintf(`
		UPDATE bookings
		SET assigned_to = $1, assigned_agent_name = $2, assignment_mode = $3, assigned_by = $4, updated_at = now()
		WHERE id = $5
		RETURNING %s`, bookingColumns)

	booking, err := scanBooking(tx.QueryRow(ctx, query,
		params.AssignedTo, params.AssignedAgentName, params.AssignmentMode, params.AssignedBy, params.ID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Booking{}, apperr.NotFound(bookingNotFoundMessage)
		}
		return Booking{}, fmt.Errorf("update booking assignment: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO booking_status_history (booking_id, status, changed_by, note) VALUES ($1, $2, $3, $4)`,
		booking.ID, booking.Status, params.ChangedBy, params.HistoryNote,
	)
	if err != nil {
		return Booking{}, fmt.Errorf("insert booking assignment history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Booking{}, fmt.Errorf("commit update booking assignment: %w", err)
	}
	return booking, nil
}

// ListHistory returns a booking's status history in insertion order.
func (r *Repo) ListHistory(ctx context.Context, bookingID uuid.UUID) ([]HistoryEntry, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM booking_status_history WHERE booking_id = $1 ORDER BY id ASC`,
		bookingHistoryColumns,
	)

	rows, err := r.pool.Query(ctx, query, bookingID)
	if err != nil {
		return nil, fmt.Errorf("list booking status history: %w", err)
	}
	defer rows.Close()

	entries := make([]HistoryEntry, 0)
	for rows.Next() {
		var entry HistoryEntry
		err := rows.Scan(
			&entry.ID,
			&entry.BookingID,
			&entry.Status,
			&entry.ChangedBy,
			&entry.Note,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking status history: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking status history: %w", err)
	}

	return entries, nil
}

type bookingRowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(s bookingRowScanner) (Booking, error) {
	var booking Booking
	err := s.Scan(
		&booking.ID,
		&booking.Reference,
		&booking.LeadID,
		&booking.PackageID,
		&booking.PackageName,
		&booking.CustomerName,
		&booking.CustomerEmail,
		&booking.CustomerPhone,
		&booking.TravelersCount,
		&booking.DepartureDate,
		&booking.Notes,
		&booking.Status,
		&booking.AssignedTo,
		&booking.AssignedAgentName,
		&booking.AssignmentMode,
		&booking.AssignedBy,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	return booking, err
}
