package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tripdesk_backend/platform/apperr"
)

const leadNotFoundMessage = "lead not found"

const leadColumns = `id, customer_name, customer_email, customer_phone, destination, message, source, status, assigned_to, assigned_agent_name, assignment_mode, assigned_by, created_at, updated_at`

const historyColumns = `id, lead_id, status, changed_by, note, created_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new leads repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Create inserts a lead and its seed history entry in one transaction.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Lead, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Lead{}, fmt.Errorf("begin create lead: %w", err)
	}
	defer tx.Rollback(ctx)

	lead, err := r.CreateTx(ctx, tx, params)
	if err != nil {
		return Lead{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Lead{}, fmt.Errorf("commit create lead: %w", err)
	}
	return lead, nil
}

// CreateTx inserts a lead and its seed history entry using the caller's
// transaction. The bookings module uses this to create a booking and its
// companion lead atomically.
func (r *Repo) CreateTx(ctx context.Context, tx pgx.Tx, params CreateParams) (Lead, error) {
	query := fmt.Sprintf(`
		INSERT INTO leads (
			customer_name, customer_email, customer_phone, destination, message,
			source, status, assigned_to, assigned_agent_name, assignment_mode, assigned_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING %s`, leadColumns)

	lead, err := scanLead(tx.QueryRow(ctx, query,
		params.CustomerName, params.CustomerEmail, params.CustomerPhone,
		params.Destination, params.Message, params.Source, params.Status,
		params.AssignedTo, params.AssignedAgentName, params.AssignmentMode, params.AssignedBy,
	))
	if err != nil {
		return Lead{}, fmt.Errorf("insert lead: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO lead_status_history (lead_id, status, changed_by, note) VALUES ($1, $2, $3, $4)`,
		lead.ID, lead.Status, params.AssignedBy, params.SeedNote,
	)
	if err != nil {
		return Lead{}, fmt.Errorf("insert lead seed history: %w", err)
	}

	return lead, nil
}

// GetByID retrieves a lead by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	query := fmt.Sprintf(`SELECT %s FROM leads WHERE id = $1`, leadColumns)

	lead, err := scanLead(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return Lead{}, fmt.Errorf("get lead by id: %w", err)
	}
	return lead, nil
}

// List retrieves leads matching the filter, newest first.
func (r *Repo) List(ctx context.Context, filter ListFilter) ([]Lead, error) {
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
	if filter.Unassigned {
		whereClauses = append(whereClauses, "assigned_to IS NULL")
	}

	query := fmt.Sprintf(`SELECT %s FROM leads`, leadColumns)
	if len(whereClauses) > 0 {
		query += " WHERE " + strings.Join(whereClauses, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}

	return leads, nil
}

// UpdateStatus moves a lead to a new status and appends the history entry
// in the same transaction. History rows are only ever inserted.
func (r *Repo) UpdateStatus(ctx context.Context, params UpdateStatusParams) (Lead, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Lead{}, fmt.Errorf("begin update lead status: %w", err)
	}
	defer tx.Rollback(ctx)

	query := fmt.Sprintf(
		`UPDATE leads SET status = $1, updated_at = now() WHERE id = $2 RETURNING %s`,
		leadColumns,
	)

	lead, err := scanLead(tx.QueryRow(ctx, query, params.Status, params.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return Lead{}, fmt.Errorf("update lead status: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO lead_status_history (lead_id, status, changed_by, note) VALUES ($1, $2, $3, $4)`,
		lead.ID, params.Status, params.ChangedBy, params.Note,
	)
	if err != nil {
		return Lead{}, fmt.Errorf("insert lead status history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Lead{}, fmt.Errorf("commit update lead status: %w", err)
	}
	return lead, nil
}

// UpdateAssignment changes a lead's owner and records the change as a
// history entry under the lead's current status.
func (r *Repo) UpdateAssignment(ctx context.Context, params UpdateAssignmentParams) (Lead, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Lead{}, fmt.Errorf("begin update lead assignment: %w", err)
	}
	defer tx.Rollback(ctx)

	query := fmt.Sprintf(`
		UPDATE leads
		SET assigned_to = $1, assigned_agent_name = $2, assignment_mode = $3, assigned_by = $4, updated_at = now()
		WHERE id = $5
		RETURNING %s`, leadColumns)

	lead, err := scanLead(tx.QueryRow(ctx, query,
		params.AssignedTo, params.AssignedAgentName, params.AssignmentMode, params.AssignedBy, params.ID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return Lead{}, fmt.Errorf("update lead assignment: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO lead_status_history (lead_id, status, changed_by, note) VALUES ($1, $2, $3, $4)`,
		lead.ID, lead.Status, params.ChangedBy, params.HistoryNote,
	)
	if err != nil {
		return Lead{}, fmt.Errorf("insert lead assignment history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Lead{}, fmt.Errorf("commit update lead assignment: %w", err)
	}
	return lead, nil
}

// ListHistory returns a lead's status history in insertion order.
func (r *Repo) ListHistory(ctx context.Context, leadID uuid.UUID) ([]HistoryEntry, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM lead_status_history WHERE lead_id = $1 ORDER BY id ASC`,
		historyColumns,
	)

	rows, err := r.pool.Query(ctx, query, leadID)
	if err != nil {
		return nil, fmt.Errorf("list lead status history: %w", err)
	}
	defer rows.Close()

	entries := make([]HistoryEntry, 0)
	for rows.Next() {
		var entry HistoryEntry
		err := rows.Scan(
			&entry.ID,
			&entry.LeadID,
			&entry.Status,
			&entry.ChangedBy,
			&entry.Note,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan lead status history: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lead status history: %w", err)
	}

	return entries, nil
}

type leadRowScanner interface {
	Scan(dest ...any) error
}

func scanLead(s leadRowScanner) (Lead, error) {
	var lead Lead
	err := s.Scan(
		&lead.ID,
		&lead.CustomerName,
		&lead.CustomerEmail,
		&lead.CustomerPhone,
		&lead.Destination,
		&lead.Message,
		&lead.Source,
		&lead.Status,
		&lead.AssignedTo,
		&lead.AssignedAgentName,
		&lead.AssignmentMode,
		&lead.AssignedBy,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	return lead, err
}
