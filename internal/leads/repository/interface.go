package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Lead is a work item in the sales pipeline.
type Lead struct {
	ID                uuid.UUID
	CustomerName      string
	CustomerEmail     string
	CustomerPhone     *string
	Destination       *string
	Message           *string
	Source            string
	Status            string
	AssignedTo        *uuid.UUID
	AssignedAgentName *string
	AssignmentMode    string
	AssignedBy        *uuid.UUID
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// HistoryEntry is one row of a lead's append-only status history.
type HistoryEntry struct {
	ID        int64
	LeadID    uuid.UUID
	Status    string
	ChangedBy *uuid.UUID
	Note      *string
	CreatedAt time.Time
}

// CreateParams contains parameters for creating a lead. The seed history
// entry is written in the same transaction as the lead row.
type CreateParams struct {
	CustomerName      string
	CustomerEmail     string
	CustomerPhone     *string
	Destination       *string
	Message           *string
	Source            string
	Status            string
	AssignedTo        *uuid.UUID
	AssignedAgentName *string
	AssignmentMode    string
	AssignedBy        *uuid.UUID
	SeedNote          *string
}

// ListFilter narrows the lead listing.
type ListFilter struct {
	Status     *string
	AssignedTo *uuid.UUID
	Unassigned bool
}

// UpdateStatusParams moves a lead to a new status and appends the
// matching history entry atomically.
type UpdateStatusParams struct {
	ID        uuid.UUID
	Status    string
	ChangedBy uuid.UUID
	Note      *string
}

// UpdateAssignmentParams changes a lead's owner and appends a history
// entry recording the change under the lead's current status.
type UpdateAssignmentParams struct {
	ID                uuid.UUID
	AssignedTo        *uuid.UUID
	AssignedAgentName *string
	AssignmentMode    string
	AssignedBy        *uuid.UUID
	ChangedBy         uuid.UUID
	HistoryNote       string
}

// Repository provides persistence for leads and their status history.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (Lead, error)
	CreateTx(ctx context.Context, tx pgx.Tx, params CreateParams) (Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (Lead, error)
	List(ctx context.Context, filter ListFilter) ([]Lead, error)
	UpdateStatus(ctx context.Context, params UpdateStatusParams) (Lead, error)
	UpdateAssignment(ctx context.Context, params UpdateAssignmentParams) (Lead, error)
	ListHistory(ctx context.Context, leadID uuid.UUID) ([]HistoryEntry, error)
}
