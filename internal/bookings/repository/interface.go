package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	leadsrepo "tripdesk_backend/internal/leads/repository"
)

// Booking is a confirmed-itinerary work item. Every booking created from
// the public form has a companion lead in the pipeline.
type Booking struct {
	ID                uuid.UUID
	Reference         string
	LeadID            uuid.UUID
	PackageID         *uuid.UUID
	PackageName       string
	CustomerName      string
	CustomerEmail     string
	CustomerPhone     *string
	TravelersCount    int
	DepartureDate     *time.Time
	Notes             *string
	Status            string
	AssignedTo        *uuid.UUID
	AssignedAgentName *string
	AssignmentMode    string
	AssignedBy        *uuid.UUID
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// HistoryEntry is one row of a booking's append-only status history.
type HistoryEntry struct {
	ID        int64
	BookingID uuid.UUID
	Status    string
	ChangedBy *uuid.UUID
	Note      *string
	CreatedAt time.Time
}

// CreateParams contains parameters for creating a booking.
type CreateParams struct {
	Reference         string
	PackageID         *uuid.UUID
	PackageName       string
	CustomerName      string
	CustomerEmail     string
	CustomerPhone     *string
	TravelersCount    int
	DepartureDate     *time.Time
	Notes             *string
	Status            string
	AssignedTo        *uuid.UUID
	AssignedAgentName *string
	AssignmentMode    string
	AssignedBy        *uuid.UUID
}

// ListFilter narrows the booking listing.
type ListFilter struct {
	Status     *string
	AssignedTo *uuid.UUID
}

// UpdateStatusParams moves a booking to a new status and appends the
// matching history entry atomically.
type UpdateStatusParams struct {
	ID        uuid.UUID
	Status    string
	ChangedBy uuid.UUID
	Note      *string
}

// UpdateAssignmentParams changes a booking's owner and appends a history
// entry recording the change.
type UpdateAssignmentParams struct {
	ID                uuid.UUID
	AssignedTo        *uuid.UUID
	AssignedAgentName *string
	AssignmentMode    string
	AssignedBy        *uuid.UUID
	ChangedBy         uuid.UUID
	HistoryNote       string
}

// Repository provides persistence for bookings and their status history.
type Repository interface {
	// CreateWithLead inserts the booking and its companion lead in one
	// transaction. Either both become visible or neither does.
	CreateWithLead(ctx context.Context, params CreateParams, leadParams leadsrepo.CreateParams) (Booking, leadsrepo.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (Booking, error)
	GetByReference(ctx context.Context, reference string) (Booking, error)
	List(ctx context.Context, filter ListFilter) ([]Booking, error)
	UpdateStatus(ctx context.Context, params UpdateStatusParams) (Booking, error)
	UpdateAssignment(ctx context.Context, params UpdateAssignmentParams) (Booking, error)
	ListHistory(ctx context.Context, bookingID uuid.UUID) ([]HistoryEntry, error)
}
