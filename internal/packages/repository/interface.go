package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Package is a travel package offered on the public website.
type Package struct {
	ID           uuid.UUID
	Name         string
	Destination  string
	Description  *string
	DurationDays int
	PriceCents   int64
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateParams contains parameters for creating a package.
type CreateParams struct {
	Name         string
	Destination  string
	Description  *string
	DurationDays int
	PriceCents   int64
}

// UpdateParams contains parameters for updating a package.
type UpdateParams struct {
	ID           uuid.UUID
	Name         *string
	Destination  *string
	Description  *string
	DurationDays *int
	PriceCents   *int64
}

// PackageReader provides read operations for packages.
type PackageReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Package, error)
	List(ctx context.Context, activeOnly bool) ([]Package, error)
}

// PackageWriter provides write operations for packages.
type PackageWriter interface {
	Create(ctx context.Context, params CreateParams) (Package, error)
	Update(ctx context.Context, params UpdateParams) (Package, error)
	SetActive(ctx context.Context, id uuid.UUID, isActive bool) error
}

// Repository combines all package catalog operations.
type Repository interface {
	PackageReader
	PackageWriter
}
