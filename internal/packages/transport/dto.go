package transport

import "github.com/google/uuid"

// Request DTOs

type CreatePackageRequest struct {
	Name         string  `json:"name" validate:"required,min=1,max=200"`
	Destination  string  `json:"destination" validate:"required,min=1,max=200"`
	Description  *string `json:"description,omitempty" validate:"omitempty,max=5000"`
	DurationDays int     `json:"durationDays" validate:"required,min=1,max=365"`
	PriceCents   int64   `json:"priceCents" validate:"required,min=0"`
}

type UpdatePackageRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Destination  *string `json:"destination,omitempty" validate:"omitempty,min=1,max=200"`
	Description  *string `json:"description,omitempty" validate:"omitempty,max=5000"`
	DurationDays *int    `json:"durationDays,omitempty" validate:"omitempty,min=1,max=365"`
	PriceCents   *int64  `json:"priceCents,omitempty" validate:"omitempty,min=0"`
}

// Response DTOs

type PackageResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Destination  string    `json:"destination"`
	Description  *string   `json:"description,omitempty"`
	DurationDays int       `json:"durationDays"`
	PriceCents   int64     `json:"priceCents"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    string    `json:"createdAt"`
}

type PackageListResponse struct {
	Items []PackageResponse `json:"items"`
	Total int               `json:"total"`
}
