package transport

import "github.com/google/uuid"

// Request DTOs

// PublicBookingRequest is the unauthenticated website booking form payload.
type PublicBookingRequest struct {
	Name           string     `json:"name" validate:"required,min=1,max=100"`
	Email          string     `json:"email" validate:"required,email"`
	Phone          *string    `json:"phone,omitempty" validate:"omitempty,min=5,max=32"`
	PackageID      *uuid.UUID `json:"packageId,omitempty"`
	PackageName    string     `json:"packageName" validate:"required_without=PackageID,omitempty,max=200"`
	TravelersCount int        `json:"travelersCount" validate:"required,min=1,max=50"`
	DepartureDate  *string    `json:"departureDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes          *string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type UpdateStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=new contacted interested quoted converted lost not_interested"`
	Note   *string `json:"note,omitempty" validate:"omitempty,max=1000"`
}

type AssignRequest struct {
	AgentID uuid.UUID `json:"agentId" validate:"required"`
}

// Response DTOs

type BookingResponse struct {
	ID                uuid.UUID  `json:"id"`
	Reference         string     `json:"reference"`
	LeadID            uuid.UUID  `json:"leadId"`
	PackageID         *uuid.UUID `json:"packageId,omitempty"`
	PackageName       string     `json:"packageName"`
	CustomerName      string     `json:"customerName"`
	CustomerEmail     string     `json:"customerEmail"`
	CustomerPhone     *string    `json:"customerPhone,omitempty"`
	TravelersCount    int        `json:"travelersCount"`
	DepartureDate     *string    `json:"departureDate,omitempty"`
	Notes             *string    `json:"notes,omitempty"`
	Status            string     `json:"status"`
	AssignedTo        *uuid.UUID `json:"assignedTo,omitempty"`
	AssignedAgentName *string    `json:"assignedAgentName,omitempty"`
	AssignmentMode    string     `json:"assignmentMode"`
	AssignedBy        *uuid.UUID `json:"assignedBy,omitempty"`
	CreatedAt         string     `json:"createdAt"`
	UpdatedAt         string     `json:"updatedAt"`
}

type BookingListResponse struct {
	Items []BookingResponse `json:"items"`
	Total int               `json:"total"`
}

type HistoryEntryResponse struct {
	Status    string     `json:"status"`
	ChangedBy *uuid.UUID `json:"changedBy,omitempty"`
	Note      *string    `json:"note,omitempty"`
	CreatedAt string     `json:"createdAt"`
}

type HistoryResponse struct {
	Items []HistoryEntryResponse `json:"items"`
}
