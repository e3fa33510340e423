package transport

import "github.com/google/uuid"

// Request DTOs

// PublicLeadRequest is the unauthenticated website contact form payload.
type PublicLeadRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Email       string  `json:"email" validate:"required,email"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,min=5,max=32"`
	Destination *string `json:"destination,omitempty" validate:"omitempty,max=200"`
	Message     *string `json:"message,omitempty" validate:"omitempty,max=2000"`
}

// CreateLeadRequest is the authenticated CRM manual-entry payload.
type CreateLeadRequest struct {
	Name        string     `json:"name" validate:"required,min=1,max=100"`
	Email       string     `json:"email" validate:"required,email"`
	Phone       *string    `json:"phone,omitempty" validate:"omitempty,min=5,max=32"`
	Destination *string    `json:"destination,omitempty" validate:"omitempty,max=200"`
	Message     *string    `json:"message,omitempty" validate:"omitempty,max=2000"`
	AssignedTo  *uuid.UUID `json:"assignedTo,omitempty"`
}

type UpdateStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=new contacted interested quoted converted lost not_interested"`
	Note   *string `json:"note,omitempty" validate:"omitempty,max=1000"`
}

type AssignRequest struct {
	AgentID uuid.UUID `json:"agentId" validate:"required"`
}

// Response DTOs

type LeadResponse struct {
	ID                uuid.UUID  `json:"id"`
	CustomerName      string     `json:"customerName"`
	CustomerEmail     string     `json:"customerEmail"`
	CustomerPhone     *string    `json:"customerPhone,omitempty"`
	Destination       *string    `json:"destination,omitempty"`
	Message           *string    `json:"message,omitempty"`
	Source            string     `json:"source"`
	Status            string     `json:"status"`
	AssignedTo        *uuid.UUID `json:"assignedTo,omitempty"`
	AssignedAgentName *string    `json:"assignedAgentName,omitempty"`
	AssignmentMode    string     `json:"assignmentMode"`
	AssignedBy        *uuid.UUID `json:"assignedBy,omitempty"`
	CreatedAt         string     `json:"createdAt"`
	UpdatedAt         string     `json:"updatedAt"`
}

type LeadListResponse struct {
	Items []LeadResponse `json:"items"`
	Total int            `json:"total"`
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
