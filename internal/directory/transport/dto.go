package transport

import "github.com/google/uuid"

// Request DTOs

type CreateAgentRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Role     string `json:"role" validate:"required,oneof=admin agent"`
}

type UpdateAgentRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Role  *string `json:"role,omitempty" validate:"omitempty,oneof=admin agent"`
}

// Response DTOs

type AgentResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	IsActive    bool      `json:"isActive"`
	LastLoginAt *string   `json:"lastLoginAt,omitempty"`
	CreatedAt   string    `json:"createdAt"`
}

type AgentListResponse struct {
	Items []AgentResponse `json:"items"`
	Total int             `json:"total"`
}
