package transport

import "github.com/google/uuid"

// Request DTOs

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// Response DTOs

type LoginResponse struct {
	AccessToken string      `json:"accessToken"`
	ExpiresIn   int64       `json:"expiresIn"`
	Agent       AgentClaims `json:"agent"`
}

type AgentClaims struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}
