package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Agent represents a sales agent account in the directory.
type Agent struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateParams contains parameters for creating an agent.
type CreateParams struct {
	Name         string
	Email        string
	PasswordHash string
	Role         string
}

// UpdateParams contains parameters for updating an agent.
type UpdateParams struct {
	ID    uuid.UUID
	Name  *string
	Email *string
	Role  *string
}

// AgentReader provides read operations for agents.
type AgentReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Agent, error)
	GetByEmail(ctx context.Context, email string) (Agent, error)
	List(ctx context.Context) ([]Agent, error)
}

// AgentWriter provides write operations for agents.
type AgentWriter interface {
	Create(ctx context.Context, params CreateParams) (Agent, error)
	Update(ctx context.Context, params UpdateParams) (Agent, error)
	SetActive(ctx context.Context, id uuid.UUID, isActive bool) error
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
}

// Repository combines all agent directory operations.
type Repository interface {
	AgentReader
	AgentWriter
}
