package domain

import (
	"time"

	"github.com/google/uuid"
)

// Agent is the engine's read-only view of a sales agent, sourced from the
// agent directory.
type Agent struct {
	ID          uuid.UUID
	Name        string
	Email       string
	Active      bool
	LastLoginAt *time.Time
	CreatedAt   time.Time
}
