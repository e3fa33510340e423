// Package ports declares the interfaces the assignment engine consumes
// from other bounded contexts. Implementations live in internal/adapters.
package ports

import (
	"context"

	"tripdesk_backend/internal/assignment/domain"
)

// AgentReader provides read access to the agent directory: identifier,
// active flag, last-login timestamp, and display name/email. The engine
// never writes to the directory.
type AgentReader interface {
	ListAgents(ctx context.Context) ([]domain.Agent, error)
}
