// Package adapters bridges bounded contexts without letting their
// packages import each other directly.
package adapters

import (
	"context"

	assignmentdomain "tripdesk_backend/internal/assignment/domain"
	"tripdesk_backend/internal/assignment/ports"
	directoryrepo "tripdesk_backend/internal/directory/repository"
)

// DirectoryAgentReader adapts the agent directory repository to the
// assignment engine's AgentReader port.
type DirectoryAgentReader struct {
	repo directoryrepo.AgentReader
}

// NewDirectoryAgentReader creates the adapter.
func NewDirectoryAgentReader(repo directoryrepo.AgentReader) *DirectoryAgentReader {
	return &DirectoryAgentReader{repo: repo}
}

// ListAgents returns all directory agents mapped to the assignment domain.
// The directory returns agents in creation order, which the rotation
// strategy depends on.
func (a *DirectoryAgentReader) ListAgents(ctx context.Context) ([]assignmentdomain.Agent, error) {
	agents, err := a.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]assignmentdomain.Agent, 0, len(agents))
	for _, agent := range agents {
		result = append(result, assignmentdomain.Agent{
			ID:          agent.ID,
			Name:        agent.Name,
			Email:       agent.Email,
			Active:      agent.IsActive,
			LastLoginAt: agent.LastLoginAt,
			CreatedAt:   agent.CreatedAt,
		})
	}
	return result, nil
}

var _ ports.AgentReader = (*DirectoryAgentReader)(nil)
