// Package service provides business logic for the agent directory.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"tripdesk_backend/internal/directory/repository"
	"tripdesk_backend/internal/directory/transport"
	"tripdesk_backend/platform/apperr"
	"tripdesk_backend/platform/logger"
)

// Service provides business logic for agent accounts.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new agent directory service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// GetByID retrieves an agent by ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.AgentResponse, error) {
	agent, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.AgentResponse{}, err
	}
	return toResponse(agent), nil
}

// List retrieves all agents in creation order.
func (s *Service) List(ctx context.Context) (transport.AgentListResponse, error) {
	agents, err := s.repo.List(ctx)
	if err != nil {
		return transport.AgentListResponse{}, err
	}

	items := make([]transport.AgentResponse, 0, len(agents))
	for _, agent := range agents {
		items = append(items, toResponse(agent))
	}
	return transport.AgentListResponse{Items: items, Total: len(items)}, nil
}

// Create creates a new agent account with a hashed password.
func (s *Service) Create(ctx context.Context, req transport.CreateAgentRequest) (transport.AgentResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return transport.AgentResponse{}, apperr.Wrap(apperr.KindInternal, "failed to hash password", err)
	}

	agent, err := s.repo.Create(ctx, repository.CreateParams{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Role:         req.Role,
	})
	if err != nil {
		return transport.AgentResponse{}, err
	}

	s.log.Info("agent created", "id", agent.ID, "email", agent.Email, "role", agent.Role)
	return toResponse(agent), nil
}

// Update applies a partial update to an agent.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateAgentRequest) (transport.AgentResponse, error) {
	params := repository.UpdateParams{ID: id, Name: req.Name, Role: req.Role}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		params.Email = &email
	}

	agent, err := s.repo.Update(ctx, params)
	if err != nil {
		return transport.AgentResponse{}, err
	}
	return toResponse(agent), nil
}

// SetActive activates or deactivates an agent. Deactivated agents drop
// out of assignment eligibility when the policy skips inactive accounts.
func (s *Service) SetActive(ctx context.Context, id uuid.UUID, isActive bool) error {
	if err := s.repo.SetActive(ctx, id, isActive); err != nil {
		return err
	}
	s.log.Info("agent active flag changed", "id", id, "isActive", isActive)
	return nil
}

func toResponse(agent repository.Agent) transport.AgentResponse {
	resp := transport.AgentResponse{
		ID:        agent.ID,
		Name:      agent.Name,
		Email:     agent.Email,
		Role:      agent.Role,
		IsActive:  agent.IsActive,
		CreatedAt: agent.CreatedAt.Format(time.RFC3339),
	}
	if agent.LastLoginAt != nil {
		lastLogin := agent.LastLoginAt.Format(time.RFC3339)
		resp.LastLoginAt = &lastLogin
	}
	return resp
}
