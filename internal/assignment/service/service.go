// Package service provides the administrative policy operations for the
// assignment module.
package service

import (
	"context"
	"time"

	"tripdesk_backend/internal/assignment/domain"
	"tripdesk_backend/internal/assignment/ports"
	"tripdesk_backend/internal/assignment/repository"
	"tripdesk_backend/internal/assignment/transport"
	"tripdesk_backend/platform/apperr"
	"tripdesk_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Service exposes the policy and distribution views to the admin screens.
type Service struct {
	repo   repository.Repository
	agents ports.AgentReader
	log    *logger.Logger
}

// New creates a new assignment policy service.
func New(repo repository.Repository, agents ports.AgentReader, log *logger.Logger) *Service {
	return &Service{repo: repo, agents: agents, log: log}
}

// GetPolicy returns the singleton policy, creating defaults on first read.
func (s *Service) GetPolicy(ctx context.Context) (transport.PolicyResponse, error) {
	policy, err := s.repo.Get(ctx)
	if err != nil {
		return transport.PolicyResponse{}, err
	}
	return toResponse(policy), nil
}

// UpdatePolicy applies an administrator's partial update. Only type/enum
// validity is checked; cross-field consistency is the administrator's call.
func (s *Service) UpdatePolicy(ctx context.Context, actorID uuid.UUID, req transport.UpdatePolicyRequest) (transport.PolicyResponse, error) {
	params := repository.UpdatePolicyParams{UpdatedBy: actorID}

	if req.Mode != nil {
		mode := domain.Mode(*req.Mode)
		if !domain.IsKnownMode(mode) {
			return transport.PolicyResponse{}, apperr.Validation("unknown assignment mode")
		}
		params.Mode = &mode
	}
	if req.Strategy != nil {
		strategy := domain.Strategy(*req.Strategy)
		if !domain.IsKnownStrategy(strategy) {
			return transport.PolicyResponse{}, apperr.Validation("unknown assignment strategy")
		}
		params.Strategy = &strategy
	}
	if req.AllowList != nil {
		params.AllowList = *req.AllowList
		params.AllowListSet = true
	}
	if req.CapacityCeiling != nil {
		if *req.CapacityCeiling < 1 {
			return transport.PolicyResponse{}, apperr.Validation("capacity ceiling must be positive")
		}
		params.CapacityCeiling = req.CapacityCeiling
	}
	params.SkipInactive = req.SkipInactive
	params.RequireRecentActivity = req.RequireRecentActivity

	policy, err := s.repo.Update(ctx, params)
	if err != nil {
		return transport.PolicyResponse{}, err
	}

	s.log.Info("assignment policy updated",
		"actorId", actorID,
		"mode", policy.Mode,
		"strategy", policy.Strategy,
	)

	return toResponse(policy), nil
}

// Workload reports each agent's open work-item count next to the policy's
// capacity ceiling, for the admin distribution view.
func (s *Service) Workload(ctx context.Context) (transport.WorkloadResponse, error) {
	var (
		policy domain.Policy
		counts map[uuid.UUID]int
		agents []domain.Agent
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		policy, err = s.repo.Get(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = s.repo.CountOpenByAssignee(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		agents, err = s.agents.ListAgents(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return transport.WorkloadResponse{}, err
	}

	items := make([]transport.AgentWorkload, 0, len(agents))
	for _, agent := range agents {
		count := counts[agent.ID]
		items = append(items, transport.AgentWorkload{
			AgentID:    agent.ID,
			Name:       agent.Name,
			Active:     agent.Active,
			OpenItems:  count,
			AtCapacity: policy.CapacityCeiling > 0 && count >= policy.CapacityCeiling,
		})
	}
	return transport.WorkloadResponse{CapacityCeiling: policy.CapacityCeiling, Items: items}, nil
}

func toResponse(policy domain.Policy) transport.PolicyResponse {
	allowList := policy.AllowList
	if allowList == nil {
		allowList = []uuid.UUID{}
	}
	return transport.PolicyResponse{
		Mode:                  string(policy.Mode),
		Strategy:              string(policy.Strategy),
		AllowList:             allowList,
		RotationCursor:        policy.RotationCursor,
		CapacityCeiling:       policy.CapacityCeiling,
		SkipInactive:          policy.SkipInactive,
		RequireRecentActivity: policy.RequireRecentActivity,
		UpdatedBy:             policy.UpdatedBy,
		UpdatedAt:             policy.UpdatedAt.Format(time.RFC3339),
	}
}
