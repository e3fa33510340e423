// Package engine orchestrates assignment decisions: eligibility filtering,
// strategy selection, and stamping the chosen agent onto a draft work item.
package engine

import (
	"context"
	"time"

	"tripdesk_backend/internal/assignment/domain"
	"tripdesk_backend/internal/assignment/ports"
	"tripdesk_backend/internal/assignment/repository"
	"tripdesk_backend/platform/apperr"
	"tripdesk_backend/platform/logger"

	"github.com/google/uuid"
)

// Draft is the assignable portion of a work item under construction. The
// engine mutates it in place; persisting the work item itself stays with
// the caller so the stamp can ride the caller's transaction.
type Draft struct {
	AssignedTo     *uuid.UUID
	AssignmentMode domain.Mode
	AssignedBy     *uuid.UUID
}

// Decision is the outcome of an assignment attempt. Assigned is false for
// every non-error "no assignment" case: manual mode, a pre-assigned draft,
// or no eligible candidate.
type Decision struct {
	Assigned bool
	Agent    domain.Agent
	Strategy domain.Strategy
}

// Engine runs the assignment policy against inbound work items.
type Engine struct {
	repo   repository.Repository
	agents ports.AgentReader
	log    *logger.Logger
	now    func() time.Time
}

// New creates an assignment engine.
func New(repo repository.Repository, agents ports.AgentReader, log *logger.Logger) *Engine {
	return &Engine{
		repo:   repo,
		agents: agents,
		log:    log,
		now:    time.Now,
	}
}

// AssignIfNeeded decides ownership for a draft work item. It performs no
// persistence of the draft; the only write is the policy's rotation cursor
// (rotating strategy), advanced atomically exactly once per assignment.
func (e *Engine) AssignIfNeeded(ctx context.Context, draft *Draft) (Decision, error) {
	policy, err := e.repo.Get(ctx)
	if err != nil {
		return Decision{}, err
	}

	if policy.Mode != domain.ModeAuto {
		return Decision{}, nil
	}
	if draft.AssignedTo != nil {
		// An explicit assignee on the draft wins over the engine.
		return Decision{}, nil
	}

	agents, err := e.agents.ListAgents(ctx)
	if err != nil {
		return Decision{}, err
	}

	candidates := domain.EligibleAgents(agents, policy, e.now())
	if len(candidates) == 0 {
		return Decision{}, nil
	}

	var chosen domain.Agent
	switch policy.Strategy {
	case domain.StrategyRotating:
		// The cursor is only advanced once a non-empty candidate set is
		// confirmed, so no-candidate calls never burn a rotation slot.
		next, err := e.repo.IncrementCursor(ctx)
		if err != nil {
			return Decision{}, err
		}
		chosen, _ = domain.PickRotating(candidates, next-1)

	case domain.StrategyLoadAware:
		counts, err := e.repo.CountOpenByAssignee(ctx)
		if err != nil {
			return Decision{}, err
		}
		picked, ok := domain.PickLoadAware(candidates, counts, policy.CapacityCeiling)
		if !ok {
			// Everyone at capacity: the item stays unassigned.
			return Decision{}, nil
		}
		chosen = picked

	default:
		return Decision{}, apperr.Validation("unknown assignment strategy").WithOp("assignment.AssignIfNeeded")
	}

	draft.AssignedTo = &chosen.ID
	draft.AssignmentMode = domain.ModeAuto
	draft.AssignedBy = nil

	return Decision{Assigned: true, Agent: chosen, Strategy: policy.Strategy}, nil
}
