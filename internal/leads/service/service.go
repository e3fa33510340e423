// Package service implements the lead pipeline business logic. Assignment
// decisions and transition authorization are delegated to the assignment
// context; this service owns persistence orchestration and events.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	assignmentdomain "tripdesk_backend/internal/assignment/domain"
	"tripdesk_backend/internal/assignment/engine"
	directoryrepo "tripdesk_backend/internal/directory/repository"
	"tripdesk_backend/internal/events"
	"tripdesk_backend/internal/leads/repository"
	"tripdesk_backend/internal/leads/transport"
	"tripdesk_backend/platform/apperr"
	"tripdesk_backend/platform/logger"
	"tripdesk_backend/platform/phone"
)

const (
	// Lead sources
	SourceWebsiteForm = "website_form"
	SourceBookingForm = "booking_form"
	SourceManual      = "manual"
)

// Assigner decides ownership for draft work items.
type Assigner interface {
	AssignIfNeeded(ctx context.Context, draft *engine.Draft) (engine.Decision, error)
}

// Service provides lead pipeline business logic.
type Service struct {
	repo     repository.Repository
	assigner Assigner
	agents   directoryrepo.AgentReader
	bus      events.Bus
	log      *logger.Logger
}

// New creates a new leads service.
func New(repo repository.Repository, assigner Assigner, agents directoryrepo.AgentReader, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		assigner: assigner,
		agents:   agents,
		bus:      bus,
		log:      log,
	}
}

// CreateFromPublicForm handles the unauthenticated website contact form.
// The new lead passes through the assignment engine before persisting.
func (s *Service) CreateFromPublicForm(ctx context.Context, req transport.PublicLeadRequest) (transport.LeadResponse, error) {
	params := repository.CreateParams{
		CustomerName:  strings.TrimSpace(req.Name),
		CustomerEmail: strings.ToLower(strings.TrimSpace(req.Email)),
		CustomerPhone: normalizePhone(req.Phone),
		Destination:   req.Destination,
		Message:       req.Message,
		Source:        SourceWebsiteForm,
	}
	return s.create(ctx, params, nil)
}

// Create handles manual lead entry from the CRM. A pre-assigned agent on
// the request wins over the engine; the lifecycle rules decide whether the
// actor may pre-assign at all.
func (s *Service) Create(ctx context.Context, actor assignmentdomain.Actor, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	if req.AssignedTo != nil {
		change := assignmentdomain.ChangeSet{Assignee: req.AssignedTo, AssigneeSet: true}
		if err := assignmentdomain.CanTransition(actor, assignmentdomain.WorkItemState{}, change); err != nil {
			return transport.LeadResponse{}, err
		}
	}

	params := repository.CreateParams{
		CustomerName:  strings.TrimSpace(req.Name),
		CustomerEmail: strings.ToLower(strings.TrimSpace(req.Email)),
		CustomerPhone: normalizePhone(req.Phone),
		Destination:   req.Destination,
		Message:       req.Message,
		Source:        SourceManual,
		AssignedTo:    req.AssignedTo,
	}
	return s.create(ctx, params, &actor)
}

// create runs the shared creation path: assignment decision, persistence
// with seed history, and events.
func (s *Service) create(ctx context.Context, params repository.CreateParams, actor *assignmentdomain.Actor) (transport.LeadResponse, error) {
	draft := engine.Draft{
		AssignedTo:     params.AssignedTo,
		AssignmentMode: assignmentdomain.ModeManual,
	}
	if params.AssignedTo != nil && actor != nil {
		actorID := actor.ID
		draft.AssignedBy = &actorID
	}

	decision, err := s.assigner.AssignIfNeeded(ctx, &draft)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	params.AssignedTo = draft.AssignedTo
	params.AssignmentMode = string(draft.AssignmentMode)
	params.AssignedBy = draft.AssignedBy
	params.Status = string(assignmentdomain.StatusNew)

	if decision.Assigned {
		params.AssignedAgentName = &decision.Agent.Name
	} else if params.AssignedTo != nil {
		name, err := s.agentName(ctx, *params.AssignedTo)
		if err != nil {
			return transport.LeadResponse{}, err
		}
		params.AssignedAgentName = &name
	}

	lead, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent:       events.NewBaseEvent(),
		LeadID:          lead.ID,
		AssignedAgentID: lead.AssignedTo,
		Source:          lead.Source,
		CustomerName:    lead.CustomerName,
		CustomerEmail:   lead.CustomerEmail,
		Destination:     derefOrEmpty(lead.Destination),
	})

	if lead.AssignedTo != nil {
		s.publishAssigned(ctx, lead.ID, nil, lead.AssignedTo, lead.AssignedBy, lead.AssignmentMode)
		if decision.Assigned {
			s.log.AssignmentEvent("lead", lead.ID.String(), lead.AssignedTo.String(), string(decision.Strategy))
		}
	}

	return toResponse(lead), nil
}

// GetByID retrieves a lead by ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return toResponse(lead), nil
}

// List retrieves leads matching the filter.
func (s *Service) List(ctx context.Context, filter repository.ListFilter) (transport.LeadListResponse, error) {
	leads, err := s.repo.List(ctx, filter)
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	items := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		items = append(items, toResponse(lead))
	}
	return transport.LeadListResponse{Items: items, Total: len(items)}, nil
}

// UpdateStatus moves a lead to a new pipeline status. Every accepted
// change appends a history entry; history is never rewritten.
func (s *Service) UpdateStatus(ctx context.Context, actor assignmentdomain.Actor, id uuid.UUID, req transport.UpdateStatusRequest) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	status := assignmentdomain.Status(req.Status)
	change := assignmentdomain.ChangeSet{Status: &status}
	if err := assignmentdomain.CanTransition(actor, itemState(lead), change); err != nil {
		return transport.LeadResponse{}, err
	}

	updated, err := s.repo.UpdateStatus(ctx, repository.UpdateStatusParams{
		ID:        id,
		Status:    string(status),
		ChangedBy: actor.ID,
		Note:      req.Note,
	})
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return toResponse(updated), nil
}

// Assign hands a lead to the given agent as a manual override. Assigning
// to the current owner is a no-op for notifications.
func (s *Service) Assign(ctx context.Context, actor assignmentdomain.Actor, id uuid.UUID, agentID uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	change := assignmentdomain.ChangeSet{Assignee: &agentID, AssigneeSet: true}
	if err := assignmentdomain.CanTransition(actor, itemState(lead), change); err != nil {
		return transport.LeadResponse{}, err
	}

	name, err := s.agentName(ctx, agentID)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	actorID := actor.ID
	updated, err := s.repo.UpdateAssignment(ctx, repository.UpdateAssignmentParams{
		ID:                id,
		AssignedTo:        &agentID,
		AssignedAgentName: &name,
		AssignmentMode:    string(assignmentdomain.ModeManual),
		AssignedBy:        &actorID,
		ChangedBy:         actor.ID,
		HistoryNote:       "assigned to " + name,
	})
	if err != nil {
		return transport.LeadResponse{}, err
	}

	if lead.AssignedTo == nil || *lead.AssignedTo != agentID {
		s.publishAssigned(ctx, updated.ID, lead.AssignedTo, updated.AssignedTo, &actorID, updated.AssignmentMode)
	}

	return toResponse(updated), nil
}

// Claim lets an agent take an unassigned lead for themselves.
func (s *Service) Claim(ctx context.Context, actor assignmentdomain.Actor, id uuid.UUID) (transport.LeadResponse, error) {
	return s.Assign(ctx, actor, id, actor.ID)
}

// Unassign clears a lead's owner and display name. The change is recorded
// in history like any other transition.
func (s *Service) Unassign(ctx context.Context, actor assignmentdomain.Actor, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	change := assignmentdomain.ChangeSet{Assignee: nil, AssigneeSet: true}
	if err := assignmentdomain.CanTransition(actor, itemState(lead), change); err != nil {
		return transport.LeadResponse{}, err
	}

	actorID := actor.ID
	updated, err := s.repo.UpdateAssignment(ctx, repository.UpdateAssignmentParams{
		ID:             id,
		AssignedTo:     nil,
		AssignmentMode: string(assignmentdomain.ModeManual),
		AssignedBy:     &actorID,
		ChangedBy:      actor.ID,
		HistoryNote:    "unassigned",
	})
	if err != nil {
		return transport.LeadResponse{}, err
	}

	if lead.AssignedTo != nil {
		s.publishAssigned(ctx, updated.ID, lead.AssignedTo, nil, &actorID, updated.AssignmentMode)
	}

	return toResponse(updated), nil
}

// History returns a lead's status history in insertion order.
func (s *Service) History(ctx context.Context, id uuid.UUID) (transport.HistoryResponse, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return transport.HistoryResponse{}, err
	}

	entries, err := s.repo.ListHistory(ctx, id)
	if err != nil {
		return transport.HistoryResponse{}, err
	}

	items := make([]transport.HistoryEntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, transport.HistoryEntryResponse{
			Status:    entry.Status,
			ChangedBy: entry.ChangedBy,
			Note:      entry.Note,
			CreatedAt: entry.CreatedAt.Format(time.RFC3339),
		})
	}
	return transport.HistoryResponse{Items: items}, nil
}

func (s *Service) publishAssigned(ctx context.Context, leadID uuid.UUID, previous, next, assignedBy *uuid.UUID, mode string) {
	s.bus.Publish(ctx, events.WorkItemAssigned{
		BaseEvent:     events.NewBaseEvent(),
		WorkItemID:    leadID,
		WorkItemType:  "lead",
		PreviousAgent: previous,
		NewAgent:      next,
		AssignedByID:  assignedBy,
		Mode:          mode,
	})
}

func (s *Service) agentName(ctx context.Context, agentID uuid.UUID) (string, error) {
	agent, err := s.agents.GetByID(ctx, agentID)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			return "", apperr.Validation("assignee does not exist")
		}
		return "", err
	}
	return agent.Name, nil
}

func itemState(lead repository.Lead) assignmentdomain.WorkItemState {
	return assignmentdomain.WorkItemState{
		AssignedTo: lead.AssignedTo,
		Status:     assignmentdomain.Status(lead.Status),
	}
}

func normalizePhone(raw *string) *string {
	if raw == nil {
		return nil
	}
	normalized := phone.NormalizeE164(*raw)
	if normalized == "" {
		return nil
	}
	return &normalized
}

func derefOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func toResponse(lead repository.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:                lead.ID,
		CustomerName:      lead.CustomerName,
		CustomerEmail:     lead.CustomerEmail,
		CustomerPhone:     lead.CustomerPhone,
		Destination:       lead.Destination,
		Message:           lead.Message,
		Source:            lead.Source,
		Status:            lead.Status,
		AssignedTo:        lead.AssignedTo,
		AssignedAgentName: lead.AssignedAgentName,
		AssignmentMode:    lead.AssignmentMode,
		AssignedBy:        lead.AssignedBy,
		CreatedAt:         lead.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         lead.UpdatedAt.Format(time.RFC3339),
	}
}
