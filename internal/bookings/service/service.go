// Package service implements booking business logic. A public booking
// creates the booking and a companion pipeline lead in one transaction,
// both carrying the same assignment decision.
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"

	assignmentdomain "tripdesk_backend/internal/assignment/domain"
	"tripdesk_backend/internal/assignment/engine"
	"tripdesk_backend/internal/bookings/repository"
	"tripdesk_backend/internal/bookings/transport"
	directoryrepo "tripdesk_backend/internal/directory/repository"
	"tripdesk_backend/internal/events"
	leadsrepo "tripdesk_backend/internal/leads/repository"
	leadssvc "tripdesk_backend/internal/leads/service"
	packagesrepo "tripdesk_backend/internal/packages/repository"
	"tripdesk_backend/platform/apperr"
	"tripdesk_backend/platform/logger"
	"tripdesk_backend/platform/phone"
)

const departureDateLayout = "2006-01-02"

// Assigner decides ownership for draft work items.
type Assigner interface {
	AssignIfNeeded(ctx context.Context, draft *engine.Draft) (engine.Decision, error)
}

// Service provides booking business logic.
type Service struct {
	repo     repository.Repository
	assigner Assigner
	agents   directoryrepo.AgentReader
	packages packagesrepo.PackageReader
	bus      events.Bus
	log      *logger.Logger
}

// New creates a new bookings service.
func New(repo repository.Repository, assigner Assigner, agents directoryrepo.AgentReader, packages packagesrepo.PackageReader, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		assigner: assigner,
		agents:   agents,
		packages: packages,
		bus:      bus,
		log:      log,
	}
}

// CreateFromPublicForm handles the unauthenticated website booking form.
// The assignment decision is made once on the draft and stamped onto both
// the booking and its companion lead before the shared transaction.
func (s *Service) CreateFromPublicForm(ctx context.Context, req transport.PublicBookingRequest) (transport.BookingResponse, error) {
	packageName := strings.TrimSpace(req.PackageName)
	if req.PackageID != nil {
		pkg, err := s.packages.GetByID(ctx, *req.PackageID)
		if err != nil {
			if apperr.GetKind(err) == apperr.KindNotFound {
				return transport.BookingResponse{}, apperr.Validation("package does not exist")
			}
			return transport.BookingResponse{}, err
		}
		if !pkg.IsActive {
			return transport.BookingResponse{}, apperr.Validation("package is not available for booking")
		}
		packageName = pkg.Name
	}

	var departureDate *time.Time
	if req.DepartureDate != nil {
		parsed, err := time.Parse(departureDateLayout, *req.DepartureDate)
		if err != nil {
			return transport.BookingResponse{}, apperr.Validation("invalid departure date")
		}
		departureDate = &parsed
	}

	draft := engine.Draft{AssignmentMode: assignmentdomain.ModeManual}
	decision, err := s.assigner.AssignIfNeeded(ctx, &draft)
	if err != nil {
		return transport.BookingResponse{}, err
	}

	var agentName *string
	if decision.Assigned {
		agentName = &decision.Agent.Name
	}

	reference, err := newReference()
	if err != nil {
		return transport.BookingResponse{}, apperr.Wrap(apperr.KindInternal, "failed to generate booking reference", err)
	}

	customerName := strings.TrimSpace(req.Name)
	customerEmail := strings.ToLower(strings.TrimSpace(req.Email))
	customerPhone := normalizePhone(req.Phone)
	status := string(assignmentdomain.StatusNew)
	mode := string(draft.AssignmentMode)

	destination := packageName
	booking, lead, err := s.repo.CreateWithLead(ctx,
		repository.CreateParams{
			Reference:         reference,
			PackageID:         req.PackageID,
			PackageName:       packageName,
			CustomerName:      customerName,
			CustomerEmail:     customerEmail,
			CustomerPhone:     customerPhone,
			TravelersCount:    req.TravelersCount,
			DepartureDate:     departureDate,
			Notes:             req.Notes,
			Status:            status,
			AssignedTo:        draft.AssignedTo,
			AssignedAgentName: agentName,
			AssignmentMode:    mode,
			AssignedBy:        draft.AssignedBy,
		},
		leadsrepo.CreateParams{
			CustomerName:      customerName,
			CustomerEmail:     customerEmail,
			CustomerPhone:     customerPhone,
			Destination:       &destination,
			Message:           req.Notes,
			Source:            leadssvc.SourceBookingForm,
			Status:            status,
			AssignedTo:        draft.AssignedTo,
			AssignedAgentName: agentName,
			AssignmentMode:    mode,
			AssignedBy:        draft.AssignedBy,
		},
	)
	if err != nil {
		return transport.BookingResponse{}, err
	}

	s.bus.Publish(ctx, events.BookingCreated{
		BaseEvent:       events.NewBaseEvent(),
		BookingID:       booking.ID,
		LeadID:          lead.ID,
		Reference:       booking.Reference,
		AssignedAgentID: booking.AssignedTo,
		CustomerName:    booking.CustomerName,
		CustomerEmail:   booking.CustomerEmail,
		PackageName:     booking.PackageName,
	})

	if booking.AssignedTo != nil {
		s.publishAssigned(ctx, booking.ID, nil, booking.AssignedTo, nil, booking.AssignmentMode)
		s.log.AssignmentEvent("booking", booking.ID.String(), booking.AssignedTo.String(), string(decision.Strategy))
	}

	return toResponse(booking), nil
}

// GetByID retrieves a booking by ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.BookingResponse, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.BookingResponse{}, err
	}
	return toResponse(booking), nil
}

// List retrieves bookings matching the filter.
func (s *Service) List(ctx context.Context, filter repository.ListFilter) (transport.BookingListResponse, error) {
	bookings, err := s.repo.List(ctx, filter)
	if err != nil {
		return transport.BookingListResponse{}, err
	}

	items := make([]transport.BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		items = append(items, toResponse(booking))
	}
	return transport.BookingListResponse{Items: items, Total: len(items)}, nil
}

// UpdateStatus moves a booking to a new pipeline status.
func (s *Service) UpdateStatus(ctx context.Context, actor assignmentdomain.Actor, id uuid.UUID, req transport.UpdateStatusRequest) (transport.BookingResponse, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.BookingResponse{}, err
	}

	status := assignmentdomain.Status(req.Status)
	change := assignmentdomain.ChangeSet{Status: &status}
	if err := assignmentdomain.CanTransition(actor, itemState(booking), change); err != nil {
		return transport.BookingResponse{}, err
	}

	updated, err := s.repo.UpdateStatus(ctx, repository.UpdateStatusParams{
		ID:        id,
		Status:    string(status),
		ChangedBy: actor.ID,
		Note:      req.Note,
	})
	if err != nil {
		return transport.BookingResponse{}, err
	}
	return toResponse(updated), nil
}

// Assign hands a booking to the given agent as a manual override.
func (s *Service) Assign(ctx context.Context, actor assignmentdomain.Actor, id uuid.UUID, agentID uuid.UUID) (transport.BookingResponse, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.BookingResponse{}, err
	}

	change := assignmentdomain.ChangeSet{Assignee: &agentID, AssigneeSet: true}
	if err := assignmentdomain.CanTransition(actor, itemState(booking), change); err != nil {
		return transport.BookingResponse{}, err
	}

	agent, err := s.agents.GetByID(ctx, agentID)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			return transport.BookingResponse{}, apperr.Validation("assignee does not exist")
		}
		return transport.BookingResponse{}, err
	}

	actorID := actor.ID
	updated, err := s.repo.UpdateAssignment(ctx, repository.UpdateAssignmentParams{
		ID:                id,
		AssignedTo:        &agentID,
		AssignedAgentName: &agent.Name,
		AssignmentMode:    string(assignmentdomain.ModeManual),
		AssignedBy:        &actorID,
		ChangedBy:         actor.ID,
		HistoryNote:       "assigned to " + agent.Name,
	})
	if err != nil {
		return transport.BookingResponse{}, err
	}

	if booking.AssignedTo == nil || *booking.AssignedTo != agentID {
		s.publishAssigned(ctx, updated.ID, booking.AssignedTo, updated.AssignedTo, &actorID, updated.AssignmentMode)
	}

	return toResponse(updated), nil
}

// Claim lets an agent take an unassigned booking for themselves.
func (s *Service) Claim(ctx context.Context, actor assignmentdomain.Actor, id uuid.UUID) (transport.BookingResponse, error) {
	return s.Assign(ctx, actor, id, actor.ID)
}

// Unassign clears a booking's owner and display name.
func (s *Service) Unassign(ctx context.Context, actor assignmentdomain.Actor, id uuid.UUID) (transport.BookingResponse, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.BookingResponse{}, err
	}

	change := assignmentdomain.ChangeSet{Assignee: nil, AssigneeSet: true}
	if err := assignmentdomain.CanTransition(actor, itemState(booking), change); err != nil {
		return transport.BookingResponse{}, err
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
		return transport.BookingResponse{}, err
	}

	if booking.AssignedTo != nil {
		s.publishAssigned(ctx, updated.ID, booking.AssignedTo, nil, &actorID, updated.AssignmentMode)
	}

	return toResponse(updated), nil
}

// History returns a booking's status history in insertion order.
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

func (s *Service) publishAssigned(ctx context.Context, bookingID uuid.UUID, previous, next, assignedBy *uuid.UUID, mode string) {
	s.bus.Publish(ctx, events.WorkItemAssigned{
		BaseEvent:     events.NewBaseEvent(),
		WorkItemID:    bookingID,
		WorkItemType:  "booking",
		PreviousAgent: previous,
		NewAgent:      next,
		AssignedByID:  assignedBy,
		Mode:          mode,
	})
}

// newReference generates a human-readable booking reference like TD-3FA9C21B.
func newReference() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "TD-" + strings.ToUpper(hex.EncodeToString(buf)), nil
}

func itemState(booking repository.Booking) assignmentdomain.WorkItemState {
	return assignmentdomain.WorkItemState{
		AssignedTo: booking.AssignedTo,
		Status:     assignmentdomain.Status(booking.Status),
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

func toResponse(booking repository.Booking) transport.BookingResponse {
	resp := transport.BookingResponse{
		ID:                booking.ID,
		Reference:         booking.Reference,
		LeadID:            booking.LeadID,
		PackageID:         booking.PackageID,
		PackageName:       booking.PackageName,
		CustomerName:      booking.CustomerName,
		CustomerEmail:     booking.CustomerEmail,
		CustomerPhone:     booking.CustomerPhone,
		TravelersCount:    booking.TravelersCount,
		Notes:             booking.Notes,
		Status:            booking.Status,
		AssignedTo:        booking.AssignedTo,
		AssignedAgentName: booking.AssignedAgentName,
		AssignmentMode:    booking.AssignmentMode,
		AssignedBy:        booking.AssignedBy,
		CreatedAt:         booking.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         booking.UpdatedAt.Format(time.RFC3339),
	}
	if booking.DepartureDate != nil {
		departure := booking.DepartureDate.Format(departureDateLayout)
		resp.DepartureDate = &departure
	}
	return resp
}
