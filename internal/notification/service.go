// Package notification bridges domain events to the task queue. Emails
// are fire-and-forget: enqueue failures are logged by the event bus and
// never reach an API response.
package notification

import (
	"context"
	"fmt"

	bookingsrepo "tripdesk_backend/internal/bookings/repository"
	"tripdesk_backend/internal/events"
	leadsrepo "tripdesk_backend/internal/leads/repository"
	"tripdesk_backend/internal/scheduler"
	"tripdesk_backend/platform/logger"
)

// TaskEnqueuer queues notification tasks for the worker process.
type TaskEnqueuer interface {
	EnqueueAssignmentNotice(ctx context.Context, payload scheduler.AssignmentNoticePayload) error
	EnqueueBookingConfirmation(ctx context.Context, payload scheduler.BookingConfirmationPayload) error
	EnqueueLeadReceived(ctx context.Context, payload scheduler.LeadReceivedPayload) error
}

// Service translates domain events into queued notification tasks.
type Service struct {
	queue    TaskEnqueuer
	leads    leadsrepo.Repository
	bookings bookingsrepo.Repository
	log      *logger.Logger
}

// New creates a notification service.
func New(queue TaskEnqueuer, leads leadsrepo.Repository, bookings bookingsrepo.Repository, log *logger.Logger) *Service {
	return &Service{
		queue:    queue,
		leads:    leads,
		bookings: bookings,
		log:      log,
	}
}

// RegisterSubscribers wires the service's handlers onto the event bus.
func (s *Service) RegisterSubscribers(bus events.Bus) {
	bus.Subscribe(events.WorkItemAssigned{}.EventName(), events.HandlerFunc(s.onWorkItemAssigned))
	bus.Subscribe(events.LeadCreated{}.EventName(), events.HandlerFunc(s.onLeadCreated))
	bus.Subscribe(events.BookingCreated{}.EventName(), events.HandlerFunc(s.onBookingCreated))
}

// onWorkItemAssigned notifies the new owner. Unassignments and
// same-owner updates never reach this point; reassignment to a different
// agent queues exactly one notice.
func (s *Service) onWorkItemAssigned(ctx context.Context, event events.Event) error {
	assigned, ok := event.(events.WorkItemAssigned)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	if assigned.NewAgent == nil {
		return nil
	}

	customerName, err := s.customerName(ctx, assigned.WorkItemType, assigned)
	if err != nil {
		return err
	}

	return s.queue.EnqueueAssignmentNotice(ctx, scheduler.AssignmentNoticePayload{
		AgentID:      assigned.NewAgent.String(),
		WorkItemID:   assigned.WorkItemID.String(),
		WorkItemType: assigned.WorkItemType,
		CustomerName: customerName,
	})
}

func (s *Service) onLeadCreated(ctx context.Context, event events.Event) error {
	created, ok := event.(events.LeadCreated)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	// Only website inquiries get the acknowledgement; booking-form leads
	// are covered by the booking confirmation.
	if created.Source != "website_form" {
		return nil
	}

	return s.queue.EnqueueLeadReceived(ctx, scheduler.LeadReceivedPayload{
		LeadID:        created.LeadID.String(),
		CustomerName:  created.CustomerName,
		CustomerEmail: created.CustomerEmail,
	})
}

func (s *Service) onBookingCreated(ctx context.Context, event events.Event) error {
	created, ok := event.(events.BookingCreated)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	return s.queue.EnqueueBookingConfirmation(ctx, scheduler.BookingConfirmationPayload{
		BookingID:     created.BookingID.String(),
		Reference:     created.Reference,
		CustomerName:  created.CustomerName,
		CustomerEmail: created.CustomerEmail,
		PackageName:   created.PackageName,
	})
}

func (s *Service) customerName(ctx context.Context, workItemType string, assigned events.WorkItemAssigned) (string, error) {
	switch workItemType {
	case "booking":
		booking, err := s.bookings.GetByID(ctx, assigned.WorkItemID)
		if err != nil {
			return "", err
		}
		return booking.CustomerName, nil
	default:
		lead, err := s.leads.GetByID(ctx, assigned.WorkItemID)
		if err != nil {
			return "", err
		}
		return lead.CustomerName, nil
	}
}
