package notification

import (
	"context"
	"testing"

	"github.com/google/uuid"

	bookingsrepo "tripdesk_backend/internal/bookings/repository"
	"tripdesk_backend/internal/events"
	leadsrepo "tripdesk_backend/internal/leads/repository"
	"tripdesk_backend/internal/scheduler"
	"tripdesk_backend/platform/apperr"
	"tripdesk_backend/platform/logger"
)

type recordingQueue struct {
	notices       []scheduler.AssignmentNoticePayload
	confirmations []scheduler.BookingConfirmationPayload
	received      []scheduler.LeadReceivedPayload
}

func (q *recordingQueue) EnqueueAssignmentNotice(ctx context.Context, payload scheduler.AssignmentNoticePayload) error {
	q.notices = append(q.notices, payload)
	return nil
}

func (q *recordingQueue) EnqueueBookingConfirmation(ctx context.Context, payload scheduler.BookingConfirmationPayload) error {
	q.confirmations = append(q.confirmations, payload)
	return nil
}

func (q *recordingQueue) EnqueueLeadReceived(ctx context.Context, payload scheduler.LeadReceivedPayload) error {
	q.received = append(q.received, payload)
	return nil
}

type stubLeads struct {
	leadsrepo.Repository
	leads map[uuid.UUID]leadsrepo.Lead
}

func (s *stubLeads) GetByID(ctx context.Context, id uuid.UUID) (leadsrepo.Lead, error) {
	lead, ok := s.leads[id]
	if !ok {
		return leadsrepo.Lead{}, apperr.NotFound("lead not found")
	}
	return lead, nil
}

type stubBookings struct {
	bookingsrepo.Repository
	bookings map[uuid.UUID]bookingsrepo.Booking
}

func (s *stubBookings) GetByID(ctx context.Context, id uuid.UUID) (bookingsrepo.Booking, error) {
	booking, ok := s.bookings[id]
	if !ok {
		return bookingsrepo.Booking{}, apperr.NotFound("booking not found")
	}
	return booking, nil
}

func newTestService(queue *recordingQueue, leads *stubLeads, bookings *stubBookings) *Service {
	return New(queue, leads, bookings, logger.New("test"))
}

func TestOnWorkItemAssignedQueuesNotice(t *testing.T) {
	leadID := uuid.New()
	agentID := uuid.New()
	queue := &recordingQueue{}
	leads := &stubLeads{leads: map[uuid.UUID]leadsrepo.Lead{
		leadID: {ID: leadID, CustomerName: "Jane Doe"},
	}}
	svc := newTestService(queue, leads, &stubBookings{})

	err := svc.onWorkItemAssigned(context.Background(), events.WorkItemAssigned{
		WorkItemID:   leadID,
		WorkItemType: "lead",
		NewAgent:     &agentID,
		Mode:         "auto",
	})
	if err != nil {
		t.Fatalf("onWorkItemAssigned() error = %v", err)
	}
	if len(queue.notices) != 1 {
		t.Fatalf("queued %d notices, want 1", len(queue.notices))
	}
	notice := queue.notices[0]
	if notice.AgentID != agentID.String() || notice.CustomerName != "Jane Doe" || notice.WorkItemType != "lead" {
		t.Errorf("notice payload = %+v", notice)
	}
}

func TestOnWorkItemAssignedSkipsUnassignment(t *testing.T) {
	queue := &recordingQueue{}
	svc := newTestService(queue, &stubLeads{}, &stubBookings{})

	err := svc.onWorkItemAssigned(context.Background(), events.WorkItemAssigned{
		WorkItemID:   uuid.New(),
		WorkItemType: "lead",
		NewAgent:     nil,
	})
	if err != nil {
		t.Fatalf("onWorkItemAssigned() error = %v", err)
	}
	if len(queue.notices) != 0 {
		t.Errorf("queued %d notices for an unassignment, want 0", len(queue.notices))
	}
}

func TestOnWorkItemAssignedBookingResolvesBookingCustomer(t *testing.T) {
	bookingID := uuid.New()
	agentID := uuid.New()
	queue := &recordingQueue{}
	bookings := &stubBookings{bookings: map[uuid.UUID]bookingsrepo.Booking{
		bookingID: {ID: bookingID, CustomerName: "Max Payne"},
	}}
	svc := newTestService(queue, &stubLeads{}, bookings)

	err := svc.onWorkItemAssigned(context.Background(), events.WorkItemAssigned{
		WorkItemID:   bookingID,
		WorkItemType: "booking",
		NewAgent:     &agentID,
	})
	if err != nil {
		t.Fatalf("onWorkItemAssigned() error = %v", err)
	}
	if len(queue.notices) != 1 || queue.notices[0].CustomerName != "Max Payne" {
		t.Errorf("notices = %+v, want one for the booking's customer", queue.notices)
	}
}

func TestOnLeadCreatedOnlyWebsiteFormAcknowledged(t *testing.T) {
	queue := &recordingQueue{}
	svc := newTestService(queue, &stubLeads{}, &stubBookings{})

	cases := []struct {
		source string
		want   int
	}{
		{"website_form", 1},
		{"booking_form", 0},
		{"manual", 0},
	}
	for _, tc := range cases {
		queue.received = nil
		err := svc.onLeadCreated(context.Background(), events.LeadCreated{
			LeadID:        uuid.New(),
			Source:        tc.source,
			CustomerName:  "Jane Doe",
			CustomerEmail: "jane@example.com",
		})
		if err != nil {
			t.Fatalf("onLeadCreated(%q) error = %v", tc.source, err)
		}
		if len(queue.received) != tc.want {
			t.Errorf("source %q queued %d acknowledgements, want %d", tc.source, len(queue.received), tc.want)
		}
	}
}

func TestOnBookingCreatedQueuesConfirmation(t *testing.T) {
	queue := &recordingQueue{}
	svc := newTestService(queue, &stubLeads{}, &stubBookings{})

	err := svc.onBookingCreated(context.Background(), events.BookingCreated{
		BookingID:     uuid.New(),
		Reference:     "TD-3FA9C21B",
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
		PackageName:   "Bali Escape",
	})
	if err != nil {
		t.Fatalf("onBookingCreated() error = %v", err)
	}
	if len(queue.confirmations) != 1 || queue.confirmations[0].Reference != "TD-3FA9C21B" {
		t.Errorf("confirmations = %+v, want one with the booking reference", queue.confirmations)
	}
}
