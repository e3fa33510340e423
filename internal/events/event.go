// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"tripdesk_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a new lead is created.
type LeadCreated struct {
	BaseEvent
	LeadID          uuid.UUID  `json:"leadId"`
	AssignedAgentID *uuid.UUID `json:"assignedAgentId,omitempty"`
	Source          string     `json:"source"`
	CustomerName    string     `json:"customerName"`
	CustomerEmail   string     `json:"customerEmail"`
	Destination     string     `json:"destination,omitempty"`
}

func (e LeadCreated) EventName() string { return "leads.created" }

// =============================================================================
// Bookings Domain Events
// =============================================================================

// BookingCreated is published when a booking (and its companion lead) is created.
type BookingCreated struct {
	BaseEvent
	BookingID       uuid.UUID  `json:"bookingId"`
	LeadID          uuid.UUID  `json:"leadId"`
	Reference       string     `json:"reference"`
	AssignedAgentID *uuid.UUID `json:"assignedAgentId,omitempty"`
	CustomerName    string     `json:"customerName"`
	CustomerEmail   string     `json:"customerEmail"`
	PackageName     string     `json:"packageName"`
}

func (e BookingCreated) EventName() string { return "bookings.created" }

// =============================================================================
// Assignment Domain Events
// =============================================================================

// WorkItemAssigned is published when a work item changes owner, either
// through the auto-assignment engine or a manual override. PreviousAgent
// is nil for a first assignment; NewAgent is nil for an unassignment.
type WorkItemAssigned struct {
	BaseEvent
	WorkItemID    uuid.UUID  `json:"workItemId"`
	WorkItemType  string     `json:"workItemType"`
	PreviousAgent *uuid.UUID `json:"previousAgent,omitempty"`
	NewAgent      *uuid.UUID `json:"newAgent,omitempty"`
	AssignedByID  *uuid.UUID `json:"assignedById,omitempty"`
	Mode          string     `json:"mode"`
}

func (e WorkItemAssigned) EventName() string { return "assignment.work_item.assigned" }
