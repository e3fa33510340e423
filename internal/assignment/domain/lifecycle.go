package domain

import (
	"tripdesk_backend/platform/apperr"

	"github.com/google/uuid"
)

// Roles recognized by the lifecycle rules. Role assignment itself is the
// auth module's concern; the lifecycle only consumes it.
const (
	RoleAdmin = "admin"
	RoleAgent = "agent"
)

// Actor is the authenticated identity attempting a transition.
type Actor struct {
	ID    uuid.UUID
	Roles []string
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool {
	for _, role := range a.Roles {
		if role == RoleAdmin {
			return true
		}
	}
	return false
}

// WorkItemState is the minimal view of a work item the lifecycle rules
// need to authorize a change.
type WorkItemState struct {
	AssignedTo *uuid.UUID
	Status     Status
}

// ChangeSet describes the fields a transition wants to modify. Assignee is
// only meaningful when AssigneeSet is true; a set-but-nil assignee is an
// unassignment.
type ChangeSet struct {
	Status      *Status
	Assignee    *uuid.UUID
	AssigneeSet bool
}

// CanTransition is the single authorization predicate for status and
// assignment changes. Admins may drive any transition. Agents may update
// only items assigned to them, may claim an unassigned item for
// themselves, and may never hand an item to a third party.
// Returns nil when the transition is allowed.
func CanTransition(actor Actor, item WorkItemState, change ChangeSet) error {
	if change.Status != nil && !IsKnownStatus(*change.Status) {
		return apperr.Validation("unknown status")
	}

	if actor.IsAdmin() {
		return nil
	}

	owned := item.AssignedTo != nil && *item.AssignedTo == actor.ID

	if change.AssigneeSet {
		switch {
		case item.AssignedTo == nil:
			// Claiming: an unassigned item may only be taken for oneself.
			if change.Assignee == nil || *change.Assignee != actor.ID {
				return apperr.Forbidden("only an administrator may assign other agents")
			}
		case !owned:
			return apperr.Forbidden("work item is owned by another agent")
		case change.Assignee != nil && *change.Assignee != actor.ID:
			return apperr.Forbidden("only an administrator may reassign to another agent")
		}
	}

	if change.Status != nil && !owned {
		// A claim in the same change set grants ownership for the
		// accompanying status update.
		claiming := change.AssigneeSet && change.Assignee != nil && *change.Assignee == actor.ID
		if !claiming {
			return apperr.Forbidden("work item is not assigned to you")
		}
	}

	return nil
}
