package transport

import (
	"github.com/google/uuid"
)

// PolicyResponse is the admin view of the assignment policy.
type PolicyResponse struct {
	Mode                  string      `json:"mode"`
	Strategy              string      `json:"strategy"`
	AllowList             []uuid.UUID `json:"allowList"`
	RotationCursor        int64       `json:"rotationCursor"`
	CapacityCeiling       int         `json:"capacityCeiling"`
	SkipInactive          bool        `json:"skipInactive"`
	RequireRecentActivity bool        `json:"requireRecentActivity"`
	UpdatedBy             *uuid.UUID  `json:"updatedBy,omitempty"`
	UpdatedAt             string      `json:"updatedAt"`
}

// AgentWorkload is one row of the admin distribution view.
type AgentWorkload struct {
	AgentID    uuid.UUID `json:"agentId"`
	Name       string    `json:"name"`
	Active     bool      `json:"active"`
	OpenItems  int       `json:"openItems"`
	AtCapacity bool      `json:"atCapacity"`
}

// WorkloadResponse reports every agent's open work-item count against the
// policy's capacity ceiling.
type WorkloadResponse struct {
	CapacityCeiling int             `json:"capacityCeiling"`
	Items           []AgentWorkload `json:"items"`
}

// UpdatePolicyRequest is an administrator's partial policy update.
// A present-but-empty allowList clears the restriction.
type UpdatePolicyRequest struct {
	Mode                  *string      `json:"mode,omitempty" validate:"omitempty,oneof=manual auto"`
	Strategy              *string      `json:"strategy,omitempty" validate:"omitempty,oneof=rotating load_aware"`
	AllowList             *[]uuid.UUID `json:"allowList,omitempty"`
	CapacityCeiling       *int         `json:"capacityCeiling,omitempty" validate:"omitempty,min=1"`
	SkipInactive          *bool        `json:"skipInactive,omitempty"`
	RequireRecentActivity *bool        `json:"requireRecentActivity,omitempty"`
}
