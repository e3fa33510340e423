package repository

import (
	"context"

	"tripdesk_backend/internal/assignment/domain"

	"github.com/google/uuid"
)

// UpdatePolicyParams is an administrator's partial policy update. Nil
// pointers leave the field unchanged. AllowList uses a separate Set flag
// so that an explicit empty list (meaning "all active agents") can be
// distinguished from "unchanged".
type UpdatePolicyParams struct {
	Mode                  *domain.Mode
	Strategy              *domain.Strategy
	AllowList             []uuid.UUID
	AllowListSet          bool
	CapacityCeiling       *int
	SkipInactive          *bool
	RequireRecentActivity *bool
	UpdatedBy             uuid.UUID
}

// PolicyStore provides access to the singleton assignment policy.
type PolicyStore interface {
	// Get returns the policy, creating it with defaults on first access.
	Get(ctx context.Context) (domain.Policy, error)
	// Update applies a partial update and records the updating actor.
	Update(ctx context.Context, params UpdatePolicyParams) (domain.Policy, error)
	// IncrementCursor atomically advances the rotation cursor by one and
	// returns the post-increment value. Concurrent callers each observe a
	// distinct value; there is no read-modify-write window.
	IncrementCursor(ctx context.Context) (int64, error)
}

// WorkloadCounter reads each agent's live open-item count for the
// load-aware strategy.
type WorkloadCounter interface {
	CountOpenByAssignee(ctx context.Context) (map[uuid.UUID]int, error)
}

// Repository combines all assignment persistence operations.
type Repository interface {
	PolicyStore
	WorkloadCounter
}
