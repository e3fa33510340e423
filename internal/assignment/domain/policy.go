// Package domain holds the assignment engine's decision logic: the policy
// model, eligibility filtering, selection strategies, and the work-item
// lifecycle rules. Everything here is pure and persistence-free.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Mode controls whether inbound work items are assigned automatically.
type Mode string

const (
	ModeManual Mode = "manual"
	ModeAuto   Mode = "auto"
)

var knownModes = map[Mode]struct{}{
	ModeManual: {},
	ModeAuto:   {},
}

// IsKnownMode reports whether mode is a valid assignment mode.
func IsKnownMode(mode Mode) bool {
	_, ok := knownModes[mode]
	return ok
}

// Strategy selects which agent receives an auto-assigned work item.
type Strategy string

const (
	// StrategyRotating is fair-share round-robin via the persisted cursor.
	StrategyRotating Strategy = "rotating"
	// StrategyLoadAware picks the agent with the fewest open work items.
	StrategyLoadAware Strategy = "load_aware"
)

var knownStrategies = map[Strategy]struct{}{
	StrategyRotating:  {},
	StrategyLoadAware: {},
}

// IsKnownStrategy reports whether strategy is a valid selection strategy.
func IsKnownStrategy(strategy Strategy) bool {
	_, ok := knownStrategies[strategy]
	return ok
}

// Default policy values, applied when the singleton row is first created.
const (
	DefaultCapacityCeiling = 100
)

// Policy is the singleton configuration governing assignment decisions.
// Exactly one policy record exists; it is read at the start of every
// decision and threaded through the filter and strategy as an argument.
type Policy struct {
	Mode     Mode
	Strategy Strategy
	// AllowList restricts eligibility to the listed agents. Empty means
	// all active agents are eligible.
	AllowList []uuid.UUID
	// RotationCursor is a monotonically increasing counter. The rotating
	// strategy derives the pick index modulo the current candidate-set
	// size, so the stored value is never wrapped.
	RotationCursor int64
	// CapacityCeiling is the max open work items per agent under the
	// load-aware strategy.
	CapacityCeiling int
	// SkipInactive drops deactivated agents from the candidate set.
	SkipInactive bool
	// RequireRecentActivity drops agents whose last login is older than
	// RecentActivityWindow.
	RequireRecentActivity bool
	UpdatedBy             *uuid.UUID
	UpdatedAt             time.Time
}

// DefaultPolicy returns the documented defaults for a fresh installation.
func DefaultPolicy() Policy {
	return Policy{
		Mode:                  ModeManual,
		Strategy:              StrategyRotating,
		RotationCursor:        0,
		CapacityCeiling:       DefaultCapacityCeiling,
		SkipInactive:          true,
		RequireRecentActivity: false,
	}
}

// Allows reports whether the allow-list permits the given agent.
// An empty allow-list permits everyone.
func (p Policy) Allows(agentID uuid.UUID) bool {
	if len(p.AllowList) == 0 {
		return true
	}
	for _, id := range p.AllowList {
		if id == agentID {
			return true
		}
	}
	return false
}
