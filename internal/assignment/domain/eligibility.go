package domain

import (
	"sort"
	"strings"
	"time"
)

// RecentActivityWindow is how recently an agent must have logged in to
// qualify when Policy.RequireRecentActivity is set.
const RecentActivityWindow = time.Hour

// EligibleAgents computes the candidate set for an assignment decision:
// inactive agents are dropped when the policy says so, the allow-list is
// intersected when non-empty, and stale logins are dropped when recent
// activity is required.
//
// The result is ordered by creation time (ID as tie-break) so the rotating
// cursor keeps a consistent meaning between calls. An empty result is the
// normal "no eligible candidate" outcome, not an error.
func EligibleAgents(agents []Agent, policy Policy, now time.Time) []Agent {
	cutoff := now.Add(-RecentActivityWindow)

	candidates := make([]Agent, 0, len(agents))
	for _, agent := range agents {
		if policy.SkipInactive && !agent.Active {
			continue
		}
		if !policy.Allows(agent.ID) {
			continue
		}
		if policy.RequireRecentActivity {
			if agent.LastLoginAt == nil || agent.LastLoginAt.Before(cutoff) {
				continue
			}
		}
		candidates = append(candidates, agent)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if !candidates[i].CreatedAt.Equal(candidates[j].CreatedAt) {
			return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
		}
		return strings.Compare(candidates[i].ID.String(), candidates[j].ID.String()) < 0
	})

	return candidates
}
