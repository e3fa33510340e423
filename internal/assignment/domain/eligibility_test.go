package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestEligibleAgentsFilters(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-10 * time.Minute)
	stale := now.Add(-2 * time.Hour)

	active := Agent{ID: uuid.New(), Name: "active", Active: true, LastLoginAt: &recent}
	inactive := Agent{ID: uuid.New(), Name: "inactive", Active: false, LastLoginAt: &recent}
	staleLogin := Agent{ID: uuid.New(), Name: "stale", Active: true, LastLoginAt: &stale}
	neverLoggedIn := Agent{ID: uuid.New(), Name: "never", Active: true}

	all := []Agent{active, inactive, staleLogin, neverLoggedIn}

	cases := []struct {
		name   string
		policy Policy
		want   []string
	}{
		{
			name:   "skip inactive drops deactivated agents",
			policy: Policy{SkipInactive: true},
			want:   []string{"active", "stale", "never"},
		},
		{
			name:   "inactive agents kept when policy allows",
			policy: Policy{SkipInactive: false},
			want:   []string{"active", "inactive", "stale", "never"},
		},
		{
			name:   "allow list intersects the candidate set",
			policy: Policy{SkipInactive: true, AllowList: []uuid.UUID{staleLogin.ID, inactive.ID}},
			want:   []string{"stale"},
		},
		{
			name:   "recent activity drops stale and never-logged-in",
			policy: Policy{SkipInactive: true, RequireRecentActivity: true},
			want:   []string{"active"},
		},
		{
			name:   "all filters combined can empty the set",
			policy: Policy{SkipInactive: true, RequireRecentActivity: true, AllowList: []uuid.UUID{staleLogin.ID}},
			want:   []string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := EligibleAgents(all, tc.policy, now)
			if len(got) != len(tc.want) {
				t.Fatalf("EligibleAgents returned %d candidates, want %d", len(got), len(tc.want))
			}
			seen := make(map[string]bool, len(got))
			for _, agent := range got {
				seen[agent.Name] = true
			}
			for _, name := range tc.want {
				if !seen[name] {
					t.Errorf("EligibleAgents missing %q", name)
				}
			}
		})
	}
}

func TestEligibleAgentsStableOrder(t *testing.T) {
	now := time.Now()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	oldest := Agent{ID: uuid.MustParse("00000000-0000-0000-0000-000000000003"), Name: "oldest", Active: true, CreatedAt: base}
	middle := Agent{ID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), Name: "middle", Active: true, CreatedAt: base.Add(time.Hour)}
	// Same creation instant as middle; the lower ID must sort first.
	tied := Agent{ID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), Name: "tied", Active: true, CreatedAt: base.Add(time.Hour)}

	got := EligibleAgents([]Agent{middle, tied, oldest}, Policy{SkipInactive: true}, now)

	want := []string{"oldest", "tied", "middle"}
	if len(got) != len(want) {
		t.Fatalf("EligibleAgents returned %d candidates, want %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("EligibleAgents[%d] = %q, want %q", i, got[i].Name, name)
		}
	}
}

func TestEligibleAgentsLoginExactlyAtCutoff(t *testing.T) {
	now := time.Now()
	atCutoff := now.Add(-RecentActivityWindow)
	agent := Agent{ID: uuid.New(), Name: "edge", Active: true, LastLoginAt: &atCutoff}

	got := EligibleAgents([]Agent{agent}, Policy{SkipInactive: true, RequireRecentActivity: true}, now)
	if len(got) != 1 {
		t.Errorf("login exactly at the window boundary should remain eligible, got %d candidates", len(got))
	}
}
