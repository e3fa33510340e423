package domain

import (
	"testing"

	"github.com/google/uuid"
)

func namedAgent(name string) Agent {
	return Agent{ID: uuid.New(), Name: name, Active: true}
}

func TestPickRotatingCyclesThroughCandidates(t *testing.T) {
	candidates := []Agent{namedAgent("a"), namedAgent("b"), namedAgent("c")}

	// Four consecutive cursor values wrap back to the first candidate.
	want := []string{"a", "b", "c", "a"}
	for cursor, name := range want {
		agent, ok := PickRotating(candidates, int64(cursor))
		if !ok {
			t.Fatalf("PickRotating(cursor=%d) returned no candidate", cursor)
		}
		if agent.Name != name {
			t.Errorf("PickRotating(cursor=%d) = %q, want %q", cursor, agent.Name, name)
		}
	}
}

func TestPickRotatingWrapsLargeCursor(t *testing.T) {
	candidates := []Agent{namedAgent("a"), namedAgent("b")}

	agent, ok := PickRotating(candidates, 101)
	if !ok {
		t.Fatal("PickRotating returned no candidate")
	}
	if agent.Name != "b" {
		t.Errorf("PickRotating(cursor=101) = %q, want %q", agent.Name, "b")
	}
}

func TestPickRotatingEmpty(t *testing.T) {
	if _, ok := PickRotating(nil, 5); ok {
		t.Error("PickRotating(nil) returned a candidate, want none")
	}
}

func TestPickLoadAware(t *testing.T) {
	a := namedAgent("a")
	b := namedAgent("b")
	c := namedAgent("c")
	candidates := []Agent{a, b, c}

	cases := []struct {
		name     string
		counts   map[uuid.UUID]int
		ceiling  int
		wantName string
		wantOK   bool
	}{
		{
			name:     "fewest open items wins",
			counts:   map[uuid.UUID]int{a.ID: 3, b.ID: 1, c.ID: 2},
			ceiling:  100,
			wantName: "b",
			wantOK:   true,
		},
		{
			name:     "missing count treated as zero",
			counts:   map[uuid.UUID]int{a.ID: 1, b.ID: 1},
			ceiling:  100,
			wantName: "c",
			wantOK:   true,
		},
		{
			name:     "tie goes to first in eligibility order",
			counts:   map[uuid.UUID]int{a.ID: 2, b.ID: 2, c.ID: 2},
			ceiling:  100,
			wantName: "a",
			wantOK:   true,
		},
		{
			name:     "agents at ceiling are skipped",
			counts:   map[uuid.UUID]int{a.ID: 0, b.ID: 5, c.ID: 5},
			ceiling:  5,
			wantName: "a",
			wantOK:   true,
		},
		{
			name:    "everyone at capacity yields no pick",
			counts:  map[uuid.UUID]int{a.ID: 5, b.ID: 6, c.ID: 5},
			ceiling: 5,
			wantOK:  false,
		},
		{
			name:     "zero ceiling disables the cap",
			counts:   map[uuid.UUID]int{a.ID: 500, b.ID: 400, c.ID: 600},
			ceiling:  0,
			wantName: "b",
			wantOK:   true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			agent, ok := PickLoadAware(candidates, tc.counts, tc.ceiling)
			if ok != tc.wantOK {
				t.Fatalf("PickLoadAware ok = %v, want %v", ok, tc.wantOK)
			}
			if ok && agent.Name != tc.wantName {
				t.Errorf("PickLoadAware = %q, want %q", agent.Name, tc.wantName)
			}
		})
	}
}

func TestPickLoadAwareEmpty(t *testing.T) {
	if _, ok := PickLoadAware(nil, nil, 100); ok {
		t.Error("PickLoadAware(nil) returned a candidate, want none")
	}
}
