package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"tripdesk_backend/internal/assignment/domain"
	"tripdesk_backend/internal/assignment/repository"
	"tripdesk_backend/platform/apperr"
	"tripdesk_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	mu     sync.Mutex
	policy domain.Policy
	counts map[uuid.UUID]int
}

func (f *fakeRepo) Get(ctx context.Context) (domain.Policy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.policy, nil
}

func (f *fakeRepo) Update(ctx context.Context, params repository.UpdatePolicyParams) (domain.Policy, error) {
	return f.policy, nil
}

func (f *fakeRepo) IncrementCursor(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.policy.RotationCursor++
	return f.policy.RotationCursor, nil
}

func (f *fakeRepo) CountOpenByAssignee(ctx context.Context) (map[uuid.UUID]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[uuid.UUID]int, len(f.counts))
	for id, n := range f.counts {
		counts[id] = n
	}
	return counts, nil
}

func (f *fakeRepo) cursor() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.policy.RotationCursor
}

type fakeAgents struct {
	agents []domain.Agent
}

func (f *fakeAgents) ListAgents(ctx context.Context) ([]domain.Agent, error) {
	return f.agents, nil
}

func testAgents(names ...string) []domain.Agent {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	agents := make([]domain.Agent, 0, len(names))
	for i, name := range names {
		agents = append(agents, domain.Agent{
			ID:        uuid.New(),
			Name:      name,
			Active:    true,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	return agents
}

func newTestEngine(repo *fakeRepo, agents []domain.Agent) *Engine {
	return New(repo, &fakeAgents{agents: agents}, logger.New("test"))
}

func TestAssignIfNeededManualMode(t *testing.T) {
	repo := &fakeRepo{policy: domain.Policy{Mode: domain.ModeManual, Strategy: domain.StrategyRotating}}
	eng := newTestEngine(repo, testAgents("a", "b"))

	draft := &Draft{}
	decision, err := eng.AssignIfNeeded(context.Background(), draft)
	if err != nil {
		t.Fatalf("AssignIfNeeded() error = %v", err)
	}
	if decision.Assigned {
		t.Error("manual mode must not assign")
	}
	if draft.AssignedTo != nil {
		t.Error("manual mode must leave the draft untouched")
	}
	if got := repo.cursor(); got != 0 {
		t.Errorf("cursor advanced to %d in manual mode, want 0", got)
	}
}

func TestAssignIfNeededPreAssignedDraft(t *testing.T) {
	repo := &fakeRepo{policy: domain.Policy{Mode: domain.ModeAuto, Strategy: domain.StrategyRotating}}
	eng := newTestEngine(repo, testAgents("a", "b"))

	chosen := uuid.New()
	draft := &Draft{AssignedTo: &chosen, AssignmentMode: domain.ModeManual}
	decision, err := eng.AssignIfNeeded(context.Background(), draft)
	if err != nil {
		t.Fatalf("AssignIfNeeded() error = %v", err)
	}
	if decision.Assigned {
		t.Error("pre-assigned draft must not be reassigned")
	}
	if *draft.AssignedTo != chosen {
		t.Error("pre-assigned draft lost its assignee")
	}
	if draft.AssignmentMode != domain.ModeManual {
		t.Errorf("draft mode = %q, want %q", draft.AssignmentMode, domain.ModeManual)
	}
	if got := repo.cursor(); got != 0 {
		t.Errorf("cursor advanced to %d for a pre-assigned draft, want 0", got)
	}
}

func TestAssignIfNeededNoEligibleCandidates(t *testing.T) {
	repo := &fakeRepo{policy: domain.Policy{Mode: domain.ModeAuto, Strategy: domain.StrategyRotating, SkipInactive: true}}
	inactive := testAgents("a", "b")
	for i := range inactive {
		inactive[i].Active = false
	}
	eng := newTestEngine(repo, inactive)

	draft := &Draft{}
	decision, err := eng.AssignIfNeeded(context.Background(), draft)
	if err != nil {
		t.Fatalf("AssignIfNeeded() error = %v", err)
	}
	if decision.Assigned || draft.AssignedTo != nil {
		t.Error("no eligible candidates must leave the draft unassigned")
	}
	if got := repo.cursor(); got != 0 {
		t.Errorf("cursor advanced to %d with no candidates, want 0", got)
	}
}

func TestAssignIfNeededRotationFairness(t *testing.T) {
	agents := testAgents("a", "b", "c")
	repo := &fakeRepo{policy: domain.Policy{Mode: domain.ModeAuto, Strategy: domain.StrategyRotating, SkipInactive: true}}
	eng := newTestEngine(repo, agents)

	var picks []string
	for i := 0; i < 7; i++ {
		draft := &Draft{}
		decision, err := eng.AssignIfNeeded(context.Background(), draft)
		if err != nil {
			t.Fatalf("AssignIfNeeded() error = %v", err)
		}
		if !decision.Assigned {
			t.Fatalf("assignment %d did not assign", i)
		}
		if draft.AssignedTo == nil || *draft.AssignedTo != decision.Agent.ID {
			t.Fatalf("assignment %d draft not stamped with the decided agent", i)
		}
		if draft.AssignmentMode != domain.ModeAuto {
			t.Fatalf("assignment %d draft mode = %q, want %q", i, draft.AssignmentMode, domain.ModeAuto)
		}
		if draft.AssignedBy != nil {
			t.Fatalf("assignment %d recorded a human assigner for an automatic decision", i)
		}
		picks = append(picks, decision.Agent.Name)
	}

	want := []string{"a", "b", "c", "a", "b", "c", "a"}
	for i := range want {
		if picks[i] != want[i] {
			t.Errorf("pick %d = %q, want %q (full sequence %v)", i, picks[i], want[i], picks)
		}
	}
	if got := repo.cursor(); got != 7 {
		t.Errorf("cursor = %d after 7 assignments, want 7", got)
	}
}

func TestAssignIfNeededConcurrentRotation(t *testing.T) {
	agents := testAgents("a", "b", "c", "d", "e")
	repo := &fakeRepo{policy: domain.Policy{Mode: domain.ModeAuto, Strategy: domain.StrategyRotating, SkipInactive: true}}
	eng := newTestEngine(repo, agents)

	const assignments = 50

	var wg sync.WaitGroup
	var mu sync.Mutex
	perAgent := make(map[uuid.UUID]int)

	for i := 0; i < assignments; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			draft := &Draft{}
			decision, err := eng.AssignIfNeeded(context.Background(), draft)
			if err != nil || !decision.Assigned {
				t.Errorf("AssignIfNeeded() = (%+v, %v), want an assignment", decision, err)
				return
			}
			mu.Lock()
			perAgent[decision.Agent.ID]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	if got := repo.cursor(); got != assignments {
		t.Errorf("cursor = %d after %d concurrent assignments, want %d", got, assignments, assignments)
	}

	// Each concurrent caller observes a distinct cursor value, so the load
	// splits exactly evenly.
	want := assignments / len(agents)
	for _, agent := range agents {
		if got := perAgent[agent.ID]; got != want {
			t.Errorf("agent %s received %d assignments, want %d", agent.Name, got, want)
		}
	}
}

func TestAssignIfNeededLoadAware(t *testing.T) {
	agents := testAgents("a", "b", "c")
	repo := &fakeRepo{
		policy: domain.Policy{
			Mode:            domain.ModeAuto,
			Strategy:        domain.StrategyLoadAware,
			CapacityCeiling: 10,
			SkipInactive:    true,
		},
		counts: map[uuid.UUID]int{
			agents[0].ID: 4,
			agents[1].ID: 1,
			agents[2].ID: 2,
		},
	}
	eng := newTestEngine(repo, agents)

	draft := &Draft{}
	decision, err := eng.AssignIfNeeded(context.Background(), draft)
	if err != nil {
		t.Fatalf("AssignIfNeeded() error = %v", err)
	}
	if !decision.Assigned || decision.Agent.Name != "b" {
		t.Errorf("load-aware pick = %+v, want agent b", decision)
	}
	if decision.Strategy != domain.StrategyLoadAware {
		t.Errorf("decision strategy = %q, want %q", decision.Strategy, domain.StrategyLoadAware)
	}
	if got := repo.cursor(); got != 0 {
		t.Errorf("load-aware strategy advanced the rotation cursor to %d", got)
	}
}

func TestAssignIfNeededLoadAwareAllAtCapacity(t *testing.T) {
	agents := testAgents("a", "b")
	repo := &fakeRepo{
		policy: domain.Policy{
			Mode:            domain.ModeAuto,
			Strategy:        domain.StrategyLoadAware,
			CapacityCeiling: 3,
			SkipInactive:    true,
		},
		counts: map[uuid.UUID]int{
			agents[0].ID: 3,
			agents[1].ID: 5,
		},
	}
	eng := newTestEngine(repo, agents)

	draft := &Draft{}
	decision, err := eng.AssignIfNeeded(context.Background(), draft)
	if err != nil {
		t.Fatalf("AssignIfNeeded() error = %v", err)
	}
	if decision.Assigned || draft.AssignedTo != nil {
		t.Error("all agents at capacity must leave the draft unassigned")
	}
}

func TestAssignIfNeededUnknownStrategy(t *testing.T) {
	repo := &fakeRepo{policy: domain.Policy{Mode: domain.ModeAuto, Strategy: domain.Strategy("hash_ring"), SkipInactive: true}}
	eng := newTestEngine(repo, testAgents("a"))

	_, err := eng.AssignIfNeeded(context.Background(), &Draft{})
	if err == nil {
		t.Fatal("AssignIfNeeded() = nil error for unknown strategy")
	}
	if got := apperr.GetKind(err); got != apperr.KindValidation {
		t.Errorf("error kind = %v, want %v", got, apperr.KindValidation)
	}
}
