package service

import (
	"context"
	"testing"

	"tripdesk_backend/internal/assignment/domain"
	"tripdesk_backend/internal/assignment/repository"
	"tripdesk_backend/internal/assignment/transport"
	"tripdesk_backend/platform/apperr"
	"tripdesk_backend/platform/logger"

	"github.com/google/uuid"
)

type fakePolicyStore struct {
	policy     domain.Policy
	counts     map[uuid.UUID]int
	lastUpdate *repository.UpdatePolicyParams
}

func (f *fakePolicyStore) Get(ctx context.Context) (domain.Policy, error) {
	return f.policy, nil
}

func (f *fakePolicyStore) Update(ctx context.Context, params repository.UpdatePolicyParams) (domain.Policy, error) {
	f.lastUpdate = &params
	if params.Mode != nil {
		f.policy.Mode = *params.Mode
	}
	if params.Strategy != nil {
		f.policy.Strategy = *params.Strategy
	}
	if params.AllowListSet {
		f.policy.AllowList = params.AllowList
	}
	if params.CapacityCeiling != nil {
		f.policy.CapacityCeiling = *params.CapacityCeiling
	}
	if params.SkipInactive != nil {
		f.policy.SkipInactive = *params.SkipInactive
	}
	if params.RequireRecentActivity != nil {
		f.policy.RequireRecentActivity = *params.RequireRecentActivity
	}
	f.policy.UpdatedBy = &params.UpdatedBy
	return f.policy, nil
}

func (f *fakePolicyStore) IncrementCursor(ctx context.Context) (int64, error) {
	f.policy.RotationCursor++
	return f.policy.RotationCursor, nil
}

func (f *fakePolicyStore) CountOpenByAssignee(ctx context.Context) (map[uuid.UUID]int, error) {
	return f.counts, nil
}

type fakeAgents struct {
	agents []domain.Agent
}

func (f *fakeAgents) ListAgents(ctx context.Context) ([]domain.Agent, error) {
	return f.agents, nil
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestUpdatePolicyValidation(t *testing.T) {
	cases := []struct {
		name     string
		req      transport.UpdatePolicyRequest
		wantKind apperr.Kind
	}{
		{
			name: "valid mode and strategy",
			req:  transport.UpdatePolicyRequest{Mode: strPtr("auto"), Strategy: strPtr("load_aware")},
		},
		{
			name:     "unknown mode rejected",
			req:      transport.UpdatePolicyRequest{Mode: strPtr("hybrid")},
			wantKind: apperr.KindValidation,
		},
		{
			name:     "unknown strategy rejected",
			req:      transport.UpdatePolicyRequest{Strategy: strPtr("random")},
			wantKind: apperr.KindValidation,
		},
		{
			name:     "non-positive ceiling rejected",
			req:      transport.UpdatePolicyRequest{CapacityCeiling: intPtr(0)},
			wantKind: apperr.KindValidation,
		},
		{
			name: "positive ceiling accepted",
			req:  transport.UpdatePolicyRequest{CapacityCeiling: intPtr(25)},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakePolicyStore{policy: domain.DefaultPolicy()}
			svc := New(store, &fakeAgents{}, logger.New("test"))

			_, err := svc.UpdatePolicy(context.Background(), uuid.New(), tc.req)
			if tc.wantKind == apperr.KindUnknown {
				if err != nil {
					t.Fatalf("UpdatePolicy() error = %v, want nil", err)
				}
				return
			}
			if apperr.GetKind(err) != tc.wantKind {
				t.Errorf("UpdatePolicy() error kind = %v, want %v", apperr.GetKind(err), tc.wantKind)
			}
			if store.lastUpdate != nil {
				t.Error("invalid update still reached the store")
			}
		})
	}
}

func TestUpdatePolicyClearsAllowList(t *testing.T) {
	store := &fakePolicyStore{policy: domain.DefaultPolicy()}
	store.policy.AllowList = []uuid.UUID{uuid.New()}
	svc := New(store, &fakeAgents{}, logger.New("test"))

	empty := []uuid.UUID{}
	resp, err := svc.UpdatePolicy(context.Background(), uuid.New(), transport.UpdatePolicyRequest{AllowList: &empty})
	if err != nil {
		t.Fatalf("UpdatePolicy() error = %v", err)
	}
	if store.lastUpdate == nil || !store.lastUpdate.AllowListSet {
		t.Fatal("explicit empty allow list was not marked as set")
	}
	if len(resp.AllowList) != 0 {
		t.Errorf("allow list = %v, want empty", resp.AllowList)
	}
}

func TestUpdatePolicyOmittedAllowListUnchanged(t *testing.T) {
	keep := uuid.New()
	store := &fakePolicyStore{policy: domain.DefaultPolicy()}
	store.policy.AllowList = []uuid.UUID{keep}
	svc := New(store, &fakeAgents{}, logger.New("test"))

	resp, err := svc.UpdatePolicy(context.Background(), uuid.New(), transport.UpdatePolicyRequest{Mode: strPtr("auto")})
	if err != nil {
		t.Fatalf("UpdatePolicy() error = %v", err)
	}
	if store.lastUpdate.AllowListSet {
		t.Error("omitted allow list was marked as set")
	}
	if len(resp.AllowList) != 1 || resp.AllowList[0] != keep {
		t.Errorf("allow list = %v, want [%s]", resp.AllowList, keep)
	}
}

func TestGetPolicyDefaults(t *testing.T) {
	store := &fakePolicyStore{policy: domain.DefaultPolicy()}
	svc := New(store, &fakeAgents{}, logger.New("test"))

	resp, err := svc.GetPolicy(context.Background())
	if err != nil {
		t.Fatalf("GetPolicy() error = %v", err)
	}
	if resp.Mode != string(domain.ModeManual) {
		t.Errorf("default mode = %q, want %q", resp.Mode, domain.ModeManual)
	}
	if resp.Strategy != string(domain.StrategyRotating) {
		t.Errorf("default strategy = %q, want %q", resp.Strategy, domain.StrategyRotating)
	}
	if resp.CapacityCeiling != domain.DefaultCapacityCeiling {
		t.Errorf("default ceiling = %d, want %d", resp.CapacityCeiling, domain.DefaultCapacityCeiling)
	}
	if resp.AllowList == nil {
		t.Error("allow list must serialize as an empty array, not null")
	}
}

func TestWorkload(t *testing.T) {
	busy := domain.Agent{ID: uuid.New(), Name: "busy", Active: true}
	idle := domain.Agent{ID: uuid.New(), Name: "idle", Active: true}

	store := &fakePolicyStore{policy: domain.DefaultPolicy()}
	store.policy.CapacityCeiling = 5
	store.counts = map[uuid.UUID]int{busy.ID: 5}
	svc := New(store, &fakeAgents{agents: []domain.Agent{busy, idle}}, logger.New("test"))

	resp, err := svc.Workload(context.Background())
	if err != nil {
		t.Fatalf("Workload() error = %v", err)
	}
	if resp.CapacityCeiling != 5 {
		t.Errorf("ceiling = %d, want 5", resp.CapacityCeiling)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("workload has %d rows, want 2", len(resp.Items))
	}
	byName := make(map[string]transport.AgentWorkload)
	for _, item := range resp.Items {
		byName[item.Name] = item
	}
	if row := byName["busy"]; row.OpenItems != 5 || !row.AtCapacity {
		t.Errorf("busy row = %+v, want 5 open items at capacity", row)
	}
	if row := byName["idle"]; row.OpenItems != 0 || row.AtCapacity {
		t.Errorf("idle row = %+v, want 0 open items under capacity", row)
	}
}
