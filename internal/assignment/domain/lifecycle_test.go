package domain

import (
	"testing"

	"tripdesk_backend/platform/apperr"

	"github.com/google/uuid"
)

func TestCanTransition(t *testing.T) {
	adminID := uuid.New()
	agentID := uuid.New()
	otherID := uuid.New()

	admin := Actor{ID: adminID, Roles: []string{RoleAdmin}}
	agent := Actor{ID: agentID, Roles: []string{RoleAgent}}

	contacted := StatusContacted
	bogus := Status("escalated")

	assignee := func(id uuid.UUID) ChangeSet {
		return ChangeSet{Assignee: &id, AssigneeSet: true}
	}

	cases := []struct {
		name     string
		actor    Actor
		item     WorkItemState
		change   ChangeSet
		wantKind apperr.Kind
	}{
		{
			name:   "admin may reassign anyone's item",
			actor:  admin,
			item:   WorkItemState{AssignedTo: &otherID, Status: StatusNew},
			change: assignee(agentID),
		},
		{
			name:   "admin may unassign",
			actor:  admin,
			item:   WorkItemState{AssignedTo: &otherID, Status: StatusNew},
			change: ChangeSet{AssigneeSet: true},
		},
		{
			name:   "agent may claim an unassigned item for themselves",
			actor:  agent,
			item:   WorkItemState{Status: StatusNew},
			change: assignee(agentID),
		},
		{
			name:     "agent may not claim for another agent",
			actor:    agent,
			item:     WorkItemState{Status: StatusNew},
			change:   assignee(otherID),
			wantKind: apperr.KindForbidden,
		},
		{
			name:     "agent may not touch an item owned by someone else",
			actor:    agent,
			item:     WorkItemState{AssignedTo: &otherID, Status: StatusNew},
			change:   assignee(agentID),
			wantKind: apperr.KindForbidden,
		},
		{
			name:     "agent may not hand their own item to a third party",
			actor:    agent,
			item:     WorkItemState{AssignedTo: &agentID, Status: StatusNew},
			change:   assignee(otherID),
			wantKind: apperr.KindForbidden,
		},
		{
			name:   "owner may update status",
			actor:  agent,
			item:   WorkItemState{AssignedTo: &agentID, Status: StatusNew},
			change: ChangeSet{Status: &contacted},
		},
		{
			name:     "non-owner may not update status",
			actor:    agent,
			item:     WorkItemState{AssignedTo: &otherID, Status: StatusNew},
			change:   ChangeSet{Status: &contacted},
			wantKind: apperr.KindForbidden,
		},
		{
			name:     "unassigned item status change without a claim is forbidden",
			actor:    agent,
			item:     WorkItemState{Status: StatusNew},
			change:   ChangeSet{Status: &contacted},
			wantKind: apperr.KindForbidden,
		},
		{
			name:   "claim and status change in one step",
			actor:  agent,
			item:   WorkItemState{Status: StatusNew},
			change: ChangeSet{Status: &contacted, Assignee: &agentID, AssigneeSet: true},
		},
		{
			name:     "unknown status rejected even for admins",
			actor:    admin,
			item:     WorkItemState{AssignedTo: &agentID, Status: StatusNew},
			change:   ChangeSet{Status: &bogus},
			wantKind: apperr.KindValidation,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CanTransition(tc.actor, tc.item, tc.change)
			if tc.wantKind == apperr.KindUnknown {
				if err != nil {
					t.Fatalf("CanTransition() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("CanTransition() = nil, want error")
			}
			if got := apperr.GetKind(err); got != tc.wantKind {
				t.Errorf("CanTransition() kind = %v, want %v", got, tc.wantKind)
			}
		})
	}
}

func TestActorIsAdmin(t *testing.T) {
	cases := []struct {
		roles []string
		want  bool
	}{
		{[]string{RoleAdmin}, true},
		{[]string{RoleAgent, RoleAdmin}, true},
		{[]string{RoleAgent}, false},
		{nil, false},
	}
	for _, tc := range cases {
		actor := Actor{ID: uuid.New(), Roles: tc.roles}
		if got := actor.IsAdmin(); got != tc.want {
			t.Errorf("IsAdmin() with roles %v = %v, want %v", tc.roles, got, tc.want)
		}
	}
}
