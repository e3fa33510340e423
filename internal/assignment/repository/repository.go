package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tripdesk_backend/internal/assignment/domain"
)

// policyRowID pins the singleton row; the table carries a CHECK (id = 1).
const policyRowID = 1

const policyColumns = `mode, strategy, allow_list, rotation_cursor, capacity_ceiling, skip_inactive, require_recent_activity, updated_by, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new assignment repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Get retrieves the singleton policy, creating it with defaults if absent.
func (r *Repo) Get(ctx context.Context) (domain.Policy, error) {
	if err := r.ensureExists(ctx); err != nil {
		return domain.Policy{}, err
	}

	query := fmt.Sprintf(`SELECT %s FROM assignment_policies WHERE id = $1`, policyColumns)

	policy, err := scanPolicy(r.pool.QueryRow(ctx, query, policyRowID))
	if err != nil {
		return domain.Policy{}, fmt.Errorf("get assignment policy: %w", err)
	}
	return policy, nil
}

// Update applies a partial update to the policy and records the actor.
func (r *Repo) Update(ctx context.Context, params UpdatePolicyParams) (domain.Policy, error) {
	if err := r.ensureExists(ctx); err != nil {
		return domain.Policy{}, err
	}

	setClauses := []string{"updated_by = $1", "updated_at = now()"}
	args := []interface{}{params.UpdatedBy}

	addSet := func(column string, value interface{}) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.Mode != nil {
		addSet("mode", string(*params.Mode))
	}
	if params.Strategy != nil {
		addSet("strategy", string(*params.Strategy))
	}
	if params.AllowListSet {
		allowList := params.AllowList
		if allowList == nil {
			allowList = []uuid.UUID{}
		}
		addSet("allow_list", allowList)
	}
	if params.CapacityCeiling != nil {
		addSet("capacity_ceiling", *params.CapacityCeiling)
	}
	if params.SkipInactive != nil {
		addSet("skip_inactive", *params.SkipInactive)
	}
	if params.RequireRecentActivity != nil {
		addSet("require_recent_activity", *params.RequireRecentActivity)
	}

	args = append(args, policyRowID)
	query := fmt.Sprintf(
		`UPDATE assignment_policies SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), len(args), policyColumns,
	)

	policy, err := scanPolicy(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return domain.Policy{}, fmt.Errorf("update assignment policy: %w", err)
	}
	return policy, nil
}

// IncrementCursor atomically advances the rotation cursor by one and
// returns the post-increment value. A single UPDATE keeps concurrent
// callers from ever observing the same pre-advance value.
func (r *Repo) IncrementCursor(ctx context.Context) (int64, error) {
	query := `
		UPDATE assignment_policies
		SET rotation_cursor = rotation_cursor + 1
		WHERE id = $1
		RETURNING rotation_cursor`

	var cursor int64
	err := r.pool.QueryRow(ctx, query, policyRowID).Scan(&cursor)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if err := r.ensureExists(ctx); err != nil {
				return 0, err
			}
			err = r.pool.QueryRow(ctx, query, policyRowID).Scan(&cursor)
		}
		if err != nil {
			return 0, fmt.Errorf("increment rotation cursor: %w", err)
		}
	}
	return cursor, nil
}

// CountOpenByAssignee counts open-status leads and bookings per agent.
func (r *Repo) CountOpenByAssignee(ctx context.Context) (map[uuid.UUID]int, error) {
	open := OpenStatusStrings()

	query := `
		SELECT assigned_to, COUNT(*) FROM (
			SELECT assigned_to FROM leads
			WHERE assigned_to IS NOT NULL AND status = ANY($1)
			UNION ALL
			SELECT assigned_to FROM bookings
			WHERE assigned_to IS NOT NULL AND status = ANY($1)
		) open_items
		GROUP BY assigned_to`

	rows, err := r.pool.Query(ctx, query, open)
	if err != nil {
		return nil, fmt.Errorf("count open work items: %w", err)
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int)
	for rows.Next() {
		var agentID uuid.UUID
		var count int
		if err := rows.Scan(&agentID, &count); err != nil {
			return nil, fmt.Errorf("scan open work item count: %w", err)
		}
		counts[agentID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate open work item counts: %w", err)
	}

	return counts, nil
}

// ensureExists creates the singleton row with schema defaults when absent.
func (r *Repo) ensureExists(ctx context.Context) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO assignment_policies (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`,
		policyRowID,
	)
	if err != nil {
		return fmt.Errorf("ensure assignment policy exists: %w", err)
	}
	return nil
}

// OpenStatusStrings returns the open-status subset as strings for SQL
// parameters.
func OpenStatusStrings() []string {
	open := domain.OpenStatuses()
	values := make([]string, 0, len(open))
	for _, status := range open {
		values = append(values, string(status))
	}
	return values
}

type policyRowScanner interface {
	Scan(dest ...any) error
}

func scanPolicy(s policyRowScanner) (domain.Policy, error) {
	var policy domain.Policy
	var mode, strategy string
	var allowList []uuid.UUID

	err := s.Scan(
		&mode,
		&strategy,
		&allowList,
		&policy.RotationCursor,
		&policy.CapacityCeiling,
		&policy.SkipInactive,
		&policy.RequireRecentActivity,
		&policy.UpdatedBy,
		&policy.UpdatedAt,
	)
	if err != nil {
		return domain.Policy{}, err
	}

	policy.Mode = domain.Mode(mode)
	policy.Strategy = domain.Strategy(strategy)
	policy.AllowList = allowList

	return policy, nil
}
