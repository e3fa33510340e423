package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"tripdesk_backend/platform/apperr"
)

const agentNotFoundMessage = "agent not found"

const agentColumns = `id, name, email, password_hash, role, is_active, last_login_at, created_at, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new agent directory repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetByID retrieves an agent by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Agent, error) {
	query := fmt.Sprintf(`SELECT %s FROM agents WHERE id = $1`, agentColumns)

	agent, err := scanAgent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Agent{}, apperr.NotFound(agentNotFoundMessage)
		}
		return Agent{}, fmt.Errorf("get agent by id: %w", err)
	}
	return agent, nil
}

// GetByEmail retrieves an agent by email.
func (r *Repo) GetByEmail(ctx context.Context, email string) (Agent, error) {
	query := fmt.Sprintf(`SELECT %s FROM agents WHERE lower(email) = lower($1)`, agentColumns)

	agent, err := scanAgent(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Agent{}, apperr.NotFound(agentNotFoundMessage)
		}
		return Agent{}, fmt.Errorf("get agent by email: %w", err)
	}
	return agent, nil
}

// List retrieves all agents in creation order. The stable ordering matters
// to the assignment engine's rotation cursor.
func (r *Repo) List(ctx context.Context) ([]Agent, error) {
	query := fmt.Sprintf(`SELECT %s FROM agents ORDER BY created_at ASC, id ASC`, agentColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	defer rows.Close()

	agents := make([]Agent, 0)
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan agent: %w", err)
		}
		agents = append(agents, agent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate agents: %w", err)
	}

	return agents, nil
}

// Create inserts a new agent.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Agent, error) {
	query := fmt.Sprintf(`
		INSERT INTO agents (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING %s`, agentColumns)

	agent, err := scanAgent(r.pool.QueryRow(ctx, query,
		params.Name, params.Email, params.PasswordHash, params.Role,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return Agent{}, apperr.Conflict("an agent with this email already exists")
		}
		return Agent{}, fmt.Errorf("create agent: %w", err)
	}
	return agent, nil
}

// Update applies a partial update to an agent.
func (r *Repo) Update(ctx context.Context, params UpdateParams) (Agent, error) {
	setClauses := []string{"updated_at = now()"}
	args := []interface{}{}

	addSet := func(column string, value interface{}) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.Name != nil {
		addSet("name", *params.Name)
	}
	if params.Email != nil {
		addSet("email", *params.Email)
	}
	if params.Role != nil {
		addSet("role", *params.Role)
	}

	args = append(args, params.ID)
	query := fmt.Sprintf(
		`UPDATE agents SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), len(args), agentColumns,
	)

	agent, err := scanAgent(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Agent{}, apperr.NotFound(agentNotFoundMessage)
		}
		if isUniqueViolation(err) {
			return Agent{}, apperr.Conflict("an agent with this email already exists")
		}
		return Agent{}, fmt.Errorf("update agent: %w", err)
	}
	return agent, nil
}

// SetActive toggles an agent's active flag.
func (r *Repo) SetActive(ctx context.Context, id uuid.UUID, isActive bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE agents SET is_active = $1, updated_at = now() WHERE id = $2`,
		isActive, id,
	)
	if err != nil {
		return fmt.Errorf("set agent active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(agentNotFoundMessage)
	}
	return nil
}

// TouchLastLogin stamps the agent's last login time. The assignment
// engine's recent-activity filter reads this value.
func (r *Repo) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE agents SET last_login_at = now() WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("touch agent last login: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type agentRowScanner interface {
	Scan(dest ...any) error
}

func scanAgent(s agentRowScanner) (Agent, error) {
	var agent Agent
	err := s.Scan(
		&agent.ID,
		&agent.Name,
		&agent.Email,
		&agent.PasswordHash,
		&agent.Role,
		&agent.IsActive,
		&agent.LastLoginAt,
		&agent.CreatedAt,
		&agent.UpdatedAt,
	)
	return agent, err
}
