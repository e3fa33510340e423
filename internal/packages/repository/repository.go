package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tripdesk_backend/platform/apperr"
)

const packageNotFoundMessage = "package not found"

const packageColumns = `id, name, destination, description, duration_days, price_cents, is_active, created_at, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new package catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetByID retrieves a package by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Package, error) {
	query := fmt.Sprintf(`SELECT %s FROM packages WHERE id = $1`, packageColumns)

	pkg, err := scanPackage(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Package{}, apperr.NotFound(packageNotFoundMessage)
		}
		return Package{}, fmt.Errorf("get package by id: %w", err)
	}
	return pkg, nil
}

// List retrieves packages, optionally limited to active ones.
func (r *Repo) List(ctx context.Context, activeOnly bool) ([]Package, error) {
	query := fmt.Sprintf(`SELECT %s FROM packages`, packageColumns)
	if activeOnly {
		query += " WHERE is_active = true"
	}
	query += " ORDER BY name ASC"

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	defer rows.Close()

	packages := make([]Package, 0)
	for rows.Next() {
		pkg, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan package: %w", err)
		}
		packages = append(packages, pkg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate packages: %w", err)
	}

	return packages, nil
}

// Create inserts a new package.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Package, error) {
	query := fmt.Sprintf(`
		INSERT INTO packages (name, destination, description, duration_days, price_cents)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s`, packageColumns)

	pkg, err := scanPackage(r.pool.QueryRow(ctx, query,
		params.Name, params.Destination, params.Description, params.DurationDays, params.PriceCents,
	))
	if err != nil {
		return Package{}, fmt.Errorf("create package: %w", err)
	}
	return pkg, nil
}

// Update applies a partial update to a package.
func (r *Repo) Update(ctx context.Context, params UpdateParams) (Package, error) {
	setClauses := []string{"updated_at = now()"}
	args := []interface{}{}

	addSet := func(column string, value interface{}) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.Name != nil {
		addSet("name", *params.Name)
	}
	if params.Destination != nil {
		addSet("destination", *params.Destination)
	}
	if params.Description != nil {
		addSet("description", *params.Description)
	}
	if params.DurationDays != nil {
		addSet("duration_days", *params.DurationDays)
	}
	if params.PriceCents != nil {
		addSet("price_cents", *params.PriceCents)
	}

	args = append(args, params.ID)
	query := fmt.Sprintf(
		`UPDATE packages SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), len(args), packageColumns,
	)

	pkg, err := scanPackage(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Package{}, apperr.NotFound(packageNotFoundMessage)
		}
		return Package{}, fmt.Errorf("update package: %w", err)
	}
	return pkg, nil
}

// SetActive toggles a package's active flag.
func (r *Repo) SetActive(ctx context.Context, id uuid.UUID, isActive bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE packages SET is_active = $1, updated_at = now() WHERE id = $2`,
		isActive, id,
	)
	if err != nil {
		return fmt.Errorf("set package active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(packageNotFoundMessage)
	}
	return nil
}

type packageRowScanner interface {
	Scan(dest ...any) error
}

func scanPackage(s packageRowScanner) (Package, error) {
	var pkg Package
	err := s.Scan(
		&pkg.ID,
		&pkg.Name,
		&pkg.Destination,
		&pkg.Description,
		&pkg.DurationDays,
		&pkg.PriceCents,
		&pkg.IsActive,
		&pkg.CreatedAt,
		&pkg.UpdatedAt,
	)
	return pkg, err
}
