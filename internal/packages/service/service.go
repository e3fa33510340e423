// Package service provides business logic for the travel package catalog.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"tripdesk_backend/internal/packages/repository"
	"tripdesk_backend/internal/packages/transport"
	"tripdesk_backend/platform/logger"
)

// Service provides business logic for the package catalog.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new package catalog service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// GetByID retrieves a package by ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.PackageResponse, error) {
	pkg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.PackageResponse{}, err
	}
	return toResponse(pkg), nil
}

// List retrieves packages; activeOnly limits to the public catalog.
func (s *Service) List(ctx context.Context, activeOnly bool) (transport.PackageListResponse, error) {
	packages, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return transport.PackageListResponse{}, err
	}

	items := make([]transport.PackageResponse, 0, len(packages))
	for _, pkg := range packages {
		items = append(items, toResponse(pkg))
	}
	return transport.PackageListResponse{Items: items, Total: len(items)}, nil
}

// Create creates a new package.
func (s *Service) Create(ctx context.Context, req transport.CreatePackageRequest) (transport.PackageResponse, error) {
	pkg, err := s.repo.Create(ctx, repository.CreateParams{
		Name:         strings.TrimSpace(req.Name),
		Destination:  strings.TrimSpace(req.Destination),
		Description:  req.Description,
		DurationDays: req.DurationDays,
		PriceCents:   req.PriceCents,
	})
	if err != nil {
		return transport.PackageResponse{}, err
	}

	s.log.Info("package created", "id", pkg.ID, "name", pkg.Name)
	return toResponse(pkg), nil
}

// Update applies a partial update to a package.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdatePackageRequest) (transport.PackageResponse, error) {
	pkg, err := s.repo.Update(ctx, repository.UpdateParams{
		ID:           id,
		Name:         req.Name,
		Destination:  req.Destination,
		Description:  req.Description,
		DurationDays: req.DurationDays,
		PriceCents:   req.PriceCents,
	})
	if err != nil {
		return transport.PackageResponse{}, err
	}
	return toResponse(pkg), nil
}

// SetActive publishes or unpublishes a package.
func (s *Service) SetActive(ctx context.Context, id uuid.UUID, isActive bool) error {
	return s.repo.SetActive(ctx, id, isActive)
}

func toResponse(pkg repository.Package) transport.PackageResponse {
	return transport.PackageResponse{
		ID:           pkg.ID,
		Name:         pkg.Name,
		Destination:  pkg.Destination,
		Description:  pkg.Description,
		DurationDays: pkg.DurationDays,
		PriceCents:   pkg.PriceCents,
		IsActive:     pkg.IsActive,
		CreatedAt:    pkg.CreatedAt.Format(time.RFC3339),
	}
}
