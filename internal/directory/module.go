// Package directory provides the agent directory bounded context module.
// It owns agent accounts: display data, active flags, and login recency,
// all of which feed the assignment engine's eligibility filter.
package directory

import (
	apphttp "tripdesk_backend/internal/http"

	"tripdesk_backend/internal/directory/handler"
	"tripdesk_backend/internal/directory/repository"
	"tripdesk_backend/internal/directory/service"
	"tripdesk_backend/platform/logger"
	"tripdesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the directory bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the directory module with all its dependencies.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "directory"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for adapters and cross-module reads.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts agent directory routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Authenticated read-only endpoints (agent pickers in the console)
	ctx.Protected.GET("/agents", m.handler.List)
	ctx.Protected.GET("/agents/:id", m.handler.GetByID)

	// Admin-only management endpoints
	adminGroup := ctx.Admin.Group("/agents")
	adminGroup.POST("", m.handler.Create)
	adminGroup.PUT("/:id", m.handler.Update)
	adminGroup.PATCH("/:id/toggle-active", m.handler.ToggleActive)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
