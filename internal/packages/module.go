// Package packages provides the travel package catalog bounded context.
package packages

import (
	apphttp "tripdesk_backend/internal/http"

	"tripdesk_backend/internal/packages/handler"
	"tripdesk_backend/internal/packages/repository"
	"tripdesk_backend/internal/packages/service"
	"tripdesk_backend/platform/logger"
	"tripdesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the packages bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	repo    repository.Repository
}

// NewModule creates and initializes the packages module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{handler: h, repo: repo}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "packages"
}

// Repository returns the repository for cross-module reads.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts package catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public catalog for the website booking form
	ctx.V1.GET("/public/packages", m.handler.ListPublic)

	// Authenticated CRM endpoints
	ctx.Protected.GET("/packages", m.handler.List)
	ctx.Protected.GET("/packages/:id", m.handler.GetByID)

	// Admin management endpoints
	adminGroup := ctx.Admin.Group("/packages")
	adminGroup.POST("", m.handler.Create)
	adminGroup.PUT("/:id", m.handler.Update)
	adminGroup.PATCH("/:id/active", m.handler.SetActive)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
