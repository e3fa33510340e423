// Package assignment provides the lead assignment and distribution bounded
// context: the policy store, the selection engine, and the lifecycle rules
// other modules consult for status and ownership changes.
package assignment

import (
	apphttp "tripdesk_backend/internal/http"

	"tripdesk_backend/internal/assignment/engine"
	"tripdesk_backend/internal/assignment/handler"
	"tripdesk_backend/internal/assignment/ports"
	"tripdesk_backend/internal/assignment/repository"
	"tripdesk_backend/internal/assignment/service"
	"tripdesk_backend/platform/logger"
	"tripdesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the assignment bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	engine  *engine.Engine
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the assignment module with all its dependencies.
func NewModule(pool *pgxpool.Pool, agents ports.AgentReader, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	eng := engine.New(repo, agents, log)
	svc := service.New(repo, agents, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		engine:  eng,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "assignment"
}

// Engine returns the assignment engine for work-item creating modules.
func (m *Module) Engine() *engine.Engine {
	return m.engine
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts assignment policy routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	adminGroup := ctx.Admin.Group("/assignment")
	adminGroup.GET("/policy", m.handler.GetPolicy)
	adminGroup.PATCH("/policy", m.handler.UpdatePolicy)
	adminGroup.GET("/workload", m.handler.GetWorkload)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
