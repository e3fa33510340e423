// Package leads provides the lead pipeline bounded context module.
package leads

import (
	apphttp "tripdesk_backend/internal/http"

	directoryrepo "tripdesk_backend/internal/directory/repository"
	"tripdesk_backend/internal/events"
	"tripdesk_backend/internal/leads/handler"
	"tripdesk_backend/internal/leads/repository"
	"tripdesk_backend/internal/leads/service"
	"tripdesk_backend/platform/logger"
	"tripdesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the leads module. The assigner is the
// assignment engine; agents is the directory read port used to resolve
// assignee display names.
func NewModule(pool *pgxpool.Pool, assigner service.Assigner, agents directoryrepo.AgentReader, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, assigner, agents, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for cross-module transactional use.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts lead routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public website contact form
	publicGroup := ctx.V1.Group("/public")
	publicGroup.POST("/leads", ctx.PublicFormRateLimiter.RateLimit(), m.handler.CreatePublic)

	// Authenticated CRM endpoints
	leadGroup := ctx.Protected.Group("/leads")
	leadGroup.GET("", m.handler.List)
	leadGroup.POST("", m.handler.Create)
	leadGroup.GET("/:id", m.handler.GetByID)
	leadGroup.PATCH("/:id/status", m.handler.UpdateStatus)
	leadGroup.POST("/:id/assign", m.handler.Assign)
	leadGroup.POST("/:id/claim", m.handler.Claim)
	leadGroup.POST("/:id/unassign", m.handler.Unassign)
	leadGroup.GET("/:id/history", m.handler.History)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
