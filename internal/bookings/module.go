// Package bookings provides the bookings bounded context module.
package bookings

import (
	apphttp "tripdesk_backend/internal/http"

	"tripdesk_backend/internal/bookings/handler"
	"tripdesk_backend/internal/bookings/repository"
	"tripdesk_backend/internal/bookings/service"
	directoryrepo "tripdesk_backend/internal/directory/repository"
	"tripdesk_backend/internal/events"
	leadsrepo "tripdesk_backend/internal/leads/repository"
	packagesrepo "tripdesk_backend/internal/packages/repository"
	"tripdesk_backend/platform/logger"
	"tripdesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the bookings bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the bookings module. The leads
// repository is shared so the companion lead rides the booking transaction.
func NewModule(pool *pgxpool.Pool, leads leadsrepo.Repository, assigner service.Assigner, agents directoryrepo.AgentReader, packages packagesrepo.PackageReader, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool, leads)
	svc := service.New(repo, assigner, agents, packages, bus, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc, repo: repo}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "bookings"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for cross-module reads.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts booking routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public website booking form
	publicGroup := ctx.V1.Group("/public")
	publicGroup.POST("/bookings", ctx.PublicFormRateLimiter.RateLimit(), m.handler.CreatePublic)

	// Authenticated CRM endpoints
	bookingGroup := ctx.Protected.Group("/bookings")
	bookingGroup.GET("", m.handler.List)
	bookingGroup.GET("/:id", m.handler.GetByID)
	bookingGroup.PATCH("/:id/status", m.handler.UpdateStatus)
	bookingGroup.POST("/:id/assign", m.handler.Assign)
	bookingGroup.POST("/:id/claim", m.handler.Claim)
	bookingGroup.POST("/:id/unassign", m.handler.Unassign)
	bookingGroup.GET("/:id/history", m.handler.History)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
