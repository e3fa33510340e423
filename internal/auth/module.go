// Package auth provides the authentication bounded context module.
package auth

import (
	apphttp "tripdesk_backend/internal/http"

	"tripdesk_backend/internal/auth/handler"
	"tripdesk_backend/internal/auth/service"
	directoryrepo "tripdesk_backend/internal/directory/repository"
	"tripdesk_backend/platform/config"
	"tripdesk_backend/platform/logger"
	"tripdesk_backend/platform/validator"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the auth module. It authenticates
// against the agent directory rather than owning its own user store.
func NewModule(agents directoryrepo.Repository, cfg config.AuthServiceConfig, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(agents, cfg, log)
	h := handler.New(svc, val)

	return &Module{handler: h}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// RegisterRoutes mounts auth routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	authGroup := ctx.V1.Group("/auth")
	authGroup.POST("/login", ctx.AuthRateLimiter.RateLimit(), m.handler.Login)

	ctx.Protected.GET("/auth/me", m.handler.Me)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
