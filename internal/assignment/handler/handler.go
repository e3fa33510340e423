package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripdesk_backend/internal/assignment/service"
	"tripdesk_backend/internal/assignment/transport"
	"tripdesk_backend/platform/httpkit"
	"tripdesk_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for the assignment policy.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new assignment policy handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// GetPolicy returns the assignment policy.
// GET /api/v1/admin/assignment/policy
func (h *Handler) GetPolicy(c *gin.Context) {
	result, err := h.svc.GetPolicy(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetWorkload returns each agent's open work-item count.
// GET /api/v1/admin/assignment/workload
func (h *Handler) GetWorkload(c *gin.Context) {
	result, err := h.svc.Workload(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// UpdatePolicy applies a partial policy update.
// PATCH /api/v1/admin/assignment/policy
func (h *Handler) UpdatePolicy(c *gin.Context) {
	var req transport.UpdatePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.UpdatePolicy(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
