package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	assignmentdomain "tripdesk_backend/internal/assignment/domain"
	"tripdesk_backend/internal/bookings/repository"
	"tripdesk_backend/internal/bookings/service"
	"tripdesk_backend/internal/bookings/transport"
	"tripdesk_backend/platform/httpkit"
	"tripdesk_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid booking ID"
)

// Handler handles HTTP requests for bookings.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new bookings handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// CreatePublic handles the unauthenticated website booking form.
// POST /api/v1/public/bookings
func (h *Handler) CreatePublic(c *gin.Context) {
	var req transport.PublicBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.CreateFromPublicForm(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// List retrieves bookings, optionally filtered by status or assignee.
// GET /api/v1/bookings?status=&assignedTo=
func (h *Handler) List(c *gin.Context) {
	var filter repository.ListFilter

	if status := c.Query("status"); status != "" {
		filter.Status = &status
	}
	if raw := c.Query("assignedTo"); raw != "" {
		agentID, err := uuid.Parse(raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid assignedTo filter", nil)
			return
		}
		filter.AssignedTo = &agentID
	}

	result, err := h.svc.List(c.Request.Context(), filter)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetByID retrieves a booking by ID.
// GET /api/v1/bookings/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	result, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// UpdateStatus moves a booking to a new pipeline status.
// PATCH /api/v1/bookings/:id/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	var req transport.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	result, err := h.svc.UpdateStatus(c.Request.Context(), actor, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Assign hands a booking to a specific agent.
// POST /api/v1/bookings/:id/assign
func (h *Handler) Assign(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	var req transport.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	result, err := h.svc.Assign(c.Request.Context(), actor, id, req.AgentID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Claim lets the authenticated agent take an unassigned booking.
// POST /api/v1/bookings/:id/claim
func (h *Handler) Claim(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	result, err := h.svc.Claim(c.Request.Context(), actor, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Unassign clears a booking's owner.
// POST /api/v1/bookings/:id/unassign
func (h *Handler) Unassign(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	result, err := h.svc.Unassign(c.Request.Context(), actor, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// History returns a booking's status history.
// GET /api/v1/bookings/:id/history
func (h *Handler) History(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	result, err := h.svc.History(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func actorFrom(c *gin.Context) (assignmentdomain.Actor, bool) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return assignmentdomain.Actor{}, false
	}
	return assignmentdomain.Actor{
		ID:    identity.UserID(),
		Roles: identity.Roles(),
	}, true
}
