package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tripdesk_backend/internal/packages/service"
	"tripdesk_backend/internal/packages/transport"
	"tripdesk_backend/platform/httpkit"
	"tripdesk_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid package ID"
)

// Handler handles HTTP requests for the package catalog.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new package catalog handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// ListPublic retrieves the active packages for the public website.
// GET /api/v1/public/packages
func (h *Handler) ListPublic(c *gin.Context) {
	result, err := h.svc.List(c.Request.Context(), true)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// List retrieves all packages for the CRM.
// GET /api/v1/packages
func (h *Handler) List(c *gin.Context) {
	result, err := h.svc.List(c.Request.Context(), false)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetByID retrieves a package by ID.
// GET /api/v1/packages/:id
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

// Create creates a new package (admin only).
// POST /api/v1/admin/packages
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// Update applies a partial update to a package (admin only).
// PUT /api/v1/admin/packages/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	var req transport.UpdatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Update(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// SetActive publishes or unpublishes a package (admin only).
// PATCH /api/v1/admin/packages/:id/active?value=
func (h *Handler) SetActive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	value, err := strconv.ParseBool(c.DefaultQuery("value", "true"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid value parameter", nil)
		return
	}

	if err := h.svc.SetActive(c.Request.Context(), id, value); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"isActive": value})
}
