package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/dto"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/service"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/pkg/response"
)

// ExitHandler handles tenant exit workflow HTTP requests
type ExitHandler struct {
	exitService service.ExitService
}

// NewExitHandler creates a new ExitHandler
func NewExitHandler(exitService service.ExitService) *ExitHandler {
	return &ExitHandler{exitService: exitService}
}

// Request starts an exit for a tenant
// POST /api/v1/tenants/:id/exit
func (h *ExitHandler) Request(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized(""))
		return
	}

	tenantID := c.Param("id")
	var req dto.RequestExitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	result, err := h.exitService.RequestExit(c.Request.Context(), actor, tenantID, &req)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(result))
}

// Resolve approves or rejects a pending exit request
// PUT /api/v1/tenants/:id/exit
func (h *ExitHandler) Resolve(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized(""))
		return
	}

	tenantID := c.Param("id")
	var req dto.ResolveExitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	result, err := h.exitService.ResolveExit(c.Request.Context(), actor, tenantID, &req)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// Get returns the current workflow state of a tenant
// GET /api/v1/tenants/:id/exit
func (h *ExitHandler) Get(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized(""))
		return
	}

	result, err := h.exitService.GetExitState(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// Finalize completes an exit whose notice period has expired. The
// background sweeper does this automatically; the endpoint lets staff
// trigger it without waiting for the next sweep.
// POST /api/v1/tenants/:id/exit/finalize
func (h *ExitHandler) Finalize(c *gin.Context) {
	tenant, err := h.exitService.FinalizeExit(c.Request.Context(), c.Param("id"), time.Now().UTC())
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(dto.NewExitResponse(tenant)))
}
