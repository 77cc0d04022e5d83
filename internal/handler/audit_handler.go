package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/repository"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/pkg/response"
)

// AuditHandler serves audit trail inspection endpoints
type AuditHandler struct {
	auditRepo repository.AuditRepository
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(auditRepo repository.AuditRepository) *AuditHandler {
	return &AuditHandler{auditRepo: auditRepo}
}

// List returns the most recent audit entries
// GET /api/v1/admin/audit-logs
func (h *AuditHandler) List(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 500 {
			c.JSON(http.StatusBadRequest, response.BadRequest("limit must be between 1 and 500"))
			return
		}
		limit = n
	}

	entries, err := h.auditRepo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(entries))
}
