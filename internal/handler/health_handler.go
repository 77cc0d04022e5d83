package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/txn"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/pkg/database"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/pkg/response"
)

// HealthHandler serves liveness and readiness endpoints
type HealthHandler struct {
	db          *database.MongoDB
	coordinator *txn.MongoCoordinator
}

// NewHealthHandler creates a new HealthHandler. db and coordinator may
// be nil in memory-backed deployments.
func NewHealthHandler(db *database.MongoDB, coordinator *txn.MongoCoordinator) *HealthHandler {
	return &HealthHandler{db: db, coordinator: coordinator}
}

// Health reports liveness
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports readiness and whether writes run in degraded mode
// GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	body := gin.H{"status": "ready"}
	if h.coordinator != nil {
		body["degraded_transactions"] = h.coordinator.Degraded()
	}
	if h.db != nil {
		if err := h.db.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, response.Error(response.ErrCodeServiceUnavailable, "storage unreachable"))
			return
		}
	}
	c.JSON(http.StatusOK, body)
}
