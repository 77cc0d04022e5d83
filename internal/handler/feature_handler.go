package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/domain"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/dto"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/featuregate"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/service"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/pkg/logger"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/pkg/middleware"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/pkg/response"
)

// FeatureHandler handles feature flag HTTP requests
type FeatureHandler struct {
	gate     *featuregate.Gate
	notifier *featuregate.ReloadNotifier
	audit    *service.AuditRecorder
	log      *logger.Logger
}

// NewFeatureHandler creates a new FeatureHandler. notifier may be nil
// when no redis fanout is configured.
func NewFeatureHandler(gate *featuregate.Gate, notifier *featuregate.ReloadNotifier, audit *service.AuditRecorder, log *logger.Logger) *FeatureHandler {
	return &FeatureHandler{gate: gate, notifier: notifier, audit: audit, log: log}
}

// Check evaluates one flag for the caller's organization
// GET /api/v1/features/:name
func (h *FeatureHandler) Check(c *gin.Context) {
	orgID, ok := middleware.GetOrgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized(""))
		return
	}

	name := c.Param("name")
	c.JSON(http.StatusOK, response.Success(&dto.FeatureCheckResponse{
		Feature: name,
		Enabled: h.gate.IsEnabled(name, orgID),
	}))
}

// Reload re-reads the flag source and fans the reload out to peers
// POST /api/v1/admin/features/reload
func (h *FeatureHandler) Reload(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized(""))
		return
	}

	if err := h.gate.Reload(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, response.InternalError(err.Error()))
		return
	}

	notified := false
	if h.notifier != nil {
		if err := h.notifier.Notify(c.Request.Context()); err != nil {
			h.log.WarnContext(c.Request.Context(), "feature reload fanout failed", zap.Error(err))
		} else {
			notified = true
		}
	}

	flags := h.gate.Current().Names()
	h.audit.Record(domain.NewAuditLogEntry(actor.UserID, actor.Role, domain.AuditActionFlagsReloaded,
		"feature_flags", "snapshot", map[string]any{"flag_count": len(flags)}))

	c.JSON(http.StatusOK, response.Success(&dto.FeatureReloadResponse{
		Flags:    flags,
		Notified: notified,
	}))
}
