package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/featuregate"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/pkg/middleware"
)

// RouterConfig carries everything the HTTP surface needs.
type RouterConfig struct {
	JWT      *middleware.JWTConfig
	Gate     *featuregate.Gate
	Payment  *PaymentHandler
	Exit     *ExitHandler
	Features *FeatureHandler
	Audit    *AuditHandler
	Health   *HealthHandler
}

// NewRouter builds the gin engine and mounts all routes.
func NewRouter(cfg *RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())

	r.GET("/health", cfg.Health.Health)
	r.GET("/ready", cfg.Health.Ready)

	api := r.Group("/api/v1")
	api.Use(middleware.JWTMiddleware(cfg.JWT))
	api.Use(middleware.ActorContext())

	payments := api.Group("/payments")
	{
		payments.GET("/plans", cfg.Payment.Plans)

		gated := payments.Group("")
		gated.Use(RequireFeature(cfg.Gate, featuregate.FeatureOnlinePayments))
		{
			gated.POST("/orders", cfg.Payment.CreateOrder)
			gated.POST("/verify", cfg.Payment.Verify)
		}
	}

	exits := api.Group("/tenants/:id/exit")
	exits.Use(RequireFeature(cfg.Gate, featuregate.FeatureExitWorkflow))
	{
		exits.POST("", cfg.Exit.Request)
		exits.GET("", cfg.Exit.Get)
		exits.PUT("", middleware.RequireRole(middleware.RoleOwner, middleware.RoleAdmin), cfg.Exit.Resolve)
		exits.POST("/finalize", middleware.RequireRole(middleware.RoleOwner, middleware.RoleAdmin), cfg.Exit.Finalize)
	}

	api.GET("/features/:name", cfg.Features.Check)

	admin := api.Group("/admin")
	admin.Use(middleware.RequireRole(middleware.RoleOwner, middleware.RoleAdmin))
	{
		admin.POST("/features/reload", middleware.RequireRole(middleware.RoleOwner), cfg.Features.Reload)
		admin.GET("/audit-logs", cfg.Audit.List)
	}

	return r
}
