package handlers

import (
	"github.com/FxPeer/fx_marketplace_app/internal/core/domain"
	portssvc "github.com/FxPeer/fx_marketplace_app/internal/core/ports/services"
	"github.com/FxPeer/fx_marketplace_app/internal/middleware"
	"github.com/FxPeer/fx_marketplace_app/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	// Delegate route registration to specific handlers, passing required services
	registerExchangeRoutes(v1, services.Vendor, services.Rates)
	registerTransactionRoutes(v1, services.Transaction)

	vendorGroup := v1.Group("/vendor", middleware.RequireRole(domain.RoleVendor))
	registerVendorRoutes(vendorGroup, services.Vendor, services.Transaction, services.Fulfillment)

	adminGroup := v1.Group("/admin", middleware.RequireRole(domain.RoleAdmin))
	registerAdminRoutes(adminGroup, services.Vendor, services.Settings)
}
