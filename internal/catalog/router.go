package catalog

import (
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/shared/config"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupCatalogRoutes configures catalog routes
func SetupCatalogRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	catalog := rg.Group("/catalog")
	{
		catalog.GET("", controller.GetCatalog)         // GET /api/v1/catalog
		catalog.GET("/pricing", controller.GetPricing) // GET /api/v1/catalog/pricing

		// POST /api/v1/catalog/refresh
		catalog.POST("/refresh",
			middleware.JWTAuthWithConfig(cfg),
			middleware.RequireRoles(middleware.RoleAdmin),
			controller.RefreshCatalog)
	}
}
