package catalog

import (
	"net/http"

	"github.com/svstupireburgh/FeelmeTown-sub000/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GetCatalog handles GET /api/v1/catalog
func (c *Controller) GetCatalog(ctx *gin.Context) {
	snap := c.service.Load(ctx.Request.Context())
	response.RespondJSON(ctx, "success", http.StatusOK, "Catalog retrieved successfully", snap, nil)
}

// GetPricing handles GET /api/v1/catalog/pricing
func (c *Controller) GetPricing(ctx *gin.Context) {
	snap := c.service.Load(ctx.Request.Context())
	response.RespondJSON(ctx, "success", http.StatusOK, "Pricing retrieved successfully", snap.Pricing, nil)
}

// RefreshCatalog handles POST /api/v1/catalog/refresh
func (c *Controller) RefreshCatalog(ctx *gin.Context) {
	snap, err := c.service.Refresh(ctx.Request.Context())
	if err != nil {
		response.RespondError(ctx, http.StatusBadGateway, "Catalog Refresh Failed", err.Error(), nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Catalog refreshed successfully", snap, nil)
}
