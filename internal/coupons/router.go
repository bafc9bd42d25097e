package coupons

import (
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/shared/config"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupCouponRoutes(router *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	// Public routes
	publicCoupons := router.Group("/coupons")
	{
		publicCoupons.POST("/validate", controller.ValidateCoupon) // POST /api/v1/coupons/validate
	}

	// Admin routes
	adminCoupons := router.Group("/admin/coupons")
	adminCoupons.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireRoles(middleware.RoleAdmin))
	{
		adminCoupons.POST("", controller.CreateCoupon) // POST /api/v1/admin/coupons
		adminCoupons.GET("", controller.ListCoupons)   // GET /api/v1/admin/coupons
	}
}
