// api/routes/router.go
package routes

import (
	"context"
	"net/http"
	"time"

	_ "github.com/svstupireburgh/FeelmeTown-sub000/docs"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/bookings"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/catalog"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/coupons"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/notifications"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/payments"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/shared/config"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/shared/database"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/wizard"
	"github.com/svstupireburgh/FeelmeTown-sub000/pkg/cache"
	"github.com/svstupireburgh/FeelmeTown-sub000/pkg/logger"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	publisher *notifications.NotificationPublisher
	gateway   payments.Gateway

	// Shared services for dependency injection
	cache          cache.Service
	catalogService catalog.Service
	couponService  coupons.Service
	bookingService bookings.Service

	wizardManager *wizard.Manager
	wizardJobs    *wizard.JobProcessor
}

// NewRouter creates a new router instance. publisher may be nil.
func NewRouter(cfg *config.Config, db *database.DB, publisher *notifications.NotificationPublisher, gateway payments.Gateway) *Router {
	r := &Router{
		config:    cfg,
		db:        db,
		publisher: publisher,
		gateway:   gateway,
	}

	if redisClient := db.GetRedis(); redisClient != nil {
		r.cache = cache.NewService(redisClient)
	} else {
		r.cache = cache.NewMemoryService()
	}
	return r
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		// Catalog and coupons first: bookings and the wizard depend on them
		r.setupCatalogRoutes(api)
		r.setupCouponRoutes(api)
		r.setupBookingRoutes(api)
		r.setupWizardRoutes(api)
	}
}

// StartJobs starts the wizard background jobs
func (r *Router) StartJobs(ctx context.Context) {
	if r.wizardJobs != nil {
		r.wizardJobs.Start(ctx)
	}
}

// Shutdown stops background jobs and closes every open wizard session
func (r *Router) Shutdown(ctx context.Context) {
	if r.wizardJobs != nil {
		r.wizardJobs.Stop()
	}
	if r.wizardManager != nil {
		r.wizardManager.Shutdown(ctx)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		// Perform health checks
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "feelmetown-booking",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "feelmetown-booking",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		open := 0
		if r.wizardManager != nil {
			open = r.wizardManager.Len()
		}
		c.JSON(http.StatusOK, gin.H{
			"status":          "operational",
			"api_version":     r.config.APIVersion,
			"payment_gateway": r.gateway.Name(),
			"open_wizards":    open,
			"timestamp":       time.Now(),
		})
	})
}

// setupCatalogRoutes configures catalog routes
func (r *Router) setupCatalogRoutes(rg *gin.RouterGroup) {
	defaults := catalog.Defaults{
		TheaterPrice:   r.config.Pricing.FallbackTheaterPrice,
		SlotBookingFee: r.config.Pricing.SlotBookingFee,
		ExtraGuestFee:  r.config.Pricing.ExtraGuestFee,
		ConvenienceFee: r.config.Pricing.ConvenienceFee,
		DecorationFees: r.config.Pricing.DecorationFees,
	}
	catalogRepo := catalog.NewRepository(r.db.GetPostgreSQL())
	r.catalogService = catalog.NewService(catalogRepo, r.cache, defaults)

	catalog.SetupCatalogRoutes(rg, catalog.NewController(r.catalogService), r.config)
}

// setupCouponRoutes configures coupon routes
func (r *Router) setupCouponRoutes(rg *gin.RouterGroup) {
	couponRepo := coupons.NewRepository(r.db.GetPostgreSQL())
	r.couponService = coupons.NewService(couponRepo)

	coupons.SetupCouponRoutes(rg, coupons.NewController(r.couponService), r.config)
}

// setupBookingRoutes configures booking management routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())

	// A nil *NotificationPublisher must not become a non-nil interface
	var events bookings.EventPublisher
	if r.publisher != nil {
		events = r.publisher
	}
	r.bookingService = bookings.NewService(bookingRepo, r.cache, events, r.couponService)

	bookings.SetupBookingRoutes(rg, bookings.NewController(r.bookingService), r.config)
}

// setupWizardRoutes configures the booking wizard and its background jobs
func (r *Router) setupWizardRoutes(rg *gin.RouterGroup) {
	deps := wizard.Dependencies{
		Catalog:              r.catalogService,
		Coupons:              r.couponService,
		Bookings:             r.bookingService,
		Payments:             r.gateway,
		Handoffs:             wizard.NewHandoffStore(r.cache, r.config.Redis.HandoffTTL),
		Config:               r.config.Wizard,
		Currency:             r.config.Payment.Currency,
		FallbackTheaterPrice: r.config.Pricing.FallbackTheaterPrice,
		Log:                  logger.GetDefault(),
	}
	if r.publisher != nil {
		deps.Notifier = r.publisher
	}

	r.wizardManager = wizard.NewManager(deps)
	r.wizardJobs = wizard.NewJobProcessor(r.wizardManager, &wizard.JobConfig{SweepInterval: r.config.Wizard.SweepInterval})

	wizard.SetupWizardRoutes(rg, wizard.NewController(r.wizardManager), r.wizardJobs, r.config)
}
