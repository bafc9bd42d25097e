package bookings

import (
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/shared/config"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures all booking-related routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	bookings := rg.Group("/bookings")
	{
		// Public availability for the slot picker
		bookings.GET("/slots", controller.GetBookedSlots) // GET /api/v1/bookings/slots?date=&theater=
	}

	// Operator routes; customers book through the wizard
	operator := rg.Group("/bookings")
	operator.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireRoles(middleware.RoleAdmin, middleware.RoleStaff))
	{
		operator.POST("", controller.SubmitBooking)    // POST /api/v1/bookings
		operator.GET("/:id", controller.GetBooking)    // GET /api/v1/bookings/:id
		operator.PUT("/:id", controller.UpdateBooking) // PUT /api/v1/bookings/:id
	}
}

// Route definitions for reference:
//
// GET    /api/v1/bookings/slots?date=2026-02-14&theater=EROS   - Booked time slots
// POST   /api/v1/bookings                                      - Store a manual booking
// Request body: flat payload with selected<Service> arrays and serviceFlags
// GET    /api/v1/bookings/:id                                  - Get booking
// PUT    /api/v1/bookings/:id                                  - Resubmit a full draft for an existing booking
