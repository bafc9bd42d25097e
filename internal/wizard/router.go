package wizard

import (
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/shared/config"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupWizardRoutes configures all wizard routes. Anyone can run the wizard;
// an admin or staff token switches the session to operator mode.
func SetupWizardRoutes(rg *gin.RouterGroup, controller *Controller, jobs *JobProcessor, cfg *config.Config) {
	wizard := rg.Group("/wizard")
	wizard.Use(middleware.OptionalAuthWithConfig(cfg))
	{
		wizard.POST("", controller.OpenSession)
		wizard.POST("/handoff", controller.CreateHandoff)

		wizard.GET("/:id", controller.GetSession)
		wizard.DELETE("/:id", controller.CloseSession)
		wizard.PATCH("/:id/draft", controller.PatchDraft)

		wizard.POST("/:id/headcount/increment", controller.IncrementHeadcount)
		wizard.POST("/:id/headcount/decrement", controller.DecrementHeadcount)
		wizard.PUT("/:id/decoration", controller.SetDecoration)
		wizard.PUT("/:id/services/:service", controller.SetService)
		wizard.POST("/:id/services/:service/items", controller.ToggleItem)

		wizard.POST("/:id/continue", controller.Continue)
		wizard.POST("/:id/back", controller.Back)
		wizard.POST("/:id/goto", controller.GoTo)

		wizard.POST("/:id/coupon", controller.ApplyCoupon)
		wizard.DELETE("/:id/coupon", controller.RemoveCoupon)
		wizard.PUT("/:id/manual-discount", controller.SetManualDiscount)

		wizard.POST("/:id/checkout", controller.Checkout)
		wizard.POST("/:id/payment/manual", controller.ChooseManualPayment)
		wizard.POST("/:id/payment/partial", controller.SubmitPartialPayment)
		wizard.POST("/:id/payment/cancel", controller.CancelPayment)
		wizard.POST("/:id/payment/gateway/confirm", controller.ConfirmGatewayPayment)
		wizard.POST("/:id/payment/gateway/dismiss", controller.DismissGateway)
	}

	if jobs != nil {
		admin := rg.Group("/wizard-jobs")
		admin.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireRoles(middleware.RoleAdmin))
		admin.GET("/status", controller.GetJobStatus(jobs))
	}
}

// Route definitions for reference:
//
// POST   /api/v1/wizard                                  - Open a session {theaterName, date, timeSlot, handoffToken?, bookingId?}
// POST   /api/v1/wizard/handoff                          - Store input for the next session, returns a one-time token
// GET    /api/v1/wizard/:id                              - Session view
// PATCH  /api/v1/wizard/:id/draft                        - Edit draft fields
// PUT    /api/v1/wizard/:id/services/:service            - {enabled}
// POST   /api/v1/wizard/:id/services/:service/items      - {itemId} toggles an item
// POST   /api/v1/wizard/:id/checkout                     - Validate and start payment
// POST   /api/v1/wizard/:id/payment/partial              - {slotBookingFee, amountReceived}
// DELETE /api/v1/wizard/:id                              - Close; reports an unsaved draft
// GET    /api/v1/wizard-jobs/status                      - Background job status (admin)
