package wizard

import (
	"errors"
	"net/http"

	"github.com/svstupireburgh/FeelmeTown-sub000/internal/bookings"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/payments"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/shared/middleware"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	manager *Manager
}

func NewController(manager *Manager) *Controller {
	return &Controller{manager: manager}
}

// OpenSession handles POST /api/v1/wizard
//
//	@Summary	Open a booking wizard session
//	@Tags		wizard
//	@Accept		json
//	@Produce	json
//	@Param		request	body		OpenWizardRequest	true	"Session context, handoff token or booking to edit"
//	@Success	201		{object}	response.StandardApiResponse
//	@Failure	403		{object}	response.StandardApiResponse
//	@Failure	404		{object}	response.StandardApiResponse
//	@Router		/wizard [post]
func (c *Controller) OpenSession(ctx *gin.Context) {
	var req OpenWizardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	open := OpenRequest{
		Context:      SessionContext{TheaterName: req.TheaterName, Date: req.Date, TimeSlot: req.TimeSlot},
		HandoffToken: req.HandoffToken,
		Operator:     operatorOf(ctx),
	}
	if req.BookingID != "" {
		id := uuid.MustParse(req.BookingID)
		open.EditBookingID = &id
	}

	s, err := c.manager.Open(ctx.Request.Context(), open)
	if err != nil {
		c.respondError(ctx, nil, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Wizard opened", s.View(), nil)
}

// CreateHandoff handles POST /api/v1/wizard/handoff
func (c *Controller) CreateHandoff(ctx *gin.Context) {
	var req HandoffRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	token, err := c.manager.Handoff(ctx.Request.Context(), Handoff{
		Context: SessionContext{TheaterName: req.TheaterName, Date: req.Date, TimeSlot: req.TimeSlot},
		MovieID: req.MovieID,
	})
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to store handoff", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Handoff stored", HandoffResponse{Token: token}, nil)
}

// GetSession handles GET /api/v1/wizard/:id
//
//	@Summary	Get the current state of a wizard session
//	@Tags		wizard
//	@Produce	json
//	@Param		id	path		string	true	"Session ID"
//	@Success	200	{object}	response.StandardApiResponse
//	@Failure	404	{object}	response.StandardApiResponse
//	@Router		/wizard/{id} [get]
func (c *Controller) GetSession(ctx *gin.Context) {
	s, ok := c.session(ctx)
	if !ok {
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Wizard retrieved", s.View(), nil)
}

// PatchDraft handles PATCH /api/v1/wizard/:id/draft
func (c *Controller) PatchDraft(ctx *gin.Context) {
	s, ok := c.session(ctx)
	if !ok {
		return
	}
	var req DraftPatch
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	c.respond(ctx, s, s.Patch(req), "Draft updated")
}

// IncrementHeadcount handles POST /api/v1/wizard/:id/headcount/increment
func (c *Controller) IncrementHeadcount(ctx *gin.Context) {
	s, ok := c.session(ctx)
	if !ok {
		return
	}
	c.respond(ctx, s, s.IncrementHeadcount(), "Headcount updated")
}

// DecrementHeadcount handles POST /api/v1/wizard/:id/headcount/decrement
func (c *Controller) DecrementHeadcount(ctx *gin.Context) {
	s, ok := c.session(ctx)
	if !ok {
		return
	}
	c.respond(ctx, s, s.DecrementHeadcount(), "Headcount updated")
}

// SetDecoration handles PUT /api/v1/wizard/:id/decoration
func (c *Controller) SetDecoration(ctx *gin.Context) {
	s, ok := c.session(ctx)
	if !ok {
		return
	}
	var req DecorationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	c.respond(ctx, s, s.SetDecoration(*req.Enabled), "Decoration updated")
}

// SetService handles PUT /api/v1/wizard/:id/services/:service
func (c *Controller) SetService(ctx *gin.Context) {
	s, ok := c.session(ctx)
	if !ok {
		return
	}
	var req ServiceChoiceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	c.respond(ctx, s, s.SetService(ctx.Param("service"), *req.Enabled), "Service updated")
}

// ToggleItem handles POST /api/v1/wizard/:id/services/:service/items
func (c *Controller) ToggleItem(ctx *gin.Context) {
	s, ok := c.session(ctx)
	if !ok {
		return
	}
	var req ToggleItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	applied, err := s.ToggleItem(ctx.Param("service"), req.ItemID)
	if err != nil {
		c.respondError(ctx, s, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Item toggled", ToggleItemResponse{Applied: applied, Session: s.View()}, nil)
}

// Continue handles POST /api/v1/wizard/:id/continue
func (c *Controller) Continue(ctx *gin.Context) {
	s, ok := c.session(ctx)
	if !ok {
		return
	}
	_, err := s.Continue()
	c.respond(ctx, s, err, "Step completed")
}

// Back handles POST /api/v1/wizard/:id/back
func (c *Controller) Back(ctx *gin.Context) {
	s, ok := c.session(ctx)
	if !ok {
		return
	}
	_, err := s.Back()
	c.respond(ctx, s, err, "Moved back")
}

// GoTo handles POST /api/v1/wizard/:id/goto
func (c *Controller) GoTo(ctx *gin.Context) {
	s, ok := c.session(ctx)
	if !ok {
		return
	}
	var req GoToStepRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	_, err := s.GoTo(StepID(req.Step))
	c.respond(ctx, s, err, "Moved to step")
}

// ApplyCoupon handles POST /api/v1/wizard/:id/coupon
func (c *Controller) ApplyCoupon(ctx *gin.Context) {
	s, ok := c.session(ctx)
	if !ok {
		return
	}
	var req CouponRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	c.respond(ctx, s, s.ApplyCoupon(ctx.Request.Context(), req.Code), "Coupon applied")
}

// RemoveCoupon handles DELETE /api/v1/wizard/:id/coupon
func (c *Controller) RemoveCoupon(ctx *gin.Context) {
	s, ok := c.session(ctx)
	if !ok {
		return
	}
	c.respond(ctx, s, s.RemoveCoupon(), "Coupon removed")
}

// SetManualDiscount handles PUT /api/v1/wizard/:id/manual-discount
func (c *Controller) SetManualDiscount(ctx *gin.Context) {
	s, ok := c.operatorSession(ctx)
	if !ok {
		return
	}
	var req ManualDiscountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	c.respond(ctx, s, s.SetManualDiscount(req.Amount), "Discount updated")
}

// Checkout handles POST /api/v1/wizard/:id/checkout
//
//	@Summary	Validate the draft and start payment
//	@Tags		wizard
//	@Produce	json
//	@Param		id	path		string	true	"Session ID"
//	@Success	200	{object}	response.StandardApiResponse
//	@Failure	409	{object}	response.StandardApiResponse
//	@Failure	422	{object}	response.StandardApiResponse
//	@Router		/wizard/{id}/checkout [post]
func (c *Controller) Checkout(ctx *gin.Context) {
	s, ok := c.session(ctx)
	if !ok {
		return
	}
	c.respond(ctx, s, s.Checkout(ctx.Request.Context()), "Checkout started")
}

// ChooseManualPayment handles POST /api/v1/wizard/:id/payment/manual
func (c *Controller) ChooseManualPayment(ctx *gin.Context) {
	s, ok := c.operatorSession(ctx)
	if !ok {
		return
	}
	var req ManualPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	c.respond(ctx, s, s.ChooseManualPayment(ctx.Request.Context(), ManualMethod(req.Method)), "Payment method recorded")
}

// SubmitPartialPayment handles POST /api/v1/wizard/:id/payment/partial
func (c *Controller) SubmitPartialPayment(ctx *gin.Context) {
	s, ok := c.operatorSession(ctx)
	if !ok {
		return
	}
	var req PartialPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	err := s.SubmitPartialPayment(ctx.Request.Context(), string(req.SlotBookingFee), string(req.AmountReceived))
	c.respond(ctx, s, err, "Partial payment recorded")
}

// CancelPayment handles POST /api/v1/wizard/:id/payment/cancel
func (c *Controller) CancelPayment(ctx *gin.Context) {
	s, ok := c.session(ctx)
	if !ok {
		return
	}
	c.respond(ctx, s, s.CancelPayment(ctx.Request.Context()), "Payment cancelled")
}

// ConfirmGatewayPayment handles POST /api/v1/wizard/:id/payment/gateway/confirm
func (c *Controller) ConfirmGatewayPayment(ctx *gin.Context) {
	s, ok := c.session(ctx)
	if !ok {
		return
	}
	var req payments.Confirmation
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	c.respond(ctx, s, s.ConfirmGatewayPayment(ctx.Request.Context(), req), "Payment confirmed")
}

// DismissGateway handles POST /api/v1/wizard/:id/payment/gateway/dismiss
func (c *Controller) DismissGateway(ctx *gin.Context) {
	s, ok := c.session(ctx)
	if !ok {
		return
	}
	c.respond(ctx, s, s.DismissGateway(ctx.Request.Context()), "Payment dismissed")
}

// CloseSession handles DELETE /api/v1/wizard/:id
//
//	@Summary	Close a wizard session
//	@Tags		wizard
//	@Produce	json
//	@Param		id	path		string	true	"Session ID"
//	@Success	200	{object}	response.StandardApiResponse
//	@Failure	404	{object}	response.StandardApiResponse
//	@Router		/wizard/{id} [delete]
func (c *Controller) CloseSession(ctx *gin.Context) {
	result, err := c.manager.Close(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		c.respondError(ctx, nil, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Wizard closed", result, nil)
}

// GetJobStatus handles GET /api/v1/wizard-jobs/status
func (c *Controller) GetJobStatus(jobs *JobProcessor) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		response.RespondJSON(ctx, "success", http.StatusOK, "Job status retrieved", jobs.GetJobStatus(), nil)
	}
}

func (c *Controller) session(ctx *gin.Context) (*Session, bool) {
	s, err := c.manager.Get(ctx.Param("id"))
	if err != nil {
		c.respondError(ctx, nil, err)
		return nil, false
	}
	return s, true
}

// operatorSession also requires the caller to be an operator
func (c *Controller) operatorSession(ctx *gin.Context) (*Session, bool) {
	if operatorOf(ctx) == nil {
		c.respondError(ctx, nil, ErrNotOperator)
		return nil, false
	}
	return c.session(ctx)
}

func operatorOf(ctx *gin.Context) *bookings.CreatorInfo {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok || !identity.IsOperator() {
		return nil
	}
	return &bookings.CreatorInfo{ID: identity.UserID, Email: identity.Email, Role: identity.Role}
}

func (c *Controller) respond(ctx *gin.Context, s *Session, err error, message string) {
	if err != nil {
		c.respondError(ctx, s, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, message, s.View(), nil)
}

// respondError maps wizard errors to responses. The session view rides along
// so the client can render the state the error left behind.
func (c *Controller) respondError(ctx *gin.Context, s *Session, err error) {
	var view *SessionView
	if s != nil {
		view = s.View()
	}

	var (
		formErr     *FormValidationError
		couponErr   *CouponError
		gatewayErr  *PaymentGatewayError
		submitErr   *SubmissionError
		conflictErr *ConflictError
	)
	switch {
	case errors.Is(err, ErrCouponObsolete):
		response.RespondJSON(ctx, "success", http.StatusOK, "Coupon request superseded", view, nil)
	case errors.As(err, &formErr):
		response.RespondError(ctx, http.StatusUnprocessableEntity, formErr.Title, formErr.Message, view)
	case errors.As(err, &couponErr):
		response.RespondError(ctx, http.StatusUnprocessableEntity, "Coupon Error", couponErr.Message, view)
	case errors.As(err, &conflictErr):
		response.RespondError(ctx, http.StatusConflict, "Time Slot Unavailable", conflictErr.Error(), view)
	case errors.As(err, &gatewayErr):
		c.manager.deps.Log.LogHTTPError(ctx, err, http.StatusPaymentRequired)
		response.RespondError(ctx, http.StatusPaymentRequired, "Payment Failed", gatewayErr.Error(), view)
	case errors.As(err, &submitErr):
		c.manager.deps.Log.LogHTTPError(ctx, err, http.StatusBadGateway)
		response.RespondError(ctx, http.StatusBadGateway, "Booking Failed", submitErr.Error(), view)
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrSubmissionInFlight):
		response.RespondError(ctx, http.StatusConflict, "Not Allowed Now", err.Error(), view)
	case errors.Is(err, ErrUnknownService), errors.Is(err, ErrUnknownStep):
		response.RespondError(ctx, http.StatusBadRequest, "Invalid Request", err.Error(), view)
	case errors.Is(err, ErrNotOperator):
		response.RespondError(ctx, http.StatusForbidden, "Forbidden", err.Error(), view)
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrSessionClosed):
		response.RespondError(ctx, http.StatusNotFound, "Wizard Not Found", err.Error(), nil)
	case errors.Is(err, ErrHandoffNotFound), errors.Is(err, bookings.ErrBookingNotFound):
		response.RespondError(ctx, http.StatusNotFound, "Not Found", err.Error(), nil)
	case errors.Is(err, bookings.ErrBookingCancelled):
		response.RespondError(ctx, http.StatusConflict, "Booking Cancelled", err.Error(), nil)
	default:
		c.manager.deps.Log.LogHTTPError(ctx, err, http.StatusInternalServerError)
		response.RespondError(ctx, http.StatusInternalServerError, "Something Went Wrong", "Please try again", view)
	}
}
