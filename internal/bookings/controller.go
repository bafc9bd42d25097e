package bookings

import (
	"errors"
	"net/http"

	"github.com/svstupireburgh/FeelmeTown-sub000/internal/shared/middleware"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// SubmitBooking handles POST /api/v1/bookings
func (c *Controller) SubmitBooking(ctx *gin.Context) {
	var req SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	stampCreator(ctx, &req)

	result, err := c.service.Submit(ctx.Request.Context(), req)
	if err != nil {
		respondSubmitError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Booking created successfully", result, nil)
}

// UpdateBooking handles PUT /api/v1/bookings/:id
func (c *Controller) UpdateBooking(ctx *gin.Context) {
	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	var req SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	result, err := c.service.Update(ctx.Request.Context(), bookingID, req)
	if err != nil {
		respondSubmitError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking updated successfully", result, nil)
}

// GetBooking handles GET /api/v1/bookings/:id
func (c *Controller) GetBooking(ctx *gin.Context) {
	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	booking, err := c.service.GetBooking(ctx.Request.Context(), bookingID)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Booking not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get booking", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking retrieved successfully", booking, nil)
}

// GetBookedSlots handles GET /api/v1/bookings/slots?date=&theater=
func (c *Controller) GetBookedSlots(ctx *gin.Context) {
	var query SlotsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	var exclude *uuid.UUID
	if query.ExcludeBooking != "" {
		id := uuid.MustParse(query.ExcludeBooking)
		exclude = &id
	}

	slots, err := c.service.BookedSlots(ctx.Request.Context(), query.Date, query.Theater, exclude)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to load booked slots", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booked slots retrieved successfully", SlotsResponse{
		Date:            query.Date,
		TheaterName:     query.Theater,
		BookedTimeSlots: slots,
	}, nil)
}

// stampCreator records the operator behind a manual booking
func stampCreator(ctx *gin.Context, req *SubmitRequest) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		return
	}
	req.IsManualBooking = true
	req.CreatedBy = &CreatorInfo{ID: identity.UserID, Email: identity.Email, Role: identity.Role}
}

func respondSubmitError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidSubmission):
		response.RespondError(ctx, http.StatusUnprocessableEntity, "Invalid Booking", err.Error(), nil)
	case errors.Is(err, ErrSlotUnavailable):
		response.RespondError(ctx, http.StatusConflict, "Slot Unavailable", err.Error(), nil)
	case errors.Is(err, ErrBookingNotFound):
		response.RespondError(ctx, http.StatusNotFound, "Booking Not Found", err.Error(), nil)
	case errors.Is(err, ErrBookingCancelled):
		response.RespondError(ctx, http.StatusConflict, "Booking Cancelled", err.Error(), nil)
	default:
		response.RespondError(ctx, http.StatusInternalServerError, "Booking Failed", "Could not save the booking, please try again", nil)
	}
}
