package coupons

import (
	"errors"
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

// ValidateCoupon handles POST /api/v1/coupons/validate
func (ctrl *Controller) ValidateCoupon(c *gin.Context) {
	var req ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	result, err := ctrl.service.Validate(c.Request.Context(), req.Code, req.Amount)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "Coupon Error", "Could not validate coupon, please try again", nil)
		return
	}

	if !result.Success {
		response.RespondError(c, http.StatusUnprocessableEntity, "Coupon Error", result.Error, result)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Coupon applied", result, nil)
}

// CreateCoupon handles POST /api/v1/admin/coupons
func (ctrl *Controller) CreateCoupon(c *gin.Context) {
	var req CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	coupon, err := ctrl.service.Create(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrCouponExists):
			response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
		case errors.Is(err, ErrInvalidCoupon):
			response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to create coupon", nil, err.Error())
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Coupon created successfully", coupon, nil)
}

// ListCoupons handles GET /api/v1/admin/coupons
func (ctrl *Controller) ListCoupons(c *gin.Context) {
	list, err := ctrl.service.List(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to list coupons", nil, err.Error())
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Coupons retrieved successfully", list, nil)
}
