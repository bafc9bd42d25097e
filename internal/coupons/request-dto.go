package coupons

import "time"

type ValidateCouponRequest struct {
	Code   string  `json:"code" binding:"required,max=50"`
	Amount float64 `json:"amount" binding:"gte=0"`
}

type CreateCouponRequest struct {
	Code          string       `json:"code" binding:"required,min=3,max=50"`
	Description   string       `json:"description" binding:"max=500"`
	DiscountType  DiscountType `json:"discountType" binding:"required,oneof=percentage fixed"`
	DiscountValue float64      `json:"discountValue" binding:"required,gt=0"`
	MinAmount     float64      `json:"minAmount" binding:"gte=0"`
	MaxDiscount   float64      `json:"maxDiscount" binding:"gte=0"`
	ValidFrom     *time.Time   `json:"validFrom"`
	ValidUntil    *time.Time   `json:"validUntil"`
	UsageLimit    int          `json:"usageLimit" binding:"gte=0"`
}
