package coupons

// ValidationResult mirrors the coupon validation response consumed by the wizard
type ValidationResult struct {
	Success        bool        `json:"success"`
	DiscountAmount float64     `json:"discountAmount,omitempty"`
	Coupon         *CouponInfo `json:"coupon,omitempty"`
	Error          string      `json:"error,omitempty"`
}

type CouponInfo struct {
	DiscountType  DiscountType `json:"discountType"`
	DiscountValue float64      `json:"discountValue"`
	CouponCode    string       `json:"couponCode"`
}
