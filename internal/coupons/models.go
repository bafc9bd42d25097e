package coupons

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Coupon is a redeemable discount code
type Coupon struct {
	ID            uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Code          string       `gorm:"uniqueIndex;not null" json:"code"`
	Description   string       `gorm:"type:text" json:"description"`
	DiscountType  DiscountType `gorm:"type:varchar(20);not null" json:"discountType"`
	DiscountValue float64      `gorm:"type:decimal(10,2);not null" json:"discountValue"`
	// MinAmount is the smallest subtotal the coupon applies to
	MinAmount float64 `gorm:"type:decimal(10,2);default:0" json:"minAmount"`
	// MaxDiscount caps percentage discounts; zero means no cap
	MaxDiscount float64    `gorm:"type:decimal(10,2);default:0" json:"maxDiscount"`
	ValidFrom   *time.Time `json:"validFrom,omitempty"`
	ValidUntil  *time.Time `json:"validUntil,omitempty"`
	UsageLimit  int        `gorm:"default:0" json:"usageLimit"`
	UsageCount  int        `gorm:"default:0" json:"usageCount"`
	IsActive    bool       `gorm:"default:true" json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (Coupon) TableName() string {
	return "coupons"
}

func (c *Coupon) BeforeSave(tx *gorm.DB) error {
	c.Code = NormalizeCode(c.Code)
	return nil
}

// NormalizeCode trims and upper-cases a coupon code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// DiscountFor computes the discount this coupon grants on amount
func (c *Coupon) DiscountFor(amount float64) float64 {
	if amount <= 0 {
		return 0
	}

	var discount float64
	switch c.DiscountType {
	case DiscountPercentage:
		discount = amount * c.DiscountValue / 100
		if c.MaxDiscount > 0 && discount > c.MaxDiscount {
			discount = c.MaxDiscount
		}
	case DiscountFixed:
		discount = c.DiscountValue
	}

	discount = math.Min(discount, amount)
	return math.Round(discount*100) / 100
}

// rejection returns the reason a coupon cannot be used right now, or "" if it can
func (c *Coupon) rejection(amount float64, now time.Time) string {
	switch {
	case !c.IsActive:
		return "This coupon is no longer active"
	case c.ValidFrom != nil && now.Before(*c.ValidFrom):
		return "This coupon is not valid yet"
	case c.ValidUntil != nil && now.After(*c.ValidUntil):
		return "This coupon has expired"
	case c.UsageLimit > 0 && c.UsageCount >= c.UsageLimit:
		return "This coupon has reached its usage limit"
	case amount < c.MinAmount:
		return "Minimum order amount not met for this coupon"
	}
	return ""
}
