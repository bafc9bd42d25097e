package coupons

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/svstupireburgh/FeelmeTown-sub000/pkg/logger"
)

var (
	ErrCouponNotFound    = errors.New("coupon not found")
	ErrCouponExists      = errors.New("a coupon with this code already exists")
	ErrUsageLimitReached = errors.New("coupon usage limit reached")
	ErrInvalidCoupon     = errors.New("invalid coupon definition")
)

type Service interface {
	// Validate checks code against amount. Business rejections come back as a
	// result with Success=false; only infrastructure failures return an error.
	Validate(ctx context.Context, code string, amount float64) (*ValidationResult, error)
	Create(ctx context.Context, req CreateCouponRequest) (*Coupon, error)
	List(ctx context.Context) ([]Coupon, error)
	// Redeem records one use of a coupon after a booking was stored
	Redeem(ctx context.Context, code string) error
}

type service struct {
	repo Repository
	log  *logger.Logger
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, log: logger.GetDefault(), now: time.Now}
}

func (s *service) Validate(ctx context.Context, code string, amount float64) (*ValidationResult, error) {
	code = NormalizeCode(code)
	if code == "" {
		return &ValidationResult{Success: false, Error: "Please enter a coupon code"}, nil
	}

	coupon, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrCouponNotFound) {
			s.log.LogCouponRejected(ctx, code, "not found")
			return &ValidationResult{Success: false, Error: "Invalid coupon code"}, nil
		}
		return nil, fmt.Errorf("failed to load coupon: %w", err)
	}

	if reason := coupon.rejection(amount, s.now()); reason != "" {
		s.log.LogCouponRejected(ctx, code, reason)
		return &ValidationResult{Success: false, Error: reason}, nil
	}

	return &ValidationResult{
		Success:        true,
		DiscountAmount: coupon.DiscountFor(amount),
		Coupon: &CouponInfo{
			DiscountType:  coupon.DiscountType,
			DiscountValue: coupon.DiscountValue,
			CouponCode:    coupon.Code,
		},
	}, nil
}

func (s *service) Create(ctx context.Context, req CreateCouponRequest) (*Coupon, error) {
	if req.DiscountType == DiscountPercentage && req.DiscountValue > 100 {
		return nil, fmt.Errorf("%w: percentage cannot exceed 100", ErrInvalidCoupon)
	}
	if req.ValidFrom != nil && req.ValidUntil != nil && req.ValidUntil.Before(*req.ValidFrom) {
		return nil, fmt.Errorf("%w: validity window ends before it starts", ErrInvalidCoupon)
	}

	coupon := &Coupon{
		Code:          NormalizeCode(req.Code),
		Description:   req.Description,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		MinAmount:     req.MinAmount,
		MaxDiscount:   req.MaxDiscount,
		ValidFrom:     req.ValidFrom,
		ValidUntil:    req.ValidUntil,
		UsageLimit:    req.UsageLimit,
		IsActive:      true,
	}
	if err := s.repo.Create(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

func (s *service) List(ctx context.Context) ([]Coupon, error) {
	return s.repo.List(ctx)
}

func (s *service) Redeem(ctx context.Context, code string) error {
	code = NormalizeCode(code)
	if code == "" {
		return nil
	}
	if err := s.repo.IncrementUsage(ctx, code); err != nil {
		return fmt.Errorf("failed to redeem coupon %s: %w", code, err)
	}
	return nil
}
