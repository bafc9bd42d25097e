package wizard

import (
	"context"

	"github.com/svstupireburgh/FeelmeTown-sub000/internal/coupons"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/pricing"
)

// ApplyCoupon validates code against the pre-discount subtotal and applies it.
// Only the newest request for a session can change the coupon: a request that
// was superseded, or cancelled because the draft lost eligibility, returns
// ErrCouponObsolete and leaves the coupon alone.
func (s *Session) ApplyCoupon(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editable(); err != nil {
		return err
	}

	code = coupons.NormalizeCode(code)
	if !pricing.CouponEligible(s.draft.Decoration(), s.draft.EnabledServices()) {
		return &CouponError{Code: code, Message: "Coupons apply only to bookings with decoration or gifts."}
	}

	s.cancelCouponLocked()
	if code == "" {
		return s.rejectCoupon(code, "Please enter a coupon code")
	}

	s.couponGen++
	gen := s.couponGen
	cctx, cancel := context.WithCancel(ctx)
	s.couponCancel = cancel
	subtotal := s.breakdownLocked().Subtotal

	var (
		result *coupons.ValidationResult
		err    error
	)
	s.withoutLock(func() {
		result, err = s.deps.Coupons.Validate(cctx, code, subtotal)
	})

	if gen != s.couponGen || cctx.Err() != nil || s.closed {
		cancel()
		return ErrCouponObsolete
	}
	s.couponCancel = nil
	cancel()

	if err != nil {
		s.deps.Log.ErrorWithContext(ctx, "Coupon validation failed", err, map[string]interface{}{
			"session_id": s.ID,
			"code":       code,
		})
		return s.rejectCoupon(code, "Could not validate coupon, please try again")
	}
	if result == nil || !result.Success {
		reason := "Invalid coupon code"
		if result != nil && result.Error != "" {
			reason = result.Error
		}
		return s.rejectCoupon(code, reason)
	}

	state := CouponState{Code: code, Amount: result.DiscountAmount}
	if result.Coupon != nil {
		state.DiscountType = string(result.Coupon.DiscountType)
		state.DiscountValue = result.Coupon.DiscountValue
		if result.Coupon.CouponCode != "" {
			state.Code = result.Coupon.CouponCode
		}
	}
	s.draft.Coupon = state
	s.notice = &Notice{Kind: "info", Title: "Coupon Applied", Message: "You saved " + pricing.FormatRupees(state.Amount) + " with " + state.Code + "."}
	s.touch()
	return nil
}

// RemoveCoupon clears the coupon and abandons any pending validation
func (s *Session) RemoveCoupon() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editable(); err != nil {
		return err
	}
	s.cancelCouponLocked()
	s.draft.Coupon = CouponState{}
	s.touch()
	return nil
}

func (s *Session) rejectCoupon(code, reason string) error {
	s.draft.Coupon = CouponState{}
	s.notice = &Notice{Kind: "error", Title: "Coupon Error", Message: reason}
	s.touch()
	return &CouponError{Code: code, Message: reason}
}

// cancelCouponLocked abandons the in-flight coupon request, if any
func (s *Session) cancelCouponLocked() {
	s.couponGen++
	if s.couponCancel != nil {
		s.couponCancel()
		s.couponCancel = nil
	}
}
