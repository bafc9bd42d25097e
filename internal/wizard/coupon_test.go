package wizard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/svstupireburgh/FeelmeTown-sub000/internal/coupons"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSession_ApplyCoupon(t *testing.T) {
	env := newTestEnv(t)
	s := env.open(t)
	require.NoError(t, s.SetDecoration(true))

	env.coupons.On("Validate", mock.Anything, "LOVE10", 2149.0).Return(&coupons.ValidationResult{
		Success:        true,
		DiscountAmount: 214.9,
		Coupon:         &coupons.CouponInfo{DiscountType: coupons.DiscountPercentage, DiscountValue: 10, CouponCode: "LOVE10"},
	}, nil).Once()

	require.NoError(t, s.ApplyCoupon(context.Background(), " love10 "))

	d := s.Draft()
	assert.Equal(t, CouponState{Code: "LOVE10", DiscountType: string(coupons.DiscountPercentage), DiscountValue: 10, Amount: 214.9}, d.Coupon)
	b := s.Breakdown()
	assert.Equal(t, 214.9, b.CouponDiscount)
	assert.Equal(t, 1934.1, b.FinalTotal)

	v := s.View()
	require.NotNil(t, v.Notice)
	assert.Equal(t, "Coupon Applied", v.Notice.Title)

	// losing eligibility drops the coupon with a notice
	require.NoError(t, s.SetDecoration(false))
	assert.False(t, s.Draft().Coupon.Applied())
	v = s.View()
	require.NotNil(t, v.Notice)
	assert.Equal(t, "Coupon Removed", v.Notice.Title)
	assert.False(t, v.CouponEligible)

	env.coupons.AssertExpectations(t)
}

func TestSession_ApplyCouponRejected(t *testing.T) {
	env := newTestEnv(t)
	s := env.open(t)

	err := s.ApplyCoupon(context.Background(), "LOVE10")
	var ce *CouponError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "Coupons apply only to bookings with decoration or gifts.", ce.Message)
	env.coupons.AssertNotCalled(t, "Validate", mock.Anything, mock.Anything, mock.Anything)

	require.NoError(t, s.SetService("Gifts", true))

	err = s.ApplyCoupon(context.Background(), "")
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "Please enter a coupon code", ce.Message)

	env.coupons.On("Validate", mock.Anything, "OLD50", 1399.0).Return(&coupons.ValidationResult{Success: false, Error: "Coupon has expired"}, nil).Once()
	err = s.ApplyCoupon(context.Background(), "OLD50")
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "Coupon has expired", ce.Message)

	env.coupons.On("Validate", mock.Anything, "DOWN", 1399.0).Return(nil, errors.New("connection refused")).Once()
	err = s.ApplyCoupon(context.Background(), "DOWN")
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "Could not validate coupon, please try again", ce.Message)

	assert.False(t, s.Draft().Coupon.Applied())
	env.coupons.AssertExpectations(t)
}

func TestSession_ApplyCouponSuperseded(t *testing.T) {
	env := newTestEnv(t)
	s := env.open(t)
	require.NoError(t, s.SetDecoration(true))

	started := make(chan struct{})
	env.coupons.On("Validate", mock.Anything, "SLOW", mock.Anything).
		Run(func(args mock.Arguments) {
			close(started)
			<-args.Get(0).(context.Context).Done()
		}).
		Return(&coupons.ValidationResult{Success: true, DiscountAmount: 100}, nil).Once()

	done := make(chan error, 1)
	go func() { done <- s.ApplyCoupon(context.Background(), "SLOW") }()
	<-started

	assert.True(t, s.View().CouponPending)

	// the selection changes while the request is in flight
	require.NoError(t, s.SetDecoration(false))

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrCouponObsolete)
	case <-time.After(2 * time.Second):
		t.Fatal("coupon request was not cancelled")
	}
	assert.False(t, s.Draft().Coupon.Applied())
	assert.False(t, s.View().CouponPending)
}

func TestSession_RemoveCoupon(t *testing.T) {
	env := newTestEnv(t)
	s := env.open(t)
	require.NoError(t, s.SetDecoration(true))

	env.coupons.On("Validate", mock.Anything, "FLAT200", mock.Anything).Return(&coupons.ValidationResult{Success: true, DiscountAmount: 200}, nil).Once()
	require.NoError(t, s.ApplyCoupon(context.Background(), "FLAT200"))
	assert.Equal(t, 1949.0, s.Breakdown().FinalTotal)

	require.NoError(t, s.RemoveCoupon())
	assert.Equal(t, CouponState{}, s.Draft().Coupon)
	assert.Equal(t, 2149.0, s.Breakdown().FinalTotal)
}
