package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRateLimitType(t *testing.T) {
	tests := []struct {
		path string
		want RateLimitType
	}{
		{"/health", RateLimitTypeHealth},
		{"/api/v1/catalog", RateLimitTypePublic},
		{"/api/v1/catalog/refresh", RateLimitTypeAdmin},
		{"/api/v1/bookings/slots", RateLimitTypePublic},
		{"/api/v1/bookings", RateLimitTypeWizardCritical},
		{"/api/v1/coupons/validate", RateLimitTypeCoupon},
		{"/api/v1/wizard/:id/coupon", RateLimitTypeCoupon},
		{"/api/v1/wizard/:id/checkout", RateLimitTypeWizardCritical},
		{"/api/v1/wizard/:id/payment/partial", RateLimitTypeWizardCritical},
		{"/api/v1/wizard/:id/draft", RateLimitTypeWizard},
		{"/api/v1/bookings/:id", RateLimitTypeDefault},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, getRateLimitType(tt.path))
		})
	}
}

func TestIsAllowed_DisabledAndWhitelisted(t *testing.T) {
	cfg := &Config{
		Enabled:        false,
		WindowDuration: time.Minute,
		CouponRequests: 15,
		WhitelistedIPs: []string{"10.0.0.1"},
	}
	rl := NewRateLimiter(nil, cfg)

	res, err := rl.IsAllowed(context.Background(), "1.2.3.4", RateLimitTypeCoupon)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 15, res.Limit)

	cfg.Enabled = true
	res, err = rl.IsAllowed(context.Background(), "10.0.0.1", RateLimitTypeCoupon)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}
