package coupons

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetByCode(ctx context.Context, code string) (*Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Coupon), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, coupon *Coupon) error {
	return m.Called(ctx, coupon).Error(0)
}

func (m *MockRepository) List(ctx context.Context) ([]Coupon, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Coupon), args.Error(1)
}

func (m *MockRepository) IncrementUsage(ctx context.Context, code string) error {
	return m.Called(ctx, code).Error(0)
}

var fixedNow = time.Date(2026, 2, 14, 18, 0, 0, 0, time.UTC)

func newTestService(repo Repository) *service {
	s := NewService(repo).(*service)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestCoupon_DiscountFor(t *testing.T) {
	tests := []struct {
		name   string
		coupon Coupon
		amount float64
		want   float64
	}{
		{"percentage", Coupon{DiscountType: DiscountPercentage, DiscountValue: 10}, 2500, 250},
		{"percentage capped", Coupon{DiscountType: DiscountPercentage, DiscountValue: 50, MaxDiscount: 500}, 3000, 500},
		{"fixed", Coupon{DiscountType: DiscountFixed, DiscountValue: 300}, 2500, 300},
		{"fixed above amount", Coupon{DiscountType: DiscountFixed, DiscountValue: 900}, 600, 600},
		{"zero amount", Coupon{DiscountType: DiscountFixed, DiscountValue: 300}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.coupon.DiscountFor(tt.amount))
		})
	}
}

func TestService_Validate(t *testing.T) {
	expired := fixedNow.Add(-time.Hour)

	tests := []struct {
		name        string
		coupon      *Coupon
		repoErr     error
		amount      float64
		wantSuccess bool
		wantError   string
		wantAmount  float64
	}{
		{
			name:        "valid percentage coupon",
			coupon:      &Coupon{Code: "LOVE10", DiscountType: DiscountPercentage, DiscountValue: 10, IsActive: true},
			amount:      2199,
			wantSuccess: true,
			wantAmount:  219.9,
		},
		{
			name:      "unknown code",
			repoErr:   ErrCouponNotFound,
			amount:    2199,
			wantError: "Invalid coupon code",
		},
		{
			name:      "expired",
			coupon:    &Coupon{Code: "LOVE10", DiscountType: DiscountFixed, DiscountValue: 100, IsActive: true, ValidUntil: &expired},
			amount:    2199,
			wantError: "This coupon has expired",
		},
		{
			name:      "minimum amount",
			coupon:    &Coupon{Code: "BIG500", DiscountType: DiscountFixed, DiscountValue: 500, MinAmount: 3000, IsActive: true},
			amount:    2199,
			wantError: "Minimum order amount not met for this coupon",
		},
		{
			name:      "usage exhausted",
			coupon:    &Coupon{Code: "ONCE", DiscountType: DiscountFixed, DiscountValue: 100, UsageLimit: 1, UsageCount: 1, IsActive: true},
			amount:    2199,
			wantError: "This coupon has reached its usage limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			repo.On("GetByCode", mock.Anything, "LOVE10").Return(tt.coupon, tt.repoErr)

			result, err := newTestService(repo).Validate(context.Background(), "  love10 ", tt.amount)
			require.NoError(t, err)
			repo.AssertExpectations(t)
			assert.Equal(t, tt.wantSuccess, result.Success)
			assert.Equal(t, tt.wantError, result.Error)
			if tt.wantSuccess {
				assert.InDelta(t, tt.wantAmount, result.DiscountAmount, 0.001)
				assert.Equal(t, DiscountPercentage, result.Coupon.DiscountType)
				assert.Equal(t, "LOVE10", result.Coupon.CouponCode)
			}
		})
	}
}

func TestService_ValidateInfrastructureError(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetByCode", mock.Anything, "LOVE10").Return(nil, errors.New("connection reset"))

	result, err := newTestService(repo).Validate(context.Background(), "LOVE10", 2000)
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestService_ValidateEmptyCodeSkipsRepository(t *testing.T) {
	repo := new(MockRepository)

	result, err := newTestService(repo).Validate(context.Background(), "   ", 2000)
	require.NoError(t, err)
	assert.False(t, result.Success)
	repo.AssertNotCalled(t, "GetByCode", mock.Anything, mock.Anything)
}

func TestService_Redeem(t *testing.T) {
	repo := new(MockRepository)
	repo.On("IncrementUsage", mock.Anything, "LOVE10").Return(ErrUsageLimitReached)

	err := newTestService(repo).Redeem(context.Background(), "love10")
	assert.ErrorIs(t, err, ErrUsageLimitReached)
	assert.NoError(t, newTestService(repo).Redeem(context.Background(), ""))
	repo.AssertNumberOfCalls(t, "IncrementUsage", 1)
}

func TestController_ValidateCoupon(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := new(MockRepository)
	repo.On("GetByCode", mock.Anything, "LOVE10").
		Return(&Coupon{Code: "LOVE10", DiscountType: DiscountFixed, DiscountValue: 300, IsActive: true}, nil)
	repo.On("GetByCode", mock.Anything, "NOPE").Return(nil, ErrCouponNotFound)

	router := gin.New()
	ctrl := NewController(newTestService(repo))
	router.POST("/coupons/validate", ctrl.ValidateCoupon)

	send := func(code string) *httptest.ResponseRecorder {
		body, _ := json.Marshal(ValidateCouponRequest{Code: code, Amount: 2199})
		req := httptest.NewRequest(http.MethodPost, "/coupons/validate", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := send("LOVE10")
	assert.Equal(t, http.StatusOK, rec.Code)
	var ok struct {
		Data ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ok))
	assert.True(t, ok.Data.Success)
	assert.Equal(t, 300.0, ok.Data.DiscountAmount)

	rec = send("NOPE")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid coupon code")
}
