package payments

import (
	"context"
	"testing"

	"github.com/svstupireburgh/FeelmeTown-sub000/internal/shared/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(60000), ToMinorUnits(600))
	assert.Equal(t, int64(149950), ToMinorUnits(1499.5))
	assert.Equal(t, int64(1999), ToMinorUnits(19.99))
	assert.Equal(t, 1499.5, FromMinorUnits(149950))
}

func TestSandboxGateway_RoundTrip(t *testing.T) {
	g := NewSandboxGateway("test-secret")
	ctx := context.Background()

	order, err := g.CreateOrder(ctx, OrderRequest{
		AmountMinor: 60000,
		Currency:    "inr",
		Prefill:     Prefill{Name: "Asha", Email: "asha@example.com", Phone: "9876543210"},
	})
	require.NoError(t, err)
	assert.Equal(t, "sandbox", order.Provider)
	assert.Equal(t, "Asha", order.Prefill.Name)

	tx, err := g.VerifyPayment(ctx, Confirmation{
		OrderID:   order.ID,
		PaymentID: "pay_123",
		Signature: g.Sign(order.ID, "pay_123"),
	})
	require.NoError(t, err)
	assert.Equal(t, 600.0, tx.Amount())
	assert.Equal(t, "pay_123", tx.PaymentID)
}

func TestSandboxGateway_Rejections(t *testing.T) {
	g := NewSandboxGateway("test-secret")
	ctx := context.Background()

	_, err := g.CreateOrder(ctx, OrderRequest{AmountMinor: 0})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = g.VerifyPayment(ctx, Confirmation{OrderID: "order_missing", PaymentID: "pay_1"})
	assert.ErrorIs(t, err, ErrOrderNotFound)

	order, err := g.CreateOrder(ctx, OrderRequest{AmountMinor: 100, Currency: "inr"})
	require.NoError(t, err)
	_, err = g.VerifyPayment(ctx, Confirmation{OrderID: order.ID, PaymentID: "pay_1", Signature: "forged"})
	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestNewGateway(t *testing.T) {
	g, err := NewGateway(config.PaymentConfig{Provider: "sandbox"})
	require.NoError(t, err)
	assert.Equal(t, "sandbox", g.Name())

	_, err = NewGateway(config.PaymentConfig{Provider: "stripe"})
	assert.Error(t, err)

	g, err = NewGateway(config.PaymentConfig{Provider: "stripe", StripeKey: "sk_test_123"})
	require.NoError(t, err)
	assert.Equal(t, "stripe", g.Name())

	_, err = NewGateway(config.PaymentConfig{Provider: "paypal"})
	assert.Error(t, err)
}
