package payments

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// StripeGateway collects payments through Stripe PaymentIntents. The order id
// and the payment id are both the PaymentIntent id.
type StripeGateway struct{}

func NewStripeGateway(secretKey string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{}
}

func (g *StripeGateway) Name() string { return "stripe" }

func (g *StripeGateway) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if req.AmountMinor <= 0 {
		return nil, ErrInvalidAmount
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.AmountMinor),
		Currency: stripe.String(req.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	if req.Prefill.Email != "" {
		params.ReceiptEmail = stripe.String(req.Prefill.Email)
	}
	params.Context = ctx
	params.AddMetadata("receipt", req.Receipt)
	params.AddMetadata("customer_name", req.Prefill.Name)
	params.AddMetadata("customer_phone", req.Prefill.Phone)
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: create payment intent: %w", err)
	}

	return &Order{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		AmountMinor:  pi.Amount,
		Currency:     string(pi.Currency),
		Status:       string(pi.Status),
		Provider:     g.Name(),
		Prefill:      req.Prefill,
	}, nil
}

func (g *StripeGateway) VerifyPayment(ctx context.Context, c Confirmation) (*Transaction, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := paymentintent.Get(c.PaymentID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe: get payment intent: %w", err)
	}
	if c.OrderID != "" && c.OrderID != pi.ID {
		return nil, ErrSignatureMismatch
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, fmt.Errorf("%w: status %s", ErrPaymentNotCompleted, pi.Status)
	}

	return &Transaction{
		PaymentID:   pi.ID,
		OrderID:     pi.ID,
		AmountMinor: pi.AmountReceived,
		Currency:    string(pi.Currency),
		Provider:    g.Name(),
	}, nil
}
