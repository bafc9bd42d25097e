// Package payments holds the online payment gateway the wizard collects the
// slot booking advance through.
package payments

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/svstupireburgh/FeelmeTown-sub000/internal/shared/config"
)

var (
	ErrInvalidAmount       = errors.New("payment amount must be positive")
	ErrOrderNotFound       = errors.New("payment order not found")
	ErrPaymentNotCompleted = errors.New("payment was not completed")
	ErrSignatureMismatch   = errors.New("payment signature mismatch")
)

// Prefill carries the identity fields shown pre-filled in the checkout form
type Prefill struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"contact"`
}

// OrderRequest asks the gateway to open a checkout for AmountMinor (paise for INR)
type OrderRequest struct {
	AmountMinor int64
	Currency    string
	Receipt     string
	Description string
	Prefill     Prefill
	Metadata    map[string]string
}

// Order is what the client needs to open the gateway checkout
type Order struct {
	ID           string  `json:"orderId"`
	ClientSecret string  `json:"clientSecret,omitempty"`
	AmountMinor  int64   `json:"amount"`
	Currency     string  `json:"currency"`
	Status       string  `json:"status"`
	Provider     string  `json:"provider"`
	Prefill      Prefill `json:"prefill"`
}

// Confirmation is delivered by the client's gateway success callback
type Confirmation struct {
	PaymentID string `json:"paymentId" binding:"required"`
	OrderID   string `json:"orderId" binding:"required"`
	Signature string `json:"signature"`
}

// Transaction is a verified payment
type Transaction struct {
	PaymentID   string `json:"paymentId"`
	OrderID     string `json:"orderId"`
	Signature   string `json:"signature,omitempty"`
	AmountMinor int64  `json:"amount"`
	Currency    string `json:"currency"`
	Provider    string `json:"provider"`
}

// Amount returns the transaction amount in major units
func (t *Transaction) Amount() float64 {
	return FromMinorUnits(t.AmountMinor)
}

// Gateway is the contract the payment orchestrator uses. Neither method has
// side effects on the booking; a dismissed checkout simply never calls VerifyPayment.
type Gateway interface {
	Name() string
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
	VerifyPayment(ctx context.Context, c Confirmation) (*Transaction, error)
}

// ToMinorUnits converts rupees to paise
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FromMinorUnits converts paise to rupees
func FromMinorUnits(amount int64) float64 {
	return float64(amount) / 100
}

// NewGateway builds the gateway selected by PAYMENT_PROVIDER
func NewGateway(cfg config.PaymentConfig) (Gateway, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "sandbox":
		return NewSandboxGateway(cfg.SandboxSecret), nil
	case "stripe":
		if cfg.StripeKey == "" {
			return nil, errors.New("STRIPE_SECRET_KEY is required for the stripe payment provider")
		}
		return NewStripeGateway(cfg.StripeKey), nil
	default:
		return nil, fmt.Errorf("unknown payment provider %q", cfg.Provider)
	}
}
