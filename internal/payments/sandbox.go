package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/google/uuid"
)

// SandboxGateway is an in-process gateway for development and tests. A payment
// is accepted when its signature is the HMAC of "orderId|paymentId".
type SandboxGateway struct {
	secret []byte

	mu     sync.Mutex
	orders map[string]*Order
}

func NewSandboxGateway(secret string) *SandboxGateway {
	return &SandboxGateway{
		secret: []byte(secret),
		orders: make(map[string]*Order),
	}
}

func (g *SandboxGateway) Name() string { return "sandbox" }

func (g *SandboxGateway) CreateOrder(_ context.Context, req OrderRequest) (*Order, error) {
	if req.AmountMinor <= 0 {
		return nil, ErrInvalidAmount
	}

	order := &Order{
		ID:          "order_" + uuid.NewString(),
		AmountMinor: req.AmountMinor,
		Currency:    req.Currency,
		Status:      "created",
		Provider:    g.Name(),
		Prefill:     req.Prefill,
	}

	g.mu.Lock()
	g.orders[order.ID] = order
	g.mu.Unlock()

	return order, nil
}

func (g *SandboxGateway) VerifyPayment(_ context.Context, c Confirmation) (*Transaction, error) {
	g.mu.Lock()
	order, ok := g.orders[c.OrderID]
	g.mu.Unlock()
	if !ok {
		return nil, ErrOrderNotFound
	}

	expected := g.Sign(c.OrderID, c.PaymentID)
	if !hmac.Equal([]byte(expected), []byte(c.Signature)) {
		return nil, ErrSignatureMismatch
	}

	g.mu.Lock()
	order.Status = "paid"
	g.mu.Unlock()

	return &Transaction{
		PaymentID:   c.PaymentID,
		OrderID:     c.OrderID,
		Signature:   c.Signature,
		AmountMinor: order.AmountMinor,
		Currency:    order.Currency,
		Provider:    g.Name(),
	}, nil
}

// Sign produces the signature a successful sandbox checkout would return
func (g *SandboxGateway) Sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
