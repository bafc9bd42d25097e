package wizard

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/svstupireburgh/FeelmeTown-sub000/internal/bookings"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/payments"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/pricing"
)

// PaymentState is a state of the checkout state machine
type PaymentState string

const (
	StateIdle                 PaymentState = "idle"
	StateValidating           PaymentState = "validating"
	StateOnlineGatewayPending PaymentState = "online_gateway_pending"
	StateManualMethodChoice   PaymentState = "manual_method_choice"
	StatePartialPaymentEntry  PaymentState = "partial_payment_entry"
	StateDirectUpdate         PaymentState = "direct_update"
	StateSubmitting           PaymentState = "submitting"
	StateSuccess              PaymentState = "success"
	StateFailed               PaymentState = "failed"
)

var transitions = map[PaymentState][]PaymentState{
	StateIdle:                 {StateValidating},
	StateValidating:           {StateIdle, StateOnlineGatewayPending, StateManualMethodChoice, StateDirectUpdate},
	StateOnlineGatewayPending: {StateSubmitting, StateIdle},
	StateManualMethodChoice:   {StateSubmitting, StatePartialPaymentEntry, StateIdle},
	StatePartialPaymentEntry:  {StateSubmitting, StateManualMethodChoice, StateIdle},
	StateDirectUpdate:         {StateSubmitting},
	StateSubmitting:           {StateSuccess, StateFailed},
	StateFailed:               {StateIdle},
}

// CanTransition reports whether the machine may move from one state to another
func CanTransition(from, to PaymentState) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ManualMethod is an operator-recorded payment method
type ManualMethod string

const (
	ManualCash    ManualMethod = bookings.PaymentMethodCash
	ManualUPI     ManualMethod = bookings.PaymentMethodUPI
	ManualPartial ManualMethod = bookings.PaymentMethodPartial
)

// Orchestrator is the payment state of one session. It is guarded by the session mutex.
type Orchestrator struct {
	state    PaymentState
	order    *payments.Order
	inFlight bool
	lastErr  *FormValidationError
	result   *Result
}

func newOrchestrator() *Orchestrator {
	return &Orchestrator{state: StateIdle}
}

func (o *Orchestrator) State() PaymentState {
	return o.state
}

func (o *Orchestrator) transition(to PaymentState) error {
	if !CanTransition(o.state, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.state, to)
	}
	o.state = to
	return nil
}

// reset puts the machine back to idle and drops anything pending
func (o *Orchestrator) reset() {
	o.state = StateIdle
	o.order = nil
	o.inFlight = false
}

// paymentInfo is the payment metadata attached to a submission
type paymentInfo struct {
	Method         string
	SlotFee        float64
	Advance        float64
	AmountReceived float64
	Transaction    *payments.Transaction
}

// Result is the terminal success of a session
type Result struct {
	BookingID  string `json:"bookingId"`
	BookingRef string `json:"bookingRef"`
	Editing    bool   `json:"editing"`
}

// PartialPayment validates the operator's partial payment inputs against finalTotal.
// Inputs are raw form values so non-numeric entries are reported like any other mistake.
func PartialPayment(slotFeeInput, receivedInput string, finalTotal float64) (slotFee, received float64, err error) {
	slotFee, ok := parseAmount(slotFeeInput)
	if !ok || slotFee <= 0 {
		return 0, 0, formError("Invalid Slot Booking Fee", "Please enter a valid Slot Booking Fee.")
	}
	if slotFee > finalTotal {
		return 0, 0, formError("Invalid Slot Booking Fee", "Slot Booking Fee cannot be more than Total Amount (%s).", pricing.FormatRupees(finalTotal))
	}

	received, ok = parseAmount(receivedInput)
	if !ok || received <= 0 {
		return 0, 0, formError("Invalid Partial Payment", "Please enter a valid partial payment amount.")
	}
	if received > slotFee {
		return 0, 0, formError("Invalid Partial Payment", "Partial payment cannot be more than Slot Booking Fee (%s).", pricing.FormatRupees(slotFee))
	}
	return slotFee, received, nil
}

func parseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "₹"))
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
