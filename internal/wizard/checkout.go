package wizard

import (
	"context"
	"errors"
	"math"

	"github.com/svstupireburgh/FeelmeTown-sub000/internal/bookings"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/payments"
)

// Checkout runs the final validation and dispatches to the completion path:
// edits are resubmitted directly, operators choose a manual method, customers
// pay the advance online.
func (s *Session) Checkout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if err := s.transitionLocked(ctx, StateValidating); err != nil {
		return err
	}
	s.pay.lastErr = nil

	if err := ValidateFinal(s.draft, s.snap); err != nil {
		s.mustTransition(ctx, StateIdle)
		var fe *FormValidationError
		if errors.As(err, &fe) {
			s.pay.lastErr = fe
		}
		return err
	}
	if containsFold(s.bookedSlots, s.draft.TimeSlot) {
		s.mustTransition(ctx, StateIdle)
		s.pay.lastErr = formError("Time Slot Unavailable", "%s is already booked. Please choose another time slot.", s.draft.TimeSlot)
		return &ConflictError{TimeSlot: s.draft.TimeSlot}
	}

	switch {
	case s.Editing():
		s.mustTransition(ctx, StateDirectUpdate)
		return s.submitLocked(ctx, s.directUpdatePayment())
	case s.isOperator():
		s.mustTransition(ctx, StateManualMethodChoice)
		return nil
	default:
		s.mustTransition(ctx, StateOnlineGatewayPending)
		return s.startGatewayLocked(ctx)
	}
}

// directUpdatePayment keeps the advance recorded on the booking, bounded by the new total
func (s *Session) directUpdatePayment() paymentInfo {
	b := s.breakdownLocked()
	advance := b.AdvancePayment
	if s.recordedAdvance > 0 {
		advance = math.Min(s.recordedAdvance, b.FinalTotal)
	}
	return paymentInfo{Method: bookings.PaymentMethodNone, SlotFee: b.SlotBookingFee, Advance: advance}
}

func (s *Session) startGatewayLocked(ctx context.Context) error {
	b := s.breakdownLocked()
	if b.AdvancePayment <= 0 {
		return s.submitLocked(ctx, paymentInfo{Method: bookings.PaymentMethodNone, SlotFee: b.SlotBookingFee})
	}

	// a payment that went through before a failed submission is reused on retry
	if tx := s.paidTx; tx != nil && tx.AmountMinor >= payments.ToMinorUnits(b.AdvancePayment) {
		return s.submitLocked(ctx, s.onlinePayment(tx))
	}

	req := payments.OrderRequest{
		AmountMinor: payments.ToMinorUnits(b.AdvancePayment),
		Currency:    s.deps.Currency,
		Receipt:     s.ID,
		Description: "Slot booking at " + s.draft.TheaterName,
		Prefill:     payments.Prefill{Name: s.draft.Name, Email: s.draft.Email, Phone: s.draft.Phone},
		Metadata: map[string]string{
			"session_id": s.ID,
			"theater":    s.draft.TheaterName,
			"date":       s.draft.Date,
			"time_slot":  s.draft.TimeSlot,
		},
	}

	gen := s.payGen
	var (
		order *payments.Order
		err   error
	)
	s.withoutLock(func() {
		order, err = s.deps.Payments.CreateOrder(ctx, req)
	})
	if s.closed || gen != s.payGen {
		return ErrSessionClosed
	}
	if err != nil {
		return s.gatewayFailed(ctx, "create_order", err, "Could not start the payment, please try again.")
	}

	s.pay.order = order
	return nil
}

// ConfirmGatewayPayment verifies the gateway success callback and submits the booking
func (s *Session) ConfirmGatewayPayment(ctx context.Context, c payments.Confirmation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.pay.state != StateOnlineGatewayPending || s.pay.order == nil {
		return ErrInvalidTransition
	}
	if c.OrderID != s.pay.order.ID {
		return s.gatewayFailed(ctx, "verify", payments.ErrOrderNotFound, "The payment does not belong to this booking.")
	}

	gen := s.payGen
	var (
		tx  *payments.Transaction
		err error
	)
	s.withoutLock(func() {
		tx, err = s.deps.Payments.VerifyPayment(ctx, c)
	})
	if s.closed || gen != s.payGen {
		return ErrSessionClosed
	}
	if err != nil {
		return s.gatewayFailed(ctx, "verify", err, "We could not confirm your payment. If money was deducted it will be refunded.")
	}

	s.paidTx = tx
	return s.submitLocked(ctx, s.onlinePayment(tx))
}

func (s *Session) onlinePayment(tx *payments.Transaction) paymentInfo {
	b := s.breakdownLocked()
	return paymentInfo{
		Method:         bookings.PaymentMethodOnline,
		SlotFee:        b.SlotBookingFee,
		Advance:        b.AdvancePayment,
		AmountReceived: math.Min(tx.Amount(), b.AdvancePayment),
		Transaction:    tx,
	}
}

// DismissGateway records that the customer closed the checkout without paying
func (s *Session) DismissGateway(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.pay.state != StateOnlineGatewayPending {
		return ErrInvalidTransition
	}
	s.payGen++
	s.pay.order = nil
	s.mustTransition(ctx, StateIdle)
	s.pay.lastErr = formError("Payment Cancelled", "The payment window was closed before the payment completed.")
	return nil
}

// ChooseManualPayment records the operator's payment method. Cash and UPI
// submit at once with the slot booking fee as advance; partial asks for amounts.
func (s *Session) ChooseManualPayment(ctx context.Context, method ManualMethod) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.pay.state != StateManualMethodChoice {
		return ErrInvalidTransition
	}

	switch method {
	case ManualCash, ManualUPI:
		b := s.breakdownLocked()
		return s.submitLocked(ctx, paymentInfo{
			Method:         string(method),
			SlotFee:        b.SlotBookingFee,
			Advance:        b.AdvancePayment,
			AmountReceived: b.AdvancePayment,
		})
	case ManualPartial:
		s.mustTransition(ctx, StatePartialPaymentEntry)
		return nil
	default:
		return formError("Invalid Payment Method", "Please choose cash, UPI or partial payment.")
	}
}

// SubmitPartialPayment validates the operator's slot fee and received amount and submits
func (s *Session) SubmitPartialPayment(ctx context.Context, slotFeeInput, receivedInput string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.pay.state != StatePartialPaymentEntry {
		return ErrInvalidTransition
	}

	b := s.breakdownLocked()
	fee, received, err := PartialPayment(slotFeeInput, receivedInput, b.FinalTotal)
	if err != nil {
		var fe *FormValidationError
		if errors.As(err, &fe) {
			s.pay.lastErr = fe
		}
		return err
	}

	s.slotFeeOverride = &fee
	return s.submitLocked(ctx, paymentInfo{
		Method:         bookings.PaymentMethodPartial,
		SlotFee:        fee,
		Advance:        fee,
		AmountReceived: received,
	})
}

// CancelPayment steps back out of the checkout: from partial entry to the
// method choice, from anywhere else pending to idle.
func (s *Session) CancelPayment(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	switch s.pay.state {
	case StatePartialPaymentEntry:
		s.mustTransition(ctx, StateManualMethodChoice)
	case StateManualMethodChoice:
		s.mustTransition(ctx, StateIdle)
	case StateOnlineGatewayPending:
		s.payGen++
		s.pay.order = nil
		s.mustTransition(ctx, StateIdle)
	default:
		return ErrInvalidTransition
	}
	return nil
}

// submitLocked stores the booking. The lock is released during the call and a
// result arriving after Close is dropped.
func (s *Session) submitLocked(ctx context.Context, pi paymentInfo) error {
	if s.pay.inFlight {
		return ErrSubmissionInFlight
	}
	if err := s.transitionLocked(ctx, StateSubmitting); err != nil {
		return err
	}
	s.pay.inFlight = true

	req := buildSubmitRequest(s.draft, s.snap, s.breakdownLocked(), pi)
	if s.isOperator() {
		req.IsManualBooking = true
		req.CreatedBy = s.operator
	}
	editingID := s.editingID
	gen := s.payGen

	var (
		result *bookings.SubmitResult
		err    error
	)
	s.withoutLock(func() {
		// the booking must not be half-stored because the client went away
		sctx := context.WithoutCancel(ctx)
		if editingID != nil {
			result, err = s.deps.Bookings.Update(sctx, *editingID, req)
		} else {
			result, err = s.deps.Bookings.Submit(sctx, req)
		}
	})
	if s.closed || gen != s.payGen {
		return ErrSessionClosed
	}
	s.pay.inFlight = false

	if err != nil {
		s.deps.Log.LogPaymentFailed(ctx, s.ID, "submit", err)
		s.mustTransition(ctx, StateFailed)
		s.mustTransition(ctx, StateIdle)
		return s.submissionFailed(err)
	}

	s.mustTransition(ctx, StateSuccess)
	s.success = true
	s.paidTx = nil
	s.pay.result = &Result{BookingID: result.BookingID, BookingRef: result.BookingRef, Editing: s.Editing()}
	s.notice = &Notice{Kind: "info", Title: "Booking Confirmed", Message: "Your booking reference is " + result.BookingRef + "."}
	if s.Editing() {
		s.notice = &Notice{Kind: "info", Title: "Booking Updated", Message: "Booking " + result.BookingRef + " was updated."}
	}
	return nil
}

func (s *Session) submissionFailed(err error) error {
	if errors.Is(err, bookings.ErrSlotUnavailable) {
		if !containsFold(s.bookedSlots, s.draft.TimeSlot) {
			s.bookedSlots = append(s.bookedSlots, s.draft.TimeSlot)
		}
		s.pay.lastErr = formError("Time Slot Unavailable", "%s was just booked by someone else. Please choose another time slot.", s.draft.TimeSlot)
		return &ConflictError{TimeSlot: s.draft.TimeSlot, Err: err}
	}

	msg := "Could not save your booking, please try again."
	if errors.Is(err, bookings.ErrInvalidSubmission) || errors.Is(err, bookings.ErrBookingCancelled) {
		msg = err.Error()
	}
	s.pay.lastErr = formError("Booking Failed", "%s", msg)
	return &SubmissionError{Err: err}
}

func (s *Session) gatewayFailed(ctx context.Context, stage string, err error, message string) error {
	s.deps.Log.LogPaymentFailed(ctx, s.ID, stage, err)
	s.payGen++
	s.pay.order = nil
	s.mustTransition(ctx, StateIdle)
	s.pay.lastErr = formError("Payment Failed", "%s", message)
	return &PaymentGatewayError{Stage: stage, Err: err}
}

func (s *Session) transitionLocked(ctx context.Context, to PaymentState) error {
	from := s.pay.state
	if err := s.pay.transition(to); err != nil {
		return err
	}
	s.deps.Log.LogPaymentTransition(ctx, s.ID, string(from), string(to))
	return nil
}

// mustTransition is used where the current state is known to allow to
func (s *Session) mustTransition(ctx context.Context, to PaymentState) {
	if err := s.transitionLocked(ctx, to); err != nil {
		s.deps.Log.ErrorWithContext(ctx, "Unexpected payment transition", err, map[string]interface{}{
			"session_id": s.ID,
		})
		s.pay.state = to
	}
}
