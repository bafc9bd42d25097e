package wizard

import (
	"context"
	"fmt"
	"testing"

	"github.com/svstupireburgh/FeelmeTown-sub000/internal/bookings"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/payments"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readyWithGift leaves a customer draft that passes final validation: no
// decoration, one gift, total ₹1898
func readyWithGift(t *testing.T, s *Session) {
	t.Helper()
	fillContact(t, s)
	require.NoError(t, s.SetService("Gifts", true))
	_, err := s.ToggleItem("Gifts", "g1")
	require.NoError(t, err)
}

func TestCheckout_OnlinePayment(t *testing.T) {
	env := newTestEnv(t)
	s := env.open(t)
	readyWithGift(t, s)

	require.NoError(t, s.Checkout(context.Background()))
	v := s.View()
	assert.Equal(t, StateOnlineGatewayPending, v.Payment.State)
	require.NotNil(t, v.Payment.Order)
	assert.Equal(t, int64(60000), v.Payment.Order.AmountMinor, "the slot booking fee is collected online")
	assert.Equal(t, "Asha Rao", v.Payment.Order.Prefill.Name)

	// edits are locked while the gateway is open
	assert.ErrorIs(t, s.IncrementHeadcount(), ErrInvalidTransition)

	orderID := v.Payment.Order.ID
	err := s.ConfirmGatewayPayment(context.Background(), payments.Confirmation{
		OrderID:   orderID,
		PaymentID: "pay_1",
		Signature: env.gateway.Sign(orderID, "pay_1"),
	})
	require.NoError(t, err)

	v = s.View()
	assert.Equal(t, StateSuccess, v.Payment.State)
	require.NotNil(t, v.Payment.Result)
	assert.Equal(t, "FMT-0001", v.Payment.Result.BookingRef)
	assert.Equal(t, "Booking Confirmed", v.Notice.Title)

	req := env.bookings.lastSubmitted(t)
	assert.Equal(t, bookings.PaymentMethodOnline, req.PaymentMethod)
	assert.Equal(t, 1898.0, req.TotalAmount)
	assert.Equal(t, 600.0, req.AdvancePayment)
	assert.Equal(t, 1298.0, req.VenuePayment)
	assert.Equal(t, 600.0, req.AmountReceived)
	assert.Equal(t, "pay_1", req.GatewayPaymentID)
	assert.Equal(t, orderID, req.GatewayOrderID)
	assert.False(t, req.IsManualBooking)
	assert.Equal(t, bookings.ServiceSelection{Enabled: true, Items: []bookings.ServiceItem{{ID: "g1", Name: "Rose Bouquet", Price: 499, Quantity: 1}}}, req.Services["Gifts"])
	assert.Equal(t, bookings.ServiceSelection{Enabled: false, Items: []bookings.ServiceItem{}}, req.Services["Decoration Extras"])

	assert.ErrorIs(t, s.Checkout(context.Background()), ErrInvalidTransition, "a finished session cannot check out again")
}

func TestCheckout_ValidationFailureReturnsToIdle(t *testing.T) {
	env := newTestEnv(t)
	s := env.open(t)
	fillContact(t, s)
	require.NoError(t, s.Patch(DraftPatch{AgreedToTerms: boolPtr(false)}))

	err := s.Checkout(context.Background())
	var fe *FormValidationError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Terms Not Accepted", fe.Title)

	v := s.View()
	assert.Equal(t, StateIdle, v.Payment.State)
	assert.Equal(t, fe, v.Payment.Error)
}

func TestCheckout_GatewayDismissedAndRejected(t *testing.T) {
	env := newTestEnv(t)
	s := env.open(t)
	readyWithGift(t, s)

	require.NoError(t, s.Checkout(context.Background()))
	require.NoError(t, s.DismissGateway(context.Background()))
	v := s.View()
	assert.Equal(t, StateIdle, v.Payment.State)
	assert.Nil(t, v.Payment.Order)
	assert.Equal(t, "Payment Cancelled", v.Payment.Error.Title)

	require.NoError(t, s.Checkout(context.Background()))
	order := s.View().Payment.Order
	err := s.ConfirmGatewayPayment(context.Background(), payments.Confirmation{OrderID: order.ID, PaymentID: "pay_2", Signature: "forged"})
	var ge *PaymentGatewayError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, "verify", ge.Stage)
	assert.ErrorIs(t, err, payments.ErrSignatureMismatch)
	assert.Equal(t, StateIdle, s.PaymentState())
	assert.Empty(t, env.bookings.submitted)
}

func TestCheckout_OperatorCash(t *testing.T) {
	env := newTestEnv(t)
	s := env.openOperator(t)
	readyWithGift(t, s)
	require.NoError(t, s.SetManualDiscount(98))

	require.NoError(t, s.Checkout(context.Background()))
	assert.Equal(t, StateManualMethodChoice, s.PaymentState())

	err := s.ChooseManualPayment(context.Background(), ManualMethod("card"))
	var fe *FormValidationError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Invalid Payment Method", fe.Title)

	require.NoError(t, s.ChooseManualPayment(context.Background(), ManualCash))
	assert.Equal(t, StateSuccess, s.PaymentState())

	req := env.bookings.lastSubmitted(t)
	assert.Equal(t, bookings.PaymentMethodCash, req.PaymentMethod)
	assert.Equal(t, 1800.0, req.TotalAmount)
	assert.Equal(t, 98.0, req.ManualDiscount)
	assert.Equal(t, 600.0, req.AmountReceived)
	assert.True(t, req.IsManualBooking)
	require.NotNil(t, req.CreatedBy)
	assert.Equal(t, "staff-1", req.CreatedBy.ID)
}

func TestCheckout_OperatorPartial(t *testing.T) {
	env := newTestEnv(t)
	s := env.openOperator(t)
	readyWithGift(t, s)
	require.NoError(t, s.SetManualDiscount(102))

	require.NoError(t, s.Checkout(context.Background()))
	require.NoError(t, s.ChooseManualPayment(context.Background(), ManualPartial))
	assert.Equal(t, StatePartialPaymentEntry, s.PaymentState())

	err := s.SubmitPartialPayment(context.Background(), "2500", "100")
	var fe *FormValidationError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Slot Booking Fee cannot be more than Total Amount (₹1796).", fe.Message)
	assert.Equal(t, StatePartialPaymentEntry, s.PaymentState(), "the operator can correct the amounts")

	require.NoError(t, s.CancelPayment(context.Background()))
	assert.Equal(t, StateManualMethodChoice, s.PaymentState())
	require.NoError(t, s.ChooseManualPayment(context.Background(), ManualPartial))

	require.NoError(t, s.SubmitPartialPayment(context.Background(), "1000", "400"))
	req := env.bookings.lastSubmitted(t)
	assert.Equal(t, bookings.PaymentMethodPartial, req.PaymentMethod)
	assert.Equal(t, 1000.0, req.SlotBookingFee)
	assert.Equal(t, 1000.0, req.AdvancePayment)
	assert.Equal(t, 796.0, req.VenuePayment)
	assert.Equal(t, 400.0, req.AmountReceived)
	assert.Equal(t, 1000.0, s.Breakdown().SlotBookingFee, "the entered fee replaces the configured one")
}

func TestCheckout_SlotTakenDuringSubmit(t *testing.T) {
	env := newTestEnv(t)
	s := env.openOperator(t)
	readyWithGift(t, s)
	env.bookings.submitErr = fmt.Errorf("%w: %s", bookings.ErrSlotUnavailable, testSlot)

	require.NoError(t, s.Checkout(context.Background()))
	err := s.ChooseManualPayment(context.Background(), ManualUPI)
	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, testSlot, ce.TimeSlot)

	v := s.View()
	assert.Equal(t, StateIdle, v.Payment.State)
	assert.Equal(t, "Time Slot Unavailable", v.Payment.Error.Title)
	assert.Contains(t, v.BookedSlots, testSlot)

	// the draft is kept; checking out again stops before any submission
	err = s.Checkout(context.Background())
	require.ErrorAs(t, err, &ce)

	env.bookings.submitErr = nil
	require.NoError(t, s.Patch(DraftPatch{TimeSlot: strPtr("8:30 PM - 11:30 PM")}))
	require.NoError(t, s.Checkout(context.Background()))
	require.NoError(t, s.ChooseManualPayment(context.Background(), ManualUPI))
	assert.Equal(t, "8:30 PM - 11:30 PM", env.bookings.lastSubmitted(t).TimeSlot)
}

func TestCheckout_SubmissionFailureKeepsPayment(t *testing.T) {
	env := newTestEnv(t)
	s := env.open(t)
	readyWithGift(t, s)
	env.bookings.submitErr = fmt.Errorf("%w: database unavailable", bookings.ErrInvalidSubmission)

	require.NoError(t, s.Checkout(context.Background()))
	order := s.View().Payment.Order
	err := s.ConfirmGatewayPayment(context.Background(), payments.Confirmation{
		OrderID: order.ID, PaymentID: "pay_3", Signature: env.gateway.Sign(order.ID, "pay_3"),
	})
	var se *SubmissionError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Booking Failed", s.View().Payment.Error.Title)

	// retrying reuses the captured payment instead of charging again
	env.bookings.submitErr = nil
	require.NoError(t, s.Checkout(context.Background()))
	assert.Equal(t, StateSuccess, s.PaymentState())
	assert.Equal(t, "pay_3", env.bookings.lastSubmitted(t).GatewayPaymentID)
}

func TestCheckout_EditUpdatesDirectly(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.New()
	env.bookings.existing[id] = storedBooking(id)

	s, err := env.manager.Open(context.Background(), OpenRequest{
		EditBookingID: &id,
		Operator:      &bookings.CreatorInfo{ID: "admin-1", Role: "ADMIN"},
	})
	require.NoError(t, err)
	require.NoError(t, s.IncrementHeadcount())

	require.NoError(t, s.Checkout(context.Background()))
	assert.Equal(t, StateSuccess, s.PaymentState())

	req, ok := env.bookings.updated[id]
	require.True(t, ok)
	assert.Empty(t, env.bookings.submitted)
	assert.Equal(t, bookings.PaymentMethodNone, req.PaymentMethod)
	assert.Equal(t, 4, req.NumberOfPeople)
	assert.Equal(t, 600.0, req.AdvancePayment, "the recorded advance is kept")
	assert.Equal(t, "Booking Updated", s.View().Notice.Title)
}
