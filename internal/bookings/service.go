package bookings

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/svstupireburgh/FeelmeTown-sub000/internal/shared/constants"
	"github.com/svstupireburgh/FeelmeTown-sub000/pkg/cache"
	"github.com/svstupireburgh/FeelmeTown-sub000/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrSlotUnavailable   = errors.New("the selected time slot is no longer available")
	ErrInvalidSubmission = errors.New("invalid booking submission")
	ErrBookingCancelled  = errors.New("booking is cancelled")
)

// EventPublisher is told about stored bookings (to avoid circular dependency)
type EventPublisher interface {
	BookingCreated(ctx context.Context, booking *Booking) error
	BookingUpdated(ctx context.Context, booking *Booking) error
}

// CouponRedeemer records coupon usage once a booking holds it
type CouponRedeemer interface {
	Redeem(ctx context.Context, code string) error
}

// Service interface defines the contract for booking business logic
type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error)
	Update(ctx context.Context, bookingID uuid.UUID, req SubmitRequest) (*SubmitResult, error)
	GetBooking(ctx context.Context, bookingID uuid.UUID) (*Booking, error)
	BookedSlots(ctx context.Context, date, theaterName string, exclude *uuid.UUID) ([]string, error)
}

type service struct {
	repo     Repository
	cache    cache.Service
	events   EventPublisher
	coupons  CouponRedeemer
	validate *validator.Validate
	log      *logger.Logger
}

// NewService creates a new booking service. cacheSvc, events and coupons may be nil.
func NewService(repo Repository, cacheSvc cache.Service, events EventPublisher, coupons CouponRedeemer) Service {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterStructValidation(validateAmounts, SubmitRequest{})

	return &service{
		repo:     repo,
		cache:    cacheSvc,
		events:   events,
		coupons:  coupons,
		validate: v,
		log:      logger.GetDefault(),
	}
}

// Submit stores a new booking
func (s *service) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
	}

	bookingRef, err := generateBookingReference(time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to generate booking reference: %w", err)
	}

	booking := &Booking{BookingRef: bookingRef, Status: StatusConfirmed}
	applyRequest(booking, req)
	if p := paymentFor(req); p != nil {
		booking.Payments = []Payment{*p}
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, err
	}
	s.invalidateSlots(ctx, booking.Date, booking.TheaterName)
	s.log.LogBookingCreated(ctx, booking.ID.String(), booking.TheaterName, booking.Date, booking.TimeSlot)

	if s.coupons != nil && booking.CouponCode != "" {
		if err := s.coupons.Redeem(ctx, booking.CouponCode); err != nil {
			s.log.ErrorWithContext(ctx, "Failed to redeem coupon", err, map[string]interface{}{
				"booking_id": booking.ID.String(),
			})
		}
	}
	if s.events != nil {
		if err := s.events.BookingCreated(ctx, booking); err != nil {
			s.log.ErrorWithContext(ctx, "Failed to publish booking created", err, nil)
		}
	}

	return &SubmitResult{
		Success:    true,
		BookingID:  booking.ID.String(),
		BookingRef: booking.BookingRef,
		Booking:    booking,
	}, nil
}

// Update resubmits the full draft against an existing booking
func (s *service) Update(ctx context.Context, bookingID uuid.UUID, req SubmitRequest) (*SubmitResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
	}

	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.Status.Editable() {
		return nil, ErrBookingCancelled
	}

	oldDate, oldTheater := booking.Date, booking.TheaterName
	previous := paymentRecordOf(booking)
	applyRequest(booking, req)
	booking.Payments = nil

	// an update that collects nothing keeps the recorded payment
	var newPayments []Payment
	if p := paymentFor(req); p != nil {
		newPayments = append(newPayments, *p)
	} else {
		previous.restore(booking)
	}

	if err := s.repo.Update(ctx, booking, newPayments); err != nil {
		return nil, err
	}
	s.invalidateSlots(ctx, oldDate, oldTheater)
	s.invalidateSlots(ctx, booking.Date, booking.TheaterName)
	s.log.LogBookingUpdated(ctx, booking.ID.String())

	if s.events != nil {
		if err := s.events.BookingUpdated(ctx, booking); err != nil {
			s.log.ErrorWithContext(ctx, "Failed to publish booking updated", err, nil)
		}
	}

	return &SubmitResult{
		Success:    true,
		BookingID:  booking.ID.String(),
		BookingRef: booking.BookingRef,
		Booking:    booking,
	}, nil
}

// GetBooking retrieves a booking by ID
func (s *service) GetBooking(ctx context.Context, bookingID uuid.UUID) (*Booking, error) {
	return s.repo.GetByID(ctx, bookingID)
}

// BookedSlots returns the taken time slots, cached for a few seconds
func (s *service) BookedSlots(ctx context.Context, date, theaterName string, exclude *uuid.UUID) ([]string, error) {
	// the excluded variant is per booking, not worth caching
	if s.cache == nil || exclude != nil {
		return s.bookedSlots(ctx, date, theaterName, exclude)
	}

	var slots []string
	err := s.cache.GetOrSet(ctx, constants.BuildBookedSlotsKey(date, theaterName), constants.TTL_BOOKED_SLOTS,
		func() (interface{}, error) {
			return s.bookedSlots(ctx, date, theaterName, nil)
		}, &slots)
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (s *service) bookedSlots(ctx context.Context, date, theaterName string, exclude *uuid.UUID) ([]string, error) {
	slots, err := s.repo.BookedTimeSlots(ctx, date, theaterName, exclude)
	if err != nil {
		return nil, fmt.Errorf("failed to load booked slots: %w", err)
	}
	if slots == nil {
		slots = []string{}
	}
	return slots, nil
}

func (s *service) invalidateSlots(ctx context.Context, date, theaterName string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, constants.BuildBookedSlotsKey(date, theaterName)); err != nil {
		s.log.WithError(err).Warn("Failed to invalidate booked slots cache", "date", date, "theater", theaterName)
	}
}

// applyRequest copies the submitted draft onto booking
func applyRequest(b *Booking, req SubmitRequest) {
	b.CustomerName = strings.TrimSpace(req.Name)
	b.Phone = strings.TrimSpace(req.Phone)
	b.Email = strings.TrimSpace(req.Email)
	b.TheaterName = req.TheaterName
	b.Date = req.Date
	b.TimeSlot = req.TimeSlot
	b.Headcount = req.NumberOfPeople
	b.Occasion = req.Occasion
	b.OccasionFields = req.OccasionData
	b.DecorationEnabled = req.DecorationEnabled
	b.Services = req.Services
	b.Movie = req.Movie
	if b.Movie != nil {
		b.Movie.Price = 0
	}

	b.Subtotal = req.Subtotal
	b.CouponCode = req.CouponCode
	b.CouponDiscountType = req.CouponDiscountType
	b.CouponDiscountValue = req.CouponDiscountValue
	b.CouponDiscount = req.CouponDiscount
	b.ManualDiscount = req.ManualDiscount
	b.TotalDiscount = req.TotalDiscount
	b.FinalTotal = req.TotalAmount
	b.SlotBookingFee = req.SlotBookingFee
	b.AdvancePayment = req.AdvancePayment
	b.VenuePayment = req.VenuePayment

	b.PaymentMethod = req.PaymentMethod
	b.AmountReceived = req.AmountReceived
	b.PaymentStatus = paymentStatus(req.AdvancePayment, req.AmountReceived)
	b.GatewayProvider = req.GatewayProvider
	b.GatewayOrderID = req.GatewayOrderID
	b.GatewayPaymentID = req.GatewayPaymentID

	b.IsManual = req.IsManualBooking
	if req.CreatedBy != nil {
		b.CreatedBy = req.CreatedBy
	}
}

// paymentRecord is the payment trail stored on a booking
type paymentRecord struct {
	method           string
	amountReceived   float64
	gatewayProvider  string
	gatewayOrderID   string
	gatewayPaymentID string
}

func paymentRecordOf(b *Booking) paymentRecord {
	return paymentRecord{
		method:           b.PaymentMethod,
		amountReceived:   b.AmountReceived,
		gatewayProvider:  b.GatewayProvider,
		gatewayOrderID:   b.GatewayOrderID,
		gatewayPaymentID: b.GatewayPaymentID,
	}
}

func (r paymentRecord) restore(b *Booking) {
	if r.method != "" {
		b.PaymentMethod = r.method
	}
	b.AmountReceived = r.amountReceived
	b.PaymentStatus = paymentStatus(b.AdvancePayment, r.amountReceived)
	b.GatewayProvider = r.gatewayProvider
	b.GatewayOrderID = r.gatewayOrderID
	b.GatewayPaymentID = r.gatewayPaymentID
}

// paymentFor builds the payment record of a submission, nil when nothing was collected
func paymentFor(req SubmitRequest) *Payment {
	if req.PaymentMethod == PaymentMethodNone || req.AmountReceived <= 0 {
		return nil
	}

	p := &Payment{
		Amount:        req.AmountReceived,
		Currency:      "INR",
		PaymentMethod: req.PaymentMethod,
	}
	txID := req.GatewayPaymentID
	if txID == "" {
		txID = generateTransactionID()
	}
	p.MarkCompleted(txID)
	return p
}

func paymentStatus(advance, received float64) string {
	switch {
	case received <= 0:
		return PaymentStatusUnpaid
	case received+0.005 < advance:
		return PaymentStatusPartiallyPaid
	default:
		return PaymentStatusAdvancePaid
	}
}

// validateAmounts checks that the price breakdown adds up
func validateAmounts(sl validator.StructLevel) {
	req := sl.Current().Interface().(SubmitRequest)

	if !closeTo(req.TotalDiscount, req.CouponDiscount+req.ManualDiscount) {
		sl.ReportError(req.TotalDiscount, "TotalDiscount", "totalDiscount", "discount_sum", "")
	}
	if !closeTo(req.TotalAmount, math.Max(req.Subtotal-req.TotalDiscount, 0)) {
		sl.ReportError(req.TotalAmount, "TotalAmount", "totalAmount", "total_matches", "")
	}
	if req.AdvancePayment > req.TotalAmount+0.005 {
		sl.ReportError(req.AdvancePayment, "AdvancePayment", "advancePayment", "advance_within_total", "")
	}
	if !closeTo(req.VenuePayment, req.TotalAmount-req.AdvancePayment) {
		sl.ReportError(req.VenuePayment, "VenuePayment", "venuePayment", "venue_split", "")
	}
	if req.AmountReceived > req.AdvancePayment+0.005 {
		sl.ReportError(req.AmountReceived, "AmountReceived", "amountReceived", "received_within_advance", "")
	}
}

func closeTo(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

// generateBookingReference generates a unique booking reference
func generateBookingReference(now time.Time) (string, error) {
	// Generate 6 random uppercase letters
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	randomPart := make([]byte, 6)

	for i := range randomPart {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		randomPart[i] = letters[num.Int64()]
	}

	return fmt.Sprintf("FMT-%s-%s", now.Format("20060102"), string(randomPart)), nil
}

// generateTransactionID generates an id for manually collected payments
func generateTransactionID() string {
	timestamp := time.Now().Unix()
	shortUUID := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("TXN_%d_%s", timestamp, strings.ToUpper(shortUUID))
}
