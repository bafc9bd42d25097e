package bookings

import (
	"time"

	"github.com/google/uuid"
)

// Payment methods recorded on a booking
const (
	PaymentMethodOnline  = "online"
	PaymentMethodCash    = "cash"
	PaymentMethodUPI     = "upi"
	PaymentMethodPartial = "partial"
	// PaymentMethodNone marks an edit that collected nothing new
	PaymentMethodNone = "none"
)

// Payment states of a booking as a whole
const (
	PaymentStatusAdvancePaid   = "ADVANCE_PAID"
	PaymentStatusPartiallyPaid = "PARTIALLY_PAID"
	PaymentStatusUnpaid        = "UNPAID"
)

// ServiceItem is one selected add-on, normalized to id/name/price/quantity
type ServiceItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// ServiceSelection is the Yes/No choice and the picked items of one catalog service
type ServiceSelection struct {
	Enabled bool          `json:"enabled"`
	Items   []ServiceItem `json:"items"`
}

// CreatorInfo identifies the operator who created a manual booking
type CreatorInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Booking is a reserved theater slot
type Booking struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingRef string    `gorm:"unique;not null" json:"bookingRef"`

	CustomerName string `gorm:"not null" json:"name"`
	Phone        string `gorm:"type:varchar(20);not null" json:"phone"`
	Email        string `gorm:"not null" json:"email"`

	TheaterName string `gorm:"not null;index:idx_bookings_slot" json:"theaterName"`
	Date        string `gorm:"type:varchar(10);not null;index:idx_bookings_slot" json:"date"`
	TimeSlot    string `gorm:"not null;index:idx_bookings_slot" json:"time"`
	Headcount   int    `gorm:"not null" json:"numberOfPeople"`

	Occasion          string                      `json:"occasion"`
	OccasionFields    map[string]string           `gorm:"serializer:json;type:jsonb" json:"occasionData"`
	DecorationEnabled bool                        `json:"decorationEnabled"`
	Services          map[string]ServiceSelection `gorm:"serializer:json;type:jsonb" json:"services"`
	Movie             *ServiceItem                `gorm:"serializer:json;type:jsonb" json:"movie,omitempty"`

	Subtotal       float64 `gorm:"not null" json:"subtotal"`
	CouponCode          string  `json:"couponCode,omitempty"`
	CouponDiscountType  string  `gorm:"type:varchar(20)" json:"couponDiscountType,omitempty"`
	CouponDiscountValue float64 `json:"couponDiscountValue"`
	CouponDiscount      float64 `json:"couponDiscount"`
	ManualDiscount      float64 `json:"manualDiscount"`
	TotalDiscount       float64 `json:"totalDiscount"`
	FinalTotal          float64 `gorm:"not null" json:"totalAmount"`
	SlotBookingFee      float64 `json:"slotBookingFee"`
	AdvancePayment      float64 `json:"advancePayment"`
	VenuePayment        float64 `json:"venuePayment"`

	PaymentMethod    string  `gorm:"type:varchar(20)" json:"paymentMethod"`
	PaymentStatus    string  `gorm:"type:varchar(20)" json:"paymentStatus"`
	AmountReceived   float64 `json:"amountReceived"`
	GatewayProvider  string  `json:"gatewayProvider,omitempty"`
	GatewayOrderID   string  `json:"gatewayOrderId,omitempty"`
	GatewayPaymentID string  `json:"gatewayPaymentId,omitempty"`

	IsManual  bool         `json:"isManualBooking"`
	CreatedBy *CreatorInfo `gorm:"serializer:json;type:jsonb" json:"createdBy,omitempty"`

	Status Status `gorm:"type:varchar(20);check:status IN ('CONFIRMED', 'CANCELLED');default:'CONFIRMED'" json:"status"`
	// Extra keeps flat attributes of bookings imported from the old storefront
	Extra map[string]interface{} `gorm:"serializer:json;type:jsonb" json:"extra,omitempty"`

	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`

	Payments []Payment `json:"payments,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:RESTRICT;"`
}

// Payment defines the structure for payment tracking
type Payment struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID     uuid.UUID  `gorm:"type:uuid;index;not null" json:"bookingId"`
	Amount        float64    `gorm:"not null" json:"amount"`
	Currency      string     `gorm:"type:varchar(3);default:'INR'" json:"currency"`
	Status        string     `gorm:"type:varchar(20);check:status IN ('PENDING', 'COMPLETED', 'FAILED', 'REFUNDED');default:'PENDING'" json:"status"`
	PaymentMethod string     `gorm:"type:varchar(50)" json:"paymentMethod"`
	TransactionID string     `gorm:"unique" json:"transactionId"`
	ProcessedAt   *time.Time `json:"processedAt,omitempty"`
	FailureReason string     `json:"failureReason,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// TableName sets the table name for Payment
func (Payment) TableName() string {
	return "payments"
}

// EnabledServices lists the names of services switched on
func (b *Booking) EnabledServices() []string {
	var names []string
	for name, sel := range b.Services {
		if sel.Enabled {
			names = append(names, name)
		}
	}
	return names
}

func (p *Payment) IsCompleted() bool {
	return p.Status == "COMPLETED"
}

func (p *Payment) MarkCompleted(transactionID string) {
	p.Status = "COMPLETED"
	p.TransactionID = transactionID
	now := time.Now()
	p.ProcessedAt = &now
	p.UpdatedAt = now
}

func (p *Payment) MarkFailed(reason string) {
	p.Status = "FAILED"
	p.FailureReason = reason
	now := time.Now()
	p.ProcessedAt = &now
	p.UpdatedAt = now
}
