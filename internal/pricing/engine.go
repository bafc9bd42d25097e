// Package pricing turns a booking selection into a price breakdown. Every
// function here is pure: the same input always yields the same breakdown.
package pricing

import (
	"math"
	"strconv"

	"github.com/svstupireburgh/FeelmeTown-sub000/internal/catalog"
)

// FallbackTheaterPrice is the base price used when the selected theater has no price
const FallbackTheaterPrice = 1399

// ItemCharge is one selected add-on item
type ItemCharge struct {
	Service  string
	ItemID   string
	Name     string
	Price    float64
	Quantity int
}

// Input is everything the engine needs for one computation
type Input struct {
	Theater           *catalog.Theater
	Pricing           catalog.PricingConfig
	Headcount         int
	DecorationEnabled bool
	Items             []ItemCharge

	CouponCode     string
	CouponDiscount float64
	// ManualDiscount only applies in operator mode; callers pass 0 otherwise
	ManualDiscount float64

	// SlotFeeOverride replaces the theater/config slot booking fee (partial payments)
	SlotFeeOverride *float64
	// FallbackBasePrice replaces FallbackTheaterPrice when set
	FallbackBasePrice float64
}

// Line is a single row of the breakdown shown to the customer
type Line struct {
	Kind   string  `json:"kind"` // base, guests, decoration, item, coupon, manual
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// Breakdown is the full computed price of a draft
type Breakdown struct {
	BasePrice         float64 `json:"basePrice"`
	ExtraGuests       int     `json:"extraGuests"`
	ExtraGuestCharges float64 `json:"extraGuestCharges"`
	DecorationCharges float64 `json:"decorationCharges"`
	ItemsTotal        float64 `json:"itemsTotal"`
	Subtotal          float64 `json:"subtotal"`

	CouponCode     string  `json:"couponCode,omitempty"`
	CouponDiscount float64 `json:"couponDiscount"`
	ManualDiscount float64 `json:"manualDiscount"`
	TotalDiscount  float64 `json:"totalDiscount"`
	FinalTotal     float64 `json:"finalTotal"`

	SlotBookingFee float64 `json:"slotBookingFee"`
	AdvancePayment float64 `json:"advancePayment"`
	VenuePayment   float64 `json:"venuePayment"`
	// ConvenienceFee is displayed only; it is not part of FinalTotal
	ConvenienceFee float64 `json:"convenienceFee"`

	Lines []Line `json:"lines"`
}

// Calculate computes the breakdown for in
func Calculate(in Input) Breakdown {
	var b Breakdown

	fallback := in.FallbackBasePrice
	if fallback <= 0 {
		fallback = FallbackTheaterPrice
	}
	b.BasePrice = fallback
	minGuests := 0
	label := "Theater"
	if in.Theater != nil {
		if in.Theater.Price > 0 {
			b.BasePrice = in.Theater.Price
		}
		minGuests = in.Theater.Capacity.Min
		label = in.Theater.Name
	}
	b.Lines = append(b.Lines, Line{Kind: "base", Label: label, Amount: b.BasePrice})

	b.ExtraGuests = max(0, in.Headcount-minGuests)
	b.ExtraGuestCharges = float64(b.ExtraGuests) * nonNegative(in.Pricing.ExtraGuestFee)
	if b.ExtraGuests > 0 {
		b.Lines = append(b.Lines, Line{
			Kind:   "guests",
			Label:  "Extra guests x" + strconv.Itoa(b.ExtraGuests),
			Amount: b.ExtraGuestCharges,
		})
	}

	if in.DecorationEnabled {
		b.DecorationCharges = nonNegative(in.Pricing.DecorationFees)
		b.Lines = append(b.Lines, Line{Kind: "decoration", Label: "Decoration", Amount: b.DecorationCharges})
	}

	for _, it := range in.Items {
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		amount := nonNegative(it.Price) * float64(qty)
		b.ItemsTotal += amount
		b.Lines = append(b.Lines, Line{Kind: "item", Label: it.Name, Amount: amount})
	}

	b.Subtotal = round2(b.BasePrice + b.ExtraGuestCharges + b.DecorationCharges + b.ItemsTotal)

	b.CouponCode = in.CouponCode
	b.CouponDiscount = nonNegative(in.CouponDiscount)
	b.ManualDiscount = nonNegative(in.ManualDiscount)
	b.TotalDiscount = round2(b.CouponDiscount + b.ManualDiscount)
	if b.CouponDiscount > 0 {
		b.Lines = append(b.Lines, Line{Kind: "coupon", Label: "Coupon " + in.CouponCode, Amount: -b.CouponDiscount})
	}
	if b.ManualDiscount > 0 {
		b.Lines = append(b.Lines, Line{Kind: "manual", Label: "Manual discount", Amount: -b.ManualDiscount})
	}
	b.FinalTotal = round2(math.Max(b.Subtotal-b.TotalDiscount, 0))

	b.SlotBookingFee = nonNegative(in.Pricing.SlotBookingFee)
	if in.Theater != nil && in.Theater.SlotBookingFee != nil {
		b.SlotBookingFee = nonNegative(*in.Theater.SlotBookingFee)
	}
	if in.SlotFeeOverride != nil {
		b.SlotBookingFee = nonNegative(*in.SlotFeeOverride)
	}
	b.AdvancePayment, b.VenuePayment = Split(b.FinalTotal, b.SlotBookingFee)
	b.ConvenienceFee = nonNegative(in.Pricing.ConvenienceFee)

	return b
}

// Split divides finalTotal into the advance collected now and the amount paid at the venue.
// The advance never exceeds finalTotal, so both parts are non-negative.
func Split(finalTotal, advance float64) (float64, float64) {
	advance = math.Min(nonNegative(advance), nonNegative(finalTotal))
	return round2(advance), round2(nonNegative(finalTotal) - advance)
}

// CouponEligible reports whether a draft may hold a coupon: decoration must be
// enabled or at least one gifts-category service must be switched on.
func CouponEligible(decorationEnabled bool, enabledServices []string) bool {
	if decorationEnabled {
		return true
	}
	for _, name := range enabledServices {
		if catalog.IsGiftName(name) {
			return true
		}
	}
	return false
}

// FormatRupees renders an amount the way it appears in customer messages: ₹2000, ₹1499.50
func FormatRupees(amount float64) string {
	amount = round2(amount)
	if amount == math.Trunc(amount) {
		return "₹" + strconv.FormatFloat(amount, 'f', 0, 64)
	}
	return "₹" + strconv.FormatFloat(amount, 'f', 2, 64)
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
