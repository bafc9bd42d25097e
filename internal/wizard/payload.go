package wizard

import (
	"sort"

	"github.com/svstupireburgh/FeelmeTown-sub000/internal/bookings"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/catalog"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/pricing"
)

// priceInput collects the pricing engine input of a draft
func priceInput(d *Draft, snap *catalog.Snapshot, operator bool, slotFeeOverride *float64, fallbackPrice float64) pricing.Input {
	in := pricing.Input{
		Pricing:           snap.Pricing,
		Headcount:         d.Headcount,
		DecorationEnabled: d.Decoration(),
		CouponCode:        d.Coupon.Code,
		CouponDiscount:    d.Coupon.Amount,
		SlotFeeOverride:   slotFeeOverride,
		FallbackBasePrice: fallbackPrice,
	}
	if t, ok := snap.Theater(d.TheaterName); ok {
		in.Theater = t
	}
	if operator {
		in.ManualDiscount = d.ManualDiscount
	}

	for _, name := range serviceOrder(d, snap) {
		if !d.ServiceEnabled(name) {
			continue
		}
		for _, it := range d.Items[name] {
			in.Items = append(in.Items, pricing.ItemCharge{
				Service:  name,
				ItemID:   it.ID,
				Name:     it.Name,
				Price:    it.Price,
				Quantity: it.Quantity,
			})
		}
	}
	return in
}

// serviceOrder returns the draft's services in catalog order, then any
// services the catalog no longer lists, sorted by name
func serviceOrder(d *Draft, snap *catalog.Snapshot) []string {
	seen := make(map[string]bool, len(d.Services))
	out := make([]string, 0, len(d.Services))
	for _, svc := range snap.Services {
		if _, ok := d.Services[svc.Name]; ok {
			out = append(out, svc.Name)
			seen[svc.Name] = true
		}
	}

	var rest []string
	for name := range d.Services {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// buildSubmitRequest turns a validated draft into the booking payload.
// Items are normalized to id/name/price/quantity with prices backfilled from
// the catalog; the movie is always free.
func buildSubmitRequest(d *Draft, snap *catalog.Snapshot, b pricing.Breakdown, pi paymentInfo) bookings.SubmitRequest {
	advance, venue := pricing.Split(b.FinalTotal, pi.Advance)

	req := bookings.SubmitRequest{
		Name:              d.Name,
		Phone:             d.Phone,
		Email:             d.Email,
		TheaterName:       d.TheaterName,
		Date:              d.Date,
		TimeSlot:          d.TimeSlot,
		NumberOfPeople:    d.Headcount,
		Occasion:          d.Occasion,
		DecorationEnabled: d.Decoration(),
		Services:          make(map[string]bookings.ServiceSelection, len(d.Services)),

		Subtotal:       b.Subtotal,
		CouponCode:     b.CouponCode,
		CouponDiscount: b.CouponDiscount,
		ManualDiscount: b.ManualDiscount,
		TotalDiscount:  b.TotalDiscount,
		TotalAmount:    b.FinalTotal,
		SlotBookingFee: pi.SlotFee,
		AdvancePayment: advance,
		VenuePayment:   venue,

		PaymentMethod:  pi.Method,
		AmountReceived: pi.AmountReceived,
	}
	if b.CouponCode != "" {
		req.CouponDiscountType = d.Coupon.DiscountType
		req.CouponDiscountValue = d.Coupon.DiscountValue
	}

	if d.Occasion != "" && len(d.OccasionFields) > 0 {
		req.OccasionData = make(map[string]string, len(d.OccasionFields))
		for k, v := range d.OccasionFields {
			req.OccasionData[k] = v
		}
	}

	if d.Movies() && d.Movie != nil {
		req.Movie = &bookings.ServiceItem{ID: d.Movie.ID, Name: d.Movie.Name, Price: 0, Quantity: 1}
	}

	for _, name := range serviceOrder(d, snap) {
		enabled := d.ServiceEnabled(name)
		sel := bookings.ServiceSelection{Enabled: enabled, Items: []bookings.ServiceItem{}}
		if enabled {
			entry, _ := snap.Service(name)
			for _, it := range d.Items[name] {
				sel.Items = append(sel.Items, normalizeItem(it, entry))
			}
		}
		req.Services[name] = sel
	}

	if tx := pi.Transaction; tx != nil {
		req.GatewayProvider = tx.Provider
		req.GatewayOrderID = tx.OrderID
		req.GatewayPaymentID = tx.PaymentID
	}
	return req
}

func normalizeItem(it SelectedItem, entry *catalog.ServiceEntry) bookings.ServiceItem {
	out := bookings.ServiceItem{ID: it.ID, Name: it.Name, Price: it.Price, Quantity: max(it.Quantity, 1)}
	if entry != nil && out.Price <= 0 {
		key := it.ID
		if key == "" {
			key = it.Name
		}
		if ci, ok := entry.FindItem(key); ok {
			out.Price = ci.Price
			if out.Name == "" {
				out.Name = ci.Name
			}
		}
	}
	if out.ID == "" {
		out.ID = out.Name
	}
	return out
}
