package wizard

import (
	"encoding/json"
	"strings"
	"unicode"

	"github.com/svstupireburgh/FeelmeTown-sub000/internal/bookings"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/catalog"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/coupons"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/pricing"
)

// ImportSnapshot rebuilds a draft from a stored booking. Bookings written by the
// old storefront keep occasion details as flat label keys and service items as
// selected<Service> arrays in Extra; both are folded into the typed draft here,
// so the rest of the wizard only sees normalized keys.
func ImportSnapshot(b *bookings.Booking, snap *catalog.Snapshot) *Draft {
	d := NewDraft(SessionContext{TheaterName: b.TheaterName, Date: b.Date, TimeSlot: b.TimeSlot})
	d.Name = b.CustomerName
	d.Phone = b.Phone
	d.Email = b.Email
	d.Headcount = b.Headcount
	d.Occasion = b.Occasion
	d.ManualDiscount = b.ManualDiscount
	d.AgreedToTerms = true

	d.OccasionFields = importOccasionFields(b, snap)
	legacyMovie := importServices(d, b, snap)

	// the decoration flag wins over whatever the bundled services recorded
	syncDecoration(d, snap, b.DecorationEnabled)

	if b.CouponCode != "" && pricing.CouponEligible(d.Decoration(), d.EnabledServices()) {
		d.Coupon = importCoupon(b)
	}

	movie := b.Movie
	if movie == nil {
		movie = legacyMovie
	}
	d.MoviesEnabled = boolPtr(movie != nil)
	if movie != nil {
		d.Movie = &SelectedItem{ID: movie.ID, Name: movie.Name, Quantity: 1}
	}
	return d
}

// importCoupon restores the coupon of a booking. Bookings stored before the
// discount type was recorded keep their discount as a fixed amount.
func importCoupon(b *bookings.Booking) CouponState {
	c := CouponState{
		Code:          b.CouponCode,
		DiscountType:  b.CouponDiscountType,
		DiscountValue: b.CouponDiscountValue,
		Amount:        b.CouponDiscount,
	}
	if c.DiscountType == "" {
		c.DiscountType = string(coupons.DiscountFixed)
		c.DiscountValue = b.CouponDiscount
	}
	return c
}

func importOccasionFields(b *bookings.Booking, snap *catalog.Snapshot) map[string]string {
	fields := map[string]string{}

	// labels of the booked occasion, in the order the occasion asks for them
	var labels []fieldLabel
	if occ, ok := snap.Occasion(b.Occasion); ok {
		for _, key := range occ.RequiredFields {
			labels = append(labels, fieldLabel{key: key, label: occ.Label(key)})
		}
	}

	for key, raw := range b.Extra {
		value, ok := raw.(string)
		if !ok || bookings.IsSelectedKey(key) {
			continue
		}
		if fieldKey, ok := matchLabel(key, labels); ok {
			fields[fieldKey] = value
		}
	}

	// the structured map overrides flat keys
	for k, v := range b.OccasionFields {
		fields[k] = v
	}
	return fields
}

type fieldLabel struct {
	key   string
	label string
}

// matchLabel resolves a flat key written as a full label ("Birthday Person Name"),
// ending with one ("Birthday Party - Birthday Person Name") or already in its
// camelCase form. The longest matching label wins, so "Partner Name" is not
// claimed by a "Name" field.
func matchLabel(key string, labels []fieldLabel) (string, bool) {
	for _, l := range labels {
		if strings.EqualFold(key, l.label) {
			return l.key, true
		}
	}

	best := -1
	for i, l := range labels {
		if hasSuffixFold(key, l.label) && (best < 0 || len(l.label) > len(labels[best].label)) {
			best = i
		}
	}
	if best >= 0 {
		return labels[best].key, true
	}

	camel := CamelCaseKey(key)
	for _, l := range labels {
		if strings.EqualFold(camel, l.key) || CamelCaseKey(l.label) == camel {
			return l.key, true
		}
	}
	return "", false
}

// CamelCaseKey turns a display label into a field key: the first word is
// lower-cased, later words are capitalized, spaces are removed.
func CamelCaseKey(label string) string {
	words := strings.FieldsFunc(label, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var b strings.Builder
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		if i > 0 {
			runes[0] = unicode.ToUpper(runes[0])
		}
		b.WriteString(string(runes))
	}
	return b.String()
}

func hasSuffixFold(s, suffix string) bool {
	return len(s) > len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix)
}

// importServices fills the Yes/No flags and items. Old bookings kept the movie
// among the flat arrays; it is returned when found there.
func importServices(d *Draft, b *bookings.Booking, snap *catalog.Snapshot) *bookings.ServiceItem {
	var movie *bookings.ServiceItem
	for name, sel := range b.Services {
		canonical := name
		entry, ok := snap.Service(name)
		if ok {
			canonical = entry.Name
		}
		importSelection(d, canonical, entry, sel.Enabled, sel.Items)
	}

	// flat selected<Service> arrays of the old storefront
	for key, raw := range b.Extra {
		if !bookings.IsSelectedKey(key) {
			continue
		}
		var items []bookings.ServiceItem
		data, err := json.Marshal(raw)
		if err != nil || json.Unmarshal(data, &items) != nil {
			continue
		}

		name, entry := serviceForKey(key, snap)
		if entry != nil && entry.IsMovies() {
			if len(items) > 0 {
				movie = &items[0]
			}
			continue
		}
		if _, done := d.Services[name]; done {
			continue
		}
		importSelection(d, name, entry, len(items) > 0, items)
	}
	return movie
}

func importSelection(d *Draft, name string, entry *catalog.ServiceEntry, enabled bool, items []bookings.ServiceItem) {
	if !enabled {
		d.Services[name] = No
		return
	}
	d.Services[name] = Yes

	selected := make([]SelectedItem, 0, len(items))
	for _, it := range items {
		si := SelectedItem{ID: it.ID, Name: it.Name, Price: it.Price, Quantity: max(it.Quantity, 1)}
		if entry != nil {
			key := it.ID
			if key == "" {
				key = it.Name
			}
			if ci, ok := entry.FindItem(key); ok {
				si.ID = ci.ID
				if si.Price <= 0 {
					si.Price = ci.Price
				}
				if si.Name == "" {
					si.Name = ci.Name
				}
			}
		}
		if si.ID == "" {
			si.ID = si.Name
		}
		selected = append(selected, si)
	}
	d.setItems(name, selected)
}

// serviceForKey finds the catalog service whose flat key is key
func serviceForKey(key string, snap *catalog.Snapshot) (string, *catalog.ServiceEntry) {
	for i := range snap.Services {
		if bookings.SelectedKey(snap.Services[i].Name) == key {
			return snap.Services[i].Name, &snap.Services[i]
		}
	}
	return strings.TrimPrefix(key, bookings.SelectedPrefix), nil
}
