package bookings

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode"

	"github.com/svstupireburgh/FeelmeTown-sub000/internal/catalog"
)

// SelectedPrefix starts every flat per-service item key of the submission payload
const SelectedPrefix = "selected"

// legacy payloads carried the movie as a service list
var movieKeys = map[string]bool{"selectedMovie": true, "selectedMovies": true}

// SubmitRequest is the flat booking payload. Service selections travel as one
// "selected<Service>" array per service plus a serviceFlags Yes/No map.
type SubmitRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Phone string `json:"phone" binding:"required,max=20"`
	Email string `json:"email" binding:"required,email"`

	TheaterName    string `json:"theaterName" binding:"required"`
	Date           string `json:"date" binding:"required,datetime=2006-01-02"`
	TimeSlot       string `json:"time" binding:"required"`
	NumberOfPeople int    `json:"numberOfPeople" binding:"gte=1,lte=50"`

	Occasion          string            `json:"occasion"`
	OccasionData      map[string]string `json:"occasionData,omitempty"`
	DecorationEnabled bool              `json:"decorationEnabled"`
	Movie             *ServiceItem      `json:"movie,omitempty"`

	Services map[string]ServiceSelection `json:"-"`

	Subtotal       float64 `json:"subtotal" binding:"gte=0"`
	CouponCode          string  `json:"couponCode,omitempty"`
	CouponDiscountType  string  `json:"couponDiscountType,omitempty" binding:"omitempty,oneof=percentage fixed"`
	CouponDiscountValue float64 `json:"couponDiscountValue" binding:"gte=0"`
	CouponDiscount      float64 `json:"couponDiscount" binding:"gte=0"`
	ManualDiscount      float64 `json:"manualDiscount" binding:"gte=0"`
	TotalDiscount       float64 `json:"totalDiscount" binding:"gte=0"`
	TotalAmount         float64 `json:"totalAmount" binding:"gte=0"`
	SlotBookingFee      float64 `json:"slotBookingFee" binding:"gte=0"`
	AdvancePayment      float64 `json:"advancePayment" binding:"gte=0"`
	VenuePayment        float64 `json:"venuePayment" binding:"gte=0"`

	PaymentMethod    string  `json:"paymentMethod" binding:"required,oneof=online cash upi partial none"`
	AmountReceived   float64 `json:"amountReceived" binding:"gte=0"`
	GatewayProvider  string  `json:"gatewayProvider,omitempty"`
	GatewayOrderID   string  `json:"gatewayOrderId,omitempty"`
	GatewayPaymentID string  `json:"gatewayPaymentId,omitempty" binding:"required_if=PaymentMethod online"`

	IsManualBooking bool         `json:"isManualBooking"`
	CreatedBy       *CreatorInfo `json:"createdBy,omitempty"`
}

type submitAlias SubmitRequest

// MarshalJSON flattens Services into selected<Service> keys
func (r SubmitRequest) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(submitAlias(r))
	if err != nil {
		return nil, err
	}

	flat := make(map[string]json.RawMessage)
	if err := json.Unmarshal(base, &flat); err != nil {
		return nil, err
	}

	flags := make(map[string]string, len(r.Services))
	for name, sel := range r.Services {
		items := sel.Items
		if items == nil {
			items = []ServiceItem{}
		}
		raw, err := json.Marshal(items)
		if err != nil {
			return nil, err
		}
		flat[SelectedKey(name)] = raw
		flags[name] = yesNo(sel.Enabled)
	}

	rawFlags, err := json.Marshal(flags)
	if err != nil {
		return nil, err
	}
	flat["serviceFlags"] = rawFlags

	return json.Marshal(flat)
}

// UnmarshalJSON rebuilds Services from selected<Service> keys. A service without
// an explicit flag counts as enabled when it has items.
func (r *SubmitRequest) UnmarshalJSON(data []byte) error {
	var base submitAlias
	if err := json.Unmarshal(data, &base); err != nil {
		return err
	}

	var flat map[string]json.RawMessage
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}

	var flags map[string]string
	if raw, ok := flat["serviceFlags"]; ok {
		if err := json.Unmarshal(raw, &flags); err != nil {
			return err
		}
	}

	// flag names carry the original spelling of the service
	names := make(map[string]string, len(flags))
	for name := range flags {
		names[SelectedKey(name)] = name
	}

	base.Services = make(map[string]ServiceSelection)
	for key, raw := range flat {
		if !IsSelectedKey(key) {
			continue
		}

		var items []ServiceItem
		if err := json.Unmarshal(raw, &items); err != nil {
			return err
		}

		if movieKeys[key] {
			if base.Movie == nil && len(items) > 0 {
				movie := items[0]
				movie.Price = 0
				base.Movie = &movie
			}
			continue
		}

		name, ok := names[key]
		if !ok {
			name = strings.TrimPrefix(key, SelectedPrefix)
		}
		enabled := len(items) > 0
		if flag, ok := flags[name]; ok {
			enabled = IsYes(flag)
		}
		base.Services[name] = ServiceSelection{Enabled: enabled, Items: items}
	}

	// a flag without an item list is still a Yes/No choice
	for name, flag := range flags {
		if _, ok := base.Services[name]; !ok {
			base.Services[name] = ServiceSelection{Enabled: IsYes(flag), Items: []ServiceItem{}}
		}
	}

	*r = SubmitRequest(base)
	return nil
}

// UnmarshalJSON accepts a plain item name or any catalog item shape
func (i *ServiceItem) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] == '"' {
		var name string
		if err := json.Unmarshal(trimmed, &name); err != nil {
			return err
		}
		*i = ServiceItem{ID: name, Name: name, Quantity: 1}
		return nil
	}

	var item catalog.Item
	if err := json.Unmarshal(trimmed, &item); err != nil {
		return err
	}
	var extra struct {
		Quantity int `json:"quantity"`
	}
	if err := json.Unmarshal(trimmed, &extra); err != nil {
		return err
	}

	*i = ServiceItem{
		ID:       item.ID,
		Name:     item.Name,
		Price:    item.Price,
		Quantity: max(extra.Quantity, 1),
	}
	return nil
}

// SelectedKey builds the flat payload key of a service: "Special Gifts" -> "selectedSpecialGifts"
func SelectedKey(serviceName string) string {
	var b strings.Builder
	b.WriteString(SelectedPrefix)
	upperNext := true
	for _, r := range serviceName {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upperNext = true
			continue
		}
		if upperNext {
			b.WriteRune(unicode.ToUpper(r))
			upperNext = false
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsSelectedKey reports whether key is a per-service item list key
func IsSelectedKey(key string) bool {
	if len(key) <= len(SelectedPrefix) || !strings.HasPrefix(key, SelectedPrefix) {
		return false
	}
	return unicode.IsUpper(rune(key[len(SelectedPrefix)]))
}

// IsYes interprets the loose Yes/No values found in stored payloads
func IsYes(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "true", "1", "y":
		return true
	}
	return false
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

type SlotsQuery struct {
	Date    string `form:"date" binding:"required,datetime=2006-01-02"`
	Theater string `form:"theater" binding:"required"`
	// ExcludeBooking leaves one booking's own slot out (editing that booking)
	ExcludeBooking string `form:"exclude" binding:"omitempty,uuid"`
}
