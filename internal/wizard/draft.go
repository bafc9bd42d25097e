package wizard

import (
	"sort"
	"strings"
)

// YesNo is the value of a per-service choice
type YesNo string

const (
	Yes YesNo = "Yes"
	No  YesNo = "No"
)

// SelectedItem is one picked entry of a service
type SelectedItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// CouponState is the applied coupon. All four fields are set or cleared together.
type CouponState struct {
	Code          string  `json:"code,omitempty"`
	DiscountType  string  `json:"discountType,omitempty"`
	DiscountValue float64 `json:"discountValue"`
	Amount        float64 `json:"amount"`
}

// Applied reports whether a coupon is held
func (c CouponState) Applied() bool {
	return c.Code != ""
}

// SessionContext is the theater, date and time slot chosen before the wizard opened
type SessionContext struct {
	TheaterName string `json:"theaterName"`
	Date        string `json:"date"`
	TimeSlot    string `json:"timeSlot"`
}

// Draft is the in-progress booking of one wizard session.
// Maps are never nil and an empty item list is never stored, so two drafts
// describing the same booking compare equal.
type Draft struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`

	TheaterName string `json:"theaterName"`
	Date        string `json:"date"`
	TimeSlot    string `json:"timeSlot"`
	Headcount   int    `json:"headcount"`

	Occasion       string            `json:"occasion"`
	OccasionFields map[string]string `json:"occasionFields"`

	// nil until the customer answers the question
	DecorationEnabled *bool         `json:"decorationEnabled"`
	MoviesEnabled     *bool         `json:"moviesEnabled"`
	Movie             *SelectedItem `json:"movie,omitempty"`

	Services map[string]YesNo          `json:"services"`
	Items    map[string][]SelectedItem `json:"items"`

	Coupon         CouponState `json:"coupon"`
	ManualDiscount float64     `json:"manualDiscount"`
	AgreedToTerms  bool        `json:"agreedToTerms"`
}

// NewDraft returns an empty draft prefilled from the session context
func NewDraft(sc SessionContext) *Draft {
	return &Draft{
		TheaterName:    sc.TheaterName,
		Date:           sc.Date,
		TimeSlot:       sc.TimeSlot,
		OccasionFields: map[string]string{},
		Services:       map[string]YesNo{},
		Items:          map[string][]SelectedItem{},
	}
}

// Clone returns a deep copy
func (d *Draft) Clone() *Draft {
	cp := *d
	cp.OccasionFields = make(map[string]string, len(d.OccasionFields))
	for k, v := range d.OccasionFields {
		cp.OccasionFields[k] = v
	}
	cp.Services = make(map[string]YesNo, len(d.Services))
	for k, v := range d.Services {
		cp.Services[k] = v
	}
	cp.Items = make(map[string][]SelectedItem, len(d.Items))
	for k, v := range d.Items {
		if len(v) > 0 {
			cp.Items[k] = append([]SelectedItem(nil), v...)
		}
	}
	if d.DecorationEnabled != nil {
		v := *d.DecorationEnabled
		cp.DecorationEnabled = &v
	}
	if d.MoviesEnabled != nil {
		v := *d.MoviesEnabled
		cp.MoviesEnabled = &v
	}
	if d.Movie != nil {
		m := *d.Movie
		cp.Movie = &m
	}
	return &cp
}

// Decoration reports whether decoration was chosen
func (d *Draft) Decoration() bool {
	return d.DecorationEnabled != nil && *d.DecorationEnabled
}

// Movies reports whether a movie was requested
func (d *Draft) Movies() bool {
	return d.MoviesEnabled != nil && *d.MoviesEnabled
}

// ServiceEnabled looks the Yes/No flag up case-insensitively
func (d *Draft) ServiceEnabled(name string) bool {
	if v, ok := d.Services[name]; ok {
		return v == Yes
	}
	for k, v := range d.Services {
		if strings.EqualFold(k, name) {
			return v == Yes
		}
	}
	return false
}

// EnabledServices returns the names of services answered Yes, sorted
func (d *Draft) EnabledServices() []string {
	out := make([]string, 0, len(d.Services))
	for name, v := range d.Services {
		if v == Yes {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func (d *Draft) setItems(service string, items []SelectedItem) {
	if len(items) == 0 {
		delete(d.Items, service)
		return
	}
	d.Items[service] = items
}

func (d *Draft) itemIndex(service, itemID string) int {
	for i, it := range d.Items[service] {
		if it.ID == itemID {
			return i
		}
	}
	return -1
}

// HasContact reports whether an incomplete-booking notice could reach the customer
func (d *Draft) HasContact() bool {
	return strings.TrimSpace(d.Name) != "" && (strings.TrimSpace(d.Phone) != "" || strings.TrimSpace(d.Email) != "")
}

func boolPtr(v bool) *bool {
	return &v
}
