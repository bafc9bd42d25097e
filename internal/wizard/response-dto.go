package wizard

import (
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/catalog"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/payments"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/pricing"
)

// SessionView is everything the client renders for a session
type SessionView struct {
	ID          string            `json:"id"`
	Mode        Mode              `json:"mode"`
	Editing     bool              `json:"editing"`
	BookingID   string            `json:"bookingId,omitempty"`
	Draft       *Draft            `json:"draft"`
	Steps       []StepID          `json:"steps"`
	ActiveStep  StepID            `json:"activeStep"`
	Breakdown   pricing.Breakdown `json:"breakdown"`
	Capacity    catalog.Capacity  `json:"capacity"`
	BookedSlots []string          `json:"bookedSlots"`
	Changed     bool              `json:"changed"`

	CouponEligible bool `json:"couponEligible"`
	CouponPending  bool `json:"couponPending"`

	Payment PaymentView `json:"payment"`
	Notice  *Notice     `json:"notice,omitempty"`
	// CatalogFallback is set when the catalog could not be loaded and defaults are shown
	CatalogFallback bool `json:"catalogFallback"`
}

type PaymentView struct {
	State    PaymentState         `json:"state"`
	InFlight bool                 `json:"inFlight"`
	Order    *payments.Order      `json:"order,omitempty"`
	Error    *FormValidationError `json:"error,omitempty"`
	Result   *Result              `json:"result,omitempty"`
}

type HandoffResponse struct {
	Token string `json:"token"`
}

type ToggleItemResponse struct {
	Applied bool         `json:"applied"`
	Session *SessionView `json:"session"`
}

// View renders the session. A pending notice is handed out once.
func (s *Session) View() *SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := &SessionView{
		ID:          s.ID,
		Mode:        s.mode,
		Editing:     s.Editing(),
		Draft:       s.draft.Clone(),
		Steps:       VisibleSteps(s.draft, s.snap),
		ActiveStep:  s.active,
		Breakdown:   s.breakdownLocked(),
		Capacity:    capacityOf(s.snap, s.draft.TheaterName),
		BookedSlots: append([]string{}, s.bookedSlots...),
		Changed:     s.changedLocked(),

		CouponEligible: pricing.CouponEligible(s.draft.Decoration(), s.draft.EnabledServices()),
		CouponPending:  s.couponCancel != nil,

		Payment: PaymentView{
			State:    s.pay.state,
			InFlight: s.pay.inFlight,
			Order:    s.pay.order,
			Error:    s.pay.lastErr,
			Result:   s.pay.result,
		},
		Notice:          s.notice,
		CatalogFallback: s.snap.Fallback,
	}
	if s.editingID != nil {
		v.BookingID = s.editingID.String()
	}
	s.notice = nil
	return v
}
