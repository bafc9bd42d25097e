package wizard

import (
	"bytes"
	"encoding/json"
)

type OpenWizardRequest struct {
	TheaterName  string `json:"theaterName"`
	Date         string `json:"date" binding:"omitempty,datetime=2006-01-02"`
	TimeSlot     string `json:"timeSlot"`
	HandoffToken string `json:"handoffToken" binding:"omitempty,uuid"`
	// BookingID opens an existing booking for editing
	BookingID string `json:"bookingId" binding:"omitempty,uuid"`
}

type HandoffRequest struct {
	TheaterName string `json:"theaterName"`
	Date        string `json:"date" binding:"omitempty,datetime=2006-01-02"`
	TimeSlot    string `json:"timeSlot"`
	MovieID     string `json:"movieId"`
}

// DraftPatch is a partial edit of the draft; nil fields are left alone
type DraftPatch struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Email *string `json:"email"`

	TheaterName *string `json:"theaterName"`
	Date        *string `json:"date" binding:"omitempty,datetime=2006-01-02"`
	TimeSlot    *string `json:"timeSlot"`
	Headcount   *int    `json:"headcount" binding:"omitempty,min=1"`

	DecorationEnabled *bool             `json:"decorationEnabled"`
	Occasion          *string           `json:"occasion"`
	OccasionFields    map[string]string `json:"occasionFields"`

	MoviesEnabled *bool   `json:"moviesEnabled"`
	MovieID       *string `json:"movieId"`

	AgreedToTerms *bool `json:"agreedToTerms"`
}

type DecorationRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

type ServiceChoiceRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

type ToggleItemRequest struct {
	ItemID string `json:"itemId" binding:"required"`
}

type GoToStepRequest struct {
	Step string `json:"step" binding:"required"`
}

type CouponRequest struct {
	Code string `json:"code"`
}

type ManualDiscountRequest struct {
	Amount float64 `json:"amount"`
}

type ManualPaymentRequest struct {
	Method string `json:"method" binding:"required,oneof=cash upi partial"`
}

// PartialPaymentRequest carries the operator's form values as typed, numbers or text
type PartialPaymentRequest struct {
	SlotBookingFee FormValue `json:"slotBookingFee"`
	AmountReceived FormValue `json:"amountReceived"`
}

// FormValue accepts a JSON string or number and keeps its text
type FormValue string

func (v *FormValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FormValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = FormValue(n.String())
	return nil
}
