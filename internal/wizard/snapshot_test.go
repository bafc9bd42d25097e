package wizard

import (
	"testing"

	"github.com/svstupireburgh/FeelmeTown-sub000/internal/bookings"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/catalog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storedBooking is a confirmed online booking: 3 guests, no decoration, one gift
func storedBooking(id uuid.UUID) *bookings.Booking {
	return &bookings.Booking{
		ID:           id,
		BookingRef:   "FMT-0420",
		CustomerName: "Asha Rao",
		Phone:        "9876543210",
		Email:        "asha@example.com",
		TheaterName:  testTheater,
		Date:         testDate,
		TimeSlot:     testSlot,
		Headcount:    3,
		Services: map[string]bookings.ServiceSelection{
			"Gifts": {Enabled: true, Items: []bookings.ServiceItem{{ID: "g1", Name: "Rose Bouquet", Price: 499, Quantity: 1}}},
			"Cakes": {Enabled: false, Items: []bookings.ServiceItem{}},
		},
		FinalTotal:     2298,
		SlotBookingFee: 600,
		AdvancePayment: 600,
		PaymentMethod:  bookings.PaymentMethodOnline,
		Status:         bookings.StatusConfirmed,
	}
}

func TestImportSnapshot(t *testing.T) {
	b := storedBooking(uuid.New())
	d := ImportSnapshot(b, testSnapshot())

	assert.Equal(t, "Asha Rao", d.Name)
	assert.Equal(t, 3, d.Headcount)
	assert.True(t, d.AgreedToTerms)
	assert.False(t, d.Decoration())
	require.NotNil(t, d.DecorationEnabled)
	assert.False(t, d.Movies())
	assert.Equal(t, map[string]YesNo{"Gifts": Yes, "Cakes": No, "Decoration Extras": No}, d.Services)
	assert.Equal(t, map[string][]SelectedItem{"Gifts": {{ID: "g1", Name: "Rose Bouquet", Price: 499, Quantity: 1}}}, d.Items)
}

func TestImportSnapshot_LegacyFields(t *testing.T) {
	b := &bookings.Booking{
		CustomerName:      "Kiran",
		TheaterName:       testTheater,
		Date:              testDate,
		TimeSlot:          testSlot,
		Headcount:         4,
		Occasion:          "Birthday Party",
		DecorationEnabled: true,
		CouponCode:        "LOVE10",
		CouponDiscount:    150,
		Extra: map[string]interface{}{
			"Birthday Party - Birthday Person Name": "Meera",
			"selectedCakes": []interface{}{
				map[string]interface{}{"name": "Chocolate Truffle", "quantity": 2},
			},
			"selectedGifts": []interface{}{},
			"selectedMovies": []interface{}{
				map[string]interface{}{"id": "m1", "name": "Interstellar"},
			},
			"specialNote": 12,
		},
	}

	d := ImportSnapshot(b, testSnapshot())

	assert.Equal(t, map[string]string{"birthdayName": "Meera"}, d.OccasionFields)
	assert.Equal(t, Yes, d.Services["Cakes"])
	assert.Equal(t, []SelectedItem{{ID: "c1", Name: "Chocolate Truffle", Price: 650, Quantity: 2}}, d.Items["Cakes"], "catalog fills in id and price")
	assert.Equal(t, No, d.Services["Gifts"])
	assert.Equal(t, Yes, d.Services["Decoration Extras"], "bundled services follow the decoration flag")
	_, hasMovies := d.Services["Movies"]
	assert.False(t, hasMovies)
	require.NotNil(t, d.Movie)
	assert.Equal(t, "m1", d.Movie.ID)
	assert.True(t, d.Movies())
	assert.Equal(t, CouponState{Code: "LOVE10", DiscountType: "fixed", DiscountValue: 150, Amount: 150}, d.Coupon,
		"a coupon stored without its type is kept as the fixed amount it granted")
	assert.Nil(t, b.Movie, "the booking is not modified")

	assert.NoError(t, ValidateFinal(withContact(d), testSnapshot()))
}

func TestImportSnapshot_Coupon(t *testing.T) {
	t.Run("all four fields are restored", func(t *testing.T) {
		b := storedBooking(uuid.New())
		b.CouponCode = "LOVE10"
		b.CouponDiscountType = "percentage"
		b.CouponDiscountValue = 10
		b.CouponDiscount = 189.8

		d := ImportSnapshot(b, testSnapshot())
		assert.Equal(t, CouponState{Code: "LOVE10", DiscountType: "percentage", DiscountValue: 10, Amount: 189.8}, d.Coupon)
	})

	t.Run("dropped when the booking is not eligible", func(t *testing.T) {
		b := storedBooking(uuid.New())
		b.Services["Gifts"] = bookings.ServiceSelection{Enabled: false}
		b.CouponCode = "FLAT200"
		b.CouponDiscountType = "fixed"
		b.CouponDiscountValue = 200
		b.CouponDiscount = 200

		d := ImportSnapshot(b, testSnapshot())
		assert.Equal(t, CouponState{}, d.Coupon)
		assert.False(t, d.Coupon.Applied())
	})
}

func TestImportSnapshot_LongestLabelWins(t *testing.T) {
	snap := testSnapshot()
	snap.Occasions = append(snap.Occasions, catalog.Occasion{
		Name:           "Anniversary",
		RequiredFields: []string{"yourName", "partnerName"},
		FieldLabels:    map[string]string{"yourName": "Name", "partnerName": "Partner Name"},
	})

	for i := 0; i < 20; i++ {
		b := &bookings.Booking{
			TheaterName: testTheater,
			Occasion:    "Anniversary",
			Extra: map[string]interface{}{
				"Anniversary - Partner Name": "Ravi",
				"Anniversary - Name":         "Asha",
			},
		}

		d := ImportSnapshot(b, snap)
		require.Equal(t, map[string]string{"yourName": "Asha", "partnerName": "Ravi"}, d.OccasionFields)
	}
}

func TestImportSnapshot_StructuredFieldsWin(t *testing.T) {
	b := &bookings.Booking{
		TheaterName:       testTheater,
		Occasion:          "Birthday Party",
		DecorationEnabled: true,
		OccasionFields:    map[string]string{"birthdayName": "Meera"},
		Extra:             map[string]interface{}{"birthdayName": "Old Name"},
	}

	d := ImportSnapshot(b, testSnapshot())
	assert.Equal(t, "Meera", d.OccasionFields["birthdayName"])
}

func TestCamelCaseKey(t *testing.T) {
	tests := map[string]string{
		"Birthday Person Name": "birthdayPersonName",
		"Partner 1 Name":       "partner1Name",
		"  your   NICKNAME ":   "yourNickname",
		"Who's the star?":      "whoSTheStar",
		"":                     "",
	}
	for label, want := range tests {
		assert.Equal(t, want, CamelCaseKey(label), label)
	}
}

func withContact(d *Draft) *Draft {
	d = d.Clone()
	d.Phone = "9876543210"
	d.Email = "kiran@example.com"
	return d
}
