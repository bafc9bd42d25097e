package wizard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_HeadcountClamp(t *testing.T) {
	env := newTestEnv(t)
	s := env.open(t)
	assert.Equal(t, 2, s.Draft().Headcount, "opens at the theater minimum")

	require.NoError(t, s.DecrementHeadcount())
	assert.Equal(t, 2, s.Draft().Headcount)

	for i := 0; i < 10; i++ {
		require.NoError(t, s.IncrementHeadcount())
	}
	assert.Equal(t, 6, s.Draft().Headcount)

	require.NoError(t, s.Patch(DraftPatch{Headcount: intPtr(40)}))
	assert.Equal(t, 6, s.Draft().Headcount)

	// four extra guests at 400 each
	assert.Equal(t, 1399.0+1600, s.Breakdown().Subtotal)

	require.NoError(t, s.Patch(DraftPatch{TheaterName: strPtr("couples lounge")}))
	d := s.Draft()
	assert.Equal(t, testCouples, d.TheaterName)
	assert.Equal(t, 2, d.Headcount)
	assert.Empty(t, d.TimeSlot, "changing theater clears the slot")

	require.NoError(t, s.IncrementHeadcount())
	assert.Equal(t, 2, s.Draft().Headcount, "fixed capacity ignores steppers")
}

func TestSession_PatchIsAtomic(t *testing.T) {
	env := newTestEnv(t)
	s := env.open(t)

	err := s.Patch(DraftPatch{Name: strPtr("Asha"), Occasion: strPtr("Graduation")})
	var fe *FormValidationError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Occasion Not Available", fe.Title)
	assert.Empty(t, s.Draft().Name)
	assert.False(t, s.Changed())

	err = s.Patch(DraftPatch{TheaterName: strPtr("Nowhere")})
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Theater Not Available", fe.Title)

	err = s.Patch(DraftPatch{TimeSlot: strPtr("2:00 AM - 4:00 AM")})
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Invalid Time Slot", fe.Title)
}

func TestSession_BookedSlotRejected(t *testing.T) {
	env := newTestEnv(t)
	env.bookings.booked = []string{"8:30 PM - 11:30 PM"}
	s := env.open(t)
	assert.Equal(t, []string{"8:30 PM - 11:30 PM"}, s.BookedSlots())

	err := s.Patch(DraftPatch{TimeSlot: strPtr("8:30 PM - 11:30 PM")})
	var fe *FormValidationError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Time Slot Unavailable", fe.Title)

	// a new date invalidates what is known about the old one
	require.NoError(t, s.Patch(DraftPatch{Date: strPtr("2026-02-15"), TimeSlot: strPtr("8:30 PM - 11:30 PM")}))
	assert.Empty(t, s.BookedSlots())

	s.RefreshSlots(context.Background())
	assert.Equal(t, []string{"8:30 PM - 11:30 PM"}, s.BookedSlots())
}

func TestSession_DecorationCoupling(t *testing.T) {
	env := newTestEnv(t)
	s := env.open(t)

	require.NoError(t, s.SetDecoration(true))
	d := s.Draft()
	assert.True(t, d.Decoration())
	assert.Equal(t, Yes, d.Services["Decoration Extras"])
	assert.Equal(t, 1399.0+750, s.Breakdown().Subtotal)

	require.NoError(t, s.Patch(DraftPatch{Occasion: strPtr("birthday party"), OccasionFields: map[string]string{"birthdayName": "Kiran"}}))
	_, err := s.ToggleItem("Decoration Extras", "d1")
	require.NoError(t, err)

	// answering the bundled service answers decoration
	require.NoError(t, s.SetService("Decoration Extras", false))
	d = s.Draft()
	assert.False(t, d.Decoration())
	assert.Equal(t, No, d.Services["Decoration Extras"])
	assert.Empty(t, d.Items["Decoration Extras"])
	assert.Empty(t, d.Occasion, "decoration-only occasion is dropped with decoration")
	assert.Empty(t, d.OccasionFields)

	err = s.Patch(DraftPatch{Occasion: strPtr("Birthday Party")})
	var fe *FormValidationError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Birthday Party is only available with decoration.", fe.Message)

	require.NoError(t, s.Patch(DraftPatch{Occasion: strPtr("Date Night")}))
	require.NoError(t, s.SetDecoration(true))
	assert.Empty(t, s.Draft().Occasion)
}

func TestSession_ToggleItem(t *testing.T) {
	env := newTestEnv(t)
	s := env.open(t)

	_, err := s.ToggleItem("Gifts", "g1")
	var fe *FormValidationError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Gifts Not Selected", fe.Title)

	_, err = s.ToggleItem("Flowers", "f1")
	assert.ErrorIs(t, err, ErrUnknownService)

	require.NoError(t, s.SetService("gifts", true))

	applied, err := s.ToggleItem("Gifts", "g1")
	require.NoError(t, err)
	assert.True(t, applied)

	// a double tap inside the debounce window is ignored
	env.clock.Advance(100 * time.Millisecond)
	applied, err = s.ToggleItem("Gifts", "g1")
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Len(t, s.Draft().Items["Gifts"], 1)

	// other items are not held back
	applied, err = s.ToggleItem("Gifts", "Teddy Bear")
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, 1399.0+499+299, s.Breakdown().Subtotal)

	env.clock.Advance(time.Second)
	applied, err = s.ToggleItem("Gifts", "g1")
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, []SelectedItem{{ID: "g2", Name: "Teddy Bear", Price: 299, Quantity: 1}}, s.Draft().Items["Gifts"])

	require.NoError(t, s.SetService("Gifts", false))
	_, ok := s.Draft().Items["Gifts"]
	assert.False(t, ok, "answering No drops the items")
}

func TestSession_Movie(t *testing.T) {
	env := newTestEnv(t)
	s := env.open(t)

	require.NoError(t, s.Patch(DraftPatch{MovieID: strPtr(testMovieID.String())}))
	d := s.Draft()
	assert.True(t, d.Movies())
	assert.Equal(t, "Inception", d.Movie.Name)

	require.NoError(t, s.Patch(DraftPatch{MovieID: strPtr("Interstellar")}))
	assert.Equal(t, "m1", s.Draft().Movie.ID)

	err := s.Patch(DraftPatch{MovieID: strPtr("Unknown Film")})
	var fe *FormValidationError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Movie Not Available", fe.Title)

	require.NoError(t, s.Patch(DraftPatch{MoviesEnabled: boolPtr(false)}))
	assert.Nil(t, s.Draft().Movie)
	assert.Equal(t, 1399.0, s.Breakdown().Subtotal, "movies are free")
}

func TestSession_ManualDiscount(t *testing.T) {
	env := newTestEnv(t)

	customer := env.open(t)
	assert.ErrorIs(t, customer.SetManualDiscount(100), ErrNotOperator)

	operator := env.openOperator(t)
	err := operator.SetManualDiscount(-5)
	var fe *FormValidationError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Invalid Discount", fe.Title)

	require.NoError(t, operator.SetManualDiscount(200))
	b := operator.Breakdown()
	assert.Equal(t, 200.0, b.ManualDiscount)
	assert.Equal(t, 1199.0, b.FinalTotal)

	require.NoError(t, operator.SetManualDiscount(5000))
	assert.Equal(t, 0.0, operator.Breakdown().FinalTotal, "total never goes negative")
}

func TestSession_ViewConsumesNotice(t *testing.T) {
	env := newTestEnv(t)
	s := env.open(t)

	s.mu.Lock()
	s.notice = &Notice{Kind: "info", Title: "Hello"}
	s.mu.Unlock()

	v := s.View()
	require.NotNil(t, v.Notice)
	assert.Equal(t, "Hello", v.Notice.Title)
	assert.Equal(t, StepOverview, v.ActiveStep)
	assert.Equal(t, StateIdle, v.Payment.State)
	assert.Equal(t, 2, v.Capacity.Min)

	assert.Nil(t, s.View().Notice)
}
