package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() *Draft {
	d := NewDraft(SessionContext{TheaterName: testTheater, Date: testDate, TimeSlot: testSlot})
	d.Name = "Asha Rao"
	d.Phone = "98765-43210"
	d.Email = "asha@example.com"
	d.Headcount = 3
	d.DecorationEnabled = boolPtr(false)
	d.MoviesEnabled = boolPtr(false)
	d.AgreedToTerms = true
	return d
}

func TestValidateStep_OverviewOrder(t *testing.T) {
	snap := testSnapshot()

	tests := []struct {
		name  string
		edit  func(d *Draft)
		title string
		msg   string
	}{
		{"name first", func(d *Draft) { d.Name = "  "; d.Phone = "" }, "Name Required", "Please enter your name."},
		{"short phone", func(d *Draft) { d.Phone = "98765" }, "Invalid Phone Number", "Please enter a valid 10-digit phone number."},
		{"email shape", func(d *Draft) { d.Email = "asha@example" }, "Invalid Email", "Please enter a valid email address."},
		{"time slot", func(d *Draft) { d.TimeSlot = "" }, "Time Slot Required", "Please select a time slot."},
		{"too many guests", func(d *Draft) { d.Headcount = 7 }, "Invalid Guest Count", "Number of guests must be between 2 and 6."},
		{"decoration unanswered", func(d *Draft) { d.DecorationEnabled = nil }, "Decoration Choice Required", "Please choose whether you want decoration."},
		{"movie missing", func(d *Draft) { d.MoviesEnabled = boolPtr(true) }, "Movie Selection Required", "Please select a movie or choose No."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.edit(d)

			err := ValidateStep(StepOverview, d, snap)
			var fe *FormValidationError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.title, fe.Title)
			assert.Equal(t, tt.msg, fe.Message)
		})
	}

	assert.NoError(t, ValidateStep(StepOverview, validDraft(), snap))
}

func TestValidateStep_FixedCapacityMessage(t *testing.T) {
	d := validDraft()
	d.TheaterName = testCouples

	err := ValidateStep(StepOverview, d, testSnapshot())
	var fe *FormValidationError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "This theater is booked for exactly 2 guests.", fe.Message)
}

func TestValidateStep_Occasion(t *testing.T) {
	snap := testSnapshot()

	d := validDraft()
	assert.NoError(t, ValidateStep(StepOccasion, d, snap), "occasion is optional without decoration")

	syncDecoration(d, snap, true)
	err := ValidateStep(StepOccasion, d, snap)
	var fe *FormValidationError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Occasion Required", fe.Title)

	d.Occasion = "Birthday Party"
	err = ValidateStep(StepOccasion, d, snap)
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Birthday Person Name Required", fe.Title)
	assert.Equal(t, "Please enter birthday person name.", fe.Message)

	d.OccasionFields["birthdayName"] = "Kiran"
	assert.NoError(t, ValidateStep(StepOccasion, d, snap))
}

func TestValidateStep_Terms(t *testing.T) {
	d := validDraft()
	d.AgreedToTerms = false

	err := ValidateStep(StepTerms, d, testSnapshot())
	var fe *FormValidationError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Terms Not Accepted", fe.Title)
}

func TestValidateFinal(t *testing.T) {
	snap := testSnapshot()

	t.Run("valid draft passes", func(t *testing.T) {
		assert.NoError(t, ValidateFinal(validDraft(), snap))
	})

	t.Run("decoration occasion without decoration", func(t *testing.T) {
		d := validDraft()
		d.Occasion = "Birthday Party"
		d.OccasionFields["birthdayName"] = "Kiran"

		err := ValidateFinal(d, snap)
		var fe *FormValidationError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "Occasion Not Available", fe.Title)
		assert.Equal(t, "Birthday Party is only available with decoration.", fe.Message)
	})

	t.Run("plain occasion with decoration", func(t *testing.T) {
		d := validDraft()
		syncDecoration(d, snap, true)
		d.Occasion = "Date Night"

		err := ValidateFinal(d, snap)
		var fe *FormValidationError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "Date Night is not available with decoration.", fe.Message)
	})

	t.Run("enabled service without items", func(t *testing.T) {
		d := validDraft()
		d.Services["Cakes"] = Yes

		err := ValidateFinal(d, snap)
		var fe *FormValidationError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "Cakes Selection Required", fe.Title)
	})

	t.Run("bundled services need no items", func(t *testing.T) {
		d := validDraft()
		syncDecoration(d, snap, true)
		d.Occasion = "Birthday Party"
		d.OccasionFields["birthdayName"] = "Kiran"

		assert.NoError(t, ValidateFinal(d, snap))
		assert.NoError(t, ValidateStep(ServiceStep("Decoration Extras"), d, snap))
	})

	t.Run("terms last", func(t *testing.T) {
		d := validDraft()
		d.AgreedToTerms = false
		d.Services["Gifts"] = Yes

		err := ValidateFinal(d, snap)
		var fe *FormValidationError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "Gifts Selection Required", fe.Title)
	})
}
