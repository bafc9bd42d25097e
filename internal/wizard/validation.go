package wizard

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/svstupireburgh/FeelmeTown-sub000/internal/catalog"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateStep checks the conditions gating Continue on step. The first
// failing condition is returned as a *FormValidationError.
func ValidateStep(step StepID, d *Draft, snap *catalog.Snapshot) error {
	switch step {
	case StepOverview:
		return validateOverview(d, snap)
	case StepOccasion:
		return validateOccasion(d, snap)
	case StepTerms:
		return validateTerms(d)
	}

	if name, ok := step.Service(); ok {
		// bundled services come with decoration; picking extras is optional
		if svc, found := snap.Service(name); found && svc.IncludeInDecoration {
			return nil
		}
		return validateServiceItems(d, name)
	}
	return nil
}

// ValidateFinal re-runs every step check, then checks occasion/decoration
// compatibility and that every enabled add-on service has items.
func ValidateFinal(d *Draft, snap *catalog.Snapshot) error {
	if err := validateOverview(d, snap); err != nil {
		return err
	}
	if err := validateOccasion(d, snap); err != nil {
		return err
	}
	if err := validateOccasionCompatibility(d, snap); err != nil {
		return err
	}
	for _, svc := range snap.Services {
		if svc.Skipped() || svc.IncludeInDecoration {
			continue
		}
		if err := validateServiceItems(d, svc.Name); err != nil {
			return err
		}
	}
	return validateTerms(d)
}

func validateOverview(d *Draft, snap *catalog.Snapshot) error {
	if strings.TrimSpace(d.Name) == "" {
		return formError("Name Required", "Please enter your name.")
	}
	if len(digitsOnly(d.Phone)) != 10 {
		return formError("Invalid Phone Number", "Please enter a valid 10-digit phone number.")
	}
	if !emailPattern.MatchString(strings.TrimSpace(d.Email)) {
		return formError("Invalid Email", "Please enter a valid email address.")
	}
	if strings.TrimSpace(d.TimeSlot) == "" {
		return formError("Time Slot Required", "Please select a time slot.")
	}

	capacity := capacityOf(snap, d.TheaterName)
	if d.Headcount < capacity.Min || (capacity.Max > 0 && d.Headcount > capacity.Max) {
		if capacity.Fixed() {
			return formError("Invalid Guest Count", "This theater is booked for exactly %d guests.", capacity.Min)
		}
		return formError("Invalid Guest Count", "Number of guests must be between %d and %d.", capacity.Min, capacity.Max)
	}

	if d.DecorationEnabled == nil {
		return formError("Decoration Choice Required", "Please choose whether you want decoration.")
	}
	if d.Movies() && d.Movie == nil {
		return formError("Movie Selection Required", "Please select a movie or choose No.")
	}
	return nil
}

func validateOccasion(d *Draft, snap *catalog.Snapshot) error {
	if d.Decoration() && strings.TrimSpace(d.Occasion) == "" {
		return formError("Occasion Required", "Please select an occasion.")
	}
	if d.Occasion == "" {
		return nil
	}

	occ, ok := snap.Occasion(d.Occasion)
	if !ok {
		return nil
	}
	for _, key := range occ.RequiredFields {
		if strings.TrimSpace(d.OccasionFields[key]) == "" {
			label := occ.Label(key)
			return formError(label+" Required", "Please enter %s.", strings.ToLower(label))
		}
	}
	return nil
}

func validateOccasionCompatibility(d *Draft, snap *catalog.Snapshot) error {
	if d.Occasion == "" {
		return nil
	}
	occ, ok := snap.Occasion(d.Occasion)
	if !ok {
		return formError("Occasion Not Available", "%s is no longer offered. Please choose another occasion.", d.Occasion)
	}
	return occasionCompatible(occ, d.Decoration())
}

func occasionCompatible(occ *catalog.Occasion, decoration bool) error {
	if decoration && !occ.IncludeInDecoration {
		return formError("Occasion Not Available", "%s is not available with decoration.", occ.Name)
	}
	if !decoration && occ.IncludeInDecoration {
		return formError("Occasion Not Available", "%s is only available with decoration.", occ.Name)
	}
	return nil
}

func validateServiceItems(d *Draft, service string) error {
	if d.ServiceEnabled(service) && len(d.Items[service]) == 0 {
		return formError(service+" Selection Required", "Please select at least one item from %s or choose No.", service)
	}
	return nil
}

func validateTerms(d *Draft) error {
	if !d.AgreedToTerms {
		return formError("Terms Not Accepted", "Please accept the terms and conditions to continue.")
	}
	return nil
}

func capacityOf(snap *catalog.Snapshot, theaterName string) catalog.Capacity {
	if t, ok := snap.Theater(theaterName); ok {
		c := t.Capacity
		if c.Min < 1 {
			c.Min = 1
		}
		return c
	}
	return catalog.Capacity{Min: 1}
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
