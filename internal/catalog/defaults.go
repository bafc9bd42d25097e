package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Defaults seeds the hardcoded snapshot used when nothing could ever be fetched
type Defaults struct {
	TheaterPrice   float64
	SlotBookingFee float64
	ExtraGuestFee  float64
	ConvenienceFee float64
	DecorationFees float64
}

// DefaultDefaults mirrors the production pricing at launch
func DefaultDefaults() Defaults {
	return Defaults{
		TheaterPrice:   1399,
		SlotBookingFee: 600,
		ExtraGuestFee:  400,
		ConvenienceFee: 0,
		DecorationFees: 750,
	}
}

var defaultSlots = []string{"10:00 AM - 1:00 PM", "1:30 PM - 4:30 PM", "5:00 PM - 8:00 PM", "8:30 PM - 11:30 PM"}

// DefaultSnapshot returns a minimal bookable catalog: one theater, the birthday and
// anniversary occasions, and pricing from d. It is marked as a fallback.
func DefaultSnapshot(d Defaults) *Snapshot {
	return &Snapshot{
		Theaters: []Theater{{
			ID:        uuid.NewSHA1(uuid.NameSpaceURL, []byte("theater:default")),
			Name:      "EROS (COUPLES) (FMT-Hall-1)",
			Price:     d.TheaterPrice,
			Capacity:  Capacity{Min: 2, Max: 2},
			TimeSlots: append([]string(nil), defaultSlots...),
			IsActive:  true,
		}},
		Occasions: []Occasion{
			{
				ID:                  uuid.NewSHA1(uuid.NameSpaceURL, []byte("occasion:birthday")),
				Name:                "Birthday Party",
				Icon:                "🎂",
				Popular:             true,
				IncludeInDecoration: true,
				RequiredFields:      []string{"birthdayName"},
				FieldLabels:         map[string]string{"birthdayName": "Birthday Person Name"},
				IsActive:            true,
			},
			{
				ID:                  uuid.NewSHA1(uuid.NameSpaceURL, []byte("occasion:anniversary")),
				Name:                "Anniversary",
				Icon:                "💍",
				Popular:             true,
				IncludeInDecoration: true,
				RequiredFields:      []string{"partner1Name", "partner2Name"},
				FieldLabels:         map[string]string{"partner1Name": "Partner 1 Name", "partner2Name": "Partner 2 Name"},
				IsActive:            true,
			},
		},
		Pricing: PricingConfig{
			SlotBookingFee: d.SlotBookingFee,
			ExtraGuestFee:  d.ExtraGuestFee,
			ConvenienceFee: d.ConvenienceFee,
			DecorationFees: d.DecorationFees,
		},
		FetchedAt: time.Now(),
		Fallback:  true,
	}
}
