package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/svstupireburgh/FeelmeTown-sub000/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	Repository
	theaters []Theater
	services []ServiceEntry
	pricing  *PricingConfig
	err      error
}

func (r *stubRepo) ListTheaters(context.Context) ([]Theater, error) { return r.theaters, r.err }
func (r *stubRepo) ListServices(context.Context) ([]ServiceEntry, error) {
	return r.services, r.err
}
func (r *stubRepo) ListOccasions(context.Context) ([]Occasion, error) { return nil, r.err }
func (r *stubRepo) ListMovies(context.Context) ([]Movie, error)       { return nil, r.err }
func (r *stubRepo) GetPricing(context.Context) (*PricingConfig, error) {
	return r.pricing, r.err
}

func TestItem_UnmarshalLegacyShapes(t *testing.T) {
	var items []Item
	err := json.Unmarshal([]byte(`[
		{"id":"rose-01","name":"Red Roses","price":499},
		{"itemId":"cake-7","title":"Chocolate Cake","cost":"₹1,200"},
		{"title":"Polaroid Set","price":"350"}
	]`), &items)
	require.NoError(t, err)

	require.Len(t, items, 3)
	assert.Equal(t, Item{ID: "rose-01", Name: "Red Roses", Price: 499}, items[0])
	assert.Equal(t, "cake-7", items[1].ID)
	assert.Equal(t, "Chocolate Cake", items[1].Name)
	assert.Equal(t, float64(1200), items[1].Price)
	assert.Equal(t, "Polaroid Set", items[2].ID)
	assert.Equal(t, float64(350), items[2].Price)
}

func TestServiceEntry_Categories(t *testing.T) {
	gifts := ServiceEntry{Name: "Special Gifts", ShowInBookingPopup: true}
	movies := ServiceEntry{Name: "Movies", ShowInBookingPopup: true}
	hidden := ServiceEntry{Name: "Cakes", ShowInBookingPopup: false}

	assert.True(t, gifts.IsGift())
	assert.False(t, gifts.Skipped())
	assert.True(t, movies.Skipped())
	assert.True(t, hidden.Skipped())

	snap := &Snapshot{Services: []ServiceEntry{hidden, gifts, movies}}
	popup := snap.PopupServices()
	require.Len(t, popup, 1)
	assert.Equal(t, "Special Gifts", popup[0].Name)
}

func TestSnapshot_SlotBookingFeeOverride(t *testing.T) {
	fee := 900.0
	snap := &Snapshot{Pricing: PricingConfig{SlotBookingFee: 600}}

	assert.Equal(t, 600.0, snap.SlotBookingFee(&Theater{}))
	assert.Equal(t, 900.0, snap.SlotBookingFee(&Theater{SlotBookingFee: &fee}))
	assert.Equal(t, 600.0, snap.SlotBookingFee(nil))
}

func TestCapacity_Clamp(t *testing.T) {
	c := Capacity{Min: 2, Max: 6}
	assert.Equal(t, 2, c.Clamp(0))
	assert.Equal(t, 4, c.Clamp(4))
	assert.Equal(t, 6, c.Clamp(9))
	assert.False(t, c.Fixed())
	assert.True(t, Capacity{Min: 2, Max: 2}.Fixed())
}

func TestService_FallsBackToDefaults(t *testing.T) {
	repo := &stubRepo{err: errors.New("connection refused")}
	svc := NewService(repo, nil, DefaultDefaults())

	snap := svc.Load(context.Background())

	require.NotNil(t, snap)
	assert.True(t, snap.Fallback)
	assert.Equal(t, 1399.0, snap.Theaters[0].Price)
	assert.Equal(t, 400.0, snap.Pricing.ExtraGuestFee)
}

func TestService_FallsBackToLastKnown(t *testing.T) {
	repo := &stubRepo{
		theaters: []Theater{{Name: "Gold Lounge", Price: 1999, Capacity: Capacity{Min: 2, Max: 8}}},
		pricing:  &PricingConfig{SlotBookingFee: 1000, ExtraGuestFee: 300},
	}
	svc := NewService(repo, cache.NewMemoryService(), DefaultDefaults())

	first := svc.Load(context.Background())
	assert.False(t, first.Fallback)
	assert.Equal(t, "Gold Lounge", first.Theaters[0].Name)

	// Refresh fails, Load keeps serving the cached snapshot
	repo.err = errors.New("timeout")
	_, err := svc.Refresh(context.Background())
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "theaters", fetchErr.Source)

	second := svc.Load(context.Background())
	assert.Equal(t, "Gold Lounge", second.Theaters[0].Name)
	assert.Equal(t, 1000.0, second.Pricing.SlotBookingFee)
}

func TestService_MissingPricingUsesDefaults(t *testing.T) {
	repo := &stubRepo{theaters: []Theater{{Name: "Gold Lounge", Price: 1999}}}
	svc := NewService(repo, nil, DefaultDefaults())

	snap := svc.Load(context.Background())
	assert.False(t, snap.Fallback)
	assert.Equal(t, 600.0, snap.Pricing.SlotBookingFee)
}
