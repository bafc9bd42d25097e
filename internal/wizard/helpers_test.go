package wizard

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/svstupireburgh/FeelmeTown-sub000/internal/bookings"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/catalog"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/coupons"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/notifications"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/payments"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/shared/config"
	"github.com/svstupireburgh/FeelmeTown-sub000/pkg/cache"
	"github.com/svstupireburgh/FeelmeTown-sub000/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testTheater = "EROS (FMT-Hall-1)"
	testCouples = "Couples Lounge"
	testDate    = "2026-02-14"
	testSlot    = "5:00 PM - 8:00 PM"
)

var (
	testSlots   = []string{"10:00 AM - 1:00 PM", "1:30 PM - 4:30 PM", testSlot, "8:30 PM - 11:30 PM"}
	testMovieID = uuid.MustParse("6f1c8a52-5b0e-4f0b-9a59-8a3b2a7e4c11")
)

func testSnapshot() *catalog.Snapshot {
	return &catalog.Snapshot{
		Theaters: []catalog.Theater{
			{Name: testTheater, Price: 1399, Capacity: catalog.Capacity{Min: 2, Max: 6}, TimeSlots: testSlots, IsActive: true},
			{Name: testCouples, Price: 999, Capacity: catalog.Capacity{Min: 2, Max: 2}, TimeSlots: testSlots, IsActive: true},
		},
		Services: []catalog.ServiceEntry{
			{Name: "Decoration Extras", IncludeInDecoration: true, ShowInBookingPopup: true, Items: []catalog.Item{
				{ID: "d1", Name: "Balloon Arch", Price: 300},
			}},
			{Name: "Gifts", ShowInBookingPopup: true, Items: []catalog.Item{
				{ID: "g1", Name: "Rose Bouquet", Price: 499},
				{ID: "g2", Name: "Teddy Bear", Price: 299},
			}},
			{Name: "Cakes", ShowInBookingPopup: true, Items: []catalog.Item{
				{ID: "c1", Name: "Chocolate Truffle", Price: 650},
			}},
			{Name: "Movies", ShowInBookingPopup: true, Items: []catalog.Item{
				{ID: "m1", Name: "Interstellar"},
			}},
		},
		Occasions: []catalog.Occasion{
			{
				Name:                "Birthday Party",
				IncludeInDecoration: true,
				RequiredFields:      []string{"birthdayName"},
				FieldLabels:         map[string]string{"birthdayName": "Birthday Person Name"},
			},
			{Name: "Date Night"},
		},
		Movies: []catalog.Movie{{ID: testMovieID, Title: "Inception"}},
		Pricing: catalog.PricingConfig{
			SlotBookingFee: 600,
			ExtraGuestFee:  400,
			DecorationFees: 750,
		},
	}
}

type staticCatalog struct {
	snap *catalog.Snapshot
}

func (c staticCatalog) Load(context.Context) *catalog.Snapshot { return c.snap }

// fakeBookings is an in-memory booking store
type fakeBookings struct {
	mu        sync.Mutex
	booked    []string
	slotsErr  error
	submitErr error
	existing  map[uuid.UUID]*bookings.Booking
	submitted []bookings.SubmitRequest
	updated   map[uuid.UUID]bookings.SubmitRequest
	// block, when set, holds Submit until it is closed
	block chan struct{}
}

func newFakeBookings() *fakeBookings {
	return &fakeBookings{
		existing: make(map[uuid.UUID]*bookings.Booking),
		updated:  make(map[uuid.UUID]bookings.SubmitRequest),
	}
}

func (f *fakeBookings) Submit(_ context.Context, req bookings.SubmitRequest) (*bookings.SubmitResult, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	f.submitted = append(f.submitted, req)
	id := uuid.New()
	return &bookings.SubmitResult{Success: true, BookingID: id.String(), BookingRef: fmt.Sprintf("FMT-%04d", len(f.submitted))}, nil
}

func (f *fakeBookings) Update(_ context.Context, id uuid.UUID, req bookings.SubmitRequest) (*bookings.SubmitResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	f.updated[id] = req
	return &bookings.SubmitResult{Success: true, BookingID: id.String(), BookingRef: f.existing[id].BookingRef}, nil
}

func (f *fakeBookings) GetBooking(_ context.Context, id uuid.UUID) (*bookings.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.existing[id]
	if !ok {
		return nil, bookings.ErrBookingNotFound
	}
	return b, nil
}

func (f *fakeBookings) BookedSlots(_ context.Context, _, _ string, _ *uuid.UUID) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.slotsErr != nil {
		return nil, f.slotsErr
	}
	return append([]string(nil), f.booked...), nil
}

func (f *fakeBookings) lastSubmitted(t *testing.T) bookings.SubmitRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.submitted)
	return f.submitted[len(f.submitted)-1]
}

type MockCouponValidator struct {
	mock.Mock
}

func (m *MockCouponValidator) Validate(ctx context.Context, code string, amount float64) (*coupons.ValidationResult, error) {
	args := m.Called(ctx, code, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*coupons.ValidationResult), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) PublishIncompleteBooking(ctx context.Context, ib notifications.IncompleteBooking) error {
	return m.Called(ctx, ib).Error(0)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	manager  *Manager
	bookings *fakeBookings
	coupons  *MockCouponValidator
	notifier *MockNotifier
	gateway  *payments.SandboxGateway
	clock    *fakeClock
	cache    *cache.MemoryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		bookings: newFakeBookings(),
		coupons:  new(MockCouponValidator),
		notifier: new(MockNotifier),
		gateway:  payments.NewSandboxGateway("test-secret"),
		clock:    &fakeClock{now: time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)},
		cache:    cache.NewMemoryService(),
	}
	env.manager = NewManager(Dependencies{
		Catalog:  staticCatalog{snap: testSnapshot()},
		Coupons:  env.coupons,
		Bookings: env.bookings,
		Payments: env.gateway,
		Notifier: env.notifier,
		Handoffs: NewHandoffStore(env.cache, 30*time.Minute),
		Config: config.WizardConfig{
			SessionTTL:   2 * time.Hour,
			ItemDebounce: 300 * time.Millisecond,
		},
		Currency: "inr",
		Log:      logger.Discard(),
		Clock:    env.clock.Now,
	})
	t.Cleanup(func() { env.manager.cancel() })
	return env
}

func (env *testEnv) open(t *testing.T) *Session {
	t.Helper()
	s, err := env.manager.Open(context.Background(), OpenRequest{
		Context: SessionContext{TheaterName: testTheater, Date: testDate, TimeSlot: testSlot},
	})
	require.NoError(t, err)
	return s
}

func (env *testEnv) openOperator(t *testing.T) *Session {
	t.Helper()
	s, err := env.manager.Open(context.Background(), OpenRequest{
		Context:  SessionContext{TheaterName: testTheater, Date: testDate, TimeSlot: testSlot},
		Operator: &bookings.CreatorInfo{ID: "staff-1", Email: "staff@feelmetown.in", Role: "STAFF"},
	})
	require.NoError(t, err)
	return s
}

func strPtr(v string) *string { return &v }

func intPtr(v int) *int { return &v }

// fillContact completes the overview step without decoration or movies
func fillContact(t *testing.T, s *Session) {
	t.Helper()
	require.NoError(t, s.Patch(DraftPatch{
		Name:              strPtr("Asha Rao"),
		Phone:             strPtr("98765 43210"),
		Email:             strPtr("asha@example.com"),
		DecorationEnabled: boolPtr(false),
		MoviesEnabled:     boolPtr(false),
		AgreedToTerms:     boolPtr(true),
	}))
}
