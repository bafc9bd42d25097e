package wizard

import (
	"context"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/svstupireburgh/FeelmeTown-sub000/internal/bookings"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/catalog"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/payments"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/pricing"

	"github.com/google/uuid"
)

// Mode distinguishes customer sessions from operator-run (manual) ones
type Mode string

const (
	ModeCustomer Mode = "customer"
	ModeOperator Mode = "operator"
)

// Notice is a transient message shown once, then dropped
type Notice struct {
	Kind    string `json:"kind"` // info, error
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Session is one open booking wizard. All methods are safe for concurrent use;
// collaborator calls are made with the session lock released.
type Session struct {
	ID        string
	mode      Mode
	operator  *bookings.CreatorInfo
	editingID *uuid.UUID
	// advance recorded on the booking being edited
	recordedAdvance float64

	deps *Dependencies

	mu              sync.Mutex
	snap            *catalog.Snapshot
	draft           *Draft
	original        *Draft
	active          StepID
	slotFeeOverride *float64
	bookedSlots     []string
	pay             *Orchestrator
	// payGen changes whenever pending payment results must be discarded
	payGen  uint64
	paidTx  *payments.Transaction
	notice  *Notice
	closed  bool
	success bool

	couponGen    uint64
	couponCancel context.CancelFunc
	lastToggle   map[string]time.Time

	stopPolling context.CancelFunc
	createdAt   time.Time
	touchedAt   time.Time
}

func newSession(deps *Dependencies, snap *catalog.Snapshot, draft *Draft, mode Mode) *Session {
	now := deps.now()
	return &Session{
		ID:         uuid.NewString(),
		mode:       mode,
		deps:       deps,
		snap:       snap,
		draft:      draft,
		original:   draft.Clone(),
		active:     StepOverview,
		pay:        newOrchestrator(),
		lastToggle: make(map[string]time.Time),
		createdAt:  now,
		touchedAt:  now,
	}
}

// Editing reports whether the session edits an existing booking
func (s *Session) Editing() bool {
	return s.editingID != nil
}

// withoutLock runs fn with the session lock released. The caller must hold the lock.
func (s *Session) withoutLock(fn func()) {
	s.mu.Unlock()
	defer s.mu.Lock()
	fn()
}

func (s *Session) touch() {
	s.touchedAt = s.deps.now()
}

// editable reports whether the draft may still change
func (s *Session) editable() error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.pay.state != StateIdle {
		return ErrInvalidTransition
	}
	return nil
}

func (s *Session) isOperator() bool {
	return s.mode == ModeOperator
}

func (s *Session) breakdownLocked() pricing.Breakdown {
	return pricing.Calculate(priceInput(s.draft, s.snap, s.isOperator(), s.slotFeeOverride, s.deps.FallbackTheaterPrice))
}

func (s *Session) changedLocked() bool {
	return !reflect.DeepEqual(s.original, s.draft)
}

// Changed reports whether the draft differs from what the session was opened with
func (s *Session) Changed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changedLocked()
}

// Draft returns a copy of the current draft
func (s *Session) Draft() *Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

// Breakdown returns the current price breakdown
func (s *Session) Breakdown() pricing.Breakdown {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.breakdownLocked()
}

// ActiveStep returns the step the wizard is on
func (s *Session) ActiveStep() StepID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// PaymentState returns the checkout state
func (s *Session) PaymentState() PaymentState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pay.state
}

// Patch applies a set of field edits atomically: either all of them or none
func (s *Session) Patch(p DraftPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editable(); err != nil {
		return err
	}

	d := s.draft.Clone()
	scheduleChanged := false

	if p.Name != nil {
		d.Name = strings.TrimSpace(*p.Name)
	}
	if p.Phone != nil {
		d.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.Email != nil {
		d.Email = strings.TrimSpace(*p.Email)
	}

	if p.TheaterName != nil && !strings.EqualFold(*p.TheaterName, d.TheaterName) {
		t, ok := s.snap.Theater(*p.TheaterName)
		if !ok {
			return formError("Theater Not Available", "%s is not available for booking.", *p.TheaterName)
		}
		d.TheaterName = t.Name
		d.TimeSlot = ""
		d.Headcount = capacityOf(s.snap, d.TheaterName).Clamp(d.Headcount)
		scheduleChanged = true
	}
	if p.Date != nil && *p.Date != d.Date {
		d.Date = *p.Date
		d.TimeSlot = ""
		scheduleChanged = true
	}
	if p.TimeSlot != nil {
		if err := s.checkTimeSlot(d, *p.TimeSlot, scheduleChanged); err != nil {
			return err
		}
		d.TimeSlot = *p.TimeSlot
	}
	if p.Headcount != nil {
		d.Headcount = capacityOf(s.snap, d.TheaterName).Clamp(*p.Headcount)
	}

	if p.DecorationEnabled != nil {
		applyDecoration(d, s.snap, *p.DecorationEnabled)
	}
	if p.Occasion != nil {
		if err := setOccasion(d, s.snap, *p.Occasion); err != nil {
			return err
		}
	}
	for k, v := range p.OccasionFields {
		d.OccasionFields[k] = v
	}

	if p.MoviesEnabled != nil {
		d.MoviesEnabled = boolPtr(*p.MoviesEnabled)
		if !*p.MoviesEnabled {
			d.Movie = nil
		}
	}
	if p.MovieID != nil {
		if err := setMovie(d, s.snap, *p.MovieID); err != nil {
			return err
		}
	}
	if p.AgreedToTerms != nil {
		d.AgreedToTerms = *p.AgreedToTerms
	}

	s.draft = d
	if scheduleChanged {
		s.bookedSlots = nil
	}
	s.afterSelectionChange()
	s.touch()
	return nil
}

// checkTimeSlot rejects slots the theater does not offer or someone else booked
func (s *Session) checkTimeSlot(d *Draft, slot string, scheduleChanged bool) error {
	if slot == "" {
		return nil
	}
	if t, ok := s.snap.Theater(d.TheaterName); ok && len(t.TimeSlots) > 0 && !containsFold(t.TimeSlots, slot) {
		return formError("Invalid Time Slot", "%s is not offered for %s.", slot, t.Name)
	}
	// booked slots of a previous theater or date say nothing about the new one
	if !scheduleChanged && containsFold(s.bookedSlots, slot) {
		return formError("Time Slot Unavailable", "%s is already booked. Please choose another time slot.", slot)
	}
	return nil
}

// SetDecoration answers the decoration question
func (s *Session) SetDecoration(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editable(); err != nil {
		return err
	}
	applyDecoration(s.draft, s.snap, enabled)
	s.afterSelectionChange()
	s.touch()
	return nil
}

// applyDecoration sets the decoration flag and every decoration-bundled service
// with it. An occasion that no longer fits is cleared.
func applyDecoration(d *Draft, snap *catalog.Snapshot, enabled bool) {
	syncDecoration(d, snap, enabled)

	if d.Occasion == "" {
		return
	}
	if occ, ok := snap.Occasion(d.Occasion); ok && occasionCompatible(occ, enabled) != nil {
		d.Occasion = ""
		d.OccasionFields = map[string]string{}
	}
}

// syncDecoration is the only writer of the decoration flag and the bundled services' flags
func syncDecoration(d *Draft, snap *catalog.Snapshot, enabled bool) {
	d.DecorationEnabled = boolPtr(enabled)
	for _, svc := range snap.Services {
		if !svc.IncludeInDecoration {
			continue
		}
		if enabled {
			d.Services[svc.Name] = Yes
		} else {
			d.Services[svc.Name] = No
			d.setItems(svc.Name, nil)
		}
	}
}

func setOccasion(d *Draft, snap *catalog.Snapshot, name string) error {
	if name == "" {
		d.Occasion = ""
		d.OccasionFields = map[string]string{}
		return nil
	}

	occ, ok := snap.Occasion(name)
	if !ok {
		return formError("Occasion Not Available", "%s is not offered.", name)
	}
	if d.DecorationEnabled != nil {
		if err := occasionCompatible(occ, *d.DecorationEnabled); err != nil {
			return err
		}
	}
	if occ.Name != d.Occasion {
		d.Occasion = occ.Name
		d.OccasionFields = map[string]string{}
	}
	return nil
}

func setMovie(d *Draft, snap *catalog.Snapshot, id string) error {
	if id == "" {
		d.Movie = nil
		return nil
	}
	if m, ok := snap.Movie(id); ok {
		d.Movie = &SelectedItem{ID: m.ID.String(), Name: m.Title, Quantity: 1}
		d.MoviesEnabled = boolPtr(true)
		return nil
	}
	for _, svc := range snap.Services {
		if !svc.IsMovies() {
			continue
		}
		if it, ok := svc.FindItem(id); ok {
			d.Movie = &SelectedItem{ID: it.ID, Name: it.Name, Quantity: 1}
			d.MoviesEnabled = boolPtr(true)
			return nil
		}
	}
	return formError("Movie Not Available", "The selected movie is not available.")
}

// IncrementHeadcount adds a guest within the theater capacity
func (s *Session) IncrementHeadcount() error {
	return s.stepHeadcount(1)
}

// DecrementHeadcount removes a guest within the theater capacity
func (s *Session) DecrementHeadcount() error {
	return s.stepHeadcount(-1)
}

func (s *Session) stepHeadcount(delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editable(); err != nil {
		return err
	}
	capacity := capacityOf(s.snap, s.draft.TheaterName)
	if capacity.Fixed() {
		return nil
	}
	s.draft.Headcount = capacity.Clamp(s.draft.Headcount + delta)
	s.touch()
	return nil
}

// SetService answers the Yes/No question of a catalog service. Decoration-bundled
// services follow the decoration choice, so answering one of them answers decoration.
func (s *Session) SetService(name string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editable(); err != nil {
		return err
	}
	svc, ok := s.snap.Service(name)
	if !ok {
		return ErrUnknownService
	}

	if svc.IncludeInDecoration {
		applyDecoration(s.draft, s.snap, enabled)
	} else if enabled {
		s.draft.Services[svc.Name] = Yes
	} else {
		s.draft.Services[svc.Name] = No
		s.draft.setItems(svc.Name, nil)
	}

	s.afterSelectionChange()
	s.touch()
	return nil
}

// ToggleItem selects or deselects an item of an enabled service. A repeat of the
// same toggle inside the debounce window is ignored and reported as false.
func (s *Session) ToggleItem(service, itemID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editable(); err != nil {
		return false, err
	}
	svc, ok := s.snap.Service(service)
	if !ok {
		return false, ErrUnknownService
	}
	if !s.draft.ServiceEnabled(svc.Name) {
		return false, formError(svc.Name+" Not Selected", "Choose Yes for %s before picking items.", svc.Name)
	}
	item, ok := svc.FindItem(itemID)
	if !ok {
		return false, formError("Item Not Available", "The selected item is not offered in %s.", svc.Name)
	}

	key := svc.Name + "/" + item.ID
	now := s.deps.now()
	if last, ok := s.lastToggle[key]; ok && now.Sub(last) < s.deps.Config.ItemDebounce {
		return false, nil
	}
	s.lastToggle[key] = now

	items := append([]SelectedItem(nil), s.draft.Items[svc.Name]...)
	if i := s.draft.itemIndex(svc.Name, item.ID); i >= 0 {
		items = append(items[:i], items[i+1:]...)
	} else {
		items = append(items, SelectedItem{ID: item.ID, Name: item.Name, Price: item.Price, Quantity: 1})
	}
	s.draft.setItems(svc.Name, items)
	s.touch()
	return true, nil
}

// SetManualDiscount sets the operator's flat discount
func (s *Session) SetManualDiscount(amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editable(); err != nil {
		return err
	}
	if !s.isOperator() {
		return ErrNotOperator
	}
	if amount < 0 {
		return formError("Invalid Discount", "Discount cannot be negative.")
	}
	s.draft.ManualDiscount = amount
	s.touch()
	return nil
}

// afterSelectionChange keeps derived state consistent after a selection edit:
// an ineligible coupon is dropped and a vanished active step falls back to overview.
func (s *Session) afterSelectionChange() {
	eligible := pricing.CouponEligible(s.draft.Decoration(), s.draft.EnabledServices())
	if !eligible && (s.draft.Coupon.Applied() || s.couponCancel != nil) {
		hadCoupon := s.draft.Coupon.Applied()
		s.cancelCouponLocked()
		s.draft.Coupon = CouponState{}
		if hadCoupon {
			s.notice = &Notice{Kind: "info", Title: "Coupon Removed", Message: "Coupons apply only to bookings with decoration or gifts."}
		}
	}

	if stepIndex(VisibleSteps(s.draft, s.snap), s.active) < 0 {
		s.active = StepOverview
	}
}

// Continue validates the active step and moves to the next visible one.
// On the last step it only validates.
func (s *Session) Continue() (StepID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editable(); err != nil {
		return s.active, err
	}
	if err := ValidateStep(s.active, s.draft, s.snap); err != nil {
		return s.active, err
	}

	steps := VisibleSteps(s.draft, s.snap)
	if i := stepIndex(steps, s.active); i >= 0 && i+1 < len(steps) {
		s.active = steps[i+1]
	}
	s.touch()
	return s.active, nil
}

// Back moves to the previous visible step
func (s *Session) Back() (StepID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editable(); err != nil {
		return s.active, err
	}
	steps := VisibleSteps(s.draft, s.snap)
	if i := stepIndex(steps, s.active); i > 0 {
		s.active = steps[i-1]
	}
	s.touch()
	return s.active, nil
}

// GoTo jumps to a visible step. Jumping forward validates every step passed over.
func (s *Session) GoTo(step StepID) (StepID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editable(); err != nil {
		return s.active, err
	}
	steps := VisibleSteps(s.draft, s.snap)
	target := stepIndex(steps, step)
	if target < 0 {
		return s.active, ErrUnknownStep
	}
	for i := stepIndex(steps, s.active); i >= 0 && i < target; i++ {
		if err := ValidateStep(steps[i], s.draft, s.snap); err != nil {
			s.active = steps[i]
			return s.active, err
		}
	}
	s.active = step
	s.touch()
	return s.active, nil
}

func (s *Session) close() {
	s.closed = true
	s.payGen++
	s.pay.reset()
	s.cancelCouponLocked()
	if s.stopPolling != nil {
		s.stopPolling()
		s.stopPolling = nil
	}
}

func containsFold(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}
