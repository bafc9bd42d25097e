// Package wizard runs booking wizard sessions: the draft, its steps and
// validation, live pricing, coupons and the checkout state machine.
package wizard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/svstupireburgh/FeelmeTown-sub000/internal/bookings"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/catalog"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/coupons"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/notifications"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/payments"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/shared/config"
	"github.com/svstupireburgh/FeelmeTown-sub000/pkg/logger"

	"github.com/google/uuid"
)

// CatalogLoader supplies the catalog a new session works against
type CatalogLoader interface {
	Load(ctx context.Context) *catalog.Snapshot
}

// CouponValidator checks a coupon code against an order amount
type CouponValidator interface {
	Validate(ctx context.Context, code string, amount float64) (*coupons.ValidationResult, error)
}

// BookingGateway stores bookings and reports slot availability
type BookingGateway interface {
	Submit(ctx context.Context, req bookings.SubmitRequest) (*bookings.SubmitResult, error)
	Update(ctx context.Context, bookingID uuid.UUID, req bookings.SubmitRequest) (*bookings.SubmitResult, error)
	GetBooking(ctx context.Context, bookingID uuid.UUID) (*bookings.Booking, error)
	BookedSlots(ctx context.Context, date, theaterName string, exclude *uuid.UUID) ([]string, error)
}

// IncompleteNotifier reports sessions closed with unsaved changes
type IncompleteNotifier interface {
	PublishIncompleteBooking(ctx context.Context, ib notifications.IncompleteBooking) error
}

// Dependencies are the collaborators shared by all sessions of a Manager
type Dependencies struct {
	Catalog  CatalogLoader
	Coupons  CouponValidator
	Bookings BookingGateway
	Payments payments.Gateway
	// Notifier and Handoffs are optional
	Notifier IncompleteNotifier
	Handoffs *HandoffStore

	Config               config.WizardConfig
	Currency             string
	FallbackTheaterPrice float64
	Log                  *logger.Logger
	Clock                func() time.Time
}

func (d *Dependencies) now() time.Time {
	if d.Clock != nil {
		return d.Clock()
	}
	return time.Now()
}

// OpenRequest describes the session to open
type OpenRequest struct {
	Context      SessionContext
	HandoffToken string
	// EditBookingID opens an existing booking for editing; operators only
	EditBookingID *uuid.UUID
	// Operator is set when an admin or staff member runs the wizard
	Operator *bookings.CreatorInfo
}

// CloseResult reports what closing a session did
type CloseResult struct {
	Changed  bool `json:"changed"`
	Notified bool `json:"notified"`
}

// Manager owns the open wizard sessions
type Manager struct {
	deps *Dependencies

	mu       sync.RWMutex
	sessions map[string]*Session

	ctx    context.Context
	cancel context.CancelFunc
}

func NewManager(deps Dependencies) *Manager {
	if deps.Log == nil {
		deps.Log = logger.GetDefault()
	}
	if deps.Currency == "" {
		deps.Currency = "inr"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		deps:     &deps,
		sessions: make(map[string]*Session),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Open starts a session. A new booking is prefilled from the session context
// and an optional handoff; an edit is rebuilt from the stored booking.
func (m *Manager) Open(ctx context.Context, req OpenRequest) (*Session, error) {
	snap := m.deps.Catalog.Load(ctx)

	mode := ModeCustomer
	if req.Operator != nil {
		mode = ModeOperator
	}

	var (
		draft   *Draft
		booking *bookings.Booking
		err     error
	)
	if req.EditBookingID != nil {
		if req.Operator == nil {
			return nil, ErrNotOperator
		}
		booking, err = m.deps.Bookings.GetBooking(ctx, *req.EditBookingID)
		if err != nil {
			return nil, err
		}
		if !booking.Status.Editable() {
			return nil, bookings.ErrBookingCancelled
		}
		draft = ImportSnapshot(booking, snap)
	} else {
		draft, err = m.newDraft(ctx, req, snap)
		if err != nil {
			return nil, err
		}
	}

	s := newSession(m.deps, snap, draft, mode)
	s.operator = req.Operator
	if booking != nil {
		s.editingID = &booking.ID
		s.recordedAdvance = booking.AdvancePayment
		if booking.PaymentMethod == bookings.PaymentMethodPartial {
			fee := booking.SlotBookingFee
			s.slotFeeOverride = &fee
		}
	}

	pollCtx, stop := context.WithCancel(m.ctx)
	s.stopPolling = stop

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	s.RefreshSlots(ctx)
	s.startPolling(pollCtx, m.deps.Config.SlotPollInterval)

	m.deps.Log.LogWizardOpened(ctx, s.ID, string(mode), draft.TheaterName)
	return s, nil
}

func (m *Manager) newDraft(ctx context.Context, req OpenRequest, snap *catalog.Snapshot) (*Draft, error) {
	sc := req.Context
	var handoff *Handoff
	if req.HandoffToken != "" && m.deps.Handoffs != nil {
		h, err := m.deps.Handoffs.Take(ctx, req.HandoffToken)
		if err != nil {
			return nil, err
		}
		handoff = h
		if h.Draft != nil {
			return h.Draft, nil
		}
		sc = mergeContext(sc, h.Context)
	}

	draft := NewDraft(sc)
	if t, ok := snap.Theater(sc.TheaterName); ok {
		draft.TheaterName = t.Name
	}
	draft.Headcount = capacityOf(snap, draft.TheaterName).Min

	if handoff != nil && handoff.MovieID != "" {
		if err := setMovie(draft, snap, handoff.MovieID); err != nil {
			m.deps.Log.WithError(err).Warn("Handoff movie not in catalog", "movie_id", handoff.MovieID)
		}
	}
	return draft, nil
}

// mergeContext fills the blanks of sc from fallback
func mergeContext(sc, fallback SessionContext) SessionContext {
	if sc.TheaterName == "" {
		sc.TheaterName = fallback.TheaterName
	}
	if sc.Date == "" {
		sc.Date = fallback.Date
	}
	if sc.TimeSlot == "" {
		sc.TimeSlot = fallback.TimeSlot
	}
	return sc
}

// Get returns an open session
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Handoff stores input for a session another page is about to open
func (m *Manager) Handoff(ctx context.Context, h Handoff) (string, error) {
	if m.deps.Handoffs == nil {
		return "", errors.New("handoffs are not configured")
	}
	return m.deps.Handoffs.Put(ctx, h)
}

// Close ends a session. A draft that changed but was never submitted is
// reported as an incomplete booking.
func (m *Manager) Close(ctx context.Context, id string) (*CloseResult, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	return m.closeSession(ctx, s), nil
}

func (m *Manager) closeSession(ctx context.Context, s *Session) *CloseResult {
	s.mu.Lock()
	changed := s.changedLocked()
	notify := changed && !s.success && (s.Editing() || s.draft.HasContact())
	incomplete := s.incompleteLocked()
	s.close()
	s.mu.Unlock()

	result := &CloseResult{Changed: changed}
	if notify && m.deps.Notifier != nil {
		if err := m.deps.Notifier.PublishIncompleteBooking(ctx, incomplete); err != nil {
			m.deps.Log.ErrorWithContext(ctx, "Failed to publish incomplete booking", err, map[string]interface{}{
				"session_id": s.ID,
			})
		} else {
			result.Notified = true
		}
	}

	m.deps.Log.LogWizardClosed(ctx, s.ID, changed, result.Notified)
	return result
}

func (s *Session) incompleteLocked() notifications.IncompleteBooking {
	ib := notifications.IncompleteBooking{
		SessionID:   s.ID,
		Mode:        string(s.mode),
		Name:        s.draft.Name,
		Email:       s.draft.Email,
		Phone:       s.draft.Phone,
		TheaterName: s.draft.TheaterName,
		Date:        s.draft.Date,
		TimeSlot:    s.draft.TimeSlot,
		Headcount:   s.draft.Headcount,
		Occasion:    s.draft.Occasion,
		TotalAmount: s.breakdownLocked().FinalTotal,
	}
	if s.editingID != nil {
		ib.BookingID = s.editingID.String()
	}
	return ib
}

// SweepExpired closes sessions idle for longer than the session TTL
func (m *Manager) SweepExpired(ctx context.Context) int {
	ttl := m.deps.Config.SessionTTL
	if ttl <= 0 {
		return 0
	}
	cutoff := m.deps.now().Add(-ttl)

	var expired []*Session
	m.mu.Lock()
	for id, s := range m.sessions {
		s.mu.Lock()
		idle := s.touchedAt.Before(cutoff) && !s.pay.inFlight
		s.mu.Unlock()
		if idle {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		m.closeSession(ctx, s)
	}
	return len(expired)
}

// Shutdown closes every open session and stops all pollers
func (m *Manager) Shutdown(ctx context.Context) {
	m.mu.Lock()
	open := make([]*Session, 0, len(m.sessions))
	for id, s := range m.sessions {
		open = append(open, s)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, s := range open {
		m.closeSession(ctx, s)
	}
	m.cancel()
}

// Len returns the number of open sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
