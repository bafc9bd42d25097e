package wizard

import (
	"context"
	"time"
)

// startPolling refreshes booked slots every interval until ctx is cancelled.
// Each poll runs on its own goroutine so a slow one never delays the next; the
// latest completed poll wins.
func (s *Session) startPolling(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				go s.RefreshSlots(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// RefreshSlots reloads the booked slots of the draft's theater and date. A
// result for a theater or date the draft has since moved away from is dropped.
func (s *Session) RefreshSlots(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.draft.TheaterName == "" || s.draft.Date == "" {
		return
	}
	theater, date := s.draft.TheaterName, s.draft.Date
	exclude := s.editingID

	var (
		slots []string
		err   error
	)
	s.withoutLock(func() {
		slots, err = s.deps.Bookings.BookedSlots(ctx, date, theater, exclude)
	})
	if err != nil {
		if ctx.Err() == nil {
			s.deps.Log.WithSession(s.ID).WithError(err).Warn("Failed to refresh booked slots", "theater", theater, "date", date)
		}
		return
	}
	if s.closed || s.draft.TheaterName != theater || s.draft.Date != date {
		return
	}
	s.bookedSlots = slots
}

// BookedSlots returns the last known booked slots
func (s *Session) BookedSlots() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.bookedSlots...)
}
