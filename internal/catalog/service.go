package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/svstupireburgh/FeelmeTown-sub000/internal/shared/constants"
	"github.com/svstupireburgh/FeelmeTown-sub000/pkg/cache"
	"github.com/svstupireburgh/FeelmeTown-sub000/pkg/logger"
)

// FetchError is a failed catalog or pricing load. It never blocks a wizard:
// the loader logs it and serves the last-known or default snapshot instead.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("catalog fetch from %s failed: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Service loads catalog snapshots for wizard sessions
type Service interface {
	// Load always returns a usable snapshot
	Load(ctx context.Context) *Snapshot
	// Refresh drops the cached snapshot and refetches it from the database
	Refresh(ctx context.Context) (*Snapshot, error)
}

type service struct {
	repo     Repository
	cache    cache.Service
	defaults Defaults
	log      *logger.Logger

	mu        sync.RWMutex
	lastKnown *Snapshot
}

// NewService creates a catalog loader. cacheSvc may be nil.
func NewService(repo Repository, cacheSvc cache.Service, defaults Defaults) Service {
	return &service{
		repo:     repo,
		cache:    cacheSvc,
		defaults: defaults,
		log:      logger.GetDefault(),
	}
}

func (s *service) Load(ctx context.Context) *Snapshot {
	var (
		snap Snapshot
		err  error
	)

	if s.cache != nil {
		err = s.cache.GetOrSet(ctx, constants.CACHE_KEY_CATALOG_SNAPSHOT, constants.TTL_CATALOG_SNAPSHOT,
			func() (interface{}, error) { return s.fetch(ctx) }, &snap)
	} else {
		var fetched *Snapshot
		fetched, err = s.fetch(ctx)
		if fetched != nil {
			snap = *fetched
		}
	}

	if err == nil {
		s.mu.Lock()
		s.lastKnown = &snap
		s.mu.Unlock()
		return &snap
	}

	s.log.LogCatalogFallback(ctx, "database", err)
	return s.fallback(ctx)
}

func (s *service) Refresh(ctx context.Context) (*Snapshot, error) {
	snap, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, constants.CACHE_KEY_CATALOG_SNAPSHOT, snap, constants.TTL_CATALOG_SNAPSHOT); err != nil {
			s.log.Warn("failed to cache refreshed catalog", slog.Any("error", err))
		}
	}

	s.mu.Lock()
	s.lastKnown = snap
	s.mu.Unlock()
	return snap, nil
}

func (s *service) fetch(ctx context.Context) (*Snapshot, error) {
	theaters, err := s.repo.ListTheaters(ctx)
	if err != nil {
		return nil, &FetchError{Source: "theaters", Err: err}
	}
	services, err := s.repo.ListServices(ctx)
	if err != nil {
		return nil, &FetchError{Source: "services", Err: err}
	}
	occasions, err := s.repo.ListOccasions(ctx)
	if err != nil {
		return nil, &FetchError{Source: "occasions", Err: err}
	}
	movies, err := s.repo.ListMovies(ctx)
	if err != nil {
		return nil, &FetchError{Source: "movies", Err: err}
	}
	pricing, err := s.repo.GetPricing(ctx)
	if err != nil {
		return nil, &FetchError{Source: "pricing", Err: err}
	}

	snap := &Snapshot{
		Theaters:  theaters,
		Services:  services,
		Occasions: occasions,
		Movies:    movies,
		FetchedAt: time.Now(),
	}
	if pricing != nil {
		snap.Pricing = *pricing
	} else {
		snap.Pricing = DefaultSnapshot(s.defaults).Pricing
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, constants.CACHE_KEY_CATALOG_LAST_KNOWN, snap, constants.TTL_CATALOG_LAST_KNOWN); err != nil {
			s.log.Warn("failed to store last-known catalog", slog.Any("error", err))
		}
	}
	return snap, nil
}

// fallback serves the last good snapshot from memory, then from Redis, then the hardcoded defaults
func (s *service) fallback(ctx context.Context) *Snapshot {
	s.mu.RLock()
	last := s.lastKnown
	s.mu.RUnlock()

	if last != nil {
		cp := *last
		cp.Fallback = true
		return &cp
	}

	if s.cache != nil {
		var snap Snapshot
		if err := s.cache.Get(ctx, constants.CACHE_KEY_CATALOG_LAST_KNOWN, &snap); err == nil {
			snap.Fallback = true
			return &snap
		}
	}

	return DefaultSnapshot(s.defaults)
}
