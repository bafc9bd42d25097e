package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/svstupireburgh/FeelmeTown-sub000/internal/shared/constants"
	"github.com/svstupireburgh/FeelmeTown-sub000/pkg/cache"

	"github.com/google/uuid"
)

// Handoff carries wizard input chosen on another page, such as a movie picked
// from the movies page, to the session that opens next.
type Handoff struct {
	Context SessionContext `json:"context"`
	MovieID string         `json:"movieId,omitempty"`
	// Draft is a draft started elsewhere; nil to start fresh
	Draft *Draft `json:"draft,omitempty"`
}

// HandoffStore keeps handoffs in Redis until they are consumed or expire.
// Every handoff can be read exactly once.
type HandoffStore struct {
	cache cache.Service
	ttl   time.Duration
}

func NewHandoffStore(cacheSvc cache.Service, ttl time.Duration) *HandoffStore {
	return &HandoffStore{cache: cacheSvc, ttl: ttl}
}

// Put stores h and returns the token to open the wizard with
func (hs *HandoffStore) Put(ctx context.Context, h Handoff) (string, error) {
	token := uuid.NewString()
	if err := hs.cache.Set(ctx, constants.BuildHandoffKey(token), h, hs.ttl); err != nil {
		return "", fmt.Errorf("failed to store handoff: %w", err)
	}
	return token, nil
}

// Take returns the handoff of token and deletes it
func (hs *HandoffStore) Take(ctx context.Context, token string) (*Handoff, error) {
	var h Handoff
	if err := hs.cache.Take(ctx, constants.BuildHandoffKey(token), &h); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, ErrHandoffNotFound
		}
		return nil, fmt.Errorf("failed to read handoff: %w", err)
	}
	if h.Draft != nil {
		h.Draft = h.Draft.Clone()
	}
	return &h, nil
}
