package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryService_TTLAndTake(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryService()
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "feelmetown:wizard:handoff:abc", map[string]string{"movie": "m-1"}, time.Minute))

	var got map[string]string
	require.NoError(t, m.Take(ctx, "feelmetown:wizard:handoff:abc", &got))
	assert.Equal(t, "m-1", got["movie"])

	// consumed exactly once
	err := m.Take(ctx, "feelmetown:wizard:handoff:abc", &got)
	assert.True(t, errors.Is(err, ErrCacheMiss))

	require.NoError(t, m.Set(ctx, "short", 1, time.Second))
	now = now.Add(2 * time.Second)
	assert.False(t, m.Exists(ctx, "short"))
}

func TestMemoryService_GetOrSetAndPattern(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryService()

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return []string{"18:00", "21:00"}, nil
	}

	var slots []string
	require.NoError(t, m.GetOrSet(ctx, "feelmetown:bookings:slots:2024-05-01:gold", time.Minute, fetch, &slots))
	require.NoError(t, m.GetOrSet(ctx, "feelmetown:bookings:slots:2024-05-01:gold", time.Minute, fetch, &slots))
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"18:00", "21:00"}, slots)

	require.NoError(t, m.DeletePattern(ctx, "feelmetown:bookings:slots:*"))
	assert.False(t, m.Exists(ctx, "feelmetown:bookings:slots:2024-05-01:gold"))
}
