package wizard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobProcessor_SweepsExpiredSessions(t *testing.T) {
	env := newTestEnv(t)
	env.open(t)
	env.clock.Advance(3 * time.Hour)
	fresh := env.open(t)

	jp := NewJobProcessor(env.manager, &JobConfig{SweepInterval: 10 * time.Millisecond})
	assert.Equal(t, "stopped", jp.GetJobStatus()["status"])

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	jp.Start(ctx)

	require.Eventually(t, func() bool { return env.manager.Len() == 1 }, time.Second, 5*time.Millisecond)
	_, err := env.manager.Get(fresh.ID)
	assert.NoError(t, err)

	status := jp.GetJobStatus()
	assert.Equal(t, "running", status["status"])
	assert.Equal(t, "10ms", status["sweep_interval"])
	assert.Equal(t, 1, status["open_sessions"])

	jp.Stop()
	jp.Stop()
	assert.Equal(t, "stopped", jp.GetJobStatus()["status"])
}

func TestNewJobProcessor_DefaultInterval(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, DefaultJobConfig().SweepInterval, NewJobProcessor(env.manager, nil).config.SweepInterval)
	assert.Equal(t, DefaultJobConfig().SweepInterval, NewJobProcessor(env.manager, &JobConfig{}).config.SweepInterval)
}
