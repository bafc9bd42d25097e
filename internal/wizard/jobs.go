package wizard

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/svstupireburgh/FeelmeTown-sub000/pkg/logger"
)

// JobProcessor runs the background jobs of the wizard
type JobProcessor struct {
	manager *Manager
	config  *JobConfig
	log     *logger.Logger
	done    chan struct{}
	once    sync.Once
	running atomic.Bool
}

// JobConfig contains configuration for background jobs
type JobConfig struct {
	SweepInterval time.Duration
}

// DefaultJobConfig returns default job configuration
func DefaultJobConfig() *JobConfig {
	return &JobConfig{
		SweepInterval: 5 * time.Minute,
	}
}

// NewJobProcessor creates a new job processor
func NewJobProcessor(manager *Manager, config *JobConfig) *JobProcessor {
	if config == nil || config.SweepInterval <= 0 {
		config = DefaultJobConfig()
	}

	return &JobProcessor{
		manager: manager,
		config:  config,
		log:     manager.deps.Log,
		done:    make(chan struct{}),
	}
}

// Start starts all background jobs
func (jp *JobProcessor) Start(ctx context.Context) {
	jp.running.Store(true)
	go jp.startSweeper(ctx)
	jp.log.Info("Wizard background jobs started", "sweep_interval", jp.config.SweepInterval.String())
}

// Stop stops all background jobs
func (jp *JobProcessor) Stop() {
	jp.once.Do(func() {
		close(jp.done)
		jp.running.Store(false)
		jp.log.Info("Wizard background jobs stopped")
	})
}

// startSweeper closes abandoned sessions every sweep interval
func (jp *JobProcessor) startSweeper(ctx context.Context) {
	ticker := time.NewTicker(jp.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			jp.sweepExpiredSessions(ctx)
		case <-jp.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (jp *JobProcessor) sweepExpiredSessions(ctx context.Context) {
	if closed := jp.manager.SweepExpired(ctx); closed > 0 {
		jp.log.WithFields(map[string]interface{}{
			"count": closed,
			"open":  jp.manager.Len(),
		}).Info("Closed expired wizard sessions")
	}
}

// GetJobStatus returns the status of background jobs
func (jp *JobProcessor) GetJobStatus() map[string]interface{} {
	status := "stopped"
	if jp.running.Load() {
		status = "running"
	}
	return map[string]interface{}{
		"sweep_interval": jp.config.SweepInterval.String(),
		"open_sessions":  jp.manager.Len(),
		"status":         status,
	}
}
