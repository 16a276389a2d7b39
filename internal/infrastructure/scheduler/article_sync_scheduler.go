// Package scheduler runs the periodic Robaws article sync.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/catalog"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/infrastructure/config"
)

// MaxRetryBackoff caps the delay between retries of a failed sync
const MaxRetryBackoff = 30 * time.Minute

var (
	// ErrAlreadyRunning is returned by Start on a started scheduler
	ErrAlreadyRunning = errors.New("scheduler: already running")
	// ErrNotRunning is returned by Stop on a stopped scheduler
	ErrNotRunning = errors.New("scheduler: not running")
)

// ArticleSyncer executes one full article sync
type ArticleSyncer interface {
	Sync(ctx context.Context, trigger string) (*catalog.ArticleSyncRun, error)
}

// Status is a snapshot of the scheduler state
type Status struct {
	Running             bool       `json:"running"`
	LastRunAt           *time.Time `json:"last_run_at,omitempty"`
	LastSuccessAt       *time.Time `json:"last_success_at,omitempty"`
	LastError           string     `json:"last_error,omitempty"`
	ConsecutiveFailures int        `json:"consecutive_failures"`
	NextRunAt           *time.Time `json:"next_run_at,omitempty"`
}

// ArticleSyncScheduler triggers the article sync on a fixed interval. A
// failed sync is retried with exponential backoff, starting at RetryBackoff
// and capped at MaxBackoff (never above MaxRetryBackoff). After MaxRetries
// failed retries it waits for the next regular interval.
type ArticleSyncScheduler struct {
	syncer ArticleSyncer
	cfg    config.SyncConfig
	logger *zap.Logger
	now    func() time.Time

	mu      sync.Mutex
	status  Status
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// NewArticleSyncScheduler creates a stopped scheduler
func NewArticleSyncScheduler(syncer ArticleSyncer, cfg config.SyncConfig, logger *zap.Logger) *ArticleSyncScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 6 * time.Hour
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = time.Minute
	}
	if cfg.MaxBackoff <= 0 || cfg.MaxBackoff > MaxRetryBackoff {
		cfg.MaxBackoff = MaxRetryBackoff
	}
	return &ArticleSyncScheduler{
		syncer: syncer,
		cfg:    cfg,
		logger: logger.With(zap.String("component", "article_sync_scheduler")),
		now:    time.Now,
	}
}

// Start launches the loop. The first sync runs after InitialDelay.
func (s *ArticleSyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrAlreadyRunning
	}
	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true
	s.status.Running = true

	go s.loop(loopCtx, s.cfg.InitialDelay)
	s.logger.Info("article sync scheduler started",
		zap.Duration("interval", s.cfg.Interval),
		zap.Duration("initial_delay", s.cfg.InitialDelay))
	return nil
}

// Stop ends the loop and waits for an in-flight sync until ctx expires
func (s *ArticleSyncScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return ErrNotRunning
	}
	s.running = false
	s.status.Running = false
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	cancel()
	select {
	case <-done:
		s.logger.Info("article sync scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Status returns the current state
func (s *ArticleSyncScheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *ArticleSyncScheduler) loop(ctx context.Context, wait time.Duration) {
	defer close(s.done)
	timer := time.NewTimer(wait)
	defer timer.Stop()
	s.setNextRun(wait)

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			next := s.runOnce(ctx)
			if ctx.Err() != nil {
				return
			}
			s.setNextRun(next)
			timer.Reset(next)
		}
	}
}

// runOnce performs one sync and returns the delay until the next attempt
func (s *ArticleSyncScheduler) runOnce(ctx context.Context) time.Duration {
	runCtx := ctx
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	started := s.now()
	run, err := s.syncer.Sync(runCtx, "schedule")

	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.LastRunAt = &started

	switch {
	case err == nil:
		s.status.LastSuccessAt = &started
		s.status.LastError = ""
		s.status.ConsecutiveFailures = 0
		fields := []zap.Field{zap.Duration("took", s.now().Sub(started))}
		if run != nil {
			fields = append(fields, zap.String("run_id", run.ID.String()))
		}
		s.logger.Info("scheduled article sync finished", fields...)
		return s.cfg.Interval

	case shared.IsDomainError(err, "SYNC_IN_PROGRESS"):
		// a manual run is busy; it counts as this interval's sync
		s.logger.Info("article sync already in progress, skipping")
		return s.cfg.Interval

	case ctx.Err() != nil:
		return s.cfg.Interval
	}

	s.status.LastError = err.Error()
	s.status.ConsecutiveFailures++
	failures := s.status.ConsecutiveFailures
	if failures > s.cfg.MaxRetries {
		s.logger.Error("article sync failed, retries exhausted",
			zap.Int("failures", failures),
			zap.Error(err))
		s.status.ConsecutiveFailures = 0
		return s.cfg.Interval
	}

	delay := RetryDelay(s.cfg.RetryBackoff, s.cfg.MaxBackoff, failures)
	s.logger.Warn("article sync failed, retrying",
		zap.Int("attempt", failures),
		zap.Duration("retry_in", delay),
		zap.Error(err))
	return delay
}

func (s *ArticleSyncScheduler) setNextRun(d time.Duration) {
	next := s.now().Add(d)
	s.mu.Lock()
	s.status.NextRunAt = &next
	s.mu.Unlock()
}

// RetryDelay returns base * 2^(attempt-1), capped at limit
func RetryDelay(base, limit time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := base
	for i := 1; i < attempt && delay < limit; i++ {
		delay *= 2
	}
	return min(delay, limit)
}
