package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/catalog"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/infrastructure/config"
)

type MockArticleSyncer struct {
	mock.Mock
}

func (m *MockArticleSyncer) Sync(ctx context.Context, trigger string) (*catalog.ArticleSyncRun, error) {
	args := m.Called(ctx, trigger)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ArticleSyncRun), args.Error(1)
}

func testSyncConfig() config.SyncConfig {
	return config.SyncConfig{
		Enabled:      true,
		Interval:     6 * time.Hour,
		MaxRetries:   3,
		RetryBackoff: 5 * time.Minute,
		MaxBackoff:   time.Hour,
	}
}

func TestRetryDelay(t *testing.T) {
	base := 5 * time.Minute
	assert.Equal(t, 5*time.Minute, RetryDelay(base, MaxRetryBackoff, 1))
	assert.Equal(t, 10*time.Minute, RetryDelay(base, MaxRetryBackoff, 2))
	assert.Equal(t, 20*time.Minute, RetryDelay(base, MaxRetryBackoff, 3))
	assert.Equal(t, 30*time.Minute, RetryDelay(base, MaxRetryBackoff, 4))
	assert.Equal(t, 30*time.Minute, RetryDelay(base, MaxRetryBackoff, 60))
	assert.Equal(t, 5*time.Minute, RetryDelay(base, MaxRetryBackoff, 0))
}

func TestNewArticleSyncScheduler_CapsMaxBackoff(t *testing.T) {
	s := NewArticleSyncScheduler(new(MockArticleSyncer), testSyncConfig(), nil)
	assert.Equal(t, MaxRetryBackoff, s.cfg.MaxBackoff)
}

func TestArticleSyncScheduler_RunOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("success waits a full interval", func(t *testing.T) {
		syncer := new(MockArticleSyncer)
		syncer.On("Sync", mock.Anything, "schedule").Return(catalog.NewArticleSyncRun("schedule"), nil).Once()
		s := NewArticleSyncScheduler(syncer, testSyncConfig(), nil)

		assert.Equal(t, 6*time.Hour, s.runOnce(ctx))
		st := s.Status()
		assert.NotNil(t, st.LastSuccessAt)
		assert.Zero(t, st.ConsecutiveFailures)
		syncer.AssertExpectations(t)
	})

	t.Run("failures back off exponentially then give up", func(t *testing.T) {
		syncer := new(MockArticleSyncer)
		syncer.On("Sync", mock.Anything, "schedule").Return(nil, errors.New("robaws down"))
		s := NewArticleSyncScheduler(syncer, testSyncConfig(), nil)

		assert.Equal(t, 5*time.Minute, s.runOnce(ctx))
		assert.Equal(t, 10*time.Minute, s.runOnce(ctx))
		assert.Equal(t, 20*time.Minute, s.runOnce(ctx))
		assert.Equal(t, "robaws down", s.Status().LastError)
		assert.Equal(t, 3, s.Status().ConsecutiveFailures)

		// retries exhausted: back to the regular interval
		assert.Equal(t, 6*time.Hour, s.runOnce(ctx))
		assert.Zero(t, s.Status().ConsecutiveFailures)
	})

	t.Run("success after failure resets the counter", func(t *testing.T) {
		syncer := new(MockArticleSyncer)
		syncer.On("Sync", mock.Anything, "schedule").Return(nil, errors.New("timeout")).Once()
		syncer.On("Sync", mock.Anything, "schedule").Return(catalog.NewArticleSyncRun("schedule"), nil).Once()
		s := NewArticleSyncScheduler(syncer, testSyncConfig(), nil)

		assert.Equal(t, 5*time.Minute, s.runOnce(ctx))
		assert.Equal(t, 6*time.Hour, s.runOnce(ctx))
		assert.Empty(t, s.Status().LastError)
	})

	t.Run("sync in progress is not a failure", func(t *testing.T) {
		syncer := new(MockArticleSyncer)
		syncer.On("Sync", mock.Anything, "schedule").
			Return(nil, shared.NewDomainError("SYNC_IN_PROGRESS", "busy")).Once()
		s := NewArticleSyncScheduler(syncer, testSyncConfig(), nil)

		assert.Equal(t, 6*time.Hour, s.runOnce(ctx))
		assert.Zero(t, s.Status().ConsecutiveFailures)
	})

	t.Run("timeout is applied to the sync context", func(t *testing.T) {
		cfg := testSyncConfig()
		cfg.Timeout = time.Minute
		syncer := new(MockArticleSyncer)
		syncer.On("Sync", mock.MatchedBy(func(c context.Context) bool {
			_, ok := c.Deadline()
			return ok
		}), "schedule").Return(catalog.NewArticleSyncRun("schedule"), nil).Once()
		s := NewArticleSyncScheduler(syncer, cfg, nil)

		s.runOnce(ctx)
		syncer.AssertExpectations(t)
	})
}

func TestArticleSyncScheduler_StartStop(t *testing.T) {
	synced := make(chan struct{}, 1)
	syncer := new(MockArticleSyncer)
	syncer.On("Sync", mock.Anything, "schedule").
		Run(func(mock.Arguments) {
			select {
			case synced <- struct{}{}:
			default:
			}
		}).
		Return(catalog.NewArticleSyncRun("schedule"), nil)

	cfg := testSyncConfig()
	cfg.InitialDelay = time.Millisecond
	s := NewArticleSyncScheduler(syncer, cfg, nil)

	require.NoError(t, s.Start(context.Background()))
	assert.ErrorIs(t, s.Start(context.Background()), ErrAlreadyRunning)
	assert.True(t, s.Status().Running)

	select {
	case <-synced:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduled sync did not run")
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(stopCtx))
	assert.False(t, s.Status().Running)
	assert.ErrorIs(t, s.Stop(stopCtx), ErrNotRunning)
}
