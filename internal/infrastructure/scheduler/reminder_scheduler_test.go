package scheduler

import (
	"context"
	"testing"
	"time"

	appbilling "github.com/crediario/backend/internal/application/billing"
	"github.com/crediario/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testReminderConfig() config.ReminderConfig {
	return config.ReminderConfig{
		Enabled:       true,
		DaysAhead:     3,
		RunAt:         "08:00",
		DispatchEvery: time.Hour,
		DispatchBatch: 100,
	}
}

func newTestScheduler(t *testing.T, cfg config.ReminderConfig) *ReminderScheduler {
	scope := appbilling.NewNoOpTransactionScope(nil, nil, nil, nil, nil)
	svc := appbilling.NewNotificationService(scope, nil, nil, zap.NewNop())

	s, err := NewReminderScheduler(cfg, svc, zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestNewReminderScheduler(t *testing.T) {
	t.Run("parses run time", func(t *testing.T) {
		s := newTestScheduler(t, testReminderConfig())
		assert.Equal(t, 8, s.runHour)
		assert.Equal(t, 0, s.runMinute)
	})

	t.Run("rejects malformed run time", func(t *testing.T) {
		cfg := testReminderConfig()
		cfg.RunAt = "8 o'clock"

		scope := appbilling.NewNoOpTransactionScope(nil, nil, nil, nil, nil)
		svc := appbilling.NewNotificationService(scope, nil, nil, zap.NewNop())

		_, err := NewReminderScheduler(cfg, svc, zap.NewNop())
		assert.Error(t, err)
	})
}

func TestReminderScheduler_StartStop(t *testing.T) {
	s := newTestScheduler(t, testReminderConfig())

	ctx := context.Background()
	require.NoError(t, s.Start(ctx))

	// Second start is a no-op
	require.NoError(t, s.Start(ctx))

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(stopCtx))

	// Stopping again is also a no-op
	require.NoError(t, s.Stop(stopCtx))
}
