package scheduler

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/reorder-dashboard/internal/core/domain"
	"github.com/ammerola/reorder-dashboard/internal/pkg/config"
	"github.com/ammerola/reorder-dashboard/test/helpers"
)

type fakeTrigger struct {
	mu    sync.Mutex
	kinds []domain.SyncKind
	err   error
}

func (f *fakeTrigger) TriggerSync(ctx context.Context, kind domain.SyncKind) (<-chan struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kinds = append(f.kinds, kind)
	if f.err != nil {
		return nil, f.err
	}
	done := make(chan struct{})
	close(done)
	return done, nil
}

func (f *fakeTrigger) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.kinds)
}

func TestScheduler_Start(t *testing.T) {
	trigger := &fakeTrigger{}
	s, err := NewScheduler(config.SchedulerConfig{
		InventoryCron: "*/30 * * * *",
		ReorderCron:   "0 6 * * *",
		Timezone:      "Asia/Kolkata",
	}, trigger, helpers.TestLogger())
	require.NoError(t, err)

	n, err := s.Start()
	require.NoError(t, err)
	defer s.Stop(context.Background())

	assert.Equal(t, 2, n)
	assert.Len(t, s.cron.Entries(), 2)
	assert.Equal(t, "Asia/Kolkata", s.cron.Location().String())
}

func TestScheduler_NothingConfigured(t *testing.T) {
	s, err := NewScheduler(config.SchedulerConfig{}, &fakeTrigger{}, helpers.TestLogger())
	require.NoError(t, err)

	n, err := s.Start()
	require.NoError(t, err)
	assert.Zero(t, n)
	s.Stop(context.Background())
}

func TestScheduler_InvalidConfig(t *testing.T) {
	_, err := NewScheduler(config.SchedulerConfig{Timezone: "Mars/Olympus"}, &fakeTrigger{}, helpers.TestLogger())
	assert.Error(t, err)

	s, err := NewScheduler(config.SchedulerConfig{OrdersCron: "every day"}, &fakeTrigger{}, helpers.TestLogger())
	require.NoError(t, err)
	_, err = s.Start()
	assert.ErrorContains(t, err, "orders")
}

func TestScheduler_JobGoesThroughTrigger(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "accepted"},
		{name: "busy", err: fmt.Errorf("inventory: %w", domain.ErrSyncInProgress)},
		{name: "other_error", err: &domain.ValidationError{Field: "kind", Message: "nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trigger := &fakeTrigger{err: tt.err}
			s, err := NewScheduler(config.SchedulerConfig{}, trigger, helpers.TestLogger())
			require.NoError(t, err)

			assert.NotPanics(t, s.job(domain.SyncInventory))
			assert.Equal(t, []domain.SyncKind{domain.SyncInventory}, trigger.kinds)
		})
	}
}

func TestScheduler_FiresOnSchedule(t *testing.T) {
	trigger := &fakeTrigger{}
	s, err := NewScheduler(config.SchedulerConfig{ReorderCron: "@every 1s"}, trigger, helpers.TestLogger())
	require.NoError(t, err)
	_, err = s.Start()
	require.NoError(t, err)
	defer s.Stop(context.Background())

	helpers.AssertEventuallyWithTimeout(t, func() bool { return trigger.calls() > 0 }, 3*time.Second,
		"reorder sync was not triggered")

	trigger.mu.Lock()
	defer trigger.mu.Unlock()
	assert.Equal(t, domain.SyncReorder, trigger.kinds[0])
}

func TestScheduler_StopHonorsContext(t *testing.T) {
	s, err := NewScheduler(config.SchedulerConfig{InventoryCron: "* * * * *"}, &fakeTrigger{}, helpers.TestLogger())
	require.NoError(t, err)
	_, err = s.Start()
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
	assert.NoError(t, ctx.Err())
}
