// internal/scheduler/scheduler.go
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ammerola/reorder-dashboard/internal/core/domain"
	"github.com/ammerola/reorder-dashboard/internal/pkg/config"
)

// SyncTrigger starts sync runs through the same busy gate as manual triggers
type SyncTrigger interface {
	TriggerSync(ctx context.Context, kind domain.SyncKind) (<-chan struct{}, error)
}

// Scheduler triggers sync operations on cron schedules
type Scheduler struct {
	cron    *cron.Cron
	trigger SyncTrigger
	specs   map[domain.SyncKind]string
	logger  *slog.Logger
}

// NewScheduler creates a scheduler from the configured cron expressions.
// Kinds with an empty expression are not scheduled.
func NewScheduler(cfg config.SchedulerConfig, trigger SyncTrigger, logger *slog.Logger) (*Scheduler, error) {
	loc := time.Local
	if cfg.Timezone != "" {
		var err error
		loc, err = time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid scheduler timezone %q: %w", cfg.Timezone, err)
		}
	}

	return &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		trigger: trigger,
		specs: map[domain.SyncKind]string{
			domain.SyncInventory: cfg.InventoryCron,
			domain.SyncOrders:    cfg.OrdersCron,
			domain.SyncReorder:   cfg.ReorderCron,
		},
		logger: logger.With(slog.String("component", "scheduler")),
	}, nil
}

// Start registers every configured job and starts the cron loop.
// It returns the number of scheduled jobs.
func (s *Scheduler) Start() (int, error) {
	scheduled := 0
	for _, kind := range domain.SyncKinds() {
		spec := s.specs[kind]
		if spec == "" {
			continue
		}
		if _, err := s.cron.AddFunc(spec, s.job(kind)); err != nil {
			return scheduled, fmt.Errorf("failed to schedule %s sync: %w", kind, err)
		}
		s.logger.Info("sync scheduled",
			slog.String("kind", string(kind)),
			slog.String("cron", spec))
		scheduled++
	}

	if scheduled > 0 {
		s.cron.Start()
	}
	return scheduled, nil
}

// Stop stops the cron loop and waits for running jobs or ctx
func (s *Scheduler) Stop(ctx context.Context) {
	s.logger.Info("stopping scheduler")
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) job(kind domain.SyncKind) func() {
	return func() {
		ctx := context.Background()
		if _, err := s.trigger.TriggerSync(ctx, kind); err != nil {
			if errors.Is(err, domain.ErrSyncInProgress) {
				s.logger.InfoContext(ctx, "scheduled sync skipped, already running",
					slog.String("kind", string(kind)))
				return
			}
			s.logger.ErrorContext(ctx, "scheduled sync failed to start",
				slog.String("kind", string(kind)),
				slog.String("error", err.Error()))
			return
		}
		s.logger.InfoContext(ctx, "scheduled sync started", slog.String("kind", string(kind)))
	}
}
