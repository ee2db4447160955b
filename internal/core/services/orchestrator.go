// internal/core/services/orchestrator.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ammerola/reorder-dashboard/internal/core/domain"
	"github.com/ammerola/reorder-dashboard/internal/core/ports"
	"github.com/ammerola/reorder-dashboard/internal/pkg/metrics"
)

// SyncHooks are the only way a finished run touches dashboard state
type SyncHooks struct {
	// RefreshDataset re-fetches the active warehouse; it reports its own failures
	RefreshDataset func(ctx context.Context) error
	// AdvanceLastUpdated receives the backend-reported sync time
	AdvanceLastUpdated func(ts time.Time)
	Notify             func(n domain.Notification)
}

type syncSlot struct {
	busy      bool
	status    string
	startedAt time.Time
}

// SyncOrchestrator runs inventory sync, order sync and reorder generation.
// Each kind has one slot; a trigger while the slot is busy is dropped.
// Different kinds run concurrently.
type SyncOrchestrator struct {
	gateway ports.ReorderGateway
	hooks   SyncHooks
	metrics *metrics.SyncMetrics
	logger  *slog.Logger
	now     func() time.Time

	mu    sync.Mutex
	slots map[domain.SyncKind]*syncSlot
	wg    sync.WaitGroup
}

// NewSyncOrchestrator creates an orchestrator with all slots idle
func NewSyncOrchestrator(gateway ports.ReorderGateway, hooks SyncHooks, m *metrics.SyncMetrics, logger *slog.Logger) *SyncOrchestrator {
	slots := make(map[domain.SyncKind]*syncSlot)
	for _, kind := range domain.SyncKinds() {
		slots[kind] = &syncSlot{}
	}
	if hooks.RefreshDataset == nil {
		hooks.RefreshDataset = func(context.Context) error { return nil }
	}
	if hooks.AdvanceLastUpdated == nil {
		hooks.AdvanceLastUpdated = func(time.Time) {}
	}
	if hooks.Notify == nil {
		hooks.Notify = func(domain.Notification) {}
	}
	return &SyncOrchestrator{
		gateway: gateway,
		hooks:   hooks,
		metrics: m,
		logger:  logger.With(slog.String("service", "sync_orchestrator")),
		now:     time.Now,
		slots:   slots,
	}
}

// Trigger starts a run of kind unless one is already in flight.
// The run is detached from ctx cancellation; done closes when it finishes.
func (o *SyncOrchestrator) Trigger(ctx context.Context, kind domain.SyncKind) (done <-chan struct{}, accepted bool) {
	o.mu.Lock()
	slot, ok := o.slots[kind]
	if !ok {
		o.mu.Unlock()
		o.logger.WarnContext(ctx, "unknown sync kind", slog.String("kind", string(kind)))
		return nil, false
	}
	if slot.busy {
		o.mu.Unlock()
		o.metrics.Dropped(string(kind))
		o.logger.DebugContext(ctx, "sync already running, trigger dropped", slog.String("kind", string(kind)))
		return nil, false
	}
	slot.busy = true
	slot.status = kind.BusyMessage()
	slot.startedAt = o.now()
	o.wg.Add(1)
	o.mu.Unlock()

	o.metrics.Triggered(string(kind))
	o.logger.InfoContext(ctx, "sync started", slog.String("kind", string(kind)))

	finished := make(chan struct{})
	runCtx := context.WithoutCancel(ctx)
	go func() {
		defer close(finished)
		defer o.wg.Done()
		o.run(runCtx, kind)
	}()
	return finished, true
}

// States returns every slot in display order
func (o *SyncOrchestrator) States() []domain.SyncOperationState {
	o.mu.Lock()
	defer o.mu.Unlock()

	states := make([]domain.SyncOperationState, 0, len(o.slots))
	for _, kind := range domain.SyncKinds() {
		slot := o.slots[kind]
		state := domain.SyncOperationState{Kind: kind, Busy: slot.busy, StatusMessage: slot.status}
		if slot.busy {
			started := slot.startedAt
			state.StartedAt = &started
		}
		states = append(states, state)
	}
	return states
}

// Busy reports whether kind is running
func (o *SyncOrchestrator) Busy(kind domain.SyncKind) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	slot, ok := o.slots[kind]
	return ok && slot.busy
}

// Wait blocks until all in-flight runs finish or ctx ends
func (o *SyncOrchestrator) Wait(ctx context.Context) error {
	drained := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(drained)
	}()
	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (o *SyncOrchestrator) run(ctx context.Context, kind domain.SyncKind) {
	start := time.Now()
	defer o.release(kind)

	var (
		note domain.Notification
		err  error
	)
	switch kind {
	case domain.SyncInventory:
		note, err = o.syncInventory(ctx)
	case domain.SyncOrders:
		note, err = o.syncOrders(ctx)
	case domain.SyncReorder:
		note, err = o.generateReorder(ctx)
	}

	elapsed := time.Since(start)
	if err != nil {
		o.metrics.Completed(string(kind), metrics.OutcomeFailure, elapsed)
		o.logger.ErrorContext(ctx, "sync failed",
			slog.String("kind", string(kind)),
			slog.Duration("duration", elapsed),
			slog.String("error", err.Error()))
		o.hooks.Notify(domain.Failure("Error", domain.UserMessage(err, kind.FailureFallback())))
		return
	}

	o.metrics.Completed(string(kind), metrics.OutcomeSuccess, elapsed)
	o.logger.InfoContext(ctx, "sync completed",
		slog.String("kind", string(kind)),
		slog.Duration("duration", elapsed))
	o.hooks.Notify(note)
}

func (o *SyncOrchestrator) syncInventory(ctx context.Context) (domain.Notification, error) {
	result, err := o.gateway.SyncInventory(ctx)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("inventory sync: %w", err)
	}

	o.refresh(ctx, domain.SyncInventory)
	o.hooks.AdvanceLastUpdated(result.LastSync)

	return domain.Success("Inventory Synced",
		fmt.Sprintf("Success: %d, Failed: %d", result.Success, result.Failed)), nil
}

func (o *SyncOrchestrator) syncOrders(ctx context.Context) (domain.Notification, error) {
	result, err := o.gateway.SyncOrders(ctx)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("orders sync: %w", err)
	}

	return domain.Success("Orders Synced",
		fmt.Sprintf("Pages: %d, Inserted: %d, Raw records: %d",
			result.Data.PagesProcessed, result.Data.Inserted, result.Data.RawRecords)), nil
}

func (o *SyncOrchestrator) generateReorder(ctx context.Context) (domain.Notification, error) {
	if err := o.gateway.GenerateReorder(ctx); err != nil {
		return domain.Notification{}, fmt.Errorf("reorder generation: %w", err)
	}

	o.refresh(ctx, domain.SyncReorder)

	return domain.Success("Success", "Reorder generated successfully"), nil
}

// refresh failures are already surfaced by the dataset loader; the run still succeeds
func (o *SyncOrchestrator) refresh(ctx context.Context, kind domain.SyncKind) {
	if err := o.hooks.RefreshDataset(ctx); err != nil {
		o.logger.WarnContext(ctx, "dataset refresh after sync failed",
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()))
	}
}

func (o *SyncOrchestrator) release(kind domain.SyncKind) {
	o.mu.Lock()
	defer o.mu.Unlock()
	slot := o.slots[kind]
	slot.busy = false
	slot.status = ""
	slot.startedAt = time.Time{}
}
