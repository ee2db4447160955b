// internal/core/services/pivot.go
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ammerola/reorder-dashboard/internal/core/domain"
	"github.com/ammerola/reorder-dashboard/internal/core/ports"
)

// Pivot export layout
const (
	PivotSheetName    = "Pivot"
	PivotExportName   = "SKU_Pivot.xlsx"
	pivotBuildFailed  = "Failed to build pivot"
	defaultPivotTTL   = 24 * time.Hour
	pivotLatestSuffix = "latest"
)

// PivotService builds SKU × date sales pivots through the reorder service
// and keeps the most recent one for display and export
type PivotService struct {
	gateway  ports.ReorderGateway
	cache    ports.CacheRepository
	notifier Notifier
	ttl      time.Duration
	logger   *slog.Logger

	mu     sync.RWMutex
	latest *domain.PivotResult
}

// NewPivotService creates a pivot service; cache and notifier may be nil
func NewPivotService(gateway ports.ReorderGateway, cache ports.CacheRepository, notifier Notifier, ttl time.Duration, logger *slog.Logger) *PivotService {
	if ttl <= 0 {
		ttl = defaultPivotTTL
	}
	return &PivotService{
		gateway:  gateway,
		cache:    cache,
		notifier: notifier,
		ttl:      ttl,
		logger:   logger.With(slog.String("service", "pivot")),
	}
}

// Build sends a sales file to the reorder service and stores the cleaned pivot
func (s *PivotService) Build(ctx context.Context, filename string, content []byte) (*domain.PivotResult, error) {
	if filename == "" || len(content) == 0 {
		err := &domain.ValidationError{Field: "file", Message: "Please select a file to upload"}
		s.publish(domain.Warning("File Required", err.Message))
		return nil, err
	}

	raw, err := s.gateway.PivotSKUDate(ctx, filename, bytes.NewReader(content))
	if err != nil {
		s.logger.ErrorContext(ctx, "pivot request failed",
			slog.String("filename", filename),
			slog.String("error", err.Error()))
		s.publish(domain.Failure("Pivot Failed", domain.UserMessage(err, pivotBuildFailed)))
		return nil, fmt.Errorf("build pivot: %w", err)
	}

	result := CleanPivot(raw)

	s.mu.Lock()
	s.latest = result
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.SetWithTTL(ctx, ports.BuildKey(ports.PrefixPivot, pivotLatestSuffix), result, s.ttl); err != nil {
			s.logger.WarnContext(ctx, "failed to cache pivot", slog.String("error", err.Error()))
		}
	}

	s.logger.InfoContext(ctx, "pivot built",
		slog.String("filename", filename),
		slog.Int("skus", len(result.Data)),
		slog.Int("dates", len(result.Dates)))
	return result, nil
}

// Latest returns the last pivot built by this process or, after a restart,
// the cached one. ok is false when no pivot exists.
func (s *PivotService) Latest(ctx context.Context) (result *domain.PivotResult, ok bool) {
	s.mu.RLock()
	latest := s.latest
	s.mu.RUnlock()
	if latest != nil {
		return latest, true
	}
	if s.cache == nil {
		return nil, false
	}

	var cached domain.PivotResult
	if err := s.cache.Get(ctx, ports.BuildKey(ports.PrefixPivot, pivotLatestSuffix), &cached); err != nil {
		if !errors.Is(err, ports.ErrCacheMiss) {
			s.logger.WarnContext(ctx, "failed to read cached pivot", slog.String("error", err.Error()))
		}
		return nil, false
	}

	s.mu.Lock()
	if s.latest == nil {
		s.latest = &cached
	}
	latest = s.latest
	s.mu.Unlock()
	return latest, true
}

func (s *PivotService) publish(n domain.Notification) {
	if s.notifier != nil {
		s.notifier.Notify(n)
	}
}

// CleanPivot drops null and empty date columns
func CleanPivot(raw *domain.PivotResult) *domain.PivotResult {
	out := &domain.PivotResult{Data: raw.Data, Dates: make([]string, 0, len(raw.Dates))}
	for _, d := range raw.Dates {
		if d == "" || d == "null" {
			continue
		}
		out.Dates = append(out.Dates, d)
	}
	if out.Data == nil {
		out.Data = []domain.PivotRow{}
	}
	return out
}

// PivotTable flattens a pivot into export headers and rows: SKU Code, one
// column per date, Grand Total and the average rounded to 2 decimals.
// Dates without sales are left blank.
func PivotTable(p *domain.PivotResult) (headers []string, rows [][]any) {
	headers = make([]string, 0, len(p.Dates)+3)
	headers = append(headers, "SKU Code")
	headers = append(headers, p.Dates...)
	headers = append(headers, "Grand Total", "Average")

	rows = make([][]any, 0, len(p.Data))
	for _, r := range p.Data {
		row := make([]any, 0, len(headers))
		row = append(row, r.SKUCode)
		for _, d := range p.Dates {
			if n, ok := r.Counts[d]; ok && n != 0 {
				row = append(row, n)
			} else {
				row = append(row, "")
			}
		}
		row = append(row, r.Total, decimal.NewFromFloat(r.Average).StringFixed(2))
		rows = append(rows, row)
	}
	return headers, rows
}
