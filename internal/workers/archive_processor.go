// internal/workers/archive_processor.go
package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/ammerola/reorder-dashboard/internal/core/ports"
)

// ArchiveProcessor stores generated exports in the archive storage
type ArchiveProcessor struct {
	storage ports.ArchiveStorage
	logger  *slog.Logger
}

// NewArchiveProcessor creates a new archive processor
func NewArchiveProcessor(storage ports.ArchiveStorage, logger *slog.Logger) *ArchiveProcessor {
	return &ArchiveProcessor{
		storage: storage,
		logger:  logger.With(slog.String("processor", "archive")),
	}
}

// ArchiveExport uploads one export to exports/{warehouse}/{filename}
func (p *ArchiveProcessor) ArchiveExport(ctx context.Context, t *asynq.Task) error {
	var payload ExportArchivePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.Warehouse == "" || payload.Filename == "" || len(payload.Content) == 0 {
		return fmt.Errorf("incomplete archive payload for %q: %w", payload.Filename, asynq.SkipRetry)
	}

	key := ArchiveKey(payload.Warehouse, payload.Filename)
	location, err := p.storage.Upload(ctx, key, bytes.NewReader(payload.Content), payload.ContentType)
	if err != nil {
		return fmt.Errorf("failed to archive %s: %w", key, err)
	}

	p.logger.InfoContext(ctx, "export archived",
		slog.String("export_id", payload.ExportID),
		slog.String("warehouse", payload.Warehouse),
		slog.String("key", key),
		slog.String("location", location),
		slog.Int("rows", payload.Rows))

	return nil
}
