// internal/workers/tasks.go
package workers

import (
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/hibiken/asynq"
)

// Task types
const (
	TypeExportArchive    = "export:archive"
	TypeCleanupTempFiles = "cleanup:temp_files"
)

// Queues
const (
	QueueDefault = "default"
	QueueLow     = "low"
)

// ExportArchivePayload carries a generated export to the archive
type ExportArchivePayload struct {
	ExportID    string    `json:"export_id"`
	Warehouse   string    `json:"warehouse"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Content     []byte    `json:"content"`
	Rows        int       `json:"rows"`
	GeneratedAt time.Time `json:"generated_at"`
}

// ArchiveKey is the object key an export is stored under
func ArchiveKey(warehouse, filename string) string {
	return path.Join("exports", warehouse, filename)
}

// NewExportArchiveTask builds the asynq task for an export
func NewExportArchiveTask(p ExportArchivePayload) (*asynq.Task, error) {
	if p.Warehouse == "" || p.Filename == "" {
		return nil, fmt.Errorf("export archive payload needs a warehouse and a filename")
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal archive payload: %w", err)
	}
	return asynq.NewTask(TypeExportArchive, data,
		asynq.Queue(QueueLow),
		asynq.MaxRetry(5),
		asynq.Timeout(2*time.Minute),
		asynq.Retention(24*time.Hour),
	), nil
}

// NewCleanupTempFilesTask builds the periodic temp file sweep task
func NewCleanupTempFilesTask() *asynq.Task {
	return asynq.NewTask(TypeCleanupTempFiles, nil, asynq.Queue(QueueLow), asynq.MaxRetry(1))
}
