// internal/core/ports/storage.go
package ports

import (
	"context"
	"io"
	"time"

	"github.com/hibiken/asynq"
)

// ArchiveStorage keeps copies of generated exports
type ArchiveStorage interface {
	Upload(ctx context.Context, key string, data io.Reader, contentType string) (string, error)
	GetPresignedURL(ctx context.Context, key string, duration time.Duration) (string, error)
	List(ctx context.Context, prefix string) ([]string, error)
}

// TaskEnqueuer is the subset of *asynq.Client the API needs
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}
