// internal/core/ports/gateway.go
package ports

import (
	"context"
	"io"
	"time"

	"github.com/ammerola/reorder-dashboard/internal/core/domain"
)

// ReorderGateway is the typed client of the remote reorder service.
// Implementations do not retry; failures surface as domain.NetworkError
// or domain.ServerError.
type ReorderGateway interface {
	FetchDataset(ctx context.Context, warehouseID string) ([]domain.InventoryRecord, error)
	SyncInventory(ctx context.Context) (*domain.InventorySyncResult, error)
	SyncOrders(ctx context.Context) (*domain.OrderSyncResult, error)
	GenerateReorder(ctx context.Context) error
	// FetchLastSync returns nil when the service has never synced
	FetchLastSync(ctx context.Context) (*time.Time, error)
	UploadFile(ctx context.Context, uploadType domain.UploadType, filename string, content io.Reader) (*domain.UploadAck, error)
	PivotSKUDate(ctx context.Context, filename string, content io.Reader) (*domain.PivotResult, error)
}
