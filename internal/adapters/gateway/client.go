// internal/adapters/gateway/client.go
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ammerola/reorder-dashboard/internal/core/domain"
	"github.com/ammerola/reorder-dashboard/internal/core/ports"
)

// Reorder service endpoints
const (
	pathReorder         = "/api/reorder"
	pathReorderGenerate = "/api/reorder/generate"
	pathOrdersSync      = "/api/reorder/upload/orders"
	pathInventorySync   = "/api/inventory/sync"
	pathLastSync        = "/api/inventory/last-sync"
	pathUpload          = "/api/upload/%s-direct"
	pathPivotSKUDate    = "/api/pivot/sku-date"
)

// Config holds the reorder service connection settings
type Config struct {
	BaseURL string
	// ReadTimeout bounds dataset and last-sync reads. Sync calls run unbounded.
	ReadTimeout time.Duration
	UserAgent   string
}

// Client is a resty-backed implementation of ports.ReorderGateway
type Client struct {
	http        *resty.Client
	readTimeout time.Duration
	logger      *slog.Logger
}

var _ ports.ReorderGateway = (*Client)(nil)

// NewClient builds a reorder service client
func NewClient(cfg Config, logger *slog.Logger) *Client {
	logger = logger.With(slog.String("component", "reorder_gateway"))

	httpClient := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetRetryCount(0).
		SetLogger(&restyLogger{logger: logger})
	if cfg.UserAgent != "" {
		httpClient.SetHeader("User-Agent", cfg.UserAgent)
	}
	httpClient.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		logger.DebugContext(resp.Request.Context(), "reorder service call",
			slog.String("method", resp.Request.Method),
			slog.String("url", resp.Request.URL),
			slog.Int("status", resp.StatusCode()),
			slog.Duration("duration", resp.Time()))
		return nil
	})

	return &Client{
		http:        httpClient,
		readTimeout: cfg.ReadTimeout,
		logger:      logger,
	}
}

// apiError is the failure body shape used by the reorder service
type apiError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (e *apiError) text() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

type datasetResponse struct {
	Data []domain.InventoryRecord `json:"data"`
}

type lastSyncResponse struct {
	LastSync *time.Time `json:"lastSync"`
}

type uploadResponse struct {
	Message string `json:"message"`
	Rows    int    `json:"rows"`
}

// FetchDataset handles GET /api/reorder?warehouse={id}
func (c *Client) FetchDataset(ctx context.Context, warehouseID string) ([]domain.InventoryRecord, error) {
	ctx, cancel := c.withReadTimeout(ctx)
	defer cancel()

	result := new(datasetResponse)
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("warehouse", warehouseID).
		SetResult(result).
		SetError(&apiError{}).
		Get(pathReorder)
	if err := check("fetch reorder dataset", resp, err); err != nil {
		return nil, err
	}

	records := make([]domain.InventoryRecord, 0, len(result.Data))
	for _, r := range result.Data {
		if err := r.Validate(); err != nil {
			c.logger.WarnContext(ctx, "skipping invalid reorder record",
				slog.String("sku_code", r.SKUCode),
				slog.String("error", err.Error()))
			continue
		}
		records = append(records, r)
	}

	return records, nil
}

// SyncInventory handles POST /api/inventory/sync
func (c *Client) SyncInventory(ctx context.Context) (*domain.InventorySyncResult, error) {
	result := new(domain.InventorySyncResult)
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(result).
		SetError(&apiError{}).
		Post(pathInventorySync)
	if err := check("sync inventory", resp, err); err != nil {
		return nil, err
	}
	return result, nil
}

// SyncOrders handles POST /api/reorder/upload/orders
func (c *Client) SyncOrders(ctx context.Context) (*domain.OrderSyncResult, error) {
	result := new(domain.OrderSyncResult)
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(result).
		SetError(&apiError{}).
		Post(pathOrdersSync)
	if err := check("sync orders", resp, err); err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, &domain.ServerError{
			Op:         "sync orders",
			StatusCode: resp.StatusCode(),
			Message:    result.Message,
		}
	}
	return result, nil
}

// GenerateReorder handles POST /api/reorder/generate
func (c *Client) GenerateReorder(ctx context.Context) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetError(&apiError{}).
		Post(pathReorderGenerate)
	return check("generate reorder", resp, err)
}

// FetchLastSync handles GET /api/inventory/last-sync
func (c *Client) FetchLastSync(ctx context.Context) (*time.Time, error) {
	ctx, cancel := c.withReadTimeout(ctx)
	defer cancel()

	result := new(lastSyncResponse)
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(result).
		SetError(&apiError{}).
		Get(pathLastSync)
	if err := check("fetch last sync", resp, err); err != nil {
		return nil, err
	}
	return result.LastSync, nil
}

// UploadFile handles POST /api/upload/{type}-direct with multipart field "file"
func (c *Client) UploadFile(ctx context.Context, uploadType domain.UploadType, filename string, content io.Reader) (*domain.UploadAck, error) {
	result := new(uploadResponse)
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("file", filename, content).
		SetResult(result).
		SetError(&apiError{}).
		Post(fmt.Sprintf(pathUpload, uploadType))
	if err := check("upload "+string(uploadType), resp, err); err != nil {
		return nil, err
	}
	return &domain.UploadAck{
		Type:     uploadType,
		Filename: filename,
		Rows:     result.Rows,
		Message:  result.Message,
	}, nil
}

// PivotSKUDate handles POST /api/pivot/sku-date with multipart field "file"
func (c *Client) PivotSKUDate(ctx context.Context, filename string, content io.Reader) (*domain.PivotResult, error) {
	result := new(domain.PivotResult)
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("file", filename, content).
		SetResult(result).
		SetError(&apiError{}).
		Post(pathPivotSKUDate)
	if err := check("pivot sku by date", resp, err); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) withReadTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.readTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.readTimeout)
}

// check maps transport failures and non-2xx answers onto the domain taxonomy
func check(op string, resp *resty.Response, err error) error {
	if err != nil {
		return &domain.NetworkError{Op: op, Err: err}
	}
	if resp.IsError() {
		return &domain.ServerError{
			Op:         op,
			StatusCode: resp.StatusCode(),
			Message:    errorMessage(resp),
		}
	}
	return nil
}

func errorMessage(resp *resty.Response) string {
	if e, ok := resp.Error().(*apiError); ok {
		if msg := e.text(); msg != "" {
			return msg
		}
	}
	// Service sometimes answers errors without a JSON content type
	var e apiError
	if err := json.Unmarshal(resp.Body(), &e); err == nil {
		return e.text()
	}
	return ""
}

// restyLogger routes resty's internal logging into slog
type restyLogger struct {
	logger *slog.Logger
}

func (l *restyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

func (l *restyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, v...))
}

func (l *restyLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, v...))
}
