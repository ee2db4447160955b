// test/helpers/helpers.go
package helpers

import (
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/reorder-dashboard/internal/core/domain"
	"github.com/ammerola/reorder-dashboard/internal/pkg/config"
)

// TestRedis represents a test Redis instance
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	if testing.Verbose() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// SetupTestRedis creates a mock Redis instance for testing
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return &TestRedis{
		Client: client,
		Server: mr,
	}
}

// LoadTestConfig returns a test configuration
func LoadTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "reorder-dashboard-test",
			Environment: "test",
			Version:     "test",
			LogLevel:    "debug",
			LogFormat:   "text",
			Debug:       true,
		},
		Gateway: config.GatewayConfig{
			BaseURL:     "http://127.0.0.1:5000",
			ReadTimeout: 5 * time.Second,
			UserAgent:   "reorder-dashboard-test",
		},
		Dashboard: config.DashboardConfig{
			Warehouses:           domain.DefaultWarehouses(),
			DefaultWarehouse:     domain.DefaultWarehouseID,
			SnapshotTTL:          time.Hour,
			PivotTTL:             time.Hour,
			NotificationCapacity: 20,
		},
		Redis: config.RedisConfig{
			Host:      "localhost",
			Port:      "6379",
			DB:        0,
			TTL:       time.Hour,
			PoolSize:  10,
			KeyPrefix: "reorder-test",
		},
		FileProcessing: config.FileProcessingConfig{
			UploadMaxSizeMB:   5,
			ProcessingTimeout: time.Minute,
			TempDir:           os.TempDir(),
		},
		Security: config.SecurityConfig{
			RateLimitRequests: 100,
			RateLimitDuration: time.Minute,
			AllowedOrigins:    []string{"*"},
			SecureHeaders:     false,
			RequestIDHeader:   "X-Request-ID",
		},
		Server: config.ServerConfig{
			Host:         "localhost",
			Port:         "8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
	}
}

// CreateTestRecord creates an allow-listed inventory record
func CreateTestRecord(overrides ...func(*domain.InventoryRecord)) domain.InventoryRecord {
	record := domain.InventoryRecord{
		SKUCode:             "1001003",
		CurrentStock:        120,
		AvgDailySales:       2.5,
		NumberOfDays:        48,
		ReorderPoint:        75,
		SuggestedReorderQty: 0,
	}

	for _, override := range overrides {
		override(&record)
	}

	return record
}

// SampleRecords returns a small mixed dataset: two critical, one warning,
// one healthy allow-listed SKU and one SKU outside the allow-list
func SampleRecords() []domain.InventoryRecord {
	return []domain.InventoryRecord{
		CreateTestRecord(func(r *domain.InventoryRecord) {
			r.SKUCode = "1001003"
			r.CurrentStock = 12
			r.AvgDailySales = 1.25
			r.NumberOfDays = 9
			r.ReorderPoint = 40
			r.SuggestedReorderQty = 60
		}),
		CreateTestRecord(func(r *domain.InventoryRecord) {
			r.SKUCode = "1001057"
			r.CurrentStock = 30
			r.AvgDailySales = 1.5
			r.NumberOfDays = 20
			r.ReorderPoint = 45
			r.SuggestedReorderQty = 40
		}),
		CreateTestRecord(func(r *domain.InventoryRecord) {
			r.SKUCode = "ACC-02"
			r.CurrentStock = 70
			r.AvgDailySales = 2
			r.NumberOfDays = 35
			r.ReorderPoint = 60
		}),
		CreateTestRecord(func(r *domain.InventoryRecord) {
			r.SKUCode = "1001071"
			r.CurrentStock = 400
			r.AvgDailySales = 4
			r.NumberOfDays = 100
			r.ReorderPoint = 120
		}),
		CreateTestRecord(func(r *domain.InventoryRecord) {
			r.SKUCode = "9999999"
			r.NumberOfDays = 1
			r.SuggestedReorderQty = 10
		}),
	}
}

// CreateTestRecords creates count critical records cycling through the allow-list
func CreateTestRecords(count int) []domain.InventoryRecord {
	entries := domain.DefaultAllowList().Entries()
	records := make([]domain.InventoryRecord, count)
	for i := 0; i < count; i++ {
		records[i] = CreateTestRecord(func(r *domain.InventoryRecord) {
			r.SKUCode = entries[i%len(entries)].SKUCode
			r.CurrentStock = 10 + i
			r.NumberOfDays = i % 60
			r.SuggestedReorderQty = i % 3
		})
	}
	return records
}

// AssertEventuallyWithTimeout asserts that a condition is met within a timeout
func AssertEventuallyWithTimeout(t *testing.T, condition func() bool, timeout time.Duration, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Errorf("Condition not met within %v: %s", timeout, msg)
}

// CreateTempFile creates a temporary file in dir for testing
func CreateTempFile(t *testing.T, dir string, content []byte, extension string) string {
	t.Helper()

	file, err := os.CreateTemp(dir, fmt.Sprintf("test-*%s", extension))
	require.NoError(t, err, "Failed to create temp file")

	_, err = file.Write(content)
	require.NoError(t, err, "Failed to write to temp file")

	file.Close()

	t.Cleanup(func() {
		os.Remove(file.Name())
	})

	return file.Name()
}
