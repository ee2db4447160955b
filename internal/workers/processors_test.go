// internal/workers/processors_test.go
package workers_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/reorder-dashboard/internal/adapters/storage"
	"github.com/ammerola/reorder-dashboard/internal/workers"
	"github.com/ammerola/reorder-dashboard/test/helpers"
	"github.com/ammerola/reorder-dashboard/test/mocks"
)

func TestNewExportArchiveTask(t *testing.T) {
	task, err := workers.NewExportArchiveTask(workers.ExportArchivePayload{
		Warehouse: "WH3",
		Filename:  "reorder_WH3_2026-10-15.xlsx",
		Content:   []byte("xlsx"),
	})
	require.NoError(t, err)
	assert.Equal(t, workers.TypeExportArchive, task.Type())

	var decoded workers.ExportArchivePayload
	require.NoError(t, json.Unmarshal(task.Payload(), &decoded))
	assert.Equal(t, "WH3", decoded.Warehouse)
	assert.Equal(t, []byte("xlsx"), decoded.Content)

	_, err = workers.NewExportArchiveTask(workers.ExportArchivePayload{Warehouse: "WH3"})
	assert.Error(t, err)
}

func TestArchiveProcessor_ArchiveExport(t *testing.T) {
	valid := workers.ExportArchivePayload{
		ExportID:    "exp-1",
		Warehouse:   "WH4",
		Filename:    "reorder_WH4_2026-10-15.xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Content:     []byte("PK-fake-xlsx"),
		Rows:        3,
		GeneratedAt: time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name          string
		payload       []byte
		setupMocks    func(*mocks.MockArchiveStorage)
		expectedError bool
		skipRetry     bool
	}{
		{
			name:    "uploads_under_warehouse_prefix",
			payload: mustJSON(t, valid),
			setupMocks: func(m *mocks.MockArchiveStorage) {
				m.EXPECT().
					Upload(gomock.Any(), "exports/WH4/reorder_WH4_2026-10-15.xlsx", gomock.Any(), valid.ContentType).
					DoAndReturn(func(_ context.Context, _ string, data io.Reader, _ string) (string, error) {
						body, err := io.ReadAll(data)
						require.NoError(t, err)
						assert.Equal(t, valid.Content, body)
						return "s3://reorder-exports/exports/WH4/reorder_WH4_2026-10-15.xlsx", nil
					})
			},
		},
		{
			name:          "malformed_payload_is_not_retried",
			payload:       []byte("{not json"),
			setupMocks:    func(m *mocks.MockArchiveStorage) {},
			expectedError: true,
			skipRetry:     true,
		},
		{
			name: "empty_content_is_not_retried",
			payload: mustJSON(t, workers.ExportArchivePayload{
				Warehouse: "WH4",
				Filename:  "reorder_WH4_2026-10-15.xlsx",
			}),
			setupMocks:    func(m *mocks.MockArchiveStorage) {},
			expectedError: true,
			skipRetry:     true,
		},
		{
			name:    "storage_failure_is_retried",
			payload: mustJSON(t, valid),
			setupMocks: func(m *mocks.MockArchiveStorage) {
				m.EXPECT().
					Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return("", errors.New("bucket unavailable"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := mocks.NewMockArchiveStorage(ctrl)
			tt.setupMocks(store)

			processor := workers.NewArchiveProcessor(store, helpers.TestLogger())
			err := processor.ArchiveExport(context.Background(), asynq.NewTask(workers.TypeExportArchive, tt.payload))

			if !tt.expectedError {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.skipRetry, errors.Is(err, asynq.SkipRetry))
		})
	}
}

func TestArchiveProcessor_LocalStorage(t *testing.T) {
	dir := t.TempDir()
	processor := workers.NewArchiveProcessor(storage.NewLocalStorage(dir, helpers.TestLogger()), helpers.TestLogger())

	payload := workers.ExportArchivePayload{
		Warehouse: "WH3",
		Filename:  "reorder_WH3_2026-10-15.xlsx",
		Content:   []byte("contents"),
	}
	require.NoError(t, processor.ArchiveExport(context.Background(), asynq.NewTask(workers.TypeExportArchive, mustJSON(t, payload))))

	stored, err := os.ReadFile(filepath.Join(dir, "exports", "WH3", "reorder_WH3_2026-10-15.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, "contents", string(stored))
}

func TestCleanupProcessor_CleanupTempFiles(t *testing.T) {
	dir := t.TempDir()
	oldFile := filepath.Join(dir, "exports", "WH3", "old.xlsx")
	require.NoError(t, os.MkdirAll(filepath.Dir(oldFile), 0o755))
	require.NoError(t, os.WriteFile(oldFile, []byte("old"), 0o644))
	newFile := helpers.CreateTempFile(t, dir, []byte("new"), ".xlsx")

	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(oldFile, stale, stale))

	processor := workers.NewCleanupProcessor(dir, 24*time.Hour, helpers.TestLogger())
	require.NoError(t, processor.CleanupTempFiles(context.Background(), workers.NewCleanupTempFilesTask()))

	_, err := os.Stat(oldFile)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(newFile)
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Dir(oldFile))
	assert.NoError(t, err, "directories are kept")
}

func TestCleanupProcessor_MissingDir(t *testing.T) {
	processor := workers.NewCleanupProcessor(filepath.Join(t.TempDir(), "absent"), time.Hour, helpers.TestLogger())
	assert.NoError(t, processor.CleanupTempFiles(context.Background(), workers.NewCleanupTempFilesTask()))
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}
