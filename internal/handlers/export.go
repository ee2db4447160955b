// internal/handlers/export.go
package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/ammerola/reorder-dashboard/internal/adapters/spreadsheet"
	"github.com/ammerola/reorder-dashboard/internal/core/ports"
	"github.com/ammerola/reorder-dashboard/internal/core/services"
	"github.com/ammerola/reorder-dashboard/internal/workers"
)

// WorkbookWriter renders rows into an xlsx file
type WorkbookWriter interface {
	Write(sheetName string, headers []string, rows [][]any) ([]byte, error)
}

// ExportHandler serves the reorder table as a download
type ExportHandler struct {
	dashboard *services.DashboardService
	workbook  WorkbookWriter
	archiver  ports.TaskEnqueuer
	logger    *slog.Logger
}

// NewExportHandler creates a new export handler. A nil archiver disables
// export archiving.
func NewExportHandler(dashboard *services.DashboardService, workbook WorkbookWriter, archiver ports.TaskEnqueuer, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		dashboard: dashboard,
		workbook:  workbook,
		archiver:  archiver,
		logger:    logger.With(slog.String("handler", "export")),
	}
}

// ExportJSONResponse is the body of GET /api/v1/export/json
type ExportJSONResponse struct {
	services.ExportSet
	Columns    []string `json:"columns"`
	TotalCount int      `json:"total_count"`
}

// ExportExcel handles GET /api/v1/export/excel
func (h *ExportHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	set, err := h.dashboard.ExportRows()
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to export")
		return
	}

	rows := make([][]any, len(set.Records))
	for i, rec := range set.Records {
		rows[i] = rec.Cells()
	}

	excelData, err := h.workbook.Write(services.ExportSheetName, services.ExportHeaders, rows)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate Excel file", slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to generate Excel file")
		return
	}

	w.Header().Set("Content-Type", spreadsheet.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, set.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(excelData)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if _, err := w.Write(excelData); err != nil {
		h.logger.ErrorContext(ctx, "failed to write Excel response", slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(ctx, "Excel export completed",
		slog.String("warehouse", set.Warehouse),
		slog.Int("total_rows", len(rows)),
		slog.String("filename", set.Filename))

	h.archive(ctx, set, excelData)
}

// ExportJSON handles GET /api/v1/export/json
func (h *ExportHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	set, err := h.dashboard.ExportRows()
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to export")
		return
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respondJSON(w, h.logger, http.StatusOK, ExportJSONResponse{
		ExportSet:  set,
		Columns:    services.ExportHeaders,
		TotalCount: len(set.Records),
	})
}

// archive enqueues a copy of the export; failures never affect the download
func (h *ExportHandler) archive(ctx context.Context, set services.ExportSet, content []byte) {
	if h.archiver == nil {
		return
	}

	task, err := workers.NewExportArchiveTask(workers.ExportArchivePayload{
		ExportID:    uuid.NewString(),
		Warehouse:   set.Warehouse,
		Filename:    set.Filename,
		ContentType: spreadsheet.ContentType,
		Content:     content,
		Rows:        len(set.Records),
		GeneratedAt: set.GeneratedAt,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build archive task", slog.String("error", err.Error()))
		return
	}

	info, err := h.archiver.EnqueueContext(context.WithoutCancel(ctx), task)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to enqueue export archive",
			slog.String("filename", set.Filename),
			slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(ctx, "export archive enqueued",
		slog.String("task_id", info.ID),
		slog.String("queue", info.Queue))
}
