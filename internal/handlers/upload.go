// internal/handlers/upload.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ammerola/reorder-dashboard/internal/core/domain"
	"github.com/ammerola/reorder-dashboard/internal/core/services"
)

// uploadOverhead allows for multipart framing around the file itself
const uploadOverhead = 1 << 20

// UploadHandler forwards raw order and inventory files
type UploadHandler struct {
	uploads *services.UploadService
	maxSize int64
	logger  *slog.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploads *services.UploadService, maxSize int64, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		uploads: uploads,
		maxSize: maxSize,
		logger:  logger.With(slog.String("handler", "upload")),
	}
}

// Upload handles POST /api/v1/upload/{type} with a multipart "file" field
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	uploadType, err := domain.ParseUploadType(r.PathValue("type"))
	if err != nil {
		respondServiceError(w, h.logger, err, "Unsupported upload type")
		return
	}

	if h.maxSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxSize+uploadOverhead)
	}

	filename, content, err := readUpload(r, h.maxSize)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to read upload", slog.String("error", err.Error()))
		respondServiceError(w, h.logger, err, "Failed to read uploaded file")
		return
	}

	ack, err := h.uploads.Upload(ctx, uploadType, filename, content)
	if err != nil {
		respondServiceError(w, h.logger, err, "Something went wrong")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, ack)
}
