// internal/handlers/response.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/ammerola/reorder-dashboard/internal/core/domain"
)

// multipartMemory is the in-memory share of a parsed upload form
const multipartMemory = 10 << 20

func respondJSON(w http.ResponseWriter, logger *slog.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func respondError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	respondJSON(w, logger, status, map[string]string{"error": message})
}

// respondServiceError maps the domain error taxonomy onto HTTP statuses
func respondServiceError(w http.ResponseWriter, logger *slog.Logger, err error, fallback string) {
	var (
		validationErr *domain.ValidationError
		serverErr     *domain.ServerError
		networkErr    *domain.NetworkError
	)

	switch {
	case errors.As(err, &validationErr):
		respondError(w, logger, http.StatusBadRequest, domain.UserMessage(err, fallback))
	case errors.Is(err, domain.ErrSyncInProgress):
		respondError(w, logger, http.StatusConflict, err.Error())
	case errors.As(err, &serverErr):
		respondError(w, logger, http.StatusBadGateway, domain.UserMessage(err, fallback))
	case errors.As(err, &networkErr):
		respondError(w, logger, http.StatusServiceUnavailable, fallback)
	default:
		respondError(w, logger, http.StatusInternalServerError, fallback)
	}
}

// readUpload reads the "file" part of a multipart form. A missing part
// yields an empty filename so the service reports the missing file.
func readUpload(r *http.Request, maxSize int64) (string, []byte, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return "", nil, &domain.ValidationError{Field: "file", Message: "Please select a file to upload"}
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", nil, &domain.ValidationError{Field: "file", Message: fmt.Sprintf("File exceeds the %d byte limit", maxSize)}
		}
		return "", nil, &domain.ValidationError{Field: "file", Message: "Failed to parse form data"}
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil, nil
		}
		return "", nil, fmt.Errorf("read form file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", nil, fmt.Errorf("read uploaded file: %w", err)
	}
	return header.Filename, content, nil
}
