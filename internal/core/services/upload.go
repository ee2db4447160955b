// internal/core/services/upload.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/ammerola/reorder-dashboard/internal/core/domain"
	"github.com/ammerola/reorder-dashboard/internal/core/ports"
)

const uploadFailed = "Something went wrong"

// Notifier publishes operator notifications
type Notifier interface {
	Notify(n domain.Notification) domain.Notification
}

// allowedUploadExtensions mirrors the file picker of the upload page
var allowedUploadExtensions = map[string]bool{".xlsx": true, ".xls": true, ".csv": true}

// UploadService forwards raw order and inventory files to the reorder service
type UploadService struct {
	gateway  ports.ReorderGateway
	workbook ports.WorkbookReader
	notifier Notifier
	maxSize  int64
	logger   *slog.Logger
}

// NewUploadService creates an upload service. maxSize <= 0 disables the size check.
func NewUploadService(gateway ports.ReorderGateway, workbook ports.WorkbookReader, notifier Notifier, maxSize int64, logger *slog.Logger) *UploadService {
	return &UploadService{
		gateway:  gateway,
		workbook: workbook,
		notifier: notifier,
		maxSize:  maxSize,
		logger:   logger.With(slog.String("service", "upload")),
	}
}

// Upload validates and forwards one file. Every outcome is also published
// as a notification.
func (s *UploadService) Upload(ctx context.Context, uploadType domain.UploadType, filename string, content []byte) (*domain.UploadAck, error) {
	ack, err := s.upload(ctx, uploadType, filename, content)
	if err != nil {
		s.logger.ErrorContext(ctx, "upload failed",
			slog.String("type", string(uploadType)),
			slog.String("filename", filename),
			slog.String("error", err.Error()))
		s.publish(domain.Failure("Upload Failed", domain.UserMessage(err, uploadFailed)))
		return nil, err
	}

	s.logger.InfoContext(ctx, "file uploaded",
		slog.String("type", string(uploadType)),
		slog.String("filename", filename),
		slog.Int("rows", ack.Rows))
	s.publish(domain.Success("Upload Successful",
		fmt.Sprintf("%s uploaded successfully", strings.ToUpper(string(uploadType)))))
	return ack, nil
}

func (s *UploadService) upload(ctx context.Context, uploadType domain.UploadType, filename string, content []byte) (*domain.UploadAck, error) {
	if filename == "" || len(content) == 0 {
		return nil, &domain.ValidationError{Field: "file", Message: "Please select a file to upload"}
	}
	if s.maxSize > 0 && int64(len(content)) > s.maxSize {
		return nil, &domain.ValidationError{Field: "file", Message: fmt.Sprintf("File exceeds the %d byte limit", s.maxSize)}
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedUploadExtensions[ext] {
		return nil, &domain.ValidationError{Field: "file", Message: "Only .xlsx, .xls and .csv files are accepted"}
	}

	rows := 0
	if ext == ".xlsx" && s.workbook != nil {
		n, err := s.workbook.CountDataRows(content)
		if err != nil {
			return nil, &domain.ValidationError{Field: "file", Message: "File is not a readable Excel workbook"}
		}
		if n == 0 {
			return nil, &domain.ValidationError{Field: "file", Message: "Workbook has no data rows"}
		}
		rows = n
	}

	ack, err := s.gateway.UploadFile(ctx, uploadType, filepath.Base(filename), bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", uploadType, err)
	}
	if ack.Rows == 0 {
		ack.Rows = rows
	}
	return ack, nil
}

func (s *UploadService) publish(n domain.Notification) {
	if s.notifier != nil {
		s.notifier.Notify(n)
	}
}
