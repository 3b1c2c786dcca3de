package reports

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/healthyfood/calorie-hub/internal/access"
	"github.com/healthyfood/calorie-hub/internal/blob"
	"github.com/healthyfood/calorie-hub/internal/storage"
)

// Errors
var (
	ErrInvalidFormat    = fmt.Errorf("invalid format")
	ErrInvalidDate      = fmt.Errorf("invalid date format")
	ErrInvalidDateRange = fmt.Errorf("from date must be before to date")
	ErrRangeTooLarge    = fmt.Errorf("date range too large")
	ErrReportNotFound   = fmt.Errorf("report not found")
)

// Service — генерация и выдача отчётов. Отчёт принадлежит владельцу
// дневника; чужие отчёты недоступны ни на чтение, ни на удаление.
type Service struct {
	reportsStorage  storage.ReportsStorage
	generator       *Generator
	blobStore       blob.Store
	maxRangeDays    int
	listLimit       int
	presignTTL      int
	localMode       bool   // true if no S3 configured
	publicBaseURL   string // S3 public base URL (if prefer_public_url mode)
	preferPublicURL bool   // if true, use public URLs instead of presigned
}

// NewService creates a new reports service
func NewService(
	reportsStorage storage.ReportsStorage,
	generator *Generator,
	blobStore blob.Store,
	maxRangeDays int,
	listLimit int,
	presignTTL int,
	publicBaseURL string,
	preferPublicURL bool,
) *Service {
	return &Service{
		reportsStorage:  reportsStorage,
		generator:       generator,
		blobStore:       blobStore,
		maxRangeDays:    maxRangeDays,
		listLimit:       listLimit,
		presignTTL:      presignTTL,
		localMode:       blobStore == nil,
		publicBaseURL:   publicBaseURL,
		preferPublicURL: preferPublicURL,
	}
}

// CreateReport генерирует отчёт за период и сохраняет его.
func (s *Service) CreateReport(ctx context.Context, ownerID uuid.UUID, req CreateReportRequest) (*Report, error) {
	if req.Format != FormatPDF && req.Format != FormatCSV {
		return nil, ErrInvalidFormat
	}

	fromDate, err := time.Parse("2006-01-02", req.From)
	if err != nil {
		return nil, ErrInvalidDate
	}

	toDate, err := time.Parse("2006-01-02", req.To)
	if err != nil {
		return nil, ErrInvalidDate
	}

	if fromDate.After(toDate) {
		return nil, ErrInvalidDateRange
	}

	daysDiff := int(toDate.Sub(fromDate).Hours() / 24)
	if daysDiff > s.maxRangeDays {
		return nil, ErrRangeTooLarge
	}

	data, err := s.generator.GenerateReport(ctx, ownerID, req)
	if err != nil {
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}

	report := &storage.ReportMeta{
		OwnerID:   ownerID,
		Format:    req.Format,
		FromDate:  req.From,
		ToDate:    req.To,
		SizeBytes: int64(len(data)),
		Status:    StatusReady,
	}

	if s.localMode {
		report.Data = data
	} else {
		objectKey := fmt.Sprintf("reports/%s/%s_%s_%s.%s",
			ownerID.String(),
			req.From,
			req.To,
			uuid.New().String(),
			req.Format,
		)

		if _, err := s.blobStore.PutObject(ctx, objectKey, data, contentTypeFor(req.Format)); err != nil {
			return nil, fmt.Errorf("failed to upload to S3: %w", err)
		}

		report.ObjectKey = &objectKey
	}

	if err := s.reportsStorage.CreateReport(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to save report metadata: %w", err)
	}

	return toReport(report), nil
}

// GetReport retrieves a report by ID, checking ownership
func (s *Service) GetReport(ctx context.Context, userID, id uuid.UUID) (*Report, error) {
	meta, err := s.loadOwned(ctx, userID, access.OpRead, id)
	if err != nil {
		return nil, err
	}
	return toReport(meta), nil
}

// ListReports lists the owner's reports, newest first.
// limit <= 0 применяет лимит по умолчанию из конфигурации.
func (s *Service) ListReports(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]Report, error) {
	if limit <= 0 {
		limit = s.listLimit
	}

	metaList, err := s.reportsStorage.ListReports(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	reports := make([]Report, len(metaList))
	for i := range metaList {
		reports[i] = *toReport(&metaList[i])
	}

	return reports, nil
}

// DeleteReport deletes a report and its blob
func (s *Service) DeleteReport(ctx context.Context, userID, id uuid.UUID) error {
	meta, err := s.loadOwned(ctx, userID, access.OpDelete, id)
	if err != nil {
		return err
	}

	if !s.localMode && meta.ObjectKey != nil {
		// Metadata deletion is more important than the blob
		if err := s.blobStore.DeleteObject(ctx, *meta.ObjectKey); err != nil {
			log.Printf("WARN reports: failed to delete S3 object %s: %v", *meta.ObjectKey, err)
		}
	}

	if err := s.reportsStorage.DeleteReport(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrReportNotFound
		}
		return fmt.Errorf("failed to delete report metadata: %w", err)
	}

	return nil
}

// GetReportDownloadURL generates a download URL for a report
func (s *Service) GetReportDownloadURL(ctx context.Context, userID, id uuid.UUID, baseURL string) (string, error) {
	meta, err := s.loadOwned(ctx, userID, access.OpRead, id)
	if err != nil {
		return "", err
	}

	if s.localMode {
		return fmt.Sprintf("%s/v1/reports/%s/download", strings.TrimSuffix(baseURL, "/"), id.String()), nil
	}

	if meta.ObjectKey == nil {
		return "", fmt.Errorf("object key is missing")
	}

	if s.preferPublicURL && s.publicBaseURL != "" {
		return strings.TrimSuffix(s.publicBaseURL, "/") + "/" + *meta.ObjectKey, nil
	}

	presignedURL, err := s.blobStore.PresignGet(ctx, *meta.ObjectKey, s.presignTTL)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return presignedURL, nil
}

// GetReportData retrieves the raw report data (for local mode download)
func (s *Service) GetReportData(ctx context.Context, userID, id uuid.UUID) ([]byte, string, error) {
	meta, err := s.loadOwned(ctx, userID, access.OpRead, id)
	if err != nil {
		return nil, "", err
	}

	if !s.localMode {
		return nil, "", fmt.Errorf("S3 mode should use presigned URL redirect")
	}

	return meta.Data, contentTypeFor(meta.Format), nil
}

// loadOwned загружает отчёт и проверяет право userID на операцию.
// Чужой отчёт — apperr.Forbidden, отсутствующий — ErrReportNotFound.
func (s *Service) loadOwned(ctx context.Context, userID uuid.UUID, op access.Operation, id uuid.UUID) (*storage.ReportMeta, error) {
	meta, err := s.reportsStorage.GetReport(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report: %w", err)
	}

	if err := access.Authorize(access.EntityReport, op, userID, &meta.OwnerID); err != nil {
		return nil, err
	}

	return meta, nil
}

func contentTypeFor(format string) string {
	if format == FormatCSV {
		return "text/csv"
	}
	return "application/pdf"
}

// toReport converts ReportMeta to Report model
func toReport(meta *storage.ReportMeta) *Report {
	return &Report{
		ID:        meta.ID,
		OwnerID:   meta.OwnerID,
		Format:    meta.Format,
		FromDate:  meta.FromDate,
		ToDate:    meta.ToDate,
		ObjectKey: meta.ObjectKey,
		SizeBytes: meta.SizeBytes,
		Status:    meta.Status,
		Error:     meta.Error,
		CreatedAt: meta.CreatedAt,
		UpdatedAt: meta.UpdatedAt,
		Data:      meta.Data,
	}
}
