package services

import (
	"context"
	"time"

	"taskpulse/internal/models"
	"taskpulse/internal/pdf"
	"taskpulse/internal/repositories"
)

// ReportService exposes the delivery log to the operational audit view.
type ReportService interface {
	Deliveries(ctx context.Context, filter models.DeliveryFilter) ([]models.DeliveryLogEntry, int, error)
	// ExportPDF renders the filtered audit trail and returns the file path.
	ExportPDF(ctx context.Context, filter models.DeliveryFilter) (string, error)
}

type reportService struct {
	deliveries repositories.DeliveryLogRepository
	generator  pdf.Generator
}

func NewReportService(deliveries repositories.DeliveryLogRepository, generator pdf.Generator) ReportService {
	return &reportService{deliveries: deliveries, generator: generator}
}

func (s *reportService) Deliveries(ctx context.Context, filter models.DeliveryFilter) ([]models.DeliveryLogEntry, int, error) {
	return s.deliveries.List(ctx, filter)
}

func (s *reportService) ExportPDF(ctx context.Context, filter models.DeliveryFilter) (string, error) {
	if filter.PageSize <= 0 {
		filter.PageSize = 200
	}
	entries, total, err := s.deliveries.List(ctx, filter)
	if err != nil {
		return "", err
	}
	return s.generator.GenerateDeliveryReport(pdf.DeliveryReportData{
		Entries:     entries,
		Total:       total,
		GeneratedAt: time.Now(),
	})
}
