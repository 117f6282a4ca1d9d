package storage

import (
	"context"

	"github.com/opscart/k8s-waste-estimator/pkg/models"
)

// Store persists finished reports. Implementations must treat the report as read-only.
type Store interface {
	SaveReport(ctx context.Context, report *models.Report) (string, error)
	GetReport(ctx context.Context, id string) (*models.ReportSummary, error)
	ListReports(ctx context.Context, contextHash string, limit int) ([]*models.ReportSummary, error)

	Ping(ctx context.Context) error
	Close() error
}
