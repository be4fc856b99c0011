package http

import (
	"context"
	"io"

	"prodboard/internal/filter"
	"prodboard/internal/services"
	"prodboard/internal/view"
	"prodboard/pkg/contracts/domain"
)

// DashboardService defines the dashboard operations the handlers use
type DashboardService interface {
	View(ctx context.Context, req view.Request) (*view.Model, error)
	Options(ctx context.Context, set filter.Set) (filter.Choices, error)
	Diagnostic(ctx context.Context) (*services.DiagnosticReport, error)
	Reload(ctx context.Context) (services.SnapshotStatus, error)
	Export(ctx context.Context, w io.Writer, format services.ExportFormat, table string, req view.Request) error
}

// CompositionService defines the composition operations the handlers use
type CompositionService interface {
	Quote(ctx context.Context, req domain.QuoteRequest) (*domain.Quote, error)
	Products(ctx context.Context) ([]string, error)
}
