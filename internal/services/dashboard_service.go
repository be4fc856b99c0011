package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"prodboard/internal/aggregate"
	apperrors "prodboard/internal/errors"
	"prodboard/internal/exporter"
	"prodboard/internal/filter"
	"prodboard/internal/repository"
	"prodboard/internal/view"
)

// SnapshotSource publishes the loaded data. *repository.Repository
// implements it.
type SnapshotSource interface {
	Snapshot() *repository.Snapshot
	Reload(ctx context.Context) (*repository.Snapshot, error)
}

// ExportFormat selects the file type of an export.
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatXLSX ExportFormat = "xlsx"
)

// ContentType returns the MIME type of the format.
func (f ExportFormat) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// SnapshotStatus summarizes the current snapshot.
type SnapshotStatus struct {
	Loaded   bool      `json:"loaded"`
	LoadedAt time.Time `json:"loaded_at,omitempty"`
	Duration string    `json:"load_duration,omitempty"`
	Records  int       `json:"records"`
	Dropped  int       `json:"dropped_rows"`
	Sectors  int       `json:"sectors"`
	// Composition reports whether the composition sources are loaded.
	Composition bool     `json:"composition"`
	Warnings    []string `json:"warnings"`
}

// StatusOf describes snap; a nil snapshot is reported as not loaded.
func StatusOf(snap *repository.Snapshot) SnapshotStatus {
	if snap == nil {
		return SnapshotStatus{Warnings: []string{}}
	}
	return SnapshotStatus{
		Loaded:      true,
		LoadedAt:    snap.LoadedAt,
		Duration:    snap.Duration.String(),
		Records:     len(snap.Records),
		Dropped:     snap.Dropped,
		Sectors:     len(snap.Sectors),
		Composition: snap.Composition != nil,
		Warnings:    append([]string{}, snap.Warnings...),
	}
}

// DiagnosticReport is the final diagnostic of the orders table.
type DiagnosticReport struct {
	aggregate.Diagnostic
	Warnings []string  `json:"warnings"`
	LoadedAt time.Time `json:"loaded_at"`
}

// DashboardService serves dashboard views over the current snapshot.
type DashboardService struct {
	source SnapshotSource
	engine *view.Engine
	logger *slog.Logger
}

// NewDashboardService creates a dashboard service.
func NewDashboardService(source SnapshotSource, engine *view.Engine, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		source: source,
		engine: engine,
		logger: logger.With(slog.String("component", "dashboard_service")),
	}
}

func (s *DashboardService) snapshot() (*repository.Snapshot, error) {
	snap := s.source.Snapshot()
	if snap == nil {
		return nil, errNotLoaded()
	}
	return snap, nil
}

// View computes the dashboard for req.
func (s *DashboardService) View(ctx context.Context, req view.Request) (*view.Model, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return s.engine.Compute(ctx, snap, req)
}

// Options lists the values each filter currently offers under set.
func (s *DashboardService) Options(ctx context.Context, set filter.Set) (filter.Choices, error) {
	snap, err := s.snapshot()
	if err != nil {
		return filter.Choices{}, err
	}
	return filter.Options(snap.Records, set), nil
}

// Diagnostic describes the loaded orders table.
func (s *DashboardService) Diagnostic(ctx context.Context) (*DiagnosticReport, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return &DiagnosticReport{
		Diagnostic: aggregate.NewDiagnostic(len(snap.Records), snap.Columns, snap.Dropped),
		Warnings:   append([]string{}, snap.Warnings...),
		LoadedAt:   snap.LoadedAt,
	}, nil
}

// Status reports the current snapshot.
func (s *DashboardService) Status() SnapshotStatus {
	return StatusOf(s.source.Snapshot())
}

// Reload reloads every source. On failure the previous snapshot stays in
// service and the error is returned.
func (s *DashboardService) Reload(ctx context.Context) (SnapshotStatus, error) {
	s.logger.InfoContext(ctx, "reload requested")
	snap, err := s.source.Reload(ctx)
	if err != nil {
		return s.Status(), err
	}
	return StatusOf(snap), nil
}

// Tables computes the view for req and flattens it into export sheets.
func (s *DashboardService) Tables(ctx context.Context, req view.Request) ([]exporter.Sheet, error) {
	model, err := s.View(ctx, req)
	if err != nil {
		return nil, err
	}
	return exporter.Tables(model), nil
}

// Export writes the view for req to w. CSV exports carry the single table
// named by table, the daily production when empty; XLSX exports carry every
// table.
func (s *DashboardService) Export(ctx context.Context, w io.Writer, format ExportFormat, table string, req view.Request) error {
	if format != FormatCSV && format != FormatXLSX {
		return apperrors.NewAppValidationError(fmt.Sprintf("unsupported export format %q", format))
	}
	sheets, err := s.Tables(ctx, req)
	if err != nil {
		return err
	}

	if format == FormatXLSX {
		err = exporter.WriteXLSX(w, sheets)
	} else {
		if table == "" {
			table = exporter.SheetDaily
		}
		sheet, ok := exporter.Find(sheets, table)
		if !ok {
			return apperrors.NewNotFoundError(fmt.Sprintf("table %q", table)).WithContext("table", table)
		}
		err = exporter.WriteCSV(w, sheet, exporter.WriteOptions{BOMPrefix: true})
	}
	if err != nil {
		return apperrors.NewStorageError("export failed", err)
	}

	s.logger.DebugContext(ctx, "export written",
		slog.String("format", string(format)),
		slog.String("table", table),
		slog.Int("sheets", len(sheets)))
	return nil
}
