package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"prodboard/internal/exporter"
	"prodboard/internal/services"
	"prodboard/internal/validation"
	"prodboard/internal/view"
)

// Report file names inside a run directory.
const (
	DiagnosticFile = "diagnostic.json"
	WorkbookFile   = "prodboard.xlsx"
)

// Report describes one written report run.
type Report struct {
	Dir        string
	Files      []string
	Diagnostic *services.DiagnosticReport
}

// WriteReport loads the sources, computes the view for req and writes the
// diagnostic, one CSV per table and a workbook with every table into the
// run directory of at.
func (a *Application) WriteReport(ctx context.Context, at time.Time, req view.Request) (*Report, error) {
	if err := a.Load(ctx); err != nil {
		return nil, err
	}

	validator := validation.NewFileValidator(a.Logger)
	dir := a.Paths.GetRunDir(at)
	if err := validator.ValidateOutputDirectory(dir); err != nil {
		return nil, err
	}
	report := &Report{Dir: dir}

	diag, err := a.Services.Dashboard.Diagnostic(ctx)
	if err != nil {
		return nil, err
	}
	report.Diagnostic = diag

	data, err := json.MarshalIndent(diag, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode diagnostic: %w", err)
	}
	diagPath := filepath.Join(dir, DiagnosticFile)
	if err := os.WriteFile(diagPath, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write diagnostic: %w", err)
	}
	report.Files = append(report.Files, diagPath)

	sheets, err := a.Services.Dashboard.Tables(ctx, req)
	if err != nil {
		return nil, err
	}

	files, err := exporter.NewCSVWriter(a.Paths, a.Logger).WriteSheets(dir, sheets)
	report.Files = append(report.Files, files...)
	if err != nil {
		return report, err
	}

	workbook := filepath.Join(dir, WorkbookFile)
	if err := writeWorkbook(workbook, sheets); err != nil {
		return report, err
	}
	report.Files = append(report.Files, workbook)

	for _, f := range report.Files {
		if err := validator.ValidateReportFile(f); err != nil {
			return report, err
		}
	}

	a.Logger.InfoContext(ctx, "Report written",
		slog.String("dir", dir),
		slog.Int("files", len(report.Files)),
		slog.Int("warnings", len(diag.Warnings)))
	return report, nil
}

func writeWorkbook(path string, sheets []exporter.Sheet) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create workbook: %w", err)
	}
	if err := exporter.WriteXLSX(file, sheets); err != nil {
		file.Close()
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return file.Close()
}
