package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"prodboard/internal/config"
)

// bom is the UTF-8 byte order mark
var bom = []byte{0xEF, 0xBB, 0xBF}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes one sheet as CSV to w.
func WriteCSV(w io.Writer, sheet Sheet, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := w.Write(bom); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if len(sheet.Headers) > 0 {
		if err := writer.Write(sheet.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range sheet.Rows {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// CSVWriter writes sheets as CSV files under the reports directory
type CSVWriter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(paths *config.Paths, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{paths: paths, logger: logger.With(slog.String("component", "csv_writer"))}
}

// WriteFile writes one sheet to filePath. Relative paths resolve against
// the reports directory.
func (w *CSVWriter) WriteFile(filePath string, sheet Sheet) (string, error) {
	fullPath := w.resolvePath(filePath)

	w.logger.Info("writing CSV file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(sheet.Rows)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if err := WriteCSV(file, sheet, WriteOptions{BOMPrefix: true}); err != nil {
		file.Close()
		return "", err
	}
	return fullPath, file.Close()
}

// WriteSheets writes every sheet as <dir>/<name>.csv and returns the paths.
func (w *CSVWriter) WriteSheets(dir string, sheets []Sheet) ([]string, error) {
	files := make([]string, 0, len(sheets))
	for _, s := range sheets {
		path, err := w.WriteFile(filepath.Join(dir, s.Name+".csv"), s)
		if err != nil {
			return files, fmt.Errorf("export %s: %w", s.Name, err)
		}
		files = append(files, path)
	}
	return files, nil
}

// resolvePath resolves a relative path to the reports directory
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) || w.paths == nil {
		return filePath
	}
	return w.paths.GetReportPath(filePath)
}
