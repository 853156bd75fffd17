package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"seisprep/internal/table"
)

// Exporter writes processed datasets and metadata to the output directory.
// Write failures are fatal for the run; no partial-file cleanup is
// attempted.
type Exporter struct {
	outDir string
	logger *slog.Logger
}

// NewExporter creates an exporter rooted at outDir.
func NewExporter(outDir string, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{outDir: outDir, logger: logger}
}

// WriteTable writes a table as a delimited file with a header row and no
// row-index column.
func (e *Exporter) WriteTable(name string, t *table.Table) error {
	if err := os.MkdirAll(e.outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(e.outDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns()); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", name, err)
	}
	for i, rec := range t.Records() {
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("failed to write record %d of %s: %w", i, name, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", name, err)
	}

	e.logger.Info("wrote dataset",
		slog.String("path", path),
		slog.Int("rows", t.NumRows()),
		slog.Int("columns", t.NumColumns()))
	return nil
}

// WriteJSON writes v as indented JSON.
func (e *Exporter) WriteJSON(name string, v any) error {
	if err := os.MkdirAll(e.outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	path := filepath.Join(e.outDir, name)
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	e.logger.Info("wrote metadata", slog.String("path", path))
	return nil
}
