package table

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
)

// Frame is one ingested file: its parsed table plus provenance.
type Frame struct {
	Source string
	Table  *Table
}

// Loader discovers and parses raw simulation output files. Per-file
// failures are logged and skipped so one malformed file never aborts a run.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader with the given diagnostics sink.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// LoadDir recursively scans dir for raw data files (*.csv, *.hdf5, *.h5,
// *.xlsx), parses each independently, and tags every row with its source
// file name. Files are visited in lexical order for run-to-run determinism.
// An unreadable directory yields zero frames, not an error; the caller
// decides how to treat an empty ingest.
func (l *Loader) LoadDir(dir string) []Frame {
	var frames []Frame

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			l.logger.Warn("skipping unreadable path",
				slog.String("path", path),
				slog.String("error", err.Error()))
			return nil
		}
		if d.IsDir() {
			return nil
		}

		t, ok := l.readFile(path)
		if !ok {
			return nil
		}

		name := filepath.Base(path)
		t.AddColumn(SourceColumn)
		t.Fill(SourceColumn, Text(name))
		frames = append(frames, Frame{Source: name, Table: t})
		return nil
	})
	if err != nil {
		l.logger.Warn("raw data scan failed",
			slog.String("dir", dir),
			slog.String("error", err.Error()))
	}

	return frames
}

// readFile parses one file by extension. Unsupported extensions are
// silently ignored; parse failures are logged and reported as not-ok.
func (l *Loader) readFile(path string) (*Table, bool) {
	var (
		t   *Table
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		t, err = ReadCSV(path)
	case ".hdf5", ".h5":
		t, err = ReadHDF5(path)
	case ".xlsx":
		t, err = ReadExcel(path)
	default:
		return nil, false
	}
	if err != nil {
		l.logger.Warn("skipping unparseable file",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil, false
	}
	return t, true
}
