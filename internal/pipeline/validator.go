package pipeline

import (
	"log/slog"
	"strings"

	"seisprep/internal/config"
	"seisprep/internal/table"
)

// Validator applies physical-plausibility and data-quality filters to an
// ingested table. It removes whole rows, never imputes, and never errors:
// a zero-row result is legal and downstream stages handle it.
type Validator struct {
	bounds config.BoundsConfig
	logger *slog.Logger
}

// NewValidator creates a validator with the given bounds and diagnostics sink.
func NewValidator(bounds config.BoundsConfig, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{bounds: bounds, logger: logger}
}

// Validate drops rows containing any missing value, rows whose drift-like
// columns exceed MaxIDR in absolute value, and rows whose PGA column
// exceeds MaxPGA. Drift columns are identified by the configured
// case-insensitive substring patterns. The result has a freshly reset
// contiguous row index. Validation is idempotent.
func (v *Validator) Validate(t *table.Table) *table.Table {
	before := t.NumRows()
	driftCols := v.DriftColumns(t.Columns())
	hasPGA := t.HasColumn("PGA")

	var keep []int
rows:
	for r := 0; r < t.NumRows(); r++ {
		for _, col := range t.Columns() {
			if t.Cell(r, col).IsNull() {
				continue rows
			}
		}
		for _, col := range driftCols {
			if c := t.Cell(r, col); c.Kind == table.KindNumber && abs(c.Num) > v.bounds.MaxIDR {
				continue rows
			}
		}
		if hasPGA {
			if c := t.Cell(r, "PGA"); c.Kind == table.KindNumber && c.Num > v.bounds.MaxPGA {
				continue rows
			}
		}
		keep = append(keep, r)
	}

	out := t.SelectRows(keep)
	if removed := before - out.NumRows(); removed > 0 {
		v.logger.Info("validation removed records",
			slog.Int("removed", removed),
			slog.Int("before", before),
			slog.Int("after", out.NumRows()))
	}
	return out
}

// DriftColumns returns the columns matching the configured drift patterns.
func (v *Validator) DriftColumns(cols []string) []string {
	var out []string
	for _, col := range cols {
		lower := strings.ToLower(col)
		for _, pat := range v.bounds.DriftPatterns {
			if strings.Contains(lower, strings.ToLower(pat)) {
				out = append(out, col)
				break
			}
		}
	}
	return out
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
