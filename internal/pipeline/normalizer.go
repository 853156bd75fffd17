package pipeline

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/montanaflynn/stats"

	"seisprep/internal/table"
)

// Scaler types supported by the normalizer.
const (
	ScalerStandard = "standard"
	ScalerMinMax   = "minmax"
)

// ColumnParams holds the fitted normalization constants for one feature
// column. Standard scaling records mean/std, min-max scaling records
// min/max. The constants are always recorded, even when the column was
// left untouched because its spread is zero.
type ColumnParams struct {
	Mean *float64 `json:"mean,omitempty"`
	Std  *float64 `json:"std,omitempty"`
	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`
}

// ScalerParams maps feature-column name to its fitted constants, intended
// for rescaling unseen data at inference time.
type ScalerParams map[string]ColumnParams

// Normalizer fits and applies per-feature scaling in place.
type Normalizer struct {
	scaler string
	logger *slog.Logger
}

// NewNormalizer creates a normalizer for the given scaler type.
func NewNormalizer(scaler string, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{scaler: scaler, logger: logger}
}

// Normalize scales the named feature columns in place and returns the
// fitted parameters. Columns with zero spread (std==0 or max==min) are
// left untouched but their constants are still recorded. Columns without
// numeric values are skipped entirely.
func (n *Normalizer) Normalize(t *table.Table, featureCols []string) (ScalerParams, error) {
	params := make(ScalerParams, len(featureCols))

	for _, col := range featureCols {
		vals, rows := t.NumericColumn(col)
		if len(vals) == 0 {
			continue
		}

		switch n.scaler {
		case ScalerStandard:
			mean, err := stats.Mean(vals)
			if err != nil {
				return nil, fmt.Errorf("failed to fit column %q: %w", col, err)
			}
			// Sample standard deviation, matching the reference datasets.
			// A single-sample column has no defined spread; record 0 so the
			// parameters stay JSON-encodable.
			std, err := stats.StandardDeviationSample(vals)
			if err != nil || math.IsNaN(std) || math.IsInf(std, 0) {
				std = 0
			}
			if std > 0 {
				for i, r := range rows {
					t.SetCell(r, col, table.Number((vals[i]-mean)/std))
				}
			}
			params[col] = ColumnParams{Mean: &mean, Std: &std}

		case ScalerMinMax:
			vmin, err := stats.Min(vals)
			if err != nil {
				return nil, fmt.Errorf("failed to fit column %q: %w", col, err)
			}
			vmax, err := stats.Max(vals)
			if err != nil {
				return nil, fmt.Errorf("failed to fit column %q: %w", col, err)
			}
			if spread := vmax - vmin; spread > 0 {
				for i, r := range rows {
					t.SetCell(r, col, table.Number((vals[i]-vmin)/spread))
				}
			}
			params[col] = ColumnParams{Min: &vmin, Max: &vmax}

		default:
			return nil, fmt.Errorf("unknown scaler type %q", n.scaler)
		}
	}

	return params, nil
}
