package pipeline

import (
	"log/slog"
	"strings"

	"seisprep/internal/config"
	"seisprep/internal/intensity"
	"seisprep/internal/table"
)

// Intensity-measure column names, matching the reference datasets.
const (
	ColPGA      = "PGA"
	ColPGV      = "PGV"
	ColSaT1     = "Sa_T1"
	ColArias    = "Arias"
	ColDuration = "duration"
)

// signalLayout describes how a ground-motion frame encodes its time base.
type signalLayout struct {
	accCol  string
	timeCol string
	dtCol   string
}

// detectSignal reports whether a frame is a raw ground-motion time series:
// an acceleration column plus at most a time base, nothing else. Frames
// carrying scalar simulation records have richer column sets and pass
// through extraction untouched.
func detectSignal(t *table.Table) (signalLayout, bool) {
	var layout signalLayout
	for _, col := range t.Columns() {
		if col == table.SourceColumn {
			continue
		}
		switch strings.ToLower(col) {
		case "acc", "accel", "acceleration":
			layout.accCol = col
		case "time", "t":
			layout.timeCol = col
		case "dt":
			layout.dtCol = col
		default:
			return signalLayout{}, false
		}
	}
	return layout, layout.accCol != ""
}

// extractFrame collapses a ground-motion signal frame into a single
// intensity-measure row. The second return value reports whether the
// spectral-acceleration computation fell back to PGA.
func extractFrame(f table.Frame, layout signalLayout, sig config.SignalConfig, logger *slog.Logger) (table.Frame, bool) {
	acc, _ := f.Table.NumericColumn(layout.accCol)
	dt := timeStep(f.Table, layout, sig.DT)

	m, fallback := intensity.Extract(acc, dt, sig.T1, sig.Damping)
	if fallback {
		logger.Warn("spectral acceleration degraded to PGA substitute",
			slog.String("source", f.Source))
	}

	out := table.New(ColPGA, ColPGV, ColSaT1, ColArias, ColDuration, table.SourceColumn)
	_ = out.AppendRow(map[string]table.Cell{
		ColPGA:             table.Number(m.PGA),
		ColPGV:             table.Number(m.PGV),
		ColSaT1:            table.Number(m.SaT1),
		ColArias:           table.Number(m.Arias),
		ColDuration:        table.Number(m.Duration),
		table.SourceColumn: table.Text(f.Source),
	})
	return table.Frame{Source: f.Source, Table: out}, fallback
}

// timeStep derives the sampling interval from a dt column, a time column,
// or the configured default, in that order.
func timeStep(t *table.Table, layout signalLayout, fallback float64) float64 {
	if layout.dtCol != "" {
		if vals, _ := t.NumericColumn(layout.dtCol); len(vals) > 0 && vals[0] > 0 {
			return vals[0]
		}
	}
	if layout.timeCol != "" {
		if vals, _ := t.NumericColumn(layout.timeCol); len(vals) > 1 {
			if dt := vals[1] - vals[0]; dt > 0 {
				return dt
			}
		}
	}
	return fallback
}
