package pipeline

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seisprep/internal/config"
	"seisprep/internal/table"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func defaultBounds() config.BoundsConfig {
	return config.Default().Bounds
}

func buildTable(t *testing.T, cols []string, rows ...map[string]table.Cell) *table.Table {
	t.Helper()
	tbl := table.New(cols...)
	for _, r := range rows {
		require.NoError(t, tbl.AppendRow(r))
	}
	return tbl
}

func TestValidate_DropsNullRows(t *testing.T) {
	tbl := buildTable(t, []string{"PGA", "mass"},
		map[string]table.Cell{"PGA": table.Number(0.3), "mass": table.Number(100)},
		map[string]table.Cell{"PGA": table.Number(0.4)}, // missing mass
	)

	out := NewValidator(defaultBounds(), testLogger()).Validate(tbl)
	assert.Equal(t, 1, out.NumRows())
	assert.Equal(t, table.Number(0.3), out.Cell(0, "PGA"))
}

func TestValidate_DriftBound(t *testing.T) {
	tbl := buildTable(t, []string{"IDR", "roof_drift"},
		map[string]table.Cell{"IDR": table.Number(0.02), "roof_drift": table.Number(0.01)},
		map[string]table.Cell{"IDR": table.Number(0.15), "roof_drift": table.Number(0.01)},
		map[string]table.Cell{"IDR": table.Number(-0.12), "roof_drift": table.Number(0.01)},
		map[string]table.Cell{"IDR": table.Number(0.03), "roof_drift": table.Number(0.2)},
	)

	out := NewValidator(defaultBounds(), testLogger()).Validate(tbl)
	require.Equal(t, 1, out.NumRows())
	assert.Equal(t, table.Number(0.02), out.Cell(0, "IDR"))
}

func TestValidate_PGABound(t *testing.T) {
	tbl := buildTable(t, []string{"PGA"},
		map[string]table.Cell{"PGA": table.Number(0.8)},
		map[string]table.Cell{"PGA": table.Number(6.0)},
	)

	out := NewValidator(defaultBounds(), testLogger()).Validate(tbl)
	require.Equal(t, 1, out.NumRows())
	assert.Equal(t, table.Number(0.8), out.Cell(0, "PGA"))
}

func TestValidate_Idempotent(t *testing.T) {
	tbl := buildTable(t, []string{"IDR", "PGA"},
		map[string]table.Cell{"IDR": table.Number(0.02), "PGA": table.Number(0.3)},
		map[string]table.Cell{"IDR": table.Number(0.15), "PGA": table.Number(0.3)},
		map[string]table.Cell{"IDR": table.Number(0.01), "PGA": table.Number(6.0)},
	)

	v := NewValidator(defaultBounds(), testLogger())
	once := v.Validate(tbl)
	twice := v.Validate(once)

	assert.Equal(t, once.NumRows(), twice.NumRows())
	assert.Equal(t, once.Records(), twice.Records())
}

func TestValidate_EmptyResultIsLegal(t *testing.T) {
	tbl := buildTable(t, []string{"IDR"},
		map[string]table.Cell{"IDR": table.Number(0.5)},
	)

	out := NewValidator(defaultBounds(), testLogger()).Validate(tbl)
	assert.Zero(t, out.NumRows())
	assert.Equal(t, []string{"IDR"}, out.Columns())
}

func TestDriftColumns_ConfiguredPatterns(t *testing.T) {
	v := NewValidator(config.BoundsConfig{
		MaxIDR:        0.10,
		MaxPGA:        5.0,
		DriftPatterns: []string{"idr", "drift"},
	}, testLogger())

	cols := v.DriftColumns([]string{"PGA", "max_IDR", "Roof_Drift_pct", "mass", "DRIFT"})
	assert.Equal(t, []string{"max_IDR", "Roof_Drift_pct", "DRIFT"}, cols)
}
