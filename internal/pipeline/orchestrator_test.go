package pipeline

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seisprep/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.RawDir = filepath.Join(t.TempDir(), "raw")
	cfg.Paths.OutDir = filepath.Join(t.TempDir(), "processed")
	require.NoError(t, os.MkdirAll(cfg.Paths.RawDir, 0755))
	return cfg
}

func writeRaw(t *testing.T, cfg *config.Config, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Paths.RawDir, name), []byte(content), 0644))
}

func readCSVFile(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestNew_InvalidRatiosFailFast(t *testing.T) {
	cfg := testConfig(t)
	cfg.Split.TrainRatio = 0.9

	_, err := New(cfg, testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sum to 1.0")
}

func TestRun_EndToEnd(t *testing.T) {
	cfg := testConfig(t)
	writeRaw(t, cfg, "batch1.csv",
		"IDR,PGA\n0.02,0.3\n0.15,0.4\n0.03,0.5\n0.04,0.6\n0.05,0.7\n")
	writeRaw(t, cfg, "batch2.csv",
		"IDR,PGA\n0.01,6.0\n0.02,0.8\n0.03,0.9\n0.04,1.0\n0.05,1.1\n")

	o, err := New(cfg, testLogger())
	require.NoError(t, err)

	meta, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 10, meta.RawSamples)
	// The IDR=0.15 row and the PGA=6.0 row are removed.
	assert.Equal(t, 8, meta.ValidSamples)
	assert.Equal(t, []string{"batch1.csv", "batch2.csv"}, meta.SourceFiles)
	require.NotNil(t, meta.SplitSizes)
	assert.Equal(t, 8, meta.SplitSizes.Train+meta.SplitSizes.Val+meta.SplitSizes.Test)

	// Exported partitions cover the validated rows exactly once, with a
	// header and no index column.
	var rows int
	for _, name := range []string{TrainFile, ValFile, TestFile} {
		records := readCSVFile(t, filepath.Join(cfg.Paths.OutDir, name))
		require.NotEmpty(t, records)
		assert.Equal(t, []string{"IDR", "PGA", "_source_file"}, records[0])
		rows += len(records) - 1
	}
	assert.Equal(t, 8, rows)

	// No exported row carries the filtered values.
	for _, name := range []string{TrainFile, ValFile, TestFile} {
		for _, rec := range readCSVFile(t, filepath.Join(cfg.Paths.OutDir, name))[1:] {
			assert.NotEqual(t, "0.15", rec[0])
		}
	}

	// Scaler parameters cover the feature columns (PGA only; IDR is a
	// drift column and stays in physical units).
	var params ScalerParams
	data, err := os.ReadFile(filepath.Join(cfg.Paths.OutDir, ScalerFile))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &params))
	assert.Contains(t, params, "PGA")
	assert.NotContains(t, params, "IDR")

	// Metadata is written verbatim.
	var exported Metadata
	data, err = os.ReadFile(filepath.Join(cfg.Paths.OutDir, MetadataFile))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &exported))
	assert.Equal(t, meta.RunID, exported.RunID)
	assert.Equal(t, "pre-split", exported.ScalerFit)
	assert.Equal(t, "standard", exported.Config.ScalerType)
	assert.Equal(t, int64(42), exported.Config.Seed)
}

func TestRun_EmptyRawDir(t *testing.T) {
	cfg := testConfig(t)

	o, err := New(cfg, testLogger())
	require.NoError(t, err)

	meta, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, meta.RawSamples)

	for _, name := range []string{TrainFile, ValFile, TestFile, ScalerFile, MetadataFile} {
		_, err := os.Stat(filepath.Join(cfg.Paths.OutDir, name))
		assert.True(t, os.IsNotExist(err), "%s must not exist", name)
	}
}

func TestRun_SignalFrameExtraction(t *testing.T) {
	cfg := testConfig(t)

	// 1000 samples at dt=0.01 with peak |a| = 0.5.
	var sb strings.Builder
	sb.WriteString("acc\n")
	for i := 0; i < 1000; i++ {
		sb.WriteString(fmt.Sprintf("%g\n", 0.5*math.Sin(2*math.Pi*float64(i)/100)))
	}
	writeRaw(t, cfg, "gm0001.csv", sb.String())

	o, err := New(cfg, testLogger())
	require.NoError(t, err)

	meta, err := o.Run(context.Background())
	require.NoError(t, err)

	// The whole series collapses into one intensity-measure row.
	assert.Equal(t, 1, meta.RawSamples)
	assert.Equal(t, 1, meta.ValidSamples)
	assert.Zero(t, meta.SaFallbacks)

	// With a single row everything lands in the test partition.
	records := readCSVFile(t, filepath.Join(cfg.Paths.OutDir, TestFile))
	require.Len(t, records, 2)
	assert.Equal(t, []string{"PGA", "PGV", "Sa_T1", "Arias", "duration", "_source_file"}, records[0])

	// A single-row column has zero spread, so values stay physical:
	// PGA == 0.5 and duration == 10.0 survive normalization untouched.
	assert.Equal(t, "0.5", records[1][0])
	assert.Equal(t, "10", records[1][4])
	assert.Equal(t, "gm0001.csv", records[1][5])
}

func TestRun_MalformedFileIsSkipped(t *testing.T) {
	cfg := testConfig(t)
	writeRaw(t, cfg, "bad.csv", "")
	writeRaw(t, cfg, "good.csv", "PGA,IDR\n0.3,0.01\n0.4,0.02\n")

	o, err := New(cfg, testLogger())
	require.NoError(t, err)

	meta, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, meta.RawSamples)
	assert.Equal(t, []string{"good.csv"}, meta.SourceFiles)
}
