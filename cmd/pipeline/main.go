// Command pipeline runs the NLTHA data-preparation pipeline once: ingest
// raw simulation outputs, validate, extract intensity measures, normalize,
// split, and export with provenance metadata.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"seisprep/internal/config"
	"seisprep/internal/infrastructure"
	"seisprep/internal/pipeline"
)

func main() {
	rawDir := flag.String("raw", "", "raw data directory (overrides config)")
	outDir := flag.String("out", "", "output directory (overrides config)")
	scaler := flag.String("scaler", "", "scaler type: standard or minmax (overrides config)")
	seed := flag.Int64("seed", -1, "random seed for the split permutation (overrides config)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if *rawDir != "" {
		cfg.Paths.RawDir = *rawDir
	}
	if *outDir != "" {
		cfg.Paths.OutDir = *outDir
	}
	if *scaler != "" {
		cfg.Scaler.Type = *scaler
	}
	if *seed >= 0 {
		cfg.Seed = *seed
	}

	logger, closeLog, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer func() { _ = closeLog() }()

	o, err := pipeline.New(cfg, logger)
	if err != nil {
		logger.Error("failed to construct pipeline", slog.String("error", err.Error()))
		os.Exit(1)
	}

	meta, err := o.Run(context.Background())
	if err != nil {
		logger.Error("pipeline run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("run finished",
		slog.String("run_id", meta.RunID),
		slog.Int("raw", meta.RawSamples),
		slog.Int("valid", meta.ValidSamples))
}
