// Command researchlog pushes one simulation result to the external
// research-logging service. Credentials come from the NOTION_TOKEN and
// NOTION_DATABASE_ID environment variables.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"seisprep/internal/research"
)

func main() {
	gm := flag.String("gm", "", "ground motion name (required)")
	drift := flag.Float64("drift", 0, "max inter-story drift ratio (required)")
	pga := flag.Float64("pga", 0, "peak ground acceleration in g")
	status := flag.String("status", "Converged", "convergence status")
	stories := flag.Int("stories", 5, "number of stories in the model")
	notes := flag.String("notes", "", "additional notes")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if *gm == "" {
		logger.Error("missing required -gm flag")
		flag.Usage()
		os.Exit(2)
	}

	sink, err := research.New(logger)
	if err != nil {
		logger.Error("failed to create research logger", slog.String("error", err.Error()))
		os.Exit(1)
	}

	err = sink.LogSimulation(context.Background(), research.Record{
		GroundMotion:      *gm,
		MaxDrift:          *drift,
		PeakAcceleration:  *pga,
		ConvergenceStatus: *status,
		NumStories:        *stories,
		Notes:             *notes,
	})
	if err != nil {
		os.Exit(1)
	}

	logger.Info("done")
}
