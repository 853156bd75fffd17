package pipeline

import (
	"time"

	"github.com/google/uuid"

	"seisprep/internal/config"
)

// ConfigSnapshot is the part of the configuration recorded verbatim in the
// run metadata for reproducibility.
type ConfigSnapshot struct {
	ScalerType  string  `json:"scaler_type"`
	TrainRatio  float64 `json:"train_ratio"`
	ValRatio    float64 `json:"val_ratio"`
	TestRatio   float64 `json:"test_ratio"`
	Seed        int64   `json:"seed"`
	MaxIDR      float64 `json:"max_idr"`
	MaxPGA      float64 `json:"max_pga"`
	MinDuration float64 `json:"min_duration"`
}

// SplitSizes records the exported partition row counts.
type SplitSizes struct {
	Train int `json:"train"`
	Val   int `json:"val"`
	Test  int `json:"test"`
}

// Metadata is the append-only provenance record accumulated across one
// pipeline run and written verbatim to the output directory at export time.
// It is owned exclusively by one orchestrator for the duration of a run.
type Metadata struct {
	RunID   string         `json:"run_id"`
	Created string         `json:"created"`
	Config  ConfigSnapshot `json:"config"`
	// ScalerFit documents that the scaler is fitted on the full validated
	// table before splitting. This leaks test-set statistics into the
	// fitted constants; it is preserved deliberately for compatibility
	// with the published results.
	ScalerFit    string      `json:"scaler_fit"`
	RawSamples   int         `json:"n_samples_raw"`
	ValidSamples int         `json:"n_samples_valid"`
	FeatureCount int         `json:"n_features"`
	SplitSizes   *SplitSizes `json:"split_sizes,omitempty"`
	SourceFiles  []string    `json:"source_files"`
	// SaFallbacks counts spectral-acceleration computations that degraded
	// to the PGA substitute.
	SaFallbacks int `json:"sa_fallbacks"`
}

// NewMetadata creates the metadata record at orchestrator construction.
func NewMetadata(cfg *config.Config) *Metadata {
	return &Metadata{
		RunID:   uuid.NewString(),
		Created: time.Now().UTC().Format(time.RFC3339),
		Config: ConfigSnapshot{
			ScalerType:  cfg.Scaler.Type,
			TrainRatio:  cfg.Split.TrainRatio,
			ValRatio:    cfg.Split.ValRatio,
			TestRatio:   cfg.Split.TestRatio,
			Seed:        cfg.Seed,
			MaxIDR:      cfg.Bounds.MaxIDR,
			MaxPGA:      cfg.Bounds.MaxPGA,
			MinDuration: cfg.Bounds.MinDuration,
		},
		ScalerFit:   "pre-split",
		SourceFiles: []string{},
	}
}
