package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// ratioTolerance is the slack allowed when checking that split ratios sum to 1.0.
const ratioTolerance = 1e-6

// Config represents the complete application configuration.
type Config struct {
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
	Split   SplitConfig   `yaml:"split" envconfig:"SPLIT"`
	Scaler  ScalerConfig  `yaml:"scaler" envconfig:"SCALER"`
	Bounds  BoundsConfig  `yaml:"bounds" envconfig:"BOUNDS"`
	Signal  SignalConfig  `yaml:"signal" envconfig:"SIGNAL"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`

	// Seed drives the split permutation; fixed seed means reproducible splits.
	Seed int64 `yaml:"seed" envconfig:"SEED" default:"42"`
}

// PathsConfig contains file system paths configuration.
type PathsConfig struct {
	RawDir      string `yaml:"raw_dir" envconfig:"RAW_DIR" default:"data/raw"`
	OutDir      string `yaml:"out_dir" envconfig:"OUT_DIR" default:"data/processed"`
	ExternalDir string `yaml:"external_dir" envconfig:"EXTERNAL_DIR" default:"data/external"`
}

// SplitConfig contains the train/val/test partition ratios.
// The three ratios must sum to 1.0.
type SplitConfig struct {
	TrainRatio float64 `yaml:"train_ratio" envconfig:"TRAIN_RATIO" default:"0.70" validate:"gt=0,lt=1"`
	ValRatio   float64 `yaml:"val_ratio" envconfig:"VAL_RATIO" default:"0.15" validate:"gte=0,lt=1"`
	TestRatio  float64 `yaml:"test_ratio" envconfig:"TEST_RATIO" default:"0.15" validate:"gte=0,lt=1"`
}

// Sum returns the total of the three split ratios.
func (s SplitConfig) Sum() float64 {
	return s.TrainRatio + s.ValRatio + s.TestRatio
}

// ScalerConfig selects the per-feature normalization mode.
type ScalerConfig struct {
	Type string `yaml:"type" envconfig:"TYPE" default:"standard" validate:"oneof=standard minmax"`
}

// BoundsConfig contains the physical-plausibility validation bounds.
type BoundsConfig struct {
	// MaxIDR is the inter-story drift ratio above which a record is treated
	// as structural collapse and removed (default 10%).
	MaxIDR float64 `yaml:"max_idr" envconfig:"MAX_IDR" default:"0.10" validate:"gt=0"`
	// MaxPGA is the sanity upper bound on peak ground acceleration in g.
	MaxPGA float64 `yaml:"max_pga" envconfig:"MAX_PGA" default:"5.0" validate:"gt=0"`
	// MinDuration is the minimum usable record duration in seconds. Carried
	// in the configuration snapshot for parity with published runs; not
	// enforced as a row filter.
	MinDuration float64 `yaml:"min_duration" envconfig:"MIN_DURATION" default:"5.0" validate:"gte=0"`
	// DriftPatterns enumerates the case-insensitive substrings that mark a
	// column as drift-like for bounds filtering.
	DriftPatterns []string `yaml:"drift_patterns" envconfig:"DRIFT_PATTERNS" default:"idr,drift"`
}

// SignalConfig describes the ground-motion signals fed to feature extraction.
type SignalConfig struct {
	// T1 is the fundamental period of the structure, for Sa(T1).
	T1 float64 `yaml:"t1" envconfig:"T1" default:"0.5" validate:"gte=0"`
	// Damping is the SDOF damping ratio (fraction of critical).
	Damping float64 `yaml:"damping" envconfig:"DAMPING" default:"0.05" validate:"gt=0,lt=1"`
	// DT is the sampling interval assumed when a signal file carries no
	// time or dt column.
	DT float64 `yaml:"dt" envconfig:"DT" default:"0.01" validate:"gt=0"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/pipeline.log"`
}

// ServerConfig contains HTTP server configuration for the service surface.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15m"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" default:"10"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST" default:"20"`
}

// Load loads configuration from environment variables and, when present,
// the config file pointed at by SEISPREP_CONFIG (default seisprep.yml).
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("SEISPREP", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := os.Getenv("SEISPREP_CONFIG")
	if configFile == "" {
		configFile = "seisprep.yml"
	}
	if _, err := os.Stat(configFile); err == nil {
		if err := mergeFromFile(configFile, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Default returns the built-in configuration without consulting the
// environment or any file. Used by tests and as the base for overrides.
func Default() *Config {
	return &Config{
		Paths:   PathsConfig{RawDir: "data/raw", OutDir: "data/processed", ExternalDir: "data/external"},
		Split:   SplitConfig{TrainRatio: 0.70, ValRatio: 0.15, TestRatio: 0.15},
		Scaler:  ScalerConfig{Type: "standard"},
		Bounds:  BoundsConfig{MaxIDR: 0.10, MaxPGA: 5.0, MinDuration: 5.0, DriftPatterns: []string{"idr", "drift"}},
		Signal:  SignalConfig{T1: 0.5, Damping: 0.05, DT: 0.01},
		Logging: LoggingConfig{Level: "info", Format: "json", Output: "console", FilePath: "logs/pipeline.log"},
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Minute,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RateLimitRPS:    10,
			RateLimitBurst:  20,
		},
		Seed: 42,
	}
}

// mergeFromFile overlays values from a YAML file onto cfg. File values win
// over environment values, matching how deployed instances pin their runs.
func mergeFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filePath, err)
	}
	return nil
}

// Validate checks the configuration for structural errors. Split ratios not
// summing to 1.0 is a fatal configuration error.
func (c *Config) Validate() error {
	if total := c.Split.Sum(); math.Abs(total-1.0) > ratioTolerance {
		return fmt.Errorf("split ratios must sum to 1.0, got %g", total)
	}
	if len(c.Bounds.DriftPatterns) == 0 {
		return fmt.Errorf("at least one drift column pattern is required")
	}

	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
