// Package config loads and validates the pipeline configuration from
// environment variables (prefix SEISPREP) with an optional YAML file merge.
//
// Configuration errors are fatal: a Config that fails validation is never
// handed to the rest of the application. In particular the train/val/test
// split ratios must sum to 1.0, checked at load time.
package config
