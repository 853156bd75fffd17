// Package pipeline turns raw NLTHA simulation outputs into validated,
// feature-engineered, normalized, and split datasets with full provenance.
//
// The orchestrator runs sequential stages (ingest, validate, extract,
// normalize, split, export) single-threaded and in-memory, accumulating an
// append-only metadata record that is written next to the exported datasets.
// Stage-local issues (an unreadable file, a degraded spectral-acceleration
// sample) are absorbed and logged; structural issues (bad configuration,
// zero ingestible rows, a write failure) terminate the run.
package pipeline
