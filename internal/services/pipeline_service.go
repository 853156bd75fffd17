package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"seisprep/internal/config"
	"seisprep/internal/pipeline"
)

// ErrRunInProgress is returned when a run is requested while another run
// is still executing. Two runs must never share an output directory.
var ErrRunInProgress = errors.New("a pipeline run is already in progress")

// PipelineService serializes pipeline runs and retains the metadata of the
// most recent one.
type PipelineService struct {
	cfg    *config.Config
	logger *slog.Logger

	mu      sync.Mutex
	running bool
	last    *pipeline.Metadata
}

// NewPipelineService creates a pipeline service.
func NewPipelineService(cfg *config.Config, logger *slog.Logger) *PipelineService {
	return &PipelineService{cfg: cfg, logger: logger}
}

// Run executes one pipeline run. A fresh orchestrator is built per run so
// each run owns its metadata exclusively.
func (s *PipelineService) Run(ctx context.Context) (*pipeline.Metadata, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrRunInProgress
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	o, err := pipeline.New(s.cfg, s.logger)
	if err != nil {
		return nil, err
	}

	meta, err := o.Run(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.last = meta
	s.mu.Unlock()
	return meta, nil
}

// LastRun returns the metadata of the most recent completed run, or nil.
func (s *PipelineService) LastRun() *pipeline.Metadata {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Running reports whether a run is currently executing.
func (s *PipelineService) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
