package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"seisprep/internal/config"
	"seisprep/internal/table"
)

// Output artifact names.
const (
	TrainFile    = "train.csv"
	ValFile      = "val.csv"
	TestFile     = "test.csv"
	ScalerFile   = "scaler_params.json"
	MetadataFile = "pipeline_metadata.json"
)

// Orchestrator composes the pipeline stages and accumulates the run
// metadata. Each instance owns its metadata exclusively for the lifetime
// of one Run call; independent instances may run concurrently as long as
// they do not share an output directory.
type Orchestrator struct {
	cfg    *config.Config
	logger *slog.Logger

	loader     *table.Loader
	validator  *Validator
	normalizer *Normalizer
	splitter   *Splitter
	exporter   *Exporter
	inst       *Instrumentation

	meta *Metadata
}

// New creates an orchestrator. The configuration is validated here: split
// ratios not summing to 1.0 fail construction. The logger is injected so
// multiple instances can run with independent diagnostic destinations.
func New(cfg *config.Config, logger *slog.Logger) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	inst, err := NewInstrumentation()
	if err != nil {
		return nil, fmt.Errorf("failed to create instrumentation: %w", err)
	}

	return &Orchestrator{
		cfg:        cfg,
		logger:     logger,
		loader:     table.NewLoader(logger),
		validator:  NewValidator(cfg.Bounds, logger),
		normalizer: NewNormalizer(cfg.Scaler.Type, logger),
		splitter:   NewSplitter(cfg.Split, cfg.Seed),
		exporter:   NewExporter(cfg.Paths.OutDir, logger),
		inst:       inst,
		meta:       NewMetadata(cfg),
	}, nil
}

// Metadata returns the metadata record accumulated so far.
func (o *Orchestrator) Metadata() *Metadata {
	return o.meta
}

// Run executes the complete pipeline: ingest → validate → extract →
// normalize → split → export. Zero ingestible rows end the run cleanly
// with no artifacts written; an export failure is fatal.
func (o *Orchestrator) Run(ctx context.Context) (*Metadata, error) {
	o.logger.Info("starting data pipeline",
		slog.String("run_id", o.meta.RunID),
		slog.String("raw_dir", o.cfg.Paths.RawDir))

	data := o.ingest(ctx)
	if data == nil || data.NumRows() == 0 {
		o.logger.Error("no data to process; place raw NLTHA outputs in the raw directory",
			slog.String("raw_dir", o.cfg.Paths.RawDir))
		o.inst.RecordRun(ctx, "empty")
		return o.meta, nil
	}

	data = o.validate(ctx, data)

	scalerParams, err := o.normalize(ctx, data)
	if err != nil {
		o.inst.RecordRun(ctx, "failed")
		return o.meta, err
	}

	train, val, test := o.split(ctx, data)

	if err := o.export(ctx, train, val, test, scalerParams); err != nil {
		o.inst.RecordRun(ctx, "failed")
		return o.meta, err
	}

	o.inst.RecordRun(ctx, "completed")
	o.logger.Info("pipeline completed",
		slog.String("run_id", o.meta.RunID),
		slog.Int("train", train.NumRows()),
		slog.Int("val", val.NumRows()),
		slog.Int("test", test.NumRows()))
	return o.meta, nil
}

// ingest loads all raw files, collapses ground-motion signal frames into
// intensity-measure rows, and concatenates everything into one table with
// a union-of-columns schema.
func (o *Orchestrator) ingest(ctx context.Context) *table.Table {
	ctx, span := o.inst.StartStage(ctx, o.meta.RunID, "ingest")
	start := time.Now()

	frames := o.loader.LoadDir(o.cfg.Paths.RawDir)
	if len(frames) == 0 {
		o.inst.EndStage(ctx, span, "ingest", start, nil)
		return nil
	}

	tables := make([]*table.Table, 0, len(frames))
	fallbacks := 0
	for _, f := range frames {
		o.meta.SourceFiles = append(o.meta.SourceFiles, f.Source)
		if layout, ok := detectSignal(f.Table); ok {
			extracted, fellBack := extractFrame(f, layout, o.cfg.Signal, o.logger)
			if fellBack {
				fallbacks++
			}
			tables = append(tables, extracted.Table)
			continue
		}
		tables = append(tables, f.Table)
	}

	data := table.Concat(tables...)
	o.meta.RawSamples = data.NumRows()
	o.meta.SaFallbacks = fallbacks
	o.inst.RecordIngest(ctx, data.NumRows())
	o.inst.RecordSaFallbacks(ctx, fallbacks)

	o.logger.Info("ingested records",
		slog.Int("rows", data.NumRows()),
		slog.Int("files", len(frames)))
	o.inst.EndStage(ctx, span, "ingest", start, nil)
	return data
}

func (o *Orchestrator) validate(ctx context.Context, data *table.Table) *table.Table {
	ctx, span := o.inst.StartStage(ctx, o.meta.RunID, "validate")
	start := time.Now()

	before := data.NumRows()
	out := o.validator.Validate(data)
	o.meta.ValidSamples = out.NumRows()
	o.inst.RecordRemoved(ctx, before-out.NumRows())

	o.inst.EndStage(ctx, span, "validate", start, nil)
	return out
}

func (o *Orchestrator) normalize(ctx context.Context, data *table.Table) (ScalerParams, error) {
	ctx, span := o.inst.StartStage(ctx, o.meta.RunID, "normalize")
	start := time.Now()

	featureCols := o.featureColumns(data)
	params, err := o.normalizer.Normalize(data, featureCols)
	o.meta.FeatureCount = len(featureCols)

	o.inst.EndStage(ctx, span, "normalize", start, err)
	if err != nil {
		return nil, fmt.Errorf("normalization failed: %w", err)
	}
	return params, nil
}

func (o *Orchestrator) split(ctx context.Context, data *table.Table) (train, val, test *table.Table) {
	ctx, span := o.inst.StartStage(ctx, o.meta.RunID, "split")
	start := time.Now()

	train, val, test = o.splitter.Split(data)
	o.meta.SplitSizes = &SplitSizes{Train: train.NumRows(), Val: val.NumRows(), Test: test.NumRows()}

	o.logger.Info("split dataset",
		slog.Int("train", train.NumRows()),
		slog.Int("val", val.NumRows()),
		slog.Int("test", test.NumRows()))
	o.inst.EndStage(ctx, span, "split", start, nil)
	return train, val, test
}

func (o *Orchestrator) export(ctx context.Context, train, val, test *table.Table, params ScalerParams) error {
	ctx, span := o.inst.StartStage(ctx, o.meta.RunID, "export")
	start := time.Now()

	err := o.writeArtifacts(train, val, test, params)
	o.inst.EndStage(ctx, span, "export", start, err)
	return err
}

func (o *Orchestrator) writeArtifacts(train, val, test *table.Table, params ScalerParams) error {
	if err := o.exporter.WriteTable(TrainFile, train); err != nil {
		return err
	}
	if err := o.exporter.WriteTable(ValFile, val); err != nil {
		return err
	}
	if err := o.exporter.WriteTable(TestFile, test); err != nil {
		return err
	}
	if err := o.exporter.WriteJSON(ScalerFile, params); err != nil {
		return err
	}
	return o.exporter.WriteJSON(MetadataFile, o.meta)
}

// featureColumns selects the columns to normalize: numeric columns
// excluding the provenance column and drift-like response columns, which
// stay in physical units as prediction targets.
func (o *Orchestrator) featureColumns(data *table.Table) []string {
	drift := make(map[string]struct{})
	for _, col := range o.validator.DriftColumns(data.Columns()) {
		drift[col] = struct{}{}
	}

	var cols []string
	for _, col := range data.Columns() {
		if col == table.SourceColumn {
			continue
		}
		if _, ok := drift[col]; ok {
			continue
		}
		if vals, _ := data.NumericColumn(col); len(vals) == 0 {
			continue
		}
		cols = append(cols, col)
	}
	return cols
}
