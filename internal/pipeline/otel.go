package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	// TracerName identifies pipeline spans.
	TracerName = "seisprep.pipeline"
	// MeterName identifies pipeline metrics.
	MeterName = "seisprep"
)

// Instrumentation provides OpenTelemetry tracing and metrics for pipeline
// runs. One instance is shared by all runs of an orchestrator.
type Instrumentation struct {
	tracer trace.Tracer

	runsTotal     metric.Int64Counter
	rowsIngested  metric.Int64Counter
	rowsRemoved   metric.Int64Counter
	saFallbacks   metric.Int64Counter
	stageDuration metric.Float64Histogram
}

// NewInstrumentation creates the pipeline tracer and metric instruments.
func NewInstrumentation() (*Instrumentation, error) {
	meter := otel.Meter(MeterName)

	runsTotal, err := meter.Int64Counter("pipeline_runs_total",
		metric.WithDescription("Completed pipeline runs by status"))
	if err != nil {
		return nil, fmt.Errorf("failed to create runs counter: %w", err)
	}
	rowsIngested, err := meter.Int64Counter("pipeline_rows_ingested_total",
		metric.WithDescription("Raw rows ingested across all source files"))
	if err != nil {
		return nil, fmt.Errorf("failed to create ingested counter: %w", err)
	}
	rowsRemoved, err := meter.Int64Counter("pipeline_rows_removed_total",
		metric.WithDescription("Rows removed by validation"))
	if err != nil {
		return nil, fmt.Errorf("failed to create removed counter: %w", err)
	}
	saFallbacks, err := meter.Int64Counter("pipeline_sa_fallbacks_total",
		metric.WithDescription("Spectral-acceleration computations degraded to PGA"))
	if err != nil {
		return nil, fmt.Errorf("failed to create fallback counter: %w", err)
	}
	stageDuration, err := meter.Float64Histogram("pipeline_stage_duration_seconds",
		metric.WithDescription("Stage wall-clock duration"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("failed to create stage histogram: %w", err)
	}

	return &Instrumentation{
		tracer:        otel.Tracer(TracerName),
		runsTotal:     runsTotal,
		rowsIngested:  rowsIngested,
		rowsRemoved:   rowsRemoved,
		saFallbacks:   saFallbacks,
		stageDuration: stageDuration,
	}, nil
}

// StartStage opens a span for one pipeline stage.
func (in *Instrumentation) StartStage(ctx context.Context, runID, stage string) (context.Context, trace.Span) {
	return in.tracer.Start(ctx, fmt.Sprintf("pipeline.stage.%s", stage),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("pipeline.run_id", runID),
			attribute.String("pipeline.stage", stage),
		),
	)
}

// EndStage closes a stage span and records its duration.
func (in *Instrumentation) EndStage(ctx context.Context, span trace.Span, stage string, start time.Time, err error) {
	in.stageDuration.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("stage", stage)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// RecordRun records a completed run with its terminal status.
func (in *Instrumentation) RecordRun(ctx context.Context, status string) {
	in.runsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

// RecordIngest records the raw row count of a run.
func (in *Instrumentation) RecordIngest(ctx context.Context, rows int) {
	in.rowsIngested.Add(ctx, int64(rows))
}

// RecordRemoved records rows dropped by validation.
func (in *Instrumentation) RecordRemoved(ctx context.Context, rows int) {
	in.rowsRemoved.Add(ctx, int64(rows))
}

// RecordSaFallbacks records degraded spectral-acceleration computations.
func (in *Instrumentation) RecordSaFallbacks(ctx context.Context, count int) {
	if count > 0 {
		in.saFallbacks.Add(ctx, int64(count))
	}
}
