package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"hiveingest/internal/infrastructure"
	"hiveingest/pkg/contracts/domain"
)

const (
	TracerName = "hiveingest.pipeline"
)

// StepTracer provides OpenTelemetry instrumentation for ingest runs
type StepTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// NewStepTracer creates a step tracer. Nil providers give a no-op tracer.
func NewStepTracer(providers *infrastructure.OTelProviders) (*StepTracer, error) {
	var (
		tracer trace.Tracer = tracenoop.NewTracerProvider().Tracer(TracerName)
		meter               = metricnoop.NewMeterProvider().Meter(TracerName)
	)
	if providers != nil {
		if providers.Tracer != nil {
			tracer = providers.Tracer
		}
		if providers.Meter != nil {
			meter = providers.Meter
		}
	}

	metrics, err := infrastructure.CreatePipelineMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	return &StepTracer{tracer: tracer, metrics: metrics}, nil
}

// TraceRun creates a span for the entire ingest run
func (st *StepTracer) TraceRun(ctx context.Context, runID, location string) (context.Context, trace.Span) {
	return st.tracer.Start(ctx, "pipeline.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("source.location", location),
		),
	)
}

// TraceStep starts a span for one pipeline step. The returned function ends the
// span and records the step duration; pass the step's error, or nil.
func (st *StepTracer) TraceStep(ctx context.Context, step string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := st.tracer.Start(ctx, "pipeline."+step,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(append([]attribute.KeyValue{attribute.String("step", step)}, attrs...)...),
	)

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
		st.metrics.RecordStep(ctx, step, time.Since(start), err)
	}
}

// RecordFile records the outcome of one source file
func (st *StepTracer) RecordFile(ctx context.Context, result domain.FileResult) {
	st.metrics.RecordFile(ctx, result.OK())
	if !result.OK() {
		trace.SpanFromContext(ctx).AddEvent("file.skipped", trace.WithAttributes(
			attribute.String("file.name", result.Name),
			attribute.String("error", fmt.Sprint(result.Err)),
		))
	}
}

// RecordTable records the size of the combined table and the replaced sentinel cells
func (st *StepTracer) RecordTable(ctx context.Context, rows, replaced int) {
	st.metrics.RowsIngested.Add(ctx, int64(rows))
	st.metrics.SentinelCells.Add(ctx, int64(replaced))
}
