package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"hiveingest/internal/config"
	"hiveingest/internal/dataprocessing"
	apperrors "hiveingest/internal/errors"
	"hiveingest/internal/exporter"
	"hiveingest/internal/files"
	"hiveingest/internal/infrastructure"
	"hiveingest/pkg/contracts/domain"
)

// Options controls one ingest run
type Options struct {
	Extension   string
	MaxFiles    int
	Sentinel    float64
	PreviewRows int
	Summary     bool
	Cleaner     dataprocessing.CleanerConfig
}

// DefaultOptions returns the options of the BeeHUB loader
func DefaultOptions() Options {
	return Options{
		Extension:   config.DefaultExtension,
		MaxFiles:    config.DefaultMaxFiles,
		Sentinel:    config.DefaultSentinel,
		PreviewRows: config.DefaultPreviewRows,
		Summary:     true,
		Cleaner:     dataprocessing.DefaultCleanerConfig(),
	}
}

// OptionsFromConfig maps the application config onto run options
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Extension:   cfg.Source.Extension,
		MaxFiles:    cfg.Source.MaxFiles,
		Sentinel:    cfg.Cleaning.Sentinel,
		PreviewRows: cfg.Report.PreviewRows,
		Summary:     cfg.Report.Summary,
		Cleaner:     dataprocessing.CleanerConfigFrom(cfg.Cleaning),
	}
}

// Result is everything a run produced
type Result struct {
	RunID      string
	Location   string
	Matched    int
	Selected   []files.FileInfo
	Files      []domain.FileResult
	Table      *domain.Table
	Scan       domain.SentinelReport
	ScanErr    error
	Replaced   int
	ReplaceErr error
	Summary    []domain.ColumnSummary
	ExportErrs []error
	Duration   time.Duration
}

// Failed returns the files that were skipped
func (r *Result) Failed() []domain.FileResult {
	var failed []domain.FileResult
	for _, f := range r.Files {
		if !f.OK() {
			failed = append(failed, f)
		}
	}
	return failed
}

// Ingestor runs the load, clean, concatenate, report and replace sequence
// over the workbooks of one source. Files are processed one at a time.
type Ingestor struct {
	source     files.Source
	opts       Options
	cleaner    *dataprocessing.Cleaner
	summarizer *dataprocessing.Summarizer
	exporters  []exporter.TableExporter
	reporter   *Reporter
	tracer     *StepTracer
	logger     *slog.Logger
}

// Option configures an Ingestor
type Option func(*Ingestor)

// WithLogger sets the structured logger
func WithLogger(logger *slog.Logger) Option {
	return func(i *Ingestor) { i.logger = logger }
}

// WithReporter sets the console reporter
func WithReporter(r *Reporter) Option {
	return func(i *Ingestor) { i.reporter = r }
}

// WithTracer sets the OpenTelemetry step tracer
func WithTracer(t *StepTracer) Option {
	return func(i *Ingestor) { i.tracer = t }
}

// WithExporters sets the exporters run after replacement
func WithExporters(e ...exporter.TableExporter) Option {
	return func(i *Ingestor) { i.exporters = e }
}

// NewIngestor creates an ingestor over source
func NewIngestor(source files.Source, opts Options, options ...Option) (*Ingestor, error) {
	if source == nil {
		return nil, fmt.Errorf("nil source")
	}
	if opts.Extension == "" {
		opts.Extension = config.DefaultExtension
	}

	i := &Ingestor{source: source, opts: opts}
	for _, o := range options {
		o(i)
	}

	i.logger = infrastructure.WithComponent(i.logger, "ingestor")
	if i.reporter == nil {
		i.reporter = NewReporter(nil)
	}
	if i.tracer == nil {
		tracer, err := NewStepTracer(nil)
		if err != nil {
			return nil, err
		}
		i.tracer = tracer
	}
	i.cleaner = dataprocessing.NewCleaner(i.logger, opts.Cleaner)
	i.summarizer = dataprocessing.NewSummarizer(i.logger, dataprocessing.DefaultSummarizerConfig())

	return i, nil
}

// Run executes the pipeline. Only source listing failures, cancellation and
// concatenation over zero tables are returned as errors; per-file, sentinel
// and export faults are reported and recorded in the Result.
func (i *Ingestor) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	ctx = infrastructure.EnsureTraceID(ctx)
	result := &Result{
		RunID:    infrastructure.GetTraceID(ctx),
		Location: i.source.Location(),
	}
	defer func() { result.Duration = time.Since(start) }()

	ctx, span := i.tracer.TraceRun(ctx, result.RunID, result.Location)
	defer span.End()

	i.logger.InfoContext(ctx, "ingest run started", slog.String("location", result.Location))

	if err := i.selectFiles(ctx, result); err != nil {
		infrastructure.RecordError(ctx, err)
		return result, err
	}

	for _, f := range result.Selected {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		res := i.processFile(ctx, f)
		result.Files = append(result.Files, res)
		i.tracer.RecordFile(ctx, res)
		if !res.OK() {
			i.logger.WarnContext(ctx, "file skipped",
				slog.String("file", res.Name),
				slog.String("error", res.Err.Error()))
			i.reporter.FileFailed(res.Name, res.Err)
		}
	}

	combined, err := i.combine(ctx, result.Files)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return result, err
	}
	result.Table = combined

	if combined.HasColumn(domain.ColumnDevice) {
		i.reporter.Preview(combined.Head(i.opts.PreviewRows))
	} else {
		i.logger.WarnContext(ctx, "combined table has no device column")
		i.reporter.DeviceMissing()
	}

	i.scan(ctx, result)
	i.replace(ctx, result)

	if i.opts.Summary {
		result.Summary = i.summarizer.Summarize(ctx, result.Table)
		i.reporter.Summary(result.Summary)
	}

	i.export(ctx, result)

	i.tracer.RecordTable(ctx, result.Table.Len(), result.Replaced)
	i.reporter.Done(result.Table.Len(), len(result.Selected), len(result.Failed()))
	i.logger.InfoContext(ctx, "ingest run completed",
		slog.Int("rows", result.Table.Len()),
		slog.Int("columns", result.Table.Width()),
		slog.Int("files", len(result.Selected)),
		slog.Int("skipped", len(result.Failed())),
		slog.Duration("duration", time.Since(start)))

	return result, nil
}

// Inspect loads and cleans one file and reports its preview and sentinel scan
func (i *Ingestor) Inspect(ctx context.Context, f files.FileInfo) (domain.FileResult, domain.SentinelReport, error) {
	ctx = infrastructure.EnsureTraceID(ctx)

	res := i.processFile(ctx, f)
	if !res.OK() {
		i.reporter.FileFailed(res.Name, res.Err)
		return res, domain.SentinelReport{}, res.Err
	}

	i.reporter.Preview(res.Table.Head(i.opts.PreviewRows))
	report, err := dataprocessing.ScanSentinel(res.Table, i.opts.Sentinel)
	if err != nil {
		i.reporter.ScanFailed(i.opts.Sentinel, err)
		return res, report, nil
	}
	i.reporter.Scan(report)
	return res, report, nil
}

func (i *Ingestor) selectFiles(ctx context.Context, result *Result) (err error) {
	ctx, end := i.tracer.TraceStep(ctx, "list")
	defer func() { end(err) }()

	listing, err := i.source.List(ctx)
	if err != nil {
		return apperrors.NewSourceError("list source files", err).WithContext("location", result.Location)
	}

	matched := files.Select(listing, i.opts.Extension, 0)
	result.Matched = len(matched)
	result.Selected = files.Select(matched, i.opts.Extension, i.opts.MaxFiles)

	names := make([]string, len(result.Selected))
	for n, f := range result.Selected {
		names[n] = f.Name
	}
	i.logger.InfoContext(ctx, "files selected",
		slog.Int("listed", len(listing)),
		slog.Int("matched", result.Matched),
		slog.Any("selected", names))
	i.reporter.Selected(result.Location, len(result.Selected), result.Matched)
	return nil
}

// processFile loads and cleans one workbook. Any error or panic yields a failed result.
func (i *Ingestor) processFile(ctx context.Context, f files.FileInfo) (res domain.FileResult) {
	res = domain.FileResult{Name: f.Name, Path: f.Path}

	ctx, end := i.tracer.TraceStep(ctx, "file", attribute.String("file.name", f.Name))
	defer func() {
		if rec := recover(); rec != nil {
			res.Table = nil
			res.Err = apperrors.NewLoadError(f.Name, apperrors.FromPanic(rec))
		}
		end(res.Err)
	}()

	rc, err := i.source.Open(ctx, f)
	if err != nil {
		res.Err = apperrors.NewLoadError(f.Name, err)
		return res
	}
	defer rc.Close()

	table, err := dataprocessing.LoadWorkbook(rc)
	if err != nil {
		res.Err = apperrors.NewLoadError(f.Name, err)
		return res
	}

	device := files.DeviceName(f.Name)
	report, err := i.cleaner.Clean(table, device)
	if err != nil {
		res.Err = apperrors.NewCleanError(f.Name, err)
		return res
	}

	i.logger.DebugContext(ctx, "file processed",
		slog.String("file", f.Name),
		slog.String("device", device),
		slog.Int("rows", table.Len()),
		slog.Int("unparsed_dates", report.UnparsedDates),
		slog.Any("dropped", report.Dropped))

	res.Table = table
	return res
}

func (i *Ingestor) combine(ctx context.Context, results []domain.FileResult) (combined *domain.Table, err error) {
	ctx, end := i.tracer.TraceStep(ctx, "concat")
	defer func() { end(err) }()

	combined, err = dataprocessing.Concat(dataprocessing.SuccessfulTables(results))
	if err != nil {
		i.logger.ErrorContext(ctx, "concatenation failed",
			slog.Int("files", len(results)),
			slog.String("error", err.Error()))
		return nil, apperrors.NewAggregateError("concatenate tables", err)
	}
	return combined, nil
}

func (i *Ingestor) scan(ctx context.Context, result *Result) {
	ctx, end := i.tracer.TraceStep(ctx, "scan")

	report, err := dataprocessing.ScanSentinel(result.Table, i.opts.Sentinel)
	end(err)
	if err != nil {
		result.ScanErr = err
		i.logger.ErrorContext(ctx, "sentinel scan failed", slog.String("error", err.Error()))
		i.reporter.ScanFailed(i.opts.Sentinel, err)
		return
	}

	result.Scan = report
	i.logger.InfoContext(ctx, "sentinel scan completed",
		slog.Any("columns", report.Columns),
		slog.Int("rows", report.RowCount()),
		slog.Int("cells", report.CellCount()))
	i.reporter.Scan(report)
}

func (i *Ingestor) replace(ctx context.Context, result *Result) {
	ctx, end := i.tracer.TraceStep(ctx, "replace")

	out, n, err := dataprocessing.ReplaceSentinel(result.Table, i.opts.Sentinel)
	end(err)
	if err != nil {
		result.ReplaceErr = err
		i.logger.ErrorContext(ctx, "sentinel replacement failed", slog.String("error", err.Error()))
		i.reporter.ReplaceFailed(i.opts.Sentinel, err)
		return
	}

	result.Table = out
	result.Replaced = n
	i.logger.InfoContext(ctx, "sentinel values replaced", slog.Int("cells", n))
	i.reporter.Replaced(i.opts.Sentinel, n)
}

func (i *Ingestor) export(ctx context.Context, result *Result) {
	if len(i.exporters) == 0 {
		return
	}
	ctx, end := i.tracer.TraceStep(ctx, "export")

	result.ExportErrs = exporter.ExportAll(ctx, i.logger, i.exporters, result.Table)
	failed := make(map[string]bool, len(result.ExportErrs))
	for _, err := range result.ExportErrs {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			if format, ok := appErr.Context["format"].(string); ok {
				failed[format] = true
			}
		}
		i.reporter.ExportFailed(err)
	}
	for _, e := range i.exporters {
		if !failed[e.Format()] {
			i.reporter.Exported(e.Format(), e.Path())
		}
	}

	end(errors.Join(result.ExportErrs...))
}
