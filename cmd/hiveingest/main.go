package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"hiveingest/internal/config"
	apperrors "hiveingest/internal/errors"
	"hiveingest/internal/exporter"
	"hiveingest/internal/files"
	"hiveingest/internal/infrastructure"
	"hiveingest/internal/pipeline"
	"hiveingest/pkg/contracts"
)

// cli holds the parsed flags and the state shared between commands
type cli struct {
	configPath      string
	profile         string
	dir             string
	bucket          string
	prefix          string
	maxFiles        int
	csvPath         string
	parquetPath     string
	sqlitePath      string
	metricsTextfile string
	traceStdout     bool

	cfg    *config.Config
	logger *slog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "hiveingest",
		Short: "Ingest beehive sensor workbooks into one labeled table",
		Long: `hiveingest reads the BeeHUB xlsx exports of several hives, labels every
row with its device, derives calendar fields from the timestamp, flags the
-2137 sensor-fault code and replaces it with missing values.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return c.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "path to a YAML config file")
	flags.StringVar(&c.profile, "profile", "", "source profile: local or colab")
	flags.StringVar(&c.dir, "dir", "", "directory holding the hive workbooks")
	flags.StringVar(&c.bucket, "bucket", "", "blob bucket URL (file://, s3://, gs://) instead of a directory")
	flags.StringVar(&c.prefix, "prefix", "", "object prefix inside the bucket")
	flags.IntVar(&c.maxFiles, "max-files", config.DefaultMaxFiles, "number of files to process after sorting; 0 means all")
	flags.StringVar(&c.csvPath, "csv", "", "write the combined table as CSV")
	flags.StringVar(&c.parquetPath, "parquet", "", "write the combined table as Parquet")
	flags.StringVar(&c.sqlitePath, "sqlite", "", "write the combined table into a SQLite database")
	flags.StringVar(&c.metricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file when the run ends")
	flags.BoolVar(&c.traceStdout, "trace", false, "print OpenTelemetry spans to stderr")

	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Load, label and clean the hive workbooks",
			Args:  cobra.NoArgs,
			RunE:  c.run,
		},
		&cobra.Command{
			Use:   "inspect <file>",
			Short: "Load and clean a single workbook and scan it for sensor faults",
			Args:  cobra.ExactArgs(1),
			RunE:  c.inspect,
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), contracts.GetFullVersionString())
			},
		},
	)

	return root
}

// setup loads the configuration, applies flag overrides and builds the logger
func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return apperrors.NewConfigError("load configuration", err)
	}

	flags := cmd.Flags()
	if flags.Changed("profile") {
		cfg.Source.Profile = c.profile
		if !flags.Changed("dir") {
			cfg.Source.Dir = ""
		}
	}
	if flags.Changed("dir") {
		cfg.Source.Dir = c.dir
	}
	if flags.Changed("bucket") {
		cfg.Source.BucketURL = c.bucket
	}
	if flags.Changed("prefix") {
		cfg.Source.Prefix = c.prefix
	}
	if flags.Changed("max-files") {
		cfg.Source.MaxFiles = c.maxFiles
	}
	if flags.Changed("csv") {
		cfg.Export.CSVPath = c.csvPath
	}
	if flags.Changed("parquet") {
		cfg.Export.ParquetPath = c.parquetPath
	}
	if flags.Changed("sqlite") {
		cfg.Export.SQLitePath = c.sqlitePath
	}
	if flags.Changed("metrics-textfile") {
		cfg.Telemetry.MetricsTextfile = c.metricsTextfile
	}
	if c.traceStdout {
		cfg.Telemetry.TraceExporter = "stdout"
	}

	cfg.Resolve()
	if err := cfg.Validate(); err != nil {
		return apperrors.NewConfigError("load configuration", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	c.cfg = cfg
	c.logger = logger
	return nil
}

func (c *cli) openSource(ctx context.Context) (files.Source, error) {
	if c.cfg.UsesBucket() {
		src, err := files.OpenBucketSource(ctx, c.cfg.Source.BucketURL, c.cfg.Source.Prefix)
		if err != nil {
			return nil, apperrors.NewSourceError("open bucket", err)
		}
		return src, nil
	}
	return files.NewLocalSource(c.cfg.Source.Dir), nil
}

// telemetry starts the OpenTelemetry providers and returns a shutdown func
func (c *cli) telemetry(ctx context.Context, traceOut io.Writer) (*pipeline.StepTracer, func(), error) {
	providers, err := infrastructure.InitializeOTel(ctx, c.cfg.Telemetry, traceOut, c.logger)
	if err != nil {
		return nil, nil, err
	}
	shutdown := func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(sctx); err != nil {
			c.logger.Warn("telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}

	tracer, err := pipeline.NewStepTracer(providers)
	if err != nil {
		shutdown()
		return nil, nil, err
	}
	return tracer, shutdown, nil
}

func (c *cli) run(cmd *cobra.Command, _ []string) error {
	defer infrastructure.CloseLogFile()
	ctx := cmd.Context()

	tracer, shutdown, err := c.telemetry(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer shutdown()

	src, err := c.openSource(ctx)
	if err != nil {
		return err
	}
	defer src.Close()

	ing, err := pipeline.NewIngestor(src, pipeline.OptionsFromConfig(c.cfg),
		pipeline.WithLogger(c.logger),
		pipeline.WithReporter(pipeline.NewReporter(cmd.OutOrStdout())),
		pipeline.WithTracer(tracer),
		pipeline.WithExporters(exporter.FromConfig(c.cfg.Export)...),
	)
	if err != nil {
		return err
	}

	result, err := ing.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			c.logger.Warn("run interrupted")
		}
		return err
	}

	c.logger.Info("run finished",
		slog.String("run_id", result.RunID),
		slog.Int("rows", result.Table.Len()),
		slog.Duration("duration", result.Duration))
	return nil
}

func (c *cli) inspect(cmd *cobra.Command, args []string) error {
	defer infrastructure.CloseLogFile()
	ctx := cmd.Context()
	path := args[0]

	info, err := os.Stat(path)
	if err != nil {
		return apperrors.NewSourceError("inspect", err).WithContext("path", path)
	}

	opts := pipeline.OptionsFromConfig(c.cfg)
	ing, err := pipeline.NewIngestor(files.NewLocalSource(filepath.Dir(path)), opts,
		pipeline.WithLogger(c.logger),
		pipeline.WithReporter(pipeline.NewReporter(cmd.OutOrStdout())),
	)
	if err != nil {
		return err
	}

	_, _, err = ing.Inspect(ctx, files.FileInfo{
		Path:    path,
		Name:    filepath.Base(path),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	})
	return err
}
